package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	c "github.com/d0ngw/counterd/common"
	"golang.org/x/net/netutil"
)

// ShutdownTimeout 等待处理中的请求完成的最长时间
var ShutdownTimeout = 30 * time.Second

type tcpKeepAliveListener struct {
	*net.TCPListener
}

// Accept接受连接
func (ln tcpKeepAliveListener) Accept() (net.Conn, error) {
	tc, err := ln.AcceptTCP()
	if err != nil {
		return nil, err
	}
	if err = tc.SetKeepAlive(true); err != nil {
		tc.Close()
		return nil, err
	}
	if err = tc.SetKeepAlivePeriod(3 * time.Minute); err != nil {
		tc.Close()
		return nil, err
	}
	return tc, nil
}

// GraceableHandler 安全地关闭的处理器
type GraceableHandler struct {
	handler   http.Handler
	waitGroup *sync.WaitGroup
}

func (p *GraceableHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.waitGroup.Add(1)
	defer p.waitGroup.Done()

	p.handler.ServeHTTP(w, r)
}

// Service Http服务
type Service struct {
	c.BaseService
	Conf         *Config
	listener     net.Listener
	graceHandler *GraceableHandler
	server       *http.Server
	lock         sync.Mutex
}

// NewService 创建Http服务
func NewService(name string, conf *Config) *Service {
	return &Service{
		BaseService: c.BaseService{SName: name},
		Conf:        conf,
	}
}

// Init 初始化Http服务
func (p *Service) Init() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.Conf == nil {
		return fmt.Errorf("http service %s has no conf", p.Name())
	}
	if err := p.Conf.Parse(); err != nil {
		return err
	}

	serveMux := http.NewServeMux()
	p.Conf.mu.Lock()
	for pattern, handler := range p.Conf.handles {
		serveMux.Handle(pattern, p.handleWithMiddleware(handler))
	}
	p.Conf.mu.Unlock()

	graceHandler := &GraceableHandler{
		handler:   serveMux,
		waitGroup: &sync.WaitGroup{}}

	p.graceHandler = graceHandler
	p.server = &http.Server{
		Addr:         p.Conf.Addr,
		ReadTimeout:  time.Duration(p.Conf.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(p.Conf.WriteTimeout) * time.Second,
		Handler:      graceHandler}
	return nil
}

// handleWithMiddleware 依次调用各个middleware,全局的middleware在外层
func (p *Service) handleWithMiddleware(handler *handlerWithMiddleware) http.HandlerFunc {
	h := handler.handlerFunc

	var middlewares []Middleware
	middlewares = append(middlewares, p.Conf.middlewares...)
	middlewares = append(middlewares, handler.middlewares...)
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i].Handle(h)
	}
	return h
}

// Start 启动Http服务,开始端口监听和服务处理
func (p *Service) Start() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.server == nil {
		return fmt.Errorf("http service %s is not inited", p.Name())
	}
	ln, err := net.Listen("tcp", p.Conf.Addr)
	if err != nil {
		return fmt.Errorf("listen at %s: %w", p.Conf.Addr, err)
	}
	c.Infof("Listen at %s", ln.Addr())

	var listener net.Listener = tcpKeepAliveListener{ln.(*net.TCPListener)}
	if p.Conf.MaxConns > 0 {
		listener = netutil.LimitListener(listener, p.Conf.MaxConns)
	}
	p.listener = listener

	p.graceHandler.waitGroup.Add(1)
	server := p.server
	go func() {
		defer p.graceHandler.waitGroup.Done()
		err := server.Serve(listener)
		if err != nil {
			var errLevel = c.Error
			if errors.Is(err, net.ErrClosed) || errors.Is(err, http.ErrServerClosed) {
				errLevel = c.Warn
			}
			c.Logf(errLevel, "server.Serve return with %v", err)
		}
	}()
	return nil
}

// ListenAddr 返回实际监听的地址,未启动时返回nil
func (p *Service) ListenAddr() net.Addr {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.listener == nil {
		return nil
	}
	return p.listener.Addr()
}

// Stop 停止Http服务,关闭端口监听并等待处理中的请求完成
func (p *Service) Stop() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.server == nil || p.listener == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	err := p.server.Shutdown(ctx)
	if err != nil {
		c.Errorf("Shutdown %s error:%v", p.Name(), err)
	}

	//等待所有的服务
	c.Infof("Waiting shutdown")
	p.graceHandler.waitGroup.Wait()
	c.Infof("Finish shutdown")

	p.listener = nil
	return err
}
