// Package http 提供基本的http服务
package http

import (
	"fmt"
	"net/http"
	"sync"
)

// Config Http配置
type Config struct {
	Addr         string `yaml:"addr"`          //Http监听地址
	ReadTimeout  int    `yaml:"read_timeout"`  //读超时,单位秒
	WriteTimeout int    `yaml:"write_timeout"` //写超时,单位秒
	MaxConns     int    `yaml:"max_conns"`     //最大的并发连接数,0表示不限制
	AccessLog    bool   `yaml:"access_log"`    //是否记录访问日志
	middlewares  []Middleware
	handles      map[string]*handlerWithMiddleware
	mu           sync.Mutex
}

type handlerWithMiddleware struct {
	handlerFunc http.HandlerFunc
	middlewares []Middleware
}

// NewConfig 创建配置
func NewConfig(addr string) *Config {
	conf := &Config{Addr: addr}
	conf.init()
	return conf
}

func (p *Config) init() {
	if p.handles == nil {
		p.handles = map[string]*handlerWithMiddleware{}
	}
}

// Parse implements Configurer
func (p *Config) Parse() error {
	if p.Addr == "" {
		p.Addr = ":http"
	}
	if p.ReadTimeout < 0 || p.WriteTimeout < 0 || p.MaxConns < 0 {
		return fmt.Errorf("invalid http conf,read_timeout:%d,write_timeout:%d,max_conns:%d", p.ReadTimeout, p.WriteTimeout, p.MaxConns)
	}
	return nil
}

// RegHandleFunc 注册patternPath的处理函数handlerFunc,middlewares只作用于这个handlerFunc
func (p *Config) RegHandleFunc(patternPath string, handlerFunc http.HandlerFunc, middlewares ...Middleware) error {
	if handlerFunc == nil {
		return fmt.Errorf("can't bind nil handlerFunc to path %s", patternPath)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.init()
	if _, ok := p.handles[patternPath]; ok {
		return fmt.Errorf("duplicate path:%s", patternPath)
	}
	p.handles[patternPath] = &handlerWithMiddleware{handlerFunc: handlerFunc, middlewares: middlewares}
	return nil
}

// RegHandle 注册patternPath的处理器handler
func (p *Config) RegHandle(patternPath string, handler http.Handler, middlewares ...Middleware) error {
	if handler == nil {
		return fmt.Errorf("can't bind nil handler to path %s", patternPath)
	}
	return p.RegHandleFunc(patternPath, handler.ServeHTTP, middlewares...)
}

// RegMiddleware 注册作用于所有处理函数的middleware,需要在Service.Init之前完成
func (p *Config) RegMiddleware(middleware Middleware) error {
	if middleware == nil {
		return fmt.Errorf("invalid middleware")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.middlewares = append(p.middlewares, middleware)
	return nil
}
