// Package app 组装counterd的各个服务
package app

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/d0ngw/counterd/api"
	c "github.com/d0ngw/counterd/common"
	"github.com/d0ngw/counterd/counter"
	h "github.com/d0ngw/counterd/http"
)

// AddrEnv 覆盖http监听地址的环境变量
const AddrEnv = "COUNTERD_ADDR"

// Config counterd的配置
type Config struct {
	c.AppConfig `yaml:",inline"`
	HTTP        *h.Config              `yaml:"http"`
	API         *api.Config            `yaml:"api"`
	Counter     *counter.Config        `yaml:"counter"`
	Storage     *counter.StorageConfig `yaml:"storage"`
}

// Parse implements Configurer
func (p *Config) Parse() error {
	if p.LogConfig == nil {
		p.LogConfig = &c.LogConfig{}
	}
	if p.HTTP == nil {
		p.HTTP = &h.Config{}
	}
	if addr := os.Getenv(AddrEnv); addr != "" {
		p.HTTP.Addr = addr
	}
	if p.API == nil {
		p.API = &api.Config{}
	}
	if p.Counter == nil {
		p.Counter = &counter.Config{}
	}
	if p.Storage == nil {
		p.Storage = &counter.StorageConfig{}
	}
	return c.Parse(p)
}

// LoadConfig 从configDir下的pathes加载配置
func LoadConfig(configDir string, pathes ...string) (*Config, error) {
	conf := &Config{}
	if err := c.LoadConfig(conf, "", configDir, pathes...); err != nil {
		return nil, err
	}
	if err := conf.Parse(); err != nil {
		return nil, err
	}
	return conf, nil
}

// App counterd应用
type App struct {
	conf      *Config
	storage   counter.Storage
	executor  *counter.Executor
	namespace *counter.Namespace
	router    *api.Router
	httpSvc   *h.Service
	services  *c.Services
}

// New 使用已解析的conf创建App
func New(ctx context.Context, conf *Config) (*App, error) {
	if conf == nil || c.HasNil(conf.HTTP, conf.API, conf.Counter, conf.Storage) {
		return nil, fmt.Errorf("conf is not parsed")
	}
	storage, err := counter.NewStorage(ctx, conf.Storage)
	if err != nil {
		return nil, fmt.Errorf("create storage: %w", err)
	}

	executor := counter.NewExecutor("executor", conf.Counter.Shards, conf.Counter.QueueSize)
	namespace := counter.NewNamespace(conf.Counter.Namespace, executor, storage)
	router := api.NewRouter(namespace, conf.API)

	if conf.HTTP.AccessLog {
		if err = conf.HTTP.RegMiddleware(&h.AccessLogMiddleware{}); err != nil {
			storage.Close()
			return nil, err
		}
	}
	if err = conf.HTTP.RegMiddleware(&h.RecoverMiddleware{}); err != nil {
		storage.Close()
		return nil, err
	}
	if err = router.Register(conf.HTTP); err != nil {
		storage.Close()
		return nil, err
	}
	httpSvc := h.NewService("http", conf.HTTP)
	httpSvc.Order = 1

	return &App{
		conf:      conf,
		storage:   storage,
		executor:  executor,
		namespace: namespace,
		router:    router,
		httpSvc:   httpSvc,
		services:  c.NewServices(executor, httpSvc),
	}, nil
}

// Start 初始化并启动所有的服务,执行器先于http服务启动
func (p *App) Start() error {
	if err := p.services.Init(); err != nil {
		return err
	}
	if err := p.services.Start(); err != nil {
		p.services.Stop()
		return err
	}
	c.Infof("counterd started,namespace:%s,storage:%s", p.namespace.Name(), p.conf.Storage.Type)
	return nil
}

// Stop 停止所有的服务,http服务先停止,之后关闭存储
func (p *App) Stop() error {
	err := p.services.Stop()
	if closeErr := p.storage.Close(); closeErr != nil {
		c.Errorf("close storage error:%v", closeErr)
		if err == nil {
			err = closeErr
		}
	}
	c.SyncLog()
	return err
}

// Addr 返回http服务的监听地址
func (p *App) Addr() net.Addr {
	return p.httpSvc.ListenAddr()
}

// Namespace 返回counter的命名空间
func (p *App) Namespace() *counter.Namespace {
	return p.namespace
}
