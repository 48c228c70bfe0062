package common

import (
	"fmt"
	"sort"
	"sync"
)

// ServiceState 表示服务的状态
type ServiceState uint32

const (
	// NEW 新建
	NEW ServiceState = iota
	// INITED 初始化完毕
	INITED
	// STARTING 正在启动
	STARTING
	// RUNNING 正在运行
	RUNNING
	// STOPPING 正在停止
	STOPPING
	// TERMINATED 已经停止
	TERMINATED
	// FAILED 失败
	FAILED
)

var serviceStateStrings = map[ServiceState]string{
	NEW:        "NEW",
	INITED:     "INITED",
	STARTING:   "STARTING",
	RUNNING:    "RUNNING",
	STOPPING:   "STOPPING",
	TERMINATED: "TERMINATED",
	FAILED:     "FAILED"}

func (p ServiceState) String() string {
	return serviceStateStrings[p]
}

var validServiceState = map[ServiceState][]ServiceState{
	NEW:        {INITED, FAILED, TERMINATED},
	INITED:     {STARTING, FAILED, TERMINATED},
	STARTING:   {RUNNING, FAILED, TERMINATED},
	RUNNING:    {STOPPING, FAILED, TERMINATED},
	STOPPING:   {TERMINATED, FAILED},
	TERMINATED: {},
	FAILED:     {},
}

// IsValidServiceState 检查ServiceState的状态转移是否有效
func IsValidServiceState(oldState ServiceState, newState ServiceState) bool {
	for _, targetState := range validServiceState[oldState] {
		if targetState == newState {
			return true
		}
	}
	return false
}

// Initable 表示需要进行初始化
type Initable interface {
	// Init 执行初始化操作,如果初始化失败,返回错误的原因
	Init() error
}

// Service 统一的服务接口
type Service interface {
	Initable
	// Name 取得服务名称
	Name() string
	// Start 启动服务
	Start() error
	// GetStartOrder 启动的次序,小的先启动
	GetStartOrder() int
	// Stop 停止服务
	Stop() error
	// GetStopOrder 停止的次序,小的先停止
	GetStopOrder() int
	// State 服务的状态
	State() ServiceState
	setState(newState ServiceState) bool
}

// ServiceInit 初始化服务
func ServiceInit(service Service) error {
	name := ServiceName(service)
	if service.State() == INITED {
		Infof("%s has been inited,skip", name)
		return nil
	}
	err := service.Init()
	if err == nil && service.setState(INITED) {
		return nil
	}
	service.setState(FAILED)
	if err == nil {
		err = fmt.Errorf("invalid state %s", service.State())
	}
	return fmt.Errorf("init %s fail: %w", name, err)
}

// ServiceStart 开始服务
func ServiceStart(service Service) error {
	name := ServiceName(service)
	if !service.setState(STARTING) {
		return fmt.Errorf("start %s fail: invalid state %s", name, service.State())
	}
	if err := service.Start(); err != nil {
		service.setState(FAILED)
		return fmt.Errorf("start %s fail: %w", name, err)
	}
	if !service.setState(RUNNING) {
		return fmt.Errorf("start %s fail: invalid state %s", name, service.State())
	}
	return nil
}

// ServiceStop 停止服务
func ServiceStop(service Service) error {
	name := ServiceName(service)
	if !service.setState(STOPPING) {
		return fmt.Errorf("stop %s fail: invalid state %s", name, service.State())
	}
	if err := service.Stop(); err != nil {
		service.setState(FAILED)
		return fmt.Errorf("stop %s fail: %w", name, err)
	}
	service.setState(TERMINATED)
	return nil
}

// BaseService 提供基本的Service接口实现
type BaseService struct {
	SName     string //服务的名称
	Order     int
	state     ServiceState //服务的状态
	stateLock sync.RWMutex //读写锁
}

// Name 服务名称
func (p *BaseService) Name() string {
	return p.SName
}

// Init 初始化
func (p *BaseService) Init() error {
	return nil
}

// Start 启动服务
func (p *BaseService) Start() error {
	return nil
}

// GetStartOrder 启动服务
func (p *BaseService) GetStartOrder() int {
	return p.Order
}

// Stop 停止服务
func (p *BaseService) Stop() error {
	return nil
}

// GetStopOrder 停止服务
func (p *BaseService) GetStopOrder() int {
	return -p.GetStartOrder()
}

// State 取得服务的状态
func (p *BaseService) State() ServiceState {
	p.stateLock.RLock()
	defer p.stateLock.RUnlock()
	return p.state
}

func (p *BaseService) setState(newState ServiceState) bool {
	p.stateLock.Lock()
	defer p.stateLock.Unlock()
	if IsValidServiceState(p.state, newState) {
		p.state = newState
		return true
	}
	Errorf("Invalid state transfer %s->%s,%s", p.state, newState, p.Name())
	return false
}

// ServiceName 取得服务的名称
func ServiceName(service Service) string {
	name := fmt.Sprintf("%T", service)
	if service.Name() != "" {
		name += "#" + service.Name()
	}
	return name
}

// Services 一组Service的集合
type Services struct {
	services []Service
}

// NewServices 构建新的Service集合
func NewServices(services ...Service) *Services {
	return &Services{services: services}
}

func (p *Services) sorted(start bool) []Service {
	var sorted = make([]Service, len(p.services))
	copy(sorted, p.services)
	sort.SliceStable(sorted, func(i, j int) bool {
		if start {
			return sorted[i].GetStartOrder() < sorted[j].GetStartOrder()
		}
		return sorted[i].GetStopOrder() < sorted[j].GetStopOrder()
	})
	return sorted
}

// Init 按启动次序初始化服务集合
func (p *Services) Init() error {
	for _, service := range p.sorted(true) {
		if err := ServiceInit(service); err != nil {
			return err
		}
	}
	return nil
}

// Start 按启动次序启动服务
func (p *Services) Start() error {
	for _, service := range p.sorted(true) {
		if err := ServiceStart(service); err != nil {
			return err
		}
		Infof("%s started", ServiceName(service))
	}
	return nil
}

// Stop 按停止次序停止服务,单个服务停止失败不影响其他服务
func (p *Services) Stop() error {
	var firstErr error
	for _, service := range p.sorted(false) {
		if service.State() != RUNNING {
			continue
		}
		if err := ServiceStop(service); err != nil {
			Warnf("%v", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		Infof("%s stopped", ServiceName(service))
	}
	return firstErr
}
