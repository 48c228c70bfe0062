// Package api 提供counter的http接口
package api

import (
	"errors"
	"fmt"
	"net/http"

	c "github.com/d0ngw/counterd/common"
	"github.com/d0ngw/counterd/counter"
	h "github.com/d0ngw/counterd/http"
)

// 响应文本
const (
	MsgNoName        = "Please enter a valid name"
	MsgNotFound      = "Not Found"
	MsgInvalidAmount = "Invalid amount"
	MsgOverflow      = "Counter overflow"
	MsgInternalError = "Internal Server Error"
)

// 请求参数
const (
	ParamName   = "name"
	ParamAmount = "amount"
)

// ErrNoName 请求中没有name参数
var ErrNoName = errors.New("no name")

// Config 接口配置
type Config struct {
	StrictStatus bool `yaml:"strict_status"` //没有name参数时返回400,默认返回200
}

// Parse implements Configurer
func (p *Config) Parse() error {
	return nil
}

// Count 计数的JSON结构
type Count struct {
	Name  string `json:"name"`
	ID    string `json:"id"`
	Count int64  `json:"count"`
}

type operation func(stub *counter.Stub, r *http.Request, amount int64) (int64, error)

// Router 将请求分发到name对应的counter
type Router struct {
	ns     *counter.Namespace
	conf   *Config
	routes map[string]operation
}

// NewRouter 创建Router
func NewRouter(ns *counter.Namespace, conf *Config) *Router {
	if conf == nil {
		conf = &Config{}
	}
	return &Router{
		ns:   ns,
		conf: conf,
		routes: map[string]operation{
			"/": func(stub *counter.Stub, r *http.Request, amount int64) (int64, error) {
				return stub.Read(r.Context())
			},
			"/increment": func(stub *counter.Stub, r *http.Request, amount int64) (int64, error) {
				return stub.Increment(r.Context(), amount)
			},
			"/decrement": func(stub *counter.Stub, r *http.Request, amount int64) (int64, error) {
				return stub.Decrement(r.Context(), amount)
			},
		},
	}
}

// Register 将Router注册到http配置的根路径
func (p *Router) Register(conf *h.Config) error {
	return conf.RegHandle("/", p)
}

func (p *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	name := query.Get(ParamName)
	if name == "" {
		status := http.StatusOK
		if p.conf.StrictStatus {
			status = http.StatusBadRequest
		}
		p.renderError(w, r, status, MsgNoName, ErrNoName)
		return
	}

	op, ok := p.routes[r.URL.Path]
	if !ok {
		p.renderError(w, r, http.StatusNotFound, MsgNotFound, nil)
		return
	}

	amount, err := h.GetInt64Parameter(query, ParamAmount)
	if errors.Is(err, h.ErrNoParam) {
		amount = counter.DefaultAmount
	} else if err != nil {
		p.renderError(w, r, http.StatusBadRequest, MsgInvalidAmount, err)
		return
	}

	id := p.ns.IDFromName(name)
	count, err := op(p.ns.Get(id), r, amount)
	if errors.Is(err, counter.ErrOverflow) {
		p.renderError(w, r, http.StatusBadRequest, MsgOverflow, err)
		return
	}
	if err != nil {
		c.Errorf("%s %s name:%s,id:%s,err:%v", h.RequestID(r.Context()), r.URL.Path, name, id, err)
		p.renderError(w, r, http.StatusInternalServerError, MsgInternalError, err)
		return
	}

	if h.AcceptJSON(r) {
		h.RenderJSON(w, &h.Resp{Success: true, Data: &Count{Name: name, ID: id.String(), Count: count}})
		return
	}
	h.RenderText(w, fmt.Sprintf("Durable Object '%s' count: %d", name, count))
}

func (p *Router) renderError(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	if err != nil && c.DebugEnabled() {
		c.Debugf("%s %s status:%d,err:%v", h.RequestID(r.Context()), r.URL.RequestURI(), status, err)
	}
	if h.AcceptJSON(r) {
		h.RenderJSONWithStatus(w, status, &h.Resp{Msg: msg})
		return
	}
	h.RenderTextWithStatus(w, status, msg)
}
