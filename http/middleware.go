package http

import (
	"net/http"
	"time"

	c "github.com/d0ngw/counterd/common"
	"github.com/google/uuid"
)

// RequestIDHeader 请求id的响应头
const RequestIDHeader = "X-Request-Id"

// Middleware 定义处理函数的拦截器
type Middleware interface {
	// Handle 返回包装了next的处理函数
	Handle(next http.HandlerFunc) http.HandlerFunc
}

// MiddlewareFunc 函数形式的Middleware
type MiddlewareFunc func(next http.HandlerFunc) http.HandlerFunc

// Handle implements Middleware
func (f MiddlewareFunc) Handle(next http.HandlerFunc) http.HandlerFunc {
	return f(next)
}

// statusWriter 记录响应状态码
type statusWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *statusWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// AccessLogMiddleware 为每个请求分配id,并记录访问日志
type AccessLogMiddleware struct{}

// Handle implements Middleware
func (p *AccessLogMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		sw := &statusWriter{ResponseWriter: w}
		next(sw, RequestWithContext(r, requestIDKey, id))
		if sw.status == 0 {
			sw.status = http.StatusOK
		}
		c.Infof("%s %s %s %d %dB %s", id, r.Method, r.URL.RequestURI(), sw.status, sw.size, time.Since(start))
	}
}

// RecoverMiddleware 捕获处理函数的panic,返回500
type RecoverMiddleware struct{}

// Handle implements Middleware
func (p *RecoverMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				c.Errorf("handle %s panic:%v", r.URL.RequestURI(), err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		next(w, r)
	}
}
