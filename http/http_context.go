package http

import (
	"context"
	"net/http"
)

type key int

const (
	requestIDKey key = 0 // 请求id的key
)

// RequestWithContext 向req的context中设置key = val,返回新的request
func RequestWithContext(req *http.Request, key, val interface{}) *http.Request {
	ctx := req.Context()
	ctx = context.WithValue(ctx, key, val)
	return req.WithContext(ctx)
}

// RequestID 取得AccessLogMiddleware分配的请求id
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
