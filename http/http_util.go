package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	c "github.com/d0ngw/counterd/common"
)

// Resp JSON Http响应
type Resp struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Msg     string      `json:"msg"`
}

// ErrNoParam 请求中没有参数
var ErrNoParam = errors.New("missing param")

// GetParameter 取得由name指定的参数值
func GetParameter(r url.Values, name string) string {
	return strings.TrimSpace(r.Get(name))
}

func getIntParameter(r url.Values, name string, bitSize int) (val int64, err error) {
	value := GetParameter(r, name)
	if value == "" {
		return 0, ErrNoParam
	}
	val, err = strconv.ParseInt(value, 10, bitSize)
	return
}

// GetInt64Parameter 取得由name指定的64位整数参数值,没有该参数时返回ErrNoParam
func GetInt64Parameter(r url.Values, name string) (val int64, err error) {
	val, err = getIntParameter(r, name, 64)
	return
}

// AcceptJSON 请求是否接受JSON响应
func AcceptJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// RenderJSON 渲染JSON
func RenderJSON(w http.ResponseWriter, jsonData interface{}) {
	RenderJSONWithStatus(w, http.StatusOK, jsonData)
}

// RenderJSONWithStatus 使用status渲染JSON
func RenderJSONWithStatus(w http.ResponseWriter, status int, jsonData interface{}) {
	b, err := c.JSON.Marshal(jsonData)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(b)
}

// RenderText 渲染Text
func RenderText(w http.ResponseWriter, text string) {
	RenderTextWithStatus(w, http.StatusOK, text)
}

// RenderTextWithStatus 使用status渲染Text
func RenderTextWithStatus(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(text))
}

// GetURL 请求URL,返回状态码200时的响应
func GetURL(client *http.Client, url string, params url.Values) (string, error) {
	status, body, err := GetURLWithHeader(context.Background(), client, url, params, nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("status:%d,body:%s", status, body)
	}
	return strings.TrimSpace(string(body)), nil
}

// GetURLWithHeader 使用header请求URL,返回状态码和响应
func GetURLWithHeader(ctx context.Context, client *http.Client, url string, params url.Values, header http.Header) (status int, body []byte, err error) {
	if params != nil {
		url = url + "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}
