package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

var (
	ErrInvalidURL    = errors.New("invalid URL")
	ErrJSONMarshal   = errors.New("JSON marshal failed")
	ErrJSONUnmarshal = errors.New("JSON unmarshal failed")
	ErrStatusNotOK   = errors.New("HTTP status code is not successful")
	ErrBusiness      = errors.New("business code is not successful")
)

// StatusError 非 2xx 响应
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s, body: %s", ErrStatusNotOK, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

func (e *StatusError) Is(target error) bool { return target == ErrStatusNotOK }

// APIError 2xx 但信封 code 非成功
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: code=%d message=%s", ErrBusiness, e.Code, e.Message)
}

func (e *APIError) Is(target error) bool { return target == ErrBusiness }

// IsNotFound 判断是否为 404
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// StatusCode 返回错误对应的 HTTP 状态码，非 StatusError 返回 0
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// IsRetriableError 网络错误或 5xx 可重试
func IsRetriableError(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "timeout")
}

// Envelope 服务端统一响应 {code, message, data}
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Success 成功码区间 100000-199999
func (e Envelope) Success() bool {
	return e.Code >= 100000 && e.Code < 200000
}

// Client HTTP 客户端
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Retries    int
	Backoff    time.Duration

	mu      sync.RWMutex
	headers map[string]string
}

// Option 客户端配置项
type Option func(*Client)

// WithTimeout 请求超时
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.HTTPClient.Timeout = timeout
	}
}

// WithRetries 重试次数
func WithRetries(retries int) Option {
	return func(c *Client) {
		c.Retries = retries
	}
}

// WithBackoff 首次重试等待时间，之后指数增长
func WithBackoff(backoff time.Duration) Option {
	return func(c *Client) {
		c.Backoff = backoff
	}
}

// WithHeader 默认请求头
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithBearerToken 设置 Authorization 头
func WithBearerToken(token string) Option {
	return func(c *Client) {
		c.headers["Authorization"] = "Bearer " + token
	}
}

// WithHTTPClient 自定义底层客户端
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.HTTPClient = client
	}
}

// NewClient 创建客户端
func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Retries:    3,
		Backoff:    500 * time.Millisecond,
		headers:    map[string]string{"Content-Type": "application/json"},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// SetHeader 设置请求头，可并发调用
func (c *Client) SetHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers[key] = value
}

// Header 读取请求头
func (c *Client) Header(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.headers[key]
}

// SetBearerToken 更新访问令牌
func (c *Client) SetBearerToken(token string) {
	c.SetHeader("Authorization", "Bearer "+token)
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	c.mu.RUnlock()
	return req, nil
}

// Idempotent 重复发送不会改变结果的方法
func Idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// Do 发送请求；幂等方法在网络错误和 5xx 时按指数退避重试，POST 只发送一次
func (c *Client) Do(ctx context.Context, method, path string, params url.Values, body any) (*http.Response, error) {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidURL, err)
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	var payload []byte
	if body != nil {
		if reader, ok := body.(io.Reader); ok {
			if payload, err = io.ReadAll(reader); err != nil {
				return nil, err
			}
		} else if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrJSONMarshal, err)
		}
	}

	retries := c.Retries
	if !Idempotent(method) {
		retries = 0
	}

	var resp *http.Response
	for i := 0; i <= retries; i++ {
		req, reqErr := c.newRequest(ctx, method, u.String(), payload)
		if reqErr != nil {
			return nil, reqErr
		}

		resp, err = c.HTTPClient.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}
		if err == nil {
			b, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			err = &StatusError{StatusCode: resp.StatusCode, Body: string(b)}
		}
		if !IsRetriableError(err) || i == retries {
			return nil, err
		}

		select {
		case <-time.After(c.Backoff * time.Duration(1<<i)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, err
}

// Get 发送 GET 请求
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, path, params, nil)
}

// Call 发送请求并解析统一响应信封，data 解码到 out
//
// 非 2xx 返回 *StatusError，信封 code 非成功返回 *APIError，204 直接返回 nil。
func (c *Client) Call(ctx context.Context, method, path string, params url.Values, body, out any) error {
	resp, err := c.Do(ctx, method, path, params, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %s, body: %s", ErrJSONUnmarshal, err, string(raw))
	}
	if !env.Success() {
		return &APIError{Code: env.Code, Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %s, data: %s", ErrJSONUnmarshal, err, string(env.Data))
	}
	return nil
}

// GetJSON GET 并解析信封
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, out any) error {
	return c.Call(ctx, http.MethodGet, path, params, nil, out)
}

// PostJSON POST 并解析信封
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	return c.Call(ctx, http.MethodPost, path, nil, body, out)
}

// PutJSON PUT 并解析信封
func (c *Client) PutJSON(ctx context.Context, path string, body, out any) error {
	return c.Call(ctx, http.MethodPut, path, nil, body, out)
}

// DeleteJSON DELETE 并解析信封
func (c *Client) DeleteJSON(ctx context.Context, path string, out any) error {
	return c.Call(ctx, http.MethodDelete, path, nil, nil, out)
}
