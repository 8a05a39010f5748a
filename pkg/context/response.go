package context

import (
	"fmt"

	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// Response 统一响应结构
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Write 按业务码写出HTTP状态码，204不带响应体
func (rsp *Response) Write(ctx *Context) {
	status := HTTPStatus(rsp.Code)
	if status == consts.StatusNoContent {
		ctx.SetStatusCode(status)
		return
	}
	ctx.JSON(status, rsp)
}

func Success(data any) *Response {
	return &Response{
		Code:    SUCCESS_OK,
		Message: "Success",
		Data:    data,
	}
}

// Created 资源创建成功
func Created(data any) *Response {
	return &Response{
		Code:    SUCCESS_CREATED,
		Message: "Created",
		Data:    data,
	}
}

// NoContent 响应成功但无内容（如 DELETE 请求）
func NoContent() *Response {
	return &Response{
		Code:    SUCCESS_NO_CONTENT,
		Message: "No content",
	}
}

func ParamError(message any) *Response {
	return &Response{
		Code:    CLIENT_PARAM_ERROR,
		Message: formatMessage("Parameter error", message),
	}
}

func NotFound(message any) *Response {
	return &Response{
		Code:    CLIENT_NOT_FOUND,
		Message: formatMessage("Resource not found", message),
	}
}

func Unauthorized(message any) *Response {
	return &Response{
		Code:    CLIENT_UNAUTHORIZED,
		Message: formatMessage("Unauthorized", message),
	}
}

func Forbidden(message any) *Response {
	return &Response{
		Code:    CLIENT_FORBIDDEN,
		Message: formatMessage("Forbidden", message),
	}
}

// Conflict 响应资源冲突错误（如重复关联）
func Conflict(message any) *Response {
	return &Response{
		Code:    CLIENT_CONFLICT,
		Message: formatMessage("Conflict", message),
	}
}

func RateLimit(message any) *Response {
	return &Response{
		Code:    SERVER_RATE_LIMIT,
		Message: formatMessage("Rate limit", message),
	}
}

func InternalError(message ...any) *Response {
	msg := "Internal server error"
	if len(message) > 0 {
		msg = formatMessage(msg, message[0])
	}
	return &Response{
		Code:    SERVER_INTERNAL_ERROR,
		Message: msg,
	}
}

func DatabaseError(message any) *Response {
	return &Response{
		Code:    SERVER_DATABASE_ERROR,
		Message: formatMessage("Database error", message),
	}
}

// formatMessage 支持string/error类型的消息
func formatMessage(prefix string, message any) string {
	switch v := message.(type) {
	case string:
		return fmt.Sprintf("%s: %s", prefix, v)
	case error:
		return fmt.Sprintf("%s: %s", prefix, v.Error())
	default:
		return prefix
	}
}

// PageData 分页数据
type PageData struct {
	List  any   `json:"list"`
	Total int64 `json:"total"`
}

// PageSuccess 分页查询成功
func PageSuccess(list any, total int64) *Response {
	return Success(&PageData{List: list, Total: total})
}
