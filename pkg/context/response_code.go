package context

import "github.com/cloudwego/hertz/pkg/protocol/consts"

// 业务码前缀规则：
// SUCCESS_* : 成功类（100000-199999）
// CLIENT_*  : 客户端错误（200000-299999）
// SERVER_*  : 服务端错误（300000-399999）

// 成功类
const (
	SUCCESS_OK         = 100000 // 操作成功
	SUCCESS_NO_CONTENT = 100001 // 成功但无返回内容
	SUCCESS_CREATED    = 100004 // 资源已创建
)

// 客户端错误类
const (
	CLIENT_PARAM_ERROR       = 200001 // 参数错误
	CLIENT_NOT_FOUND         = 200002 // 资源不存在
	CLIENT_UNAUTHORIZED      = 200003 // 未认证
	CLIENT_FORBIDDEN         = 200004 // 禁止访问
	CLIENT_CONFLICT          = 200005 // 资源冲突
	CLIENT_TOO_MANY_REQUESTS = 200006 // 请求频率过高
)

// 服务端错误类
const (
	SERVER_INTERNAL_ERROR = 300001 // 服务端内部错误
	SERVER_DATABASE_ERROR = 300002 // 数据库操作失败
	SERVER_RATE_LIMIT     = 300004 // 接口限流
)

// IsSuccess 业务码是否表示成功
func IsSuccess(code int) bool {
	return code >= 100000 && code < 200000
}

// HTTPStatus 业务码对应的HTTP状态码
func HTTPStatus(code int) int {
	switch code {
	case SUCCESS_OK:
		return consts.StatusOK
	case SUCCESS_CREATED:
		return consts.StatusCreated
	case SUCCESS_NO_CONTENT:
		return consts.StatusNoContent
	case CLIENT_PARAM_ERROR:
		return consts.StatusBadRequest
	case CLIENT_NOT_FOUND:
		return consts.StatusNotFound
	case CLIENT_UNAUTHORIZED:
		return consts.StatusUnauthorized
	case CLIENT_FORBIDDEN:
		return consts.StatusForbidden
	case CLIENT_CONFLICT:
		return consts.StatusConflict
	case CLIENT_TOO_MANY_REQUESTS, SERVER_RATE_LIMIT:
		return consts.StatusTooManyRequests
	default:
		if IsSuccess(code) {
			return consts.StatusOK
		}
		return consts.StatusInternalServerError
	}
}
