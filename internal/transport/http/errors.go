package httptransport

import (
	"errors"

	"github.com/gin-gonic/gin"

	"chattflow/backend/internal/domain"
	"chattflow/backend/internal/mailer"
	"chattflow/backend/internal/service"
	"chattflow/backend/internal/storage"
)

// 错误消息映射表（业务错误 -> 中文消息）
var errorMessages = map[error]string{
	// 存储层错误
	storage.ErrContactNotFound:   "联系人不存在",
	storage.ErrTagNotFound:       "标签不存在",
	storage.ErrTagExists:         "标签已存在",
	storage.ErrTemplateNotFound:  "模板不存在",
	storage.ErrBroadcastNotFound: "广播记录不存在",

	// 校验错误
	domain.ErrNameRequired:    "名称不能为空",
	domain.ErrEmailRequired:   "邮箱地址不能为空",
	domain.ErrInvalidEmail:    "邮箱地址格式无效",
	domain.ErrEmailTooLong:    "邮箱地址过长",
	domain.ErrSubjectRequired: "邮件主题不能为空",
	domain.ErrContentRequired: "邮件正文不能为空",
	domain.ErrInvalidTagType:  "标签类型无效",

	// 业务错误
	service.ErrTagInUse:      "标签仍被联系人使用，无法删除",
	service.ErrEmptyAudience: "收件人圈选结果为空",
	service.ErrInvalidRule:   "收件人规则无效",
	service.ErrInvalidStat:   "未知的统计事件类型",
	mailer.ErrGatewaySend:    "部分邮件经网关发送失败",
}

// GetErrorMessage 获取错误的中文消息
func GetErrorMessage(err error) string {
	for sentinel, msg := range errorMessages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	return err.Error()
}

// RespondError 将业务错误映射为 HTTP 状态码与中文消息
func RespondError(c *gin.Context, err error) {
	msg := GetErrorMessage(err)

	switch {
	case errors.Is(err, storage.ErrContactNotFound),
		errors.Is(err, storage.ErrTagNotFound),
		errors.Is(err, storage.ErrTemplateNotFound),
		errors.Is(err, storage.ErrBroadcastNotFound):
		NotFound(c, msg)
	case errors.Is(err, storage.ErrTagExists),
		errors.Is(err, service.ErrTagInUse):
		Conflict(c, msg)
	case errors.Is(err, service.ErrEmptyAudience):
		UnprocessableEntity(c, msg)
	case errors.Is(err, service.ErrInvalidRule),
		errors.Is(err, service.ErrInvalidStat),
		errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, domain.ErrEmailRequired),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrEmailTooLong),
		errors.Is(err, domain.ErrSubjectRequired),
		errors.Is(err, domain.ErrContentRequired),
		errors.Is(err, domain.ErrInvalidTagType):
		BadRequest(c, msg)
	case errors.Is(err, mailer.ErrGatewaySend):
		BadGateway(c, msg, nil)
	default:
		InternalError(c, MsgInternalError)
	}
}

// 通用错误消息
const (
	MsgInvalidRequest = "请求参数格式错误"
	MsgInternalError  = "服务器内部错误，请稍后重试"
)
