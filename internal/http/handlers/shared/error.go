package shared

import (
	"errors"

	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/i18n"
	"github.com/bazaar-next/internal/logger"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MappedError 业务错误到接口响应的映射关系。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

var kindFallbacks = map[service.ErrorKind]MappedError{
	service.ErrorKindValidation:    {Code: response.CodeBadRequest, Key: "error.bad_request"},
	service.ErrorKindNotFound:      {Code: response.CodeNotFound, Key: "error.not_found"},
	service.ErrorKindConflict:      {Code: response.CodeConflict, Key: "error.conflict"},
	service.ErrorKindAuthorization: {Code: response.CodeForbidden, Key: "error.forbidden"},
	service.ErrorKindInternal:      {Code: response.CodeInternal, Key: "error.internal_error"},
}

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, reason, key string, err error, args ...interface{}) {
	RespondErrorWithData(c, code, reason, key, nil, err, args...)
}

// RespondErrorWithData 返回带数据的国际化错误响应。
func RespondErrorWithData(c *gin.Context, code int, reason, key string, data interface{}, err error, args ...interface{}) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.Sprintf(locale, key, args...)
	appErr := response.WrapError(code, reason, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"reason", appErr.Reason,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.ErrorWithData(c, appErr.Code, appErr.Reason, appErr.Message, data)
}

// RespondServiceError 按映射表响应业务错误，未命中时按错误分类兜底。
func RespondServiceError(c *gin.Context, err error, rules []MappedError) {
	reason := service.ReasonOf(err)
	args := service.ErrorArgs(err)

	if fields := service.FieldErrors(err); len(fields) > 0 {
		RespondErrorWithData(c, response.CodeBadRequest, reason, "error.validation_failed", gin.H{"fields": fields}, nil)
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, reason, rule.Key, nil, args...)
			return
		}
	}

	kind := service.KindOf(err)
	fallback := kindFallbacks[kind]
	if kind == service.ErrorKindInternal {
		RespondError(c, fallback.Code, "internal_error", fallback.Key, err)
		return
	}
	RespondError(c, fallback.Code, reason, fallback.Key, nil)
}
