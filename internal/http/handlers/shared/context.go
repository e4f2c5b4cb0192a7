package shared

import (
	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	// ContextKeyIdentity 请求方身份
	ContextKeyIdentity = "identity"
	// ContextKeyUserID 登录用户 ID
	ContextKeyUserID = "user_id"
	// ContextKeyUserRole 登录用户角色
	ContextKeyUserRole = "user_role"
)

// SetIdentity 写入请求方身份。
func SetIdentity(c *gin.Context, identity service.Identity) {
	c.Set(ContextKeyIdentity, identity)
	c.Set(ContextKeyUserID, identity.UserID)
	c.Set(ContextKeyUserRole, identity.Role)
}

// GetIdentity 读取请求方身份，游客返回空身份。
func GetIdentity(c *gin.Context) service.Identity {
	value, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return service.Identity{}
	}
	identity, _ := value.(service.Identity)
	return identity
}

// RequireIdentity 读取登录身份，未登录时直接响应 401。
func RequireIdentity(c *gin.Context) (service.Identity, bool) {
	identity := GetIdentity(c)
	if identity.IsGuest() {
		RespondError(c, response.CodeUnauthorized, "unauthorized", "error.unauthorized", nil)
		return identity, false
	}
	return identity, true
}
