package public

import "github.com/bazaar-next/internal/provider"

// Handler 前台/公开接口处理器入口
// 说明：游客与登录用户共用，身份由中间件写入上下文。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
