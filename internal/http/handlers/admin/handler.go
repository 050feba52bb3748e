package admin

import "github.com/vendorlink/internal/provider"

// Handler 管理端接口的统一入口，方法直接取用容器里装配好的依赖
type Handler struct {
	*provider.Container
}

// New 基于依赖容器构造管理端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
