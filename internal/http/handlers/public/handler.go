package public

import "github.com/vendorlink/internal/provider"

// Handler 开放接口的统一入口，挂载无需登录即可访问的只读查询
type Handler struct {
	*provider.Container
}

// New 基于依赖容器构造开放接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
