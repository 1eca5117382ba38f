package api_router

import (
	"github.com/gin-gonic/gin"

	"github.com/haierkeys/note-collab-service/internal/app"
	pkgapp "github.com/haierkeys/note-collab-service/pkg/app"
	"github.com/haierkeys/note-collab-service/pkg/code"
	"github.com/haierkeys/note-collab-service/pkg/util"
)

// SysInfoHandler 系统资源信息处理器，仅挂载在私有路由上
type SysInfoHandler struct {
	*Handler
}

// NewSysInfoHandler 创建 SysInfoHandler 实例
func NewSysInfoHandler(a *app.App) *SysInfoHandler {
	return &SysInfoHandler{Handler: NewHandler(a)}
}

// Info 获取主机 CPU、内存、磁盘等运行信息
func (h *SysInfoHandler) Info(c *gin.Context) {
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(util.GetSysInfo()))
}
