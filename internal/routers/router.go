// Package routers 组装 HTTP 路由与中间件
package routers

import (
	"time"

	"github.com/haierkeys/note-collab-service/internal/app"
	"github.com/haierkeys/note-collab-service/internal/middleware"
	"github.com/haierkeys/note-collab-service/internal/routers/api_router"
	"github.com/haierkeys/note-collab-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

var methodLimiters = limiter.NewMethodLimiter().AddBuckets(
	limiter.BucketRule{
		Key:          "/api/user/login",
		FillInterval: time.Second,
		Capacity:     10,
		Quantum:      10,
	},
	limiter.BucketRule{
		Key:          "/api/user/register",
		FillInterval: time.Second,
		Capacity:     5,
		Quantum:      5,
	},
)

// NewRouter 创建主路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	cfg := appContainer.Config()

	r := gin.New()

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfoWithConfig(app.Name, appContainer.Version().Version))
		api.Use(middleware.TraceMiddlewareWithConfig(cfg.Tracer.Enabled, cfg.Tracer.Header))
		api.Use(middleware.Metrics())
		api.Use(middleware.RateLimiter(methodLimiters))
		api.Use(middleware.ContextTimeout(cfg.GetContextTimeout()))
		api.Use(middleware.Cors())
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLogWithLogger(appContainer.Logger()))
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))

		// 创建 Handlers（注入 App Container）
		userHandler := api_router.NewUserHandler(appContainer)
		noteHandler := api_router.NewNoteHandler(appContainer)
		shareHandler := api_router.NewShareHandler(appContainer)
		collabHandler := api_router.NewCollaboratorHandler(appContainer)
		noteVersionHandler := api_router.NewNoteVersionHandler(appContainer)
		tagHandler := api_router.NewTagHandler(appContainer)
		categoryHandler := api_router.NewCategoryHandler(appContainer)
		healthHandler := api_router.NewHealthHandler(appContainer)
		versionHandler := api_router.NewVersionHandler(appContainer)

		// 公开接口（无需认证）
		api.POST("/user/register", userHandler.Register)
		api.POST("/user/login", userHandler.Login)
		api.GET("/shared/:shareId", shareHandler.GetSharedNote)
		api.GET("/health", healthHandler.Check)
		api.GET("/version", versionHandler.ServerVersion)

		// 认证接口
		auth := api.Group("", middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey))
		{
			auth.GET("/user/info", userHandler.UserInfo)
			auth.POST("/user/change_password", userHandler.UserChangePassword)

			auth.POST("/notes", noteHandler.Create)
			auth.GET("/notes", noteHandler.List)
			auth.GET("/notes/deleted", noteHandler.ListDeleted)
			auth.GET("/notes/collaborating", noteHandler.ListCollaborating)
			auth.GET("/notes/:id", noteHandler.Get)
			auth.PUT("/notes/:id/content", noteHandler.UpdateContent)
			auth.PUT("/notes/:id/meta", noteHandler.UpdateMeta)
			auth.DELETE("/notes/:id", noteHandler.Delete)
			auth.PUT("/notes/:id/restore", noteHandler.Restore)
			auth.DELETE("/notes/:id/permanent", noteHandler.DeletePermanent)

			auth.POST("/notes/:id/share", shareHandler.Create)
			auth.PUT("/notes/:id/share", shareHandler.Update)
			auth.DELETE("/notes/:id/share", shareHandler.Revoke)

			auth.GET("/notes/:id/collaborators", collabHandler.List)
			auth.POST("/notes/:id/collaborators", collabHandler.Add)
			auth.PUT("/notes/:id/collaborators/:uid", collabHandler.UpdatePermission)
			auth.DELETE("/notes/:id/collaborators/:uid", collabHandler.Remove)

			auth.GET("/notes/:id/versions", noteVersionHandler.List)
			auth.GET("/notes/:id/versions/:version", noteVersionHandler.Get)
			auth.GET("/notes/:id/diff", noteVersionHandler.Diff)

			auth.GET("/tags", tagHandler.List)
			auth.POST("/tags/cleanup", tagHandler.Cleanup)

			auth.GET("/categories", categoryHandler.List)
			auth.POST("/categories", categoryHandler.Create)
			auth.PUT("/categories/:id", categoryHandler.Update)
			auth.DELETE("/categories/:id", categoryHandler.Delete)
		}
	}

	r.Use(middleware.Cors())
	r.NoRoute(middleware.NoFound())

	return r
}
