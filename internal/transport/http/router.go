package httptransport

import (
	"net/http"
	"time"

	gincors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"chattflow/backend/internal/config"
	"chattflow/backend/internal/middleware"
	"chattflow/backend/internal/monitoring"
	"chattflow/backend/internal/service"
)

// Handler 聚合所有 HTTP 处理逻辑。
type Handler struct {
	contacts   *service.ContactService
	tags       *service.TagService
	templates  *service.TemplateService
	broadcasts *service.BroadcastService
	metrics    *monitoring.Metrics
}

// RouterDependencies 路由器依赖项
type RouterDependencies struct {
	Config           *config.Config
	ContactService   *service.ContactService
	TagService       *service.TagService
	TemplateService  *service.TemplateService
	BroadcastService *service.BroadcastService
	Metrics          *monitoring.Metrics
	Logger           *zap.Logger
}

// NewRouter 创建并返回 Gin 路由实例。
func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()

	metrics := deps.Metrics
	if metrics == nil {
		metrics = monitoring.NewMetrics()
	}

	// 使用自定义中间件替代默认中间件
	router.Use(middleware.RecoveryHandler(deps.Logger))
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.BodySizeLimit(middleware.DefaultBodyLimit))
	router.Use(middleware.NewMonitoringMiddleware(metrics, deps.Logger).HTTPMetrics())

	// CORS 配置
	corsConfig := gincors.Config{
		AllowOrigins:     deps.Config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	// 如果允许所有来源，则需清空凭证支持。
	for _, origin := range corsConfig.AllowOrigins {
		if origin == "*" {
			corsConfig.AllowCredentials = false
			break
		}
	}
	router.Use(gincors.New(corsConfig))

	handler := &Handler{
		contacts:   deps.ContactService,
		tags:       deps.TagService,
		templates:  deps.TemplateService,
		broadcasts: deps.BroadcastService,
		metrics:    metrics,
	}

	// Swagger 文档
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// V1 API
	v1 := router.Group("/v1")
	{
		// ========== Contact Routes ==========
		contactRoutes := v1.Group("/contacts")
		{
			contactRoutes.POST("", handler.createContact)
			contactRoutes.GET("", handler.listContacts)
			contactRoutes.GET("/:id", handler.getContact)
			contactRoutes.PATCH("/:id", handler.updateContact)
			contactRoutes.DELETE("/:id", handler.deleteContact)
		}

		// ========== Tag Routes ==========
		tagRoutes := v1.Group("/tags")
		{
			tagRoutes.POST("", handler.createTag)
			tagRoutes.GET("", handler.listTags)
			tagRoutes.GET("/:id", handler.getTag)
			tagRoutes.PATCH("/:id", handler.updateTag)
			tagRoutes.DELETE("/:id", handler.deleteTag)
		}

		// ========== Template Routes ==========
		templateRoutes := v1.Group("/templates")
		{
			templateRoutes.POST("", handler.createTemplate)
			templateRoutes.GET("", handler.listTemplates)
			templateRoutes.GET("/:id", handler.getTemplate)
			templateRoutes.PATCH("/:id", handler.updateTemplate)
			templateRoutes.DELETE("/:id", handler.deleteTemplate)
		}

		// ========== Broadcast Routes ==========
		broadcastRoutes := v1.Group("/broadcasts")
		{
			broadcastRoutes.POST("/send", handler.sendBroadcast)
			broadcastRoutes.POST("/send-direct", handler.sendDirect)
			broadcastRoutes.GET("", handler.listBroadcasts)
			broadcastRoutes.GET("/:id", handler.getBroadcast)
			broadcastRoutes.POST("/:id/events/:kind", handler.recordBroadcastEvent)
		}
	}

	return router
}
