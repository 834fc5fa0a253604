package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"coligo-portal/config"
	"coligo-portal/internal/api/handler"
	"coligo-portal/internal/api/middleware"
	"coligo-portal/internal/model"
	"coligo-portal/pkg/jwt"
	"coligo-portal/pkg/metrics"
	"coligo-portal/pkg/response"
)

// loginWindow 登录限流窗口
const loginWindow = time.Minute

// Deps 路由依赖
type Deps struct {
	JWT   *jwt.Manager
	Users middleware.UserLoader
	// Limiter 为 nil 时登录不限流（未配置 Redis）
	Limiter  middleware.RateLimiter
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	// Ping 健康检查时探测数据库
	Ping   func(ctx context.Context) error
	Logger *zap.Logger
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, deps Deps) *gin.Engine {
	if cfg.Server.Env == config.EnvTest {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}
	r.Use(middleware.SecurityHeaders(cfg.Server.IsProduction()))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 基础路由 ──
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Hello World"})
	})

	r.GET("/health", func(c *gin.Context) {
		if deps.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ping(ctx); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	// ── API ──
	api := r.Group("/api")
	{
		// 认证模块（无需认证）
		api.POST("/auth/login",
			middleware.RateLimit(deps.Limiter, cfg.Auth.LoginRateLimit, loginWindow, deps.Logger),
			h.Auth.Login,
		)

		// 需要认证的路由
		authorized := api.Group("")
		authorized.Use(middleware.Protect(deps.JWT, deps.Users, deps.Metrics, deps.Logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 公告模块（作者本人或管理员可修改，Service 层鉴权）
			announcements := authorized.Group("/announcements")
			{
				announcements.GET("", h.Announcement.ListAnnouncements)
				announcements.POST("", h.Announcement.CreateAnnouncement)
				announcements.GET("/:id", h.Announcement.GetAnnouncement)
				announcements.PUT("/:id", h.Announcement.UpdateAnnouncement)
				announcements.DELETE("/:id", h.Announcement.DeleteAnnouncement)
			}

			// 测验模块（管理员、教师可写，Service 层鉴权）
			quizzes := authorized.Group("/quizzes")
			{
				quizzes.GET("", h.Quiz.ListQuizzes)
				quizzes.POST("", h.Quiz.CreateQuiz)
				quizzes.GET("/:id", h.Quiz.GetQuiz)
				quizzes.PUT("/:id", h.Quiz.UpdateQuiz)
				quizzes.DELETE("/:id", h.Quiz.DeleteQuiz)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/quizzes", middleware.RoleAuth(model.RoleAdmin, model.RoleTeacher), h.Export.ExportQuizzes)
				export.GET("/calendar", h.Export.ExportCalendar)
			}
		}
	}

	return r
}
