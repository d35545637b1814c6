// Package server wires the HTTP surface: the public subscribe endpoint,
// public content reads, auth, and the admin API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/momta/momta/internal/audit"
	"github.com/momta/momta/internal/auth"
	authdomain "github.com/momta/momta/internal/auth/domain"
	"github.com/momta/momta/internal/auth/session"
	"github.com/momta/momta/internal/config"
	"github.com/momta/momta/internal/content"
	contentdomain "github.com/momta/momta/internal/content/domain"
	"github.com/momta/momta/internal/observability"
	obslogger "github.com/momta/momta/internal/observability/logger"
	obsmetrics "github.com/momta/momta/internal/observability/metrics"
	"github.com/momta/momta/internal/ratelimit"
	"github.com/momta/momta/internal/storage"
	"github.com/momta/momta/internal/waitlist"
	waitlistdomain "github.com/momta/momta/internal/waitlist/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	observability.Module,
	audit.Module,
	auth.Module,
	ratelimit.Module,
	waitlist.Module,
	content.Module,
	storage.Module,
	fx.Provide(newEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func newEngine(log *zap.Logger, m *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obsmetrics.GinMiddleware(m))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	authsvc     authdomain.Service
	sessions    *session.Manager
	waitlistSvc waitlistdomain.Service
	contentSvc  contentdomain.Service
	media       storage.Store
	obsMetrics  *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Authsvc     authdomain.Service
	Sessions    *session.Manager
	WaitlistSvc waitlistdomain.Service
	ContentSvc  contentdomain.Service
	Media       storage.Store
	ObsMetrics  *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		log:         p.Log.Named("server"),
		genID:       p.GenID,
		authsvc:     p.Authsvc,
		sessions:    p.Sessions,
		waitlistSvc: p.WaitlistSvc,
		contentSvc:  p.ContentSvc,
		media:       p.Media,
		obsMetrics:  p.ObsMetrics,
	}

	s.registerSubscribeRoutes()
	s.registerPublicRoutes()
	s.registerAuthRoutes()
	s.registerAdminRoutes()
	s.registerMediaRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerSubscribeRoutes() {
	s.engine.POST("/subscribe", publicCORS(), s.Subscribe)
	s.engine.OPTIONS("/subscribe", publicCORS(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
}

func (s *Server) registerPublicRoutes() {
	api := s.engine.Group("/api", publicCORS())

	api.GET("/updates", s.ListPublicUpdates)
	api.GET("/updates/:slug", s.GetPublicUpdate)
	api.GET("/research", s.ListPublicResearch)
	api.GET("/research/:slug", s.GetPublicResearch)
}

func (s *Server) registerAuthRoutes() {
	authGroup := s.engine.Group("/auth")

	authGroup.POST("/login", s.Login)
	authGroup.POST("/logout", s.Logout)
	authGroup.GET("/me", s.AuthRequired(), s.Me)
	authGroup.POST("/change-password", s.AuthRequired(), s.ChangePassword)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin", s.AuthRequired(), s.AdminRequired())

	admin.GET("/waitlist", s.ListWaitlist)
	admin.GET("/waitlist/stats", s.WaitlistStats)
	admin.PATCH("/waitlist/:id/status", s.UpdateWaitlistStatus)

	admin.GET("/updates", s.ListAdminUpdates)
	admin.GET("/updates/:slug", s.GetAdminUpdate)
	admin.POST("/updates", s.CreateUpdate)
	admin.PATCH("/updates/:id", s.EditUpdate)
	admin.DELETE("/updates/:id", s.DeleteUpdate)

	admin.GET("/research", s.ListAdminResearch)
	admin.GET("/research/:slug", s.GetAdminResearch)
	admin.POST("/research", s.CreateResearch)
	admin.PATCH("/research/:id", s.EditResearch)
	admin.DELETE("/research/:id", s.DeleteResearch)

	admin.POST("/media", s.UploadMedia)
}

func (s *Server) registerMediaRoutes() {
	s.engine.GET("/media/:key", s.ServeMedia)
}
