package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sqlservernerd/festguide/internal/authorization"
	"github.com/sqlservernerd/festguide/internal/config"
	"github.com/sqlservernerd/festguide/internal/export"
	"github.com/sqlservernerd/festguide/internal/festival"
	festivaldomain "github.com/sqlservernerd/festguide/internal/festival/domain"
	"github.com/sqlservernerd/festguide/internal/lock"
	"github.com/sqlservernerd/festguide/internal/notification"
	notificationdomain "github.com/sqlservernerd/festguide/internal/notification/domain"
	"github.com/sqlservernerd/festguide/internal/observability"
	obsmetrics "github.com/sqlservernerd/festguide/internal/observability/metrics"
	obstracing "github.com/sqlservernerd/festguide/internal/observability/tracing"
	"github.com/sqlservernerd/festguide/internal/permission"
	permissiondomain "github.com/sqlservernerd/festguide/internal/permission/domain"
	"github.com/sqlservernerd/festguide/internal/resolver"
	"github.com/sqlservernerd/festguide/internal/schedule"
	scheduledomain "github.com/sqlservernerd/festguide/internal/schedule/domain"
	"github.com/sqlservernerd/festguide/internal/scheduling"
	schedulingdomain "github.com/sqlservernerd/festguide/internal/scheduling/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	observability.Module,
	fx.Provide(registerGin),
	resolver.Module,
	lock.Module,
	authorization.Module,
	permission.Module,
	festival.Module,
	scheduling.Module,
	schedule.Module,
	notification.Module,
	export.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(httpMetrics *obsmetrics.HTTPMetrics, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return r
}

func registerGin(httpMetrics *obsmetrics.HTTPMetrics, gatherer prometheus.Gatherer) *gin.Engine {
	return NewEngine(httpMetrics, gatherer)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	authzSvc        authorization.Service
	festivalSvc     festivaldomain.Service
	permissionSvc   permissiondomain.Service
	schedulingSvc   schedulingdomain.Service
	scheduleSvc     scheduledomain.Service
	notificationSvc notificationdomain.Service
	exporter        *export.Exporter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	AuthzSvc        authorization.Service
	FestivalSvc     festivaldomain.Service
	PermissionSvc   permissiondomain.Service
	SchedulingSvc   schedulingdomain.Service
	ScheduleSvc     scheduledomain.Service
	NotificationSvc notificationdomain.Service
	Exporter        *export.Exporter
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		authzSvc:        p.AuthzSvc,
		festivalSvc:     p.FestivalSvc,
		permissionSvc:   p.PermissionSvc,
		schedulingSvc:   p.SchedulingSvc,
		scheduleSvc:     p.ScheduleSvc,
		notificationSvc: p.NotificationSvc,
		exporter:        p.Exporter,
	}

	svc.registerAPIRoutes()
	svc.registerPublicRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.ActorRequired())

	// -------- Festivals --------
	api.GET("/festivals", s.ListFestivals)
	api.POST("/festivals", s.CreateFestival)
	api.GET("/festivals/:id", s.GetFestivalByID)
	api.PATCH("/festivals/:id", s.UpdateFestival)

	// -------- Editions --------
	api.GET("/festivals/:id/editions", s.ListEditions)
	api.POST("/editions", s.CreateEdition)

	// -------- Venues & Stages --------
	api.POST("/venues", s.CreateVenue)
	api.POST("/stages", s.CreateStage)
	api.PATCH("/stages/:id", s.UpdateStage)
	api.DELETE("/stages/:id", s.DeleteStage)

	// -------- Artists --------
	api.GET("/festivals/:id/artists", s.ListArtists)
	api.POST("/artists", s.CreateArtist)

	// -------- Collaborators --------
	api.GET("/festivals/:id/collaborators", s.ListCollaborators)
	api.POST("/invites", s.CreateInvite)
	api.POST("/invites/:id/accept", s.AcceptInvite)
	api.POST("/invites/:id/decline", s.DeclineInvite)
	api.DELETE("/permissions/:id", s.RevokePermission)
	api.POST("/festivals/:id/transfer-ownership", s.TransferOwnership)

	// -------- Scheduling --------
	api.POST("/slots", s.CreateTimeSlot)
	api.PATCH("/slots/:id", s.UpdateTimeSlot)
	api.DELETE("/slots/:id", s.DeleteTimeSlot)
	api.POST("/engagements", s.CreateEngagement)
	api.PATCH("/engagements/:id", s.UpdateEngagement)
	api.DELETE("/engagements/:id", s.DeleteEngagement)

	// -------- Publishing --------
	api.POST("/editions/:id/publish", s.PublishSchedule)

	// -------- Device tokens --------
	api.POST("/device-tokens", s.RegisterDeviceToken)
	api.DELETE("/device-tokens/:token", s.UnregisterDeviceToken)
}

// Attendee-facing reads carry no actor header.
func (s *Server) registerPublicRoutes() {
	public := s.engine.Group("/public")

	public.GET("/editions/:id/schedule", s.GetEditionSchedule)
	public.GET("/editions/:id/schedule/version", s.GetScheduleVersion)
	public.GET("/editions/:id/schedule.csv", s.ExportEditionSchedule)
}
