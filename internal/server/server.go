package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/forgenet/forgenet/internal/config"
	"github.com/forgenet/forgenet/internal/dispute"
	disputedomain "github.com/forgenet/forgenet/internal/dispute/domain"
	"github.com/forgenet/forgenet/internal/financial"
	financialdomain "github.com/forgenet/forgenet/internal/financial/domain"
	"github.com/forgenet/forgenet/internal/forgeai"
	"github.com/forgenet/forgenet/internal/identity"
	identitydomain "github.com/forgenet/forgenet/internal/identity/domain"
	"github.com/forgenet/forgenet/internal/identity/session"
	"github.com/forgenet/forgenet/internal/job"
	jobdomain "github.com/forgenet/forgenet/internal/job/domain"
	"github.com/forgenet/forgenet/internal/manufacturer"
	manufacturerdomain "github.com/forgenet/forgenet/internal/manufacturer/domain"
	"github.com/forgenet/forgenet/internal/message"
	messagedomain "github.com/forgenet/forgenet/internal/message/domain"
	"github.com/forgenet/forgenet/internal/observability"
	obslogger "github.com/forgenet/forgenet/internal/observability/logger"
	obsmetrics "github.com/forgenet/forgenet/internal/observability/metrics"
	obstracing "github.com/forgenet/forgenet/internal/observability/tracing"
	"github.com/forgenet/forgenet/internal/payestimate"
	paydomain "github.com/forgenet/forgenet/internal/payestimate/domain"
	"github.com/forgenet/forgenet/internal/qc"
	qcdomain "github.com/forgenet/forgenet/internal/qc/domain"
	"github.com/forgenet/forgenet/internal/ranking"
	rankingdomain "github.com/forgenet/forgenet/internal/ranking/domain"
	"github.com/forgenet/forgenet/internal/ratelimit"
	"github.com/forgenet/forgenet/internal/rating"
	ratingdomain "github.com/forgenet/forgenet/internal/rating/domain"
	"github.com/forgenet/forgenet/internal/shipping"
	shippingdomain "github.com/forgenet/forgenet/internal/shipping/domain"
	"github.com/forgenet/forgenet/internal/workflow"
	workflowdomain "github.com/forgenet/forgenet/internal/workflow/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	identity.Module,
	session.Module,
	forgeai.Module,
	manufacturer.Module,
	job.Module,
	message.Module,
	qc.Module,
	shipping.Module,
	financial.Module,
	dispute.Module,
	payestimate.Module,
	ranking.Module,
	rating.Module,
	workflow.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware(obsCfg.ServiceName))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
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
	sessions        *session.Manager
	identitySvc     identitydomain.Service
	jobSvc          jobdomain.Service
	manufacturerSvc manufacturerdomain.Service
	messageSvc      messagedomain.Service
	qcSvc           qcdomain.Service
	shippingSvc     shippingdomain.Service
	financialSvc    financialdomain.Service
	disputeSvc      disputedomain.Service
	paySvc          paydomain.Service
	rankingSvc      rankingdomain.Service
	ratingSvc       ratingdomain.Service
	workflowSvc     workflowdomain.Service
	estimateLimiter *ratelimit.EstimateLimiter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	Sessions        *session.Manager
	IdentitySvc     identitydomain.Service
	JobSvc          jobdomain.Service
	ManufacturerSvc manufacturerdomain.Service
	MessageSvc      messagedomain.Service
	QCSvc           qcdomain.Service
	ShippingSvc     shippingdomain.Service
	FinancialSvc    financialdomain.Service
	DisputeSvc      disputedomain.Service
	PaySvc          paydomain.Service
	RankingSvc      rankingdomain.Service
	RatingSvc       ratingdomain.Service
	WorkflowSvc     workflowdomain.Service
	EstimateLimiter *ratelimit.EstimateLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		sessions:        p.Sessions,
		identitySvc:     p.IdentitySvc,
		jobSvc:          p.JobSvc,
		manufacturerSvc: p.ManufacturerSvc,
		messageSvc:      p.MessageSvc,
		qcSvc:           p.QCSvc,
		shippingSvc:     p.ShippingSvc,
		financialSvc:    p.FinancialSvc,
		disputeSvc:      p.DisputeSvc,
		paySvc:          p.PaySvc,
		rankingSvc:      p.RankingSvc,
		ratingSvc:       p.RatingSvc,
		workflowSvc:     p.WorkflowSvc,
		estimateLimiter: p.EstimateLimiter,
	}

	s.registerAuthRoutes()
	s.registerAPIRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/register", s.Register)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.AuthRequired())

	// -------- Jobs --------
	api.POST("/jobs", s.CreateJob)
	api.GET("/jobs", s.ListJobs)
	api.GET("/jobs/:id", s.GetJob)
	api.POST("/jobs/:id/ship", s.ShipJob)
	api.GET("/jobs/:id/shipping", s.GetJobShipping)
	api.POST("/jobs/:id/qc", s.SubmitJobQC)
	api.GET("/jobs/:id/qc", s.ListJobQC)
	api.GET("/jobs/:id/messages", s.ListJobMessages)
	api.POST("/jobs/:id/messages", s.SendJobMessage)

	// -------- Manufacturers --------
	api.GET("/manufacturers", s.ListManufacturers)
	api.GET("/manufacturers/:id", s.GetManufacturer)
	api.PUT("/manufacturers/profile", s.UpsertManufacturerProfile)

	// -------- Financials --------
	api.GET("/financials", s.ListFinancials)

	// -------- Disputes --------
	api.POST("/disputes", s.OpenDispute)
	api.GET("/disputes", s.ListDisputes)
	api.POST("/disputes/:id/resolve", s.RequireRole(identitydomain.RoleAdmin), s.ResolveDispute)

	// -------- Ratings --------
	api.POST("/ratings", s.SubmitRating)

	// -------- AI delegation --------
	api.POST("/ai/pay", s.EstimateRateLimit(), s.EstimatePay)
	api.POST("/ai/qc", s.RunQCCheck)
	api.GET("/ai/rate", s.AggregateRatings)
	api.POST("/ai/rank", s.RankManufacturers)
	api.POST("/ai/workflow", s.ScheduleWorkflow)
}
