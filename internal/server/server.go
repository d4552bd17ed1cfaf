// Package server exposes the read-only operational HTTP surface: health,
// metrics, and report lookups.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	activitydomain "github.com/devrecap/devrecap/internal/activity/domain"
	"github.com/devrecap/devrecap/internal/config"
	costdomain "github.com/devrecap/devrecap/internal/costreport/domain"
	"github.com/devrecap/devrecap/internal/observability/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type RoutesParam struct {
	fx.In

	Engine     *gin.Engine
	Log        *zap.Logger
	CostReport costdomain.Service
	Activity   activitydomain.Service
}

func registerRoutes(p RoutesParam) {
	h := &handlers{
		log:        p.Log.Named("http.server"),
		costreport: p.CostReport,
		activity:   p.Activity,
	}

	v1 := p.Engine.Group("/api/v1")
	v1.GET("/cost/reports/:period", h.getCostReport)
	v1.GET("/activity/weeks/:start", h.getWeeklyActivity)
}

type handlers struct {
	log        *zap.Logger
	costreport costdomain.Service
	activity   activitydomain.Service
}

func (h *handlers) getCostReport(c *gin.Context) {
	kind := costdomain.PeriodKind(c.Param("period"))
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be daily, weekly, or monthly"})
		return
	}

	report, err := h.costreport.Generate(c.Request.Context(), kind)
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Error("cost report failed",
			zap.String("period", string(kind)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *handlers) getWeeklyActivity(c *gin.Context) {
	weekStart, err := time.Parse("2006-01-02", c.Param("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be YYYY-MM-DD"})
		return
	}

	activities, err := h.activity.ActivitiesForWeek(c.Request.Context(), weekStart)
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Error("weekly activity lookup failed",
			zap.Time("week_start", weekStart), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "activity lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"week_start": weekStart.Format("2006-01-02"),
		"activities": activities,
	})
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
