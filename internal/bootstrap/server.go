package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/0xgasc/flyin-sub000/api"
	"github.com/0xgasc/flyin-sub000/config"
	"github.com/0xgasc/flyin-sub000/internal/service/booking"
	"github.com/0xgasc/flyin-sub000/internal/service/experiences"
	"github.com/0xgasc/flyin-sub000/internal/service/ledger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, bookingSvc booking.BookingUseCase, ledgerSvc ledger.LedgerUseCase, experienceSvc experiences.ExperienceUseCase) error {
	router := newRouter(cfg, bookingSvc, ledgerSvc, experienceSvc)

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, bookingSvc booking.BookingUseCase, ledgerSvc ledger.LedgerUseCase, experienceSvc experiences.ExperienceUseCase) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	api.NewBookingHandler(bookingSvc).Register(v1.Group("/bookings"))
	api.NewLedgerHandler(ledgerSvc).Register(v1.Group("/ledger"))
	api.NewExperienceHandler(experienceSvc).Register(v1.Group("/experiences"))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/openapi.json"),
		)))
	}

	return router
}
