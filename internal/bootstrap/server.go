package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/zvrva/securespot/api"
	"github.com/zvrva/securespot/config"
	"github.com/zvrva/securespot/internal/service/auth"
)

type Handlers struct {
	Auth         *api.AuthHandler
	Spots        *api.SpotHandler
	Reservations *api.ReservationHandler
	Payments     *api.PaymentHandler
	AuthService  auth.AuthUseCase
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, h Handlers) error {
	router := newRouter(cfg, h)

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

func newRouter(cfg *config.Config, h Handlers) *gin.Engine {
	router := gin.Default()

	h.Auth.Register(router.Group("/auth"))
	h.Auth.RegisterProtected(router.Group("/auth", api.RequireAuth(h.AuthService)))

	h.Spots.Register(router.Group("/spots"))
	h.Reservations.RegisterAuth(router.Group("/reservations", api.RequireAuth(h.AuthService)))
	h.Reservations.RegisterGuest(router.Group("/guest/reservations"))
	h.Payments.Register(router.Group("/payments"))

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFile("/swagger/openapi.json", cfg.HTTP.SwaggerDir+"/openapi.json")
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/openapi.json"),
		)))
	}

	return router
}
