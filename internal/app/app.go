package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pintrail/pintrail/internal/config"
	"github.com/pintrail/pintrail/internal/handler"
	"github.com/pintrail/pintrail/internal/repository"
	"github.com/pintrail/pintrail/internal/service"
	"github.com/pintrail/pintrail/internal/utils"
	"github.com/pintrail/pintrail/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	repos := repository.NewRepositories(infra.Postgres())

	tokens := utils.NewTokenProvider(cfg.JWT.Secret, cfg.JWT.TokenExpiry.Duration, infra.Logger())

	blacklistService := service.NewTokenBlacklistService(infra.Redis())
	rateLimiter := service.NewRateLimiter(infra.Redis(), infra.Logger())
	healthChecker := NewHealthChecker(infra)

	authService := service.NewAuthService(
		repos.User,
		tokens,
		blacklistService,
		service.NewClaimsVerifier(),
		cfg.Security.BCryptCost,
		infra.Logger(),
	)
	pinService := service.NewPinService(
		repos.User,
		repos.Pin,
		repos.Activity,
		repos.Follow,
		cfg.Pins.VisitLocation(),
		infra.Logger(),
	)
	socialService := service.NewSocialService(
		repos.User,
		repos.Activity,
		repos.Follow,
		repos.Feed,
		infra.Logger(),
	)

	authHandler := handler.NewAuthHandler(authService)
	pinHandler := handler.NewPinHandler(pinService, infra.Logger())
	userHandler := handler.NewUserHandler(authService, socialService)
	socialHandler := handler.NewSocialHandler(socialService)

	router := gin.Default()
	router.Use(otelgin.Middleware("pintrail-api"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, authHandler, pinHandler, userHandler, socialHandler,
		authService, rateLimiter, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	pinHandler *handler.PinHandler,
	userHandler *handler.UserHandler,
	socialHandler *handler.SocialHandler,
	authService service.AuthService,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	authRequired := handler.AuthMiddleware(authService)
	authOptional := handler.OptionalAuthMiddleware(authService)
	throttled := handler.RateLimitMiddleware(rateLimiter,
		cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.IPBasedKey)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", throttled, authHandler.Register)
			auth.POST("/login", throttled, authHandler.Login)
			auth.POST("/social", throttled, authHandler.SocialLogin)
			auth.GET("/check-email", authHandler.CheckEmail)
			auth.GET("/check-username", authHandler.CheckUsername)
			auth.GET("/me", authRequired, authHandler.GetMe)
			auth.PATCH("/me", authRequired, authHandler.UpdateProfile)
			auth.DELETE("/me", authRequired, authHandler.DeleteAccount)
			auth.PUT("/password", authRequired, authHandler.ChangePassword)
		}

		pins := api.Group("/pins", authRequired)
		{
			pins.GET("", pinHandler.List)
			pins.POST("", pinHandler.Create)
			pins.PATCH("/:uuid", pinHandler.Update)
			pins.DELETE("/:uuid", pinHandler.Delete)
		}

		users := api.Group("/users")
		{
			users.GET("/:username", authOptional, userHandler.GetProfile)
			users.GET("/:username/follow-counts", userHandler.GetFollowCounts)
			users.POST("/:username/follow", authRequired, socialHandler.Follow)
			users.DELETE("/:username/follow", authRequired, socialHandler.Unfollow)
		}

		activities := api.Group("/activities", authRequired)
		{
			activities.POST("/:id/like", socialHandler.Like)
			activities.DELETE("/:id/like", socialHandler.Unlike)
			activities.GET("/:id/comments", socialHandler.ListComments)
			activities.POST("/:id/comments", socialHandler.Comment)
		}

		api.DELETE("/comments/:id", authRequired, socialHandler.DeleteComment)

		feed := api.Group("/feed", authRequired)
		{
			feed.GET("", socialHandler.Feed)
			feed.POST("/seen", socialHandler.MarkFeedSeen)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
