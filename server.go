package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/debt_gateway/config"
	"github.com/mmdatafocus/debt_gateway/middlewares"
	"github.com/mmdatafocus/debt_gateway/models"
	"github.com/mmdatafocus/debt_gateway/schemas"
	"github.com/mmdatafocus/debt_gateway/services"
	"github.com/mmdatafocus/debt_gateway/utils"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// application serves requests once its dependencies are stored; until then
// every endpoint but /healthz answers 503.
type application struct {
	deps   atomic.Pointer[dependencies]
	logger *logrus.Logger
}

type validationErrorBody struct {
	Detail []utils.FieldViolation `json:"detail"`
}

func validationFailed(c *gin.Context, violations []utils.FieldViolation) {
	c.JSON(http.StatusUnprocessableEntity, validationErrorBody{Detail: violations})
}

func (app *application) respondError(c *gin.Context, err error) {
	var reqErr *services.RequestError
	if errors.As(err, &reqErr) {
		validationFailed(c, reqErr.Violations())
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func (app *application) readinessGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Always allow Cloud Run startup probe.
		if c.Request.URL.Path == "/healthz" {
			c.Next()
			return
		}
		if app.deps.Load() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	}
}

func (app *application) debtStatusHandler(c *gin.Context) {
	var req schemas.DebtStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, utils.ProcessValidationErrors(err))
		return
	}
	resp, err := app.deps.Load().debts.DebtStatus(c.Request.Context(), &req)
	if err != nil {
		app.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (app *application) updateDebtPaymentHandler(c *gin.Context) {
	var req schemas.PaymentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, utils.ProcessValidationErrors(err))
		return
	}
	resp, err := app.deps.Load().payments.UpdateDebtPayment(c.Request.Context(), &req)
	if err != nil {
		app.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (app *application) revertDebtPaymentHandler(c *gin.Context) {
	var req schemas.RevertPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, utils.ProcessValidationErrors(err))
		return
	}
	resp, err := app.deps.Load().payments.RevertPaymentDebt(c.Request.Context(), &req)
	if err != nil {
		app.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

func newRouter(app *application, settings config.Settings) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.CorrelationMiddleware())
	r.Use(app.readinessGate())
	r.Use(middlewares.Cors(settings))

	// Optional rate limiting (recommended for production).
	if settings.RateLimitEnabled && settings.RedisAddress != "" {
		client := redis.NewClient(&redis.Options{Addr: settings.RedisAddress})
		rateLimiter := middlewares.NewRateLimiter(client, settings.RateLimitMax, settings.RateLimitWindow)
		r.Use(rateLimiter.RateLimitMiddleware)
	}

	r.Use(middlewares.ErrorLogger(app.logger))
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	v1 := r.Group("/v1")
	v1.POST("/debt-status", app.debtStatusHandler)
	v1.POST("/update-debt-payment", app.updateDebtPaymentHandler)
	v1.POST("/revert-debt-payment", app.revertDebtPaymentHandler)

	r.NoRoute(customNotFoundHandler)
	return r
}

func main() {
	settings := config.LoadSettings()
	config.SetLogLevel(settings.LogLevel)
	logger := config.GetLogger()

	if settings.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := schemas.RegisterGinValidations(); err != nil {
		logger.WithFields(logrus.Fields{"field": "validation"}).Fatal(err.Error())
	}

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP; until the DB is ready app endpoints return 503.
	app := &application{logger: logger}
	srv := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           newRouter(app, settings),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	db, err := config.ConnectDatabaseWithRetry(sigCtx, settings)
	if err != nil {
		logger.WithFields(logrus.Fields{"field": "database"}).Error("database never became ready: " + err.Error())
		shutdown(srv, logger)
		return
	}
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()

	// AutoMigrate can run DDL that blocks tables; allow running it as a separate job instead.
	if !settings.SkipMigrations {
		if err := models.MigrateTable(db); err != nil {
			logger.WithFields(logrus.Fields{"field": "migrations"}).Fatal(err.Error())
		}
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	deps, closeDeps := buildDependencies(sigCtx, settings, db, logger)
	defer closeDeps()
	app.deps.Store(deps)

	log.Printf("Server started successfully on port %s", settings.Port)

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}
	shutdown(srv, logger)
}

func shutdown(srv *http.Server, logger *logrus.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}
}
