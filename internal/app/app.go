package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/foodauth/internal/config"
	"github.com/you/foodauth/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// NewLogger builds the process logger from config
func NewLogger(cfg *config.Config) logging.Logger {
	return logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat).With("service", "foodauth")
}

// Run serves HTTP until SIGINT or SIGTERM, then drains in-flight requests
func Run(cfg *config.Config) error {
	log := NewLogger(cfg)
	gin.SetMode(cfg.GinMode)

	c, err := NewContainer(cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()

	r, err := c.Router()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", srv.Addr, "db_driver", cfg.DBDriver, "otp_store", cfg.OTP_Store, "sms_provider", cfg.SMSProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
