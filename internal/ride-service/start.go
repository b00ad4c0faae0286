package rideservice

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/orlantquijada/wingz/internal/config"
	"github.com/orlantquijada/wingz/internal/mylogger"
	"github.com/orlantquijada/wingz/internal/ride-service/adapters/driver/myhttp"
)

const shutdownTimeout = 15 * time.Second

// Execute runs the ride API until a signal arrives or the server fails.
func Execute(ctx context.Context, mylog mylogger.Logger, cfg *config.Config) error {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := myhttp.NewServer(sigCtx, ctx, mylog, cfg)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- server.Run()
	}()

	var runErr error
	select {
	case <-sigCtx.Done():
		mylog.Action("shutdown_signal_received").Info("Shutdown signal received")
	case runErr = <-runErrCh:
		if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
			mylog.Action("ride_service_failed").Error("Server failed unexpectedly", runErr)
		} else {
			runErr = nil
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		return errors.Join(runErr, err)
	}
	mylog.Action("server_stopped").Info("Server exited")
	return runErr
}
