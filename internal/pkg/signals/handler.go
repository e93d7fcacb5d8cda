package signals

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/endorses/wordmask/internal/pkg/constants"
	"github.com/endorses/wordmask/internal/pkg/logger"
)

// SetupHandler sets up a signal handler that cancels the provided context on SIGINT or SIGTERM
// Returns a cleanup function that should be called when the signal handler is no longer needed
func SetupHandler(ctx context.Context, cancel context.CancelFunc) (cleanup func()) {
	sigCh := make(chan os.Signal, constants.SignalChannelBuffer)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("Received signal, initiating shutdown", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			// Context already cancelled, clean up
		}
	}()

	return func() {
		signal.Stop(sigCh)
	}
}

// SetupReloadHandler calls onReload every time SIGHUP is received, until ctx
// is cancelled or cleanup is called.
func SetupReloadHandler(ctx context.Context, onReload func()) (cleanup func()) {
	sigCh := make(chan os.Signal, constants.SignalChannelBuffer)
	signal.Notify(sigCh, syscall.SIGHUP)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case sig := <-sigCh:
				logger.Info("Received signal, reloading dictionary", "signal", sig.String())
				onReload()
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(stop)
		<-done // Wait for goroutine to exit
	}
}
