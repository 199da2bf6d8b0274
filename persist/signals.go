package persist

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// RegisterCrashHandlers installs handlers for termination signals. On
// invocation flush is called synchronously before the process exits, bounding
// data loss to the events applied since the last threshold flush. A crash
// that bypasses signal delivery (power loss, SIGKILL) can still lose up to
// one flush interval of events.
func RegisterCrashHandlers(flush func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-ch
		slog.Info("termination signal, flushing", "signal", sig)
		flush()
		os.Exit(0)
	}()
}
