package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"time"

	"github.com/stemsi/coursequiz/internal/handler"
	"github.com/stemsi/coursequiz/internal/notify"
	"github.com/stemsi/coursequiz/internal/router"
	"github.com/stemsi/coursequiz/internal/worker"
)

// runBridge serves notifications from CLI sessions to browser tabs until
// interrupted.
func runBridge(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("bridge", flag.ContinueOnError)
	port := fs.String("port", a.cfg.BridgePort, "Port to listen on")
	if err := fs.Parse(args); err != nil {
		return err
	}

	hub := notify.NewHub(a.log)
	defer hub.Close()

	// ─── Start Relay ───────────────────────────────────────────────────
	relayCtx, relayCancel := context.WithCancel(ctx)
	defer relayCancel()

	relayDone := make(chan struct{})
	if rdb := a.redis(ctx); rdb != nil {
		relay := worker.NewNotificationRelay(rdb, a.cfg.NotifyChannel, hub, a.log)
		go func() {
			defer close(relayDone)
			relay.Start(relayCtx)
		}()
	} else {
		a.log.Warn().Msg("REDIS_URL not set, the bridge will not receive notifications from other sessions")
		close(relayDone)
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handler.NewNotificationHandler(hub, a.log, a.cfg.AllowedOrigins), a.cfg)

	srv := &http.Server{
		Addr:              ":" + *port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", srv.Addr).Msg("Notification bridge listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	select {
	case <-ctx.Done():
		a.log.Info().Msg("Shutting down bridge...")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	// Hijacked WebSocket connections are not closed by Shutdown.
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	relayCancel()
	<-relayDone

	a.log.Info().Msg("Bridge stopped")
	return nil
}
