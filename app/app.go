package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/nodego/node-server/config"
	core "github.com/nodego/node-server/core"
	"github.com/nodego/node-server/core/transport"
	"github.com/nodego/node-server/logging"
)

// App wires the server, transport and logger together.
type App struct {
	cfg       *config.Config
	log       zerolog.Logger
	server    *core.Server
	transport *transport.NetHTTP
}

// New creates an application instance.
func New(cfg *config.Config) *App {
	log := logging.New(cfg.Logging)
	server := core.NewServer()

	opts := []transport.NetHTTPOption{transport.WithLogger(log)}
	if cfg.Server.EnableH2C {
		opts = append(opts, transport.WithH2C())
	}

	return &App{
		cfg:       cfg,
		log:       log,
		server:    server,
		transport: transport.NewNetHTTP(server, opts...),
	}
}

// Server returns the underlying server for route registration.
func (a *App) Server() *core.Server {
	return a.server
}

// Logger returns the application logger.
func (a *App) Logger() zerolog.Logger {
	return a.log
}

// Run starts serving and blocks until SIGINT/SIGTERM, then drains
// in-flight requests before returning.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.transport.ListenAndServe(a.cfg.Server.Addr())
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info().Str("addr", a.cfg.Server.Addr()).Str("env", a.cfg.Env).Msg("server started")

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		a.log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := a.transport.Shutdown(ctx); err != nil {
		return err
	}
	return <-errCh
}
