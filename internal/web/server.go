package web

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hpungsan/folio/internal/logging"
	"github.com/hpungsan/folio/internal/ops"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// NewServer creates the HTTP server for the portfolio API.
func NewServer(deps *ops.Deps, logger *zap.Logger) *http.Server {
	logger = logging.OrNop(logger)
	cfg := deps.Config

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port),
		Handler:           NewHandler(deps, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(logger.Named("http")),
	}
}

// NewHandler builds the routed, middleware-wrapped handler.
func NewHandler(deps *ops.Deps, logger *zap.Logger) http.Handler {
	logger = logging.OrNop(logger)
	h := &Handlers{deps: deps, logger: logger}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("GET /{$}", h.HandleHealth)
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("POST /generate-text", h.HandleGenerateText)
	mux.HandleFunc("POST /chat-with-files", h.HandleChat)
	mux.HandleFunc("GET /api/content/{file_name}", h.HandleContent)
	mux.HandleFunc("POST /api/contact", h.HandleContact)
	mux.HandleFunc("GET /check-paths", h.HandleCheckPaths)
	mux.HandleFunc("GET /api/projects", h.HandleListProjects)
	mux.HandleFunc("GET /api/projects/{slug}", h.HandleGetProject)

	// Project media and other static assets
	mux.Handle("GET /static/", http.StripPrefix("/static/", staticFiles(deps.Config.StaticDir)))

	var handler http.Handler = mux
	handler = securityHeaders(handler)
	handler = corsHandler(deps.Config.AllowedOrigins).Handler(handler)
	handler = requestLogger(logger)(handler)
	return handler
}

// corsHandler allows the configured frontend origins with credentials.
func corsHandler(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodOptions, http.MethodHead,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
	})
}

// Run listens on srv.Addr and serves until SIGINT/SIGTERM or ctx is done.
func Run(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return Serve(ctx, srv, ln, logger)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, logger *zap.Logger) error {
	logger = logging.OrNop(logger)
	addr := ln.Addr().String()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("folio listening", zap.String("addr", "http://"+addr))
		if strings.HasPrefix(addr, "0.0.0.0") || strings.HasPrefix(addr, "[::]") {
			logger.Warn("server is binding to all interfaces and may be reachable from the network")
		}
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
