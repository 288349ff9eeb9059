package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

const (
	serverShutdownWaitSeconds = 5
	serverTimeoutSeconds      = 30
	serverMaxHeaderBytes      = 20
)

var (
	portFlag = &cli.IntFlag{
		Name:  "port",
		Usage: "Port on which the server will listen (optional, overrides config)",
	}

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leadctl_http_requests_total",
		Help: "HTTP requests served, by route and status code.",
	}, []string{"route", "code"})

	serverCmd = &cli.Command{
		Name:    "server",
		Aliases: []string{"serve"},
		Usage:   "Starts the local HTTP API server",
		Action:  cmdStartServer,
		Flags: []cli.Flag{
			portFlag,
		},
	}
)

func cmdStartServer(c *cli.Context) error {
	cfg := getConfig(c)

	port := cfg.Conf.Server.Port
	if c.IsSet(portFlag.Name) {
		port = c.Int(portFlag.Name)
	}
	address := fmt.Sprintf("127.0.0.1:%d", port)

	s := &http.Server{
		Addr:           address,
		Handler:        makeRouter(cfg),
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: 1 << serverMaxHeaderBytes,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("error starting server", "error", err)
		}
	}()

	slog.Info("server started", "address", fmt.Sprintf("http://%s", address))

	<-done

	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownWaitSeconds*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("error shutting down server", "error", err)
	}
	return nil
}

func makeRouter(cfg *appConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logRequests)
	r.Use(countRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/summary", summaryHandler(cfg))
		r.Get("/channels", channelsHandler(cfg))
		r.Get("/weights", weightsHandler(cfg))
		r.Get("/leads/top", topLeadsHandler(cfg))
		r.Get("/alerts", alertsHandler(cfg))
		r.Get("/reports", reportsHandler(cfg))
		r.Get("/reports/{id}", reportHandler(cfg))
	})

	return r
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
			"id", middleware.GetReqID(r.Context()),
		)
	})
}

func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if ctx := chi.RouteContext(r.Context()); ctx != nil && ctx.RoutePattern() != "" {
			route = ctx.RoutePattern()
		}
		httpRequests.WithLabelValues(route, fmt.Sprintf("%d", ww.Status())).Inc()
	})
}
