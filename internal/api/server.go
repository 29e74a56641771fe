package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"max.ks1230/costs-service/internal/entity/cost"
	"max.ks1230/costs-service/internal/entity/user"
	"max.ks1230/costs-service/internal/model/costs"
	"max.ks1230/costs-service/internal/model/reports"
)

const shutdownTimeout = 5 * time.Second

type costRecorder interface {
	AddCost(ctx context.Context, in costs.NewCost) (cost.Cost, error)
}

type reportGenerator interface {
	MonthlyReport(ctx context.Context, userID string, year, month int) (reports.Report, error)
}

type userSummaries interface {
	Summary(ctx context.Context, userID string) (user.Summary, error)
}

type config interface {
	Port() int
}

type Server struct {
	srv       *http.Server
	mux       *http.ServeMux
	recorder  costRecorder
	reports   reportGenerator
	summaries userSummaries
}

func NewServer(cfg config, recorder costRecorder, reports reportGenerator, summaries userSummaries) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		recorder:  recorder,
		reports:   reports,
		summaries: summaries,
	}

	s.mux.HandleFunc("POST /api/add", s.instrument("add", s.handleAdd))
	s.mux.HandleFunc("GET /api/report", s.instrument("report", s.handleReport))
	s.mux.HandleFunc("GET /api/users/{id}", s.instrument("user", s.handleUser))
	s.mux.HandleFunc("GET /api/about", s.instrument("about", s.handleAbout))
	s.mux.Handle("GET /metrics", promhttp.Handler())

	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port()),
		Handler: s.mux,
	}
	return s
}

// Handler exposes the route table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// instrument wraps a handler with a tracing span and the response-time
// histogram.
func (s *Server) instrument(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		span, ctx := opentracing.StartSpanFromContext(r.Context(), name)
		defer span.Finish()

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		h(sw, r.WithContext(ctx))
		elapsed := time.Since(start)

		observeResponse(name, sw.status, elapsed)
		if sw.status >= http.StatusInternalServerError {
			ext.Error.Set(span, true)
		}
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
