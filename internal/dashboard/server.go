// Package dashboard serves the interactive explorer: an HTML page with filter
// controls, PNG charts and a JSON API over the loaded records.
package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/matsen/cordex/internal/aggregate"
	"github.com/matsen/cordex/internal/config"
	"github.com/matsen/cordex/internal/dataset"
	"github.com/matsen/cordex/internal/index"
	"github.com/matsen/cordex/internal/record"
	"github.com/matsen/cordex/internal/viz"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second

	// Title is the page heading.
	Title = "CORD-19 Data Explorer"

	// DefaultRecordLimit is the number of rows returned by the records endpoint.
	DefaultRecordLimit = 50

	headerContentType = "Content-Type"
)

// Chart names served under /charts/{name}.png.
const (
	ChartYears     = "years"
	ChartJournals  = "journals"
	ChartWordCloud = "wordcloud"
)

// Server holds the records loaded once at start-up. Handlers only read them.
type Server struct {
	ds      *dataset.Dataset
	records []record.CleanedRecord
	idx     *index.DB
	cfg     *config.Config
	logger  zerolog.Logger
	limiter *rate.Limiter

	minYear  int
	maxYear  int
	journals []string

	router chi.Router
}

// New creates a dashboard over the cleaned records of ds. idx may be nil, in
// which case full-text search is rejected.
func New(ds *dataset.Dataset, cleaned []record.CleanedRecord, idx *index.DB, cfg *config.Config, logger zerolog.Logger) *Server {
	lo, hi := aggregate.SliderBounds(cleaned)
	s := &Server{
		ds:       ds,
		records:  cleaned,
		idx:      idx,
		cfg:      cfg,
		logger:   logger,
		limiter:  rate.NewLimiter(rate.Limit(cfg.Dashboard.RateLimit), cfg.Dashboard.Burst),
		minYear:  lo,
		maxYear:  hi,
		journals: append([]string{aggregate.AllJournals}, aggregate.TopJournalNames(cleaned, cfg.TopJournals)...),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler for all dashboard routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.Recoverer)
	router.Use(s.observe)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Dashboard.AllowedOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type"},
		AllowCredentials: false,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "OK")
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Group(func(r chi.Router) {
		r.Use(s.limit)

		r.Get("/", s.handlePage)
		r.Get("/charts/{name}.png", s.handleChart)

		humaConfig := huma.DefaultConfig("cordex dashboard", "1.0.0")
		humaConfig.OpenAPI.Info.Description = "Filtered views over CORD-19 metadata."
		api := humachi.New(r, humaConfig)
		s.registerAPI(api)
	})

	return router
}

// Run serves the dashboard until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Dashboard.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().
		Str("addr", s.cfg.Dashboard.Addr).
		Int("records", len(s.records)).
		Int("min_year", s.minYear).
		Int("max_year", s.maxYear).
		Msg("Dashboard starting")

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	s.logger.Info().Msg("Dashboard stopped")
	return nil
}

// observe records request metrics and a debug log line per request.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()

		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", route).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("Request")
	})
}

func (s *Server) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			RateLimitedTotal.Inc()
			w.Header().Set("Retry-After", "1")
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	in, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sel, err := s.selectRecords(in)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	query := sel.encode()
	page, err := viz.DashboardHTML(viz.DashboardData{
		Title:           Title,
		Source:          s.ds.Kind.String(),
		Path:            s.ds.Path,
		Rows:            len(s.records),
		Filter:          sel.Filter,
		Query:           sel.Query,
		MinYear:         s.minYear,
		MaxYear:         s.maxYear,
		Journals:        s.journals,
		View:            sel.View,
		YearTable:       aggregate.YearTable(sel.Records),
		Sample:          sel.Records[:min(len(sel.Records), s.cfg.SampleRows)],
		YearChartURL:    chartURL(ChartYears, query),
		JournalChartURL: chartURL(ChartJournals, query),
		WordCloudURL:    chartURL(ChartWordCloud, query),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Rendering dashboard failed")
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	w.Header().Set(headerContentType, "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	in, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sel, err := s.selectRecords(in)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	opts := viz.DefaultChartOptions()
	switch name := chi.URLParam(r, "name"); name {
	case ChartYears:
		err = viz.BarChartPNG(&buf, "Number of Publications by Year", "Number of Publications", aggregate.YearTable(sel.Records), opts)
	case ChartJournals:
		err = viz.BarChartPNG(&buf, "Top Journals by Number of Publications", "Number of Publications", sel.View.Journals, opts)
	case ChartWordCloud:
		err = viz.WordCloudPNG(&buf, sel.View.Words, viz.WordCloudOptions())
	default:
		http.Error(w, fmt.Sprintf("unknown chart %q", name), http.StatusNotFound)
		return
	}
	if errors.Is(err, viz.ErrNoWords) {
		http.Error(w, "No titles to display in word cloud.", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Rendering chart failed")
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	w.Header().Set(headerContentType, "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func chartURL(name, query string) template.URL {
	return template.URL("/charts/" + name + ".png?" + query)
}
