package http

import (
	"net/http"
	"time"

	"bias-assessment-service/internal/app"
	"bias-assessment-service/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Options tunes the HTTP surface.
type Options struct {
	ExposeAnswerKey bool
	CORSOrigins     []string
	// RateLimit caps submissions per client IP within RateWindow. Zero disables it.
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
}

// NewRouter wires REST, websocket, health and metrics routes around the service.
func NewRouter(service *app.AssessmentService, logger *zap.Logger, m *metrics.Metrics, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	h := NewHandler(service, logger, m, opts.ExposeAnswerKey)
	ws := NewWSHandler(service, logger, m)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(logger), middleware.Recoverer)
	r.Use(m.Middleware)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(opts.RequestTimeout))

		r.Get("/assessment/questions", h.Questions)
		r.Post("/assessment/session", h.NewSession)
		r.With(newRateLimiter(opts.RateLimit, opts.RateWindow).Middleware).
			Post("/assessment/submit", h.Submit)
		r.Get("/assessment/result/{sessionId}", h.Result)
		r.Get("/assessment/result/{sessionId}/summary", h.Summary)

		r.Get("/resources", h.Resources)
		r.Get("/resources/types", h.ResourceTypes)
	})

	r.Get("/ws/assessment", ws.ServeWS)
	return r
}

// requestLogger emits one structured line per request.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("remote", r.RemoteAddr),
			)
		})
	}
}
