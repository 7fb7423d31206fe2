package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/elasticsearch"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/events"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/logger"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/metrics"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/models"
)

// UserDirectory resolves and authenticates users.
type UserDirectory interface {
	Get(id int) (models.User, error)
	Authenticate(email, password string) (models.User, error)
}

// ContentSource serves the static, country-keyed content.
type ContentSource interface {
	Resolve(country string) (string, error)
	Home(country string) (models.HomeBundle, error)
	GRC(country, category string) ([]models.ListItem, error)
	Settings(country string) ([]models.Setting, error)
}

// ActivityReader reads the activity index.
type ActivityReader interface {
	SearchEvents(ctx context.Context, params elasticsearch.SearchParams) (*elasticsearch.SearchResult, error)
	Health(ctx context.Context) error
}

// TokenIssuer signs login tokens. An empty token means tokens are disabled.
type TokenIssuer interface {
	Issue(user models.User) (string, error)
}

// Options wires a Server. Users and Content are required.
type Options struct {
	Log             *slog.Logger
	Users           UserDirectory
	Content         ContentSource
	Activity        ActivityReader
	Tokens          TokenIssuer
	Events          events.Publisher
	Metrics         *metrics.Metrics
	ActivityPage    int
	ActivityMaxPage int
}

// Server holds the HTTP handlers of the BoardKonnect API.
type Server struct {
	log             *slog.Logger
	users           UserDirectory
	content         ContentSource
	activity        ActivityReader
	tokens          TokenIssuer
	events          events.Publisher
	metrics         *metrics.Metrics
	activityPage    int
	activityMaxPage int
}

func New(opts Options) *Server {
	s := &Server{
		log:             opts.Log,
		users:           opts.Users,
		content:         opts.Content,
		activity:        opts.Activity,
		tokens:          opts.Tokens,
		events:          opts.Events,
		metrics:         opts.Metrics,
		activityPage:    opts.ActivityPage,
		activityMaxPage: opts.ActivityMaxPage,
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	if s.events == nil {
		s.events = events.NopPublisher{}
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.activityPage <= 0 {
		s.activityPage = 20
	}
	if s.activityMaxPage < s.activityPage {
		s.activityMaxPage = s.activityPage
	}
	return s
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(s.metrics.Middleware)
	r.Use(s.recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Get("/user/{id}", s.handleUser)
		r.Get("/user/{id}/activity", s.handleActivity)
		r.Get("/home", s.handleHome)
		r.Get("/grc_content/{id}/{category}", s.handleGRC)
		r.Get("/settings/{country}", s.handleSettings)
	})
	return r
}

// recoverer turns a handler panic into the JSON 500 every endpoint promises.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			s.log.Error("handler panic",
				slog.Any("panic", rec),
				slog.String("path", r.URL.Path),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
			writeError(w, http.StatusInternalServerError, msgInternal)
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// publish hands evt to the publisher without tying it to the request lifetime.
// Failures are logged and counted, never surfaced to the client.
func (s *Server) publish(r *http.Request, evt models.ActivityEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), time.Second)
	defer cancel()

	if err := s.events.Publish(ctx, evt); err != nil {
		s.metrics.EventDropped()
		s.log.Warn("publish activity event",
			slog.String("type", evt.Type),
			slog.Int("user_id", evt.UserID),
			slog.Any("err", err),
		)
	}
}
