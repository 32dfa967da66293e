package server

import (
	"net/http"
	"path/filepath"
	"time"

	"duckhub/internal/config"
	"duckhub/internal/db"
	"duckhub/internal/ducks"
	"duckhub/internal/jsonstore"
	"duckhub/internal/leaderboard"
	"duckhub/internal/livefeed"
	"duckhub/internal/logging"
	"duckhub/internal/progress"
	"duckhub/internal/ratings"
	"duckhub/internal/shop"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	Cfg      config.Config
	Logger   *zap.SugaredLogger
	Ducks    *ducks.Index
	Ratings  *ratings.Store
	Progress *progress.Store
	Board    *leaderboard.Store
	Shop     *shop.Ledger
	Feed     *livefeed.Hub
	DB       *db.DB       // nil if no database configured
	Recorder *db.Recorder // nil if no database configured

	validate *validator.Validate
}

func New(cfg config.Config, logger *zap.SugaredLogger) (*Server, error) {
	idx, err := ducks.NewIndex(cfg.DucksDir)
	if err != nil {
		return nil, err
	}

	s := &Server{
		Cfg:      cfg,
		Logger:   logger,
		Ducks:    idx,
		Ratings:  ratings.NewStore(jsonstore.New(filepath.Join(cfg.DataDir, "ratings.json")), logger),
		Progress: progress.NewStore(time.Duration(cfg.SessionTTLMin) * time.Minute),
		Board:    leaderboard.NewStore(jsonstore.New(filepath.Join(cfg.DataDir, "leaderboard.json")), logger),
		Shop:     shop.NewLedger(jsonstore.New(filepath.Join(cfg.DataDir, "inventory.json")), logger),
		Feed:     livefeed.NewHub(logger),
		validate: validator.New(),
	}
	return s, nil
}

func Run() error {
	cfg := config.Load()

	zlog, err := logging.New(cfg.Env != "production")
	if err != nil {
		return err
	}
	defer zlog.Sync()
	logger := zlog.Sugar()

	srv, err := New(cfg, logger)
	if err != nil {
		return err
	}

	// Optional database connection
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			logger.Warnw("database connection failed, running without it", "error", err)
		} else {
			if err := database.Migrate(); err != nil {
				logger.Warnw("migration failed", "error", err)
			}
			srv.DB = database
			srv.Recorder = db.NewRecorder(database, logger)
			logger.Info("database connected and migrations applied")
		}
	} else {
		logger.Info("DATABASE_URL not set, running without database")
	}

	logger.Infow("duck index built", "images", srv.Ducks.Count(), "dir", cfg.DucksDir)

	addr := "0.0.0.0:" + cfg.Port
	logger.Infow("server listening", "addr", addr)
	return http.ListenAndServe(addr, srv.Routes())
}

// Routes builds the HTTP surface: the JSON API, the websocket feed, metrics,
// and static serving for the frontend and duck images.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/duck", s.handleDuck)
		r.Post("/rate", s.handleRate)
		r.Get("/ratings", s.handleRatings)
		r.Post("/click-badge", s.handleClickBadge)
		r.Get("/badges", s.handleBadges)

		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/leaderboard/user", s.handleLeaderboardUser)
		r.Post("/leaderboard/update", s.handleLeaderboardUpdate)
		r.Get("/leaderboard/live", s.handleLeaderboardLive)

		r.Get("/store/items", s.handleStoreItems)
		r.Post("/store/purchase", s.handlePurchase)
		r.Get("/user/inventory", s.handleInventory)
		r.Post("/user/add-points", s.handleAddPoints)
	})

	r.Get("/duck", s.handleDuckPage)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Handle("/ducks/*", http.StripPrefix("/ducks/", http.FileServer(http.Dir(s.Cfg.DucksDir))))
	r.Handle("/*", http.FileServer(http.Dir("public")))

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// Label the matched route pattern, not the raw path: the catch-all
		// file server would otherwise mint a series per requested URL.
		pattern := chi.RouteContext(r.Context()).RoutePattern()
		if pattern == "" {
			pattern = "unmatched"
		}
		requestsTotal.WithLabelValues(r.Method, pattern).Inc()
		s.Logger.Debugw("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
