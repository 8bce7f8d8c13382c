package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/movi-app/movi/core/config"
	"github.com/movi-app/movi/core/database"
	domainAuth "github.com/movi-app/movi/domains/auth"
	domainHealth "github.com/movi-app/movi/domains/health"
	domainMovie "github.com/movi-app/movi/domains/movie"
	domainReview "github.com/movi-app/movi/domains/review"
	domainUser "github.com/movi-app/movi/domains/user"
	"github.com/movi-app/movi/infrastructure/valkey"
	"github.com/movi-app/movi/integrations/omdb"
	"github.com/movi-app/movi/pkg/cacheaside"
	"github.com/movi-app/movi/pkg/query"
	"github.com/movi-app/movi/pkg/security"
	"github.com/movi-app/movi/pkg/workerpool"
	"github.com/movi-app/movi/repository"
	"github.com/movi-app/movi/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	memoryCleanupInterval = 5 * time.Minute
	posterWriteWorkers    = 2
	posterWriteQueue      = 256
)

// application holds the wired dependencies shared by the rest and mcp commands.
type application struct {
	db       *gorm.DB
	valkey   *valkey.ResultStore
	registry *prometheus.Registry
	tokens   *security.TokenAuthority
	ctx      context.Context
	cancel   context.CancelFunc
	writes   *workerpool.Pool

	authUsecase   domainAuth.IAuthUsecase
	movieUsecase  domainMovie.IMovieUsecase
	reviewUsecase domainReview.IReviewUsecase
	userUsecase   domainUser.IUserUsecase
	healthUsecase domainHealth.IHealthUsecase
}

func newApplication(cfg *config.Config) (*application, error) {
	db, err := database.NewDatabase(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &application{
		db:       db,
		registry: prometheus.NewRegistry(),
		tokens:   security.NewTokenAuthority(cfg.Security.JWTSecret, cfg.Security.TokenTTL),
		ctx:      ctx,
		cancel:   cancel,
	}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exec := query.NewExecutor(db, cfg.Database.QueryTimeout)
	accessor := cacheaside.NewAccessor(app.newCacheStore(ctx, cfg.Valkey), cfg.Valkey.OpTimeout, cacheaside.NewMetrics(app.registry))

	var posters domainMovie.PosterLookup
	if cfg.OMDB.APIKey != "" {
		posters = omdb.NewClient(omdb.Config{
			APIKey:  cfg.OMDB.APIKey,
			BaseURL: cfg.OMDB.BaseURL,
			Timeout: cfg.OMDB.Timeout,
		}, &http.Client{Timeout: cfg.OMDB.Timeout})
	} else {
		logrus.Info("[OMDB] OMDB_API_KEY not set; missing posters will not be looked up")
	}

	app.writes = workerpool.New("poster_writes", posterWriteWorkers, posterWriteQueue)
	app.writes.RegisterMetrics(app.registry)
	app.writes.Start(ctx)

	movieRepo := repository.NewMovieRepository(exec)
	reviewRepo := repository.NewReviewRepository(exec)
	userRepo := repository.NewUserRepository(exec)

	app.authUsecase = usecase.NewAuthService(userRepo, app.tokens)
	app.movieUsecase = usecase.NewMovieService(movieRepo, accessor, cfg.Cache, posters, app.writes)
	app.reviewUsecase = usecase.NewReviewService(reviewRepo)
	app.userUsecase = usecase.NewUserService(userRepo)
	app.healthUsecase = usecase.NewHealthService(db, accessor)

	return app, nil
}

// newCacheStore connects to Valkey when enabled. When it is disabled or unreachable
// at boot the process caches in memory instead.
func (a *application) newCacheStore(ctx context.Context, cfg config.ValkeyConfig) cacheaside.Store {
	if cfg.Enabled {
		store, err := valkey.Dial(valkey.Config{
			Address:   cfg.Address,
			Password:  cfg.Password,
			DB:        cfg.DB,
			KeyPrefix: cfg.KeyPrefix,
		})
		if err == nil {
			a.valkey = store
			logrus.Infof("[CACHE] using valkey at %s", cfg.Address)
			return store
		}
		logrus.WithError(err).Warn("[CACHE] valkey unavailable, falling back to in-memory cache")
	}

	store := cacheaside.NewMemoryStore()
	store.StartCleanup(ctx, memoryCleanupInterval)
	logrus.Info("[CACHE] using in-memory cache")
	return store
}

// Close stops background work and releases connections.
func (a *application) Close() {
	if a.writes != nil {
		a.writes.Stop()
	}
	a.cancel()
	if a.valkey != nil {
		a.valkey.Close()
	}
	database.Close(a.db)
	logrus.Info("[APP] shutdown complete")
}
