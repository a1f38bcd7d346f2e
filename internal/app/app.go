package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/scorecast/scorecast/internal/config"
	"github.com/scorecast/scorecast/internal/domain/achievement"
	"github.com/scorecast/scorecast/internal/domain/league"
	"github.com/scorecast/scorecast/internal/domain/match"
	"github.com/scorecast/scorecast/internal/domain/notification"
	"github.com/scorecast/scorecast/internal/domain/prediction"
	"github.com/scorecast/scorecast/internal/infrastructure/account"
	"github.com/scorecast/scorecast/internal/infrastructure/notify"
	"github.com/scorecast/scorecast/internal/infrastructure/repository/memory"
	"github.com/scorecast/scorecast/internal/infrastructure/repository/postgres"
	"github.com/scorecast/scorecast/internal/interfaces/httpapi"
	idgen "github.com/scorecast/scorecast/internal/platform/id"
	"github.com/scorecast/scorecast/internal/platform/logging"
	"github.com/scorecast/scorecast/internal/platform/resilience"
	"github.com/scorecast/scorecast/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

// App holds the wired service: the HTTP server plus the sweep runner
// that drives time-based transitions.
type App struct {
	Server *http.Server
	Sweeps *usecase.SweepService

	sweepEnabled  bool
	sweepInterval time.Duration
	logger        *logging.Logger
	closeStore    func() error
}

type repositories struct {
	matches       match.Repository
	predictions   prediction.Repository
	leagues       league.Repository
	achievements  achievement.Repository
	notifications notification.Repository
	close         func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	idGen := idgen.NewRandomGenerator()
	notifier := notify.NewStoreNotifier(repos.notifications, idGen)

	achievementSvc := usecase.NewAchievementService(repos.achievements, repos.predictions, notifier, idGen, logger)
	settlementSvc := usecase.NewSettlementService(repos.matches, repos.predictions, achievementSvc, notifier, logger)
	boards := usecase.NewLeaderboardService(repos.leagues, repos.matches, repos.predictions, logger)
	leagueSvc := usecase.NewLeagueService(repos.leagues, boards, notifier, idGen, logger)
	predictionSvc := usecase.NewPredictionService(repos.predictions, repos.matches, achievementSvc, idGen, logger)
	matchSvc := usecase.NewMatchService(repos.matches, settlementSvc, idGen, logger)
	notificationSvc := usecase.NewNotificationService(repos.notifications)
	sweepSvc := usecase.NewSweepService(repos.matches, repos.leagues, settlementSvc, boards, achievementSvc, logger)

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: cfg.AccountCircuitFailureCount,
		OpenTimeout:      cfg.AccountCircuitOpenTimeout,
		HalfOpenMaxReq:   cfg.AccountCircuitHalfOpenMaxReq,
	})
	verifier := account.NewClient(
		&http.Client{Timeout: cfg.AccountTimeout},
		cfg.AccountBaseURL,
		cfg.AccountIntrospectPath,
		resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		logger,
	)

	handler := httpapi.NewHandler(
		matchSvc,
		predictionSvc,
		settlementSvc,
		leagueSvc,
		achievementSvc,
		notificationSvc,
		sweepSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	if cfg.HTTPAddr == "" {
		_ = repos.close()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		Server:        server,
		Sweeps:        sweepSvc,
		sweepEnabled:  cfg.SweepEnabled,
		sweepInterval: cfg.SweepInterval,
		logger:        logger,
		closeStore:    repos.close,
	}, nil
}

// StartSweeps runs the periodic sweeps until ctx is cancelled.
func (a *App) StartSweeps(ctx context.Context) {
	if !a.sweepEnabled {
		a.logger.Info("sweeps disabled", "reason", "SWEEP_ENABLED=false")
		return
	}
	a.logger.Info("sweeps starting", "interval", a.sweepInterval.String())
	go a.Sweeps.Start(ctx, a.sweepInterval)
}

// Close releases the storage layer. The HTTP server is shut down by the
// caller before this.
func (a *App) Close() error {
	if a.closeStore == nil {
		return nil
	}
	return a.closeStore()
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Info("storage driver", "driver", config.StorageMemory)
		matches := memory.NewMatchRepository(memory.SeedMatches(time.Now()))
		return repositories{
			matches:       matches,
			predictions:   memory.NewPredictionRepository(nil, matches),
			leagues:       memory.NewLeagueRepository(nil),
			achievements:  memory.NewAchievementRepository(achievement.DefaultCatalog()),
			notifications: memory.NewNotificationRepository(),
			close:         func() error { return nil },
		}, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return repositories{}, err
	}
	if err := postgres.SeedAchievementCatalog(ctx, db); err != nil {
		_ = db.Close()
		return repositories{}, fmt.Errorf("seed achievement catalog: %w", err)
	}

	logger.Info("storage driver", "driver", config.StoragePostgres, "db", dbNameFromURL(cfg.DBURL))
	return repositories{
		matches:       postgres.NewMatchRepository(db),
		predictions:   postgres.NewPredictionRepository(db),
		leagues:       postgres.NewLeagueRepository(db),
		achievements:  postgres.NewAchievementRepository(db),
		notifications: postgres.NewNotificationRepository(db),
		close:         db.Close,
	}, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}
