package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/squad-stats/internal/config"
	"github.com/riskibarqy/squad-stats/internal/domain/match"
	"github.com/riskibarqy/squad-stats/internal/domain/player"
	"github.com/riskibarqy/squad-stats/internal/domain/statcache"
	"github.com/riskibarqy/squad-stats/internal/domain/team"
	"github.com/riskibarqy/squad-stats/internal/domain/training"
	"github.com/riskibarqy/squad-stats/internal/infrastructure/jobqueue"
	cacherepo "github.com/riskibarqy/squad-stats/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/squad-stats/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/squad-stats/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/squad-stats/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/squad-stats/internal/platform/cache"
	idgen "github.com/riskibarqy/squad-stats/internal/platform/id"
	"github.com/riskibarqy/squad-stats/internal/platform/logging"
	"github.com/riskibarqy/squad-stats/internal/platform/resilience"
	"github.com/riskibarqy/squad-stats/internal/usecase"
)

type repositories struct {
	teams     team.Repository
	players   player.Repository
	matches   match.Repository
	trainings training.Repository
	statCache statcache.Repository
}

// Container holds the services shared by the api and statsworker binaries.
type Container struct {
	Config    config.Config
	Logger    *logging.Logger
	Matches   *usecase.MatchEventService
	Stats     *usecase.StatisticsService
	Dashboard *usecase.DashboardService
	Reconcile *usecase.ReconcileService

	db        *sqlx.DB
	publisher *jobqueue.AMQPPublisher
}

func Build(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}

	c := &Container{Config: cfg, Logger: logger}
	repos, err := c.buildRepositories(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.CacheEnabled {
		repos = withReadCache(repos, basecache.NewStore(cfg.CacheTTL))
	}

	writer := usecase.NewStatCacheWriter(repos.teams, repos.players, repos.matches, repos.statCache, cfg.MatchLengthMinutes)
	c.Matches = usecase.NewMatchEventService(
		repos.matches,
		repos.teams,
		repos.players,
		writer,
		idgen.NewUUIDGenerator(),
		usecase.MatchEventConfig{LockCompleted: cfg.MatchLockCompleted},
		logger,
	)
	c.Stats = usecase.NewStatisticsService(repos.teams, repos.players, repos.matches, usecase.StatisticsConfig{
		MatchLength:       cfg.MatchLengthMinutes,
		RecentFormDefault: cfg.Stats.RecentFormDefault,
	}, logger)
	c.Dashboard = usecase.NewDashboardService(repos.teams, repos.players, repos.matches, repos.trainings, usecase.DashboardConfig{
		MatchLength:      cfg.MatchLengthMinutes,
		FormLength:       cfg.Stats.RecentFormDefault,
		TopScorersLimit:  cfg.Stats.TopScorersLimit,
		AttendanceWindow: cfg.Stats.AttendanceWindow,
	})
	c.Reconcile = usecase.NewReconcileService(repos.teams, writer, cfg.Reconcile.Workers, logger)

	if cfg.AMQP.Enabled {
		c.publisher = jobqueue.NewAMQPPublisher(AMQPConfig(cfg), logger)
		c.Matches.SetPublisher(c.publisher)
	}

	return c, nil
}

func (c *Container) buildRepositories(ctx context.Context) (repositories, error) {
	switch c.Config.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := openDB(c.Config)
		if err != nil {
			return repositories{}, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return repositories{}, fmt.Errorf("ping postgres: %w", err)
		}
		if c.Config.SeedDemoData {
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				_ = db.Close()
				return repositories{}, fmt.Errorf("seed demo data: %w", err)
			}
			c.Logger.Info("demo data seeded", "driver", c.Config.StoreDriver)
		}
		c.db = db
		return repositories{
			teams:     postgres.NewTeamRepository(db),
			players:   postgres.NewPlayerRepository(db),
			matches:   postgres.NewMatchRepository(db),
			trainings: postgres.NewTrainingRepository(db),
			statCache: postgres.NewStatCacheRepository(db),
		}, nil
	default:
		// The memory store has no write path for rosters, so it always starts
		// from the demo squads.
		store := memory.NewRosterStore(memory.SeedTeams(), memory.SeedPlayers())
		return repositories{
			teams:     memory.NewTeamRepository(store),
			players:   memory.NewPlayerRepository(store),
			matches:   memory.NewMatchRepository(memory.SeedMatches()),
			trainings: memory.NewTrainingRepository(memory.SeedTrainings()),
			statCache: memory.NewStatCacheRepository(store),
		}, nil
	}
}

func withReadCache(repos repositories, store *basecache.Store) repositories {
	return repositories{
		teams:     cacherepo.NewTeamRepository(repos.teams, store),
		players:   cacherepo.NewPlayerRepository(repos.players, store),
		matches:   cacherepo.NewMatchRepository(repos.matches, store),
		trainings: repos.trainings,
		statCache: cacherepo.NewStatCacheRepository(repos.statCache, store),
	}
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	otelsql.ReportDBStatsMetrics(db.DB)
	return db, nil
}

// AMQPConfig maps the broker settings shared by publisher and consumer.
func AMQPConfig(cfg config.Config) jobqueue.AMQPConfig {
	return jobqueue.AMQPConfig{
		URL:              cfg.AMQP.URL,
		Exchange:         cfg.AMQP.Exchange,
		Queue:            cfg.AMQP.Queue,
		PrefetchCount:    cfg.AMQP.PrefetchCount,
		ReconnectBackoff: cfg.AMQP.ReconnectBackoff,
		Breaker: resilience.NormalizeCircuitBreakerConfig(resilience.CircuitBreakerConfig{
			Enabled:          cfg.AMQP.CircuitEnabled,
			FailureThreshold: cfg.AMQP.CircuitFailureCount,
			OpenTimeout:      cfg.AMQP.CircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AMQP.CircuitHalfOpenMaxReq,
		}),
	}
}

func (c *Container) Close() error {
	var errs []error
	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close amqp publisher: %w", err))
		}
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close postgres: %w", err))
		}
	}
	return errors.Join(errs...)
}

func NewHTTPServer(c *Container) (*http.Server, error) {
	cfg := c.Config
	handler := httpapi.NewHandler(c.Matches, c.Stats, c.Dashboard, c.Reconcile, c.Logger)
	router := httpapi.NewRouter(handler, c.Logger, httpapi.RouterConfig{
		ServiceName:         cfg.ServiceName,
		SwaggerEnabled:      cfg.SwaggerEnabled,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		InternalJobToken:    cfg.InternalJobToken,
		CaptureRequestBody:  cfg.Uptrace.Enabled && cfg.Uptrace.CaptureRequestBody,
		RequestBodyMaxBytes: cfg.Uptrace.RequestBodyMaxBytes,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
