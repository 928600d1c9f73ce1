package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/cadence-fantasy/cadence-api/external/openai"
	"github.com/cadence-fantasy/cadence-api/external/sleeper"
	"github.com/cadence-fantasy/cadence-api/internal/config"
	"github.com/cadence-fantasy/cadence-api/internal/domain/player"
	"github.com/cadence-fantasy/cadence-api/internal/domain/playerstats"
	cacherepo "github.com/cadence-fantasy/cadence-api/internal/infrastructure/repository/cache"
	"github.com/cadence-fantasy/cadence-api/internal/interfaces/httpapi"
	"github.com/cadence-fantasy/cadence-api/internal/platform/cache"
	idgen "github.com/cadence-fantasy/cadence-api/internal/platform/id"
	"github.com/cadence-fantasy/cadence-api/internal/platform/logging"
	"github.com/cadence-fantasy/cadence-api/internal/platform/resilience"
	"github.com/cadence-fantasy/cadence-api/internal/infrastructure/repository/postgres"
	"github.com/cadence-fantasy/cadence-api/internal/usecase"

	_ "github.com/lib/pq"
)

// OpenDB opens the Postgres pool with otel query tracing.
func OpenDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// BuildServices wires repositories, external clients and usecase services.
type Services struct {
	PlayerSync  *usecase.PlayerSyncService
	StatsImport *usecase.StatsImportService
	Search      *usecase.PlayerSearchService
	Compare     *usecase.CompareService
	Chat        *usecase.ChatService
	Sleeper     *sleeper.Client
}

func BuildServices(cfg config.Config, db *sqlx.DB, zlog *logging.Logger) Services {
	var playerRepo player.Repository = postgres.NewPlayerRepository(db)
	var statsRepo playerstats.Repository = postgres.NewPlayerStatsRepository(db)
	if cfg.CacheEnabled {
		store := cache.NewStore(cfg.CacheTTL)
		playerRepo = cacherepo.NewPlayerRepository(playerRepo, store)
		statsRepo = cacherepo.NewPlayerStatsRepository(statsRepo, store)
	}

	sleeperClient := sleeper.NewClient(sleeper.ClientConfig{
		BaseURL:    cfg.SleeperBaseURL,
		Timeout:    cfg.SleeperTimeout,
		MaxRetries: cfg.SleeperMaxRetries,
		Logger:     zlog,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SleeperCircuitEnabled,
			FailureThreshold: cfg.SleeperCircuitFailureCount,
			OpenTimeout:      cfg.SleeperCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SleeperCircuitHalfOpenMaxReq,
		},
	})

	modelClient := openai.NewClient(openai.ClientConfig{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.OpenAITimeout,
		Logger:  zlog,
	})

	search := usecase.NewPlayerSearchService(playerRepo, zlog)
	compare := usecase.NewCompareService(search, statsRepo, sleeperClient, cache.NewStore(cfg.CacheTTL), zlog)
	chat := usecase.NewChatService(search, compare, modelClient, zlog)
	playerSync := usecase.NewPlayerSyncService(sleeperClient, playerRepo, zlog)
	statsImport := usecase.NewStatsImportService(sleeperClient, playerRepo, statsRepo, usecase.StatsImportConfig{
		SeasonType: cfg.StatsSeasonType,
		WeekDelay:  cfg.StatsWeekDelay,
	}, zlog)

	return Services{
		PlayerSync:  playerSync,
		StatsImport: statsImport,
		Search:      search,
		Compare:     compare,
		Chat:        chat,
		Sleeper:     sleeperClient,
	}
}

func NewHTTPServer(cfg config.Config, db *sqlx.DB, logger *slog.Logger, zlog *logging.Logger) (*http.Server, error) {
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	services := BuildServices(cfg, db, zlog)

	handler := httpapi.NewHandler(
		services.PlayerSync,
		services.StatsImport,
		services.Chat,
		idgen.NewRandomGenerator(),
		debugEnvEntries(cfg),
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.CronSecret)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}

func debugEnvEntries(cfg config.Config) []httpapi.EnvEntry {
	return []httpapi.EnvEntry{
		secretEntry("DB_URL", cfg.DBURL),
		secretEntry("OPENAI_API_KEY", cfg.OpenAIAPIKey),
		secretEntry("CRON_SECRET", cfg.CronSecret),
		{Name: "SLEEPER_BASE_URL", Set: cfg.SleeperBaseURL != "", Prefix: cfg.SleeperBaseURL},
		{Name: "OPENAI_MODEL", Set: cfg.OpenAIModel != "", Prefix: cfg.OpenAIModel},
	}
}

// secretEntry exposes only a 5-character prefix, enough to tell credentials
// apart without leaking them.
func secretEntry(name, value string) httpapi.EnvEntry {
	entry := httpapi.EnvEntry{Name: name, Set: value != ""}
	if len(value) > 5 {
		entry.Prefix = value[:5]
	} else {
		entry.Prefix = value
	}
	return entry
}
