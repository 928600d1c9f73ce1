// Command sleeperctl drives the provider sync pipeline from the terminal:
// inspect the live NFL state, refresh the player directory, import weekly
// stats and check database connectivity without going through the HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/cadence-fantasy/cadence-api/internal/app"
	"github.com/cadence-fantasy/cadence-api/internal/config"
	"github.com/cadence-fantasy/cadence-api/internal/infrastructure/repository/postgres"
	"github.com/cadence-fantasy/cadence-api/internal/platform/logging"
	"github.com/cadence-fantasy/cadence-api/internal/usecase"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		os.Exit(1)
	}

	zlog := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(zlog)
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := strings.ToLower(strings.TrimSpace(os.Args[1]))
	args := os.Args[2:]

	var runErr error
	switch cmd {
	case "status":
		runErr = runStatus(ctx, cfg, zlog)
	case "sync-players":
		runErr = runSyncPlayers(ctx, cfg, zlog)
	case "fetch-stats":
		runErr = runFetchStats(ctx, cfg, zlog, args)
	case "check-db":
		runErr = runCheckDB(ctx, cfg, zlog)
	default:
		printUsage()
		os.Exit(2)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd, runErr)
		os.Exit(1)
	}
}

func runStatus(ctx context.Context, cfg config.Config, zlog *logging.Logger) error {
	services, cleanup, err := buildServices(cfg, zlog, false)
	if err != nil {
		return err
	}
	defer cleanup()

	state, err := services.Sleeper.FetchNFLState(ctx)
	if err != nil {
		return fmt.Errorf("fetch nfl state: %w", err)
	}

	fmt.Printf("season: %d\n", state.Season)
	fmt.Printf("week: %d\n", state.Week)
	fmt.Printf("season_type: %s\n", state.SeasonType)
	return nil
}

func runSyncPlayers(ctx context.Context, cfg config.Config, zlog *logging.Logger) error {
	services, cleanup, err := buildServices(cfg, zlog, true)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := services.PlayerSync.SyncDirectory(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("fetched: %d\n", result.TotalFetched)
	fmt.Printf("eligible: %d\n", result.Eligible)
	fmt.Printf("synced: %d\n", result.Synced)
	fmt.Printf("failed: %d\n", result.Failed)
	if result.FirstError != "" {
		fmt.Printf("first_error: %s\n", result.FirstError)
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d players failed to sync", result.Failed)
	}
	return nil
}

func runFetchStats(ctx context.Context, cfg config.Config, zlog *logging.Logger, args []string) error {
	fs := flag.NewFlagSet("fetch-stats", flag.ExitOnError)
	week := fs.Int("week", 0, "week to import (defaults to the current week)")
	season := fs.Int("season", 0, "season to import (defaults to the current season)")
	through := fs.Bool("through", false, "import every week from 1 through --week")
	if err := fs.Parse(args); err != nil {
		return err
	}

	services, cleanup, err := buildServices(cfg, zlog, true)
	if err != nil {
		return err
	}
	defer cleanup()

	if *week == 0 && *season == 0 {
		result, err := services.StatsImport.ImportCurrentWeek(ctx)
		if err != nil {
			return err
		}
		printWeekResult(result)
		return nil
	}

	// Fill whichever of season/week the caller omitted from the live state.
	if *week == 0 || *season == 0 {
		state, err := services.Sleeper.FetchNFLState(ctx)
		if err != nil {
			return fmt.Errorf("fetch nfl state: %w", err)
		}
		if *week == 0 {
			*week = state.Week
		}
		if *season == 0 {
			*season = state.Season
		}
	}

	if *through {
		weeks := make([]int, 0, *week)
		for w := 1; w <= *week; w++ {
			weeks = append(weeks, w)
		}
		summary, err := services.StatsImport.ImportWeeks(ctx, *season, weeks)
		if err != nil {
			return err
		}
		fmt.Printf("season: %d\n", summary.Season)
		fmt.Printf("imported: %d\n", summary.Imported)
		fmt.Printf("skipped_no_mapping: %d\n", summary.SkippedNoMapping)
		if len(summary.ErroredWeeks) > 0 {
			fmt.Printf("errored_weeks: %s\n", joinInts(summary.ErroredWeeks))
			return fmt.Errorf("%d week(s) failed", len(summary.ErroredWeeks))
		}
		return nil
	}

	result, err := services.StatsImport.ImportWeek(ctx, *season, *week)
	if err != nil {
		return err
	}
	printWeekResult(result)
	return nil
}

func runCheckDB(ctx context.Context, cfg config.Config, zlog *logging.Logger) error {
	db, err := app.OpenDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	total, err := postgres.NewPlayerRepository(db).CountAll(ctx)
	if err != nil {
		return fmt.Errorf("count players: %w", err)
	}

	fmt.Println("database: ok")
	fmt.Printf("players: %d\n", total)
	return nil
}

func printWeekResult(result usecase.WeekImportResult) {
	fmt.Printf("season: %d\n", result.Season)
	fmt.Printf("week: %d\n", result.Week)
	fmt.Printf("imported: %d\n", result.Imported)
	fmt.Printf("skipped_no_mapping: %d\n", result.SkippedNoMapping)
}

// buildServices opens the database only for subcommands that need it; status
// talks to the provider alone.
func buildServices(cfg config.Config, zlog *logging.Logger, needDB bool) (app.Services, func(), error) {
	if !needDB {
		services := app.BuildServices(cfg, nil, zlog)
		return services, func() {}, nil
	}

	db, err := app.OpenDB(cfg)
	if err != nil {
		return app.Services{}, nil, err
	}

	return app.BuildServices(cfg, db, zlog), func() { _ = db.Close() }, nil
}

func joinInts(values []int) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, ",")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <status|sync-players|fetch-stats|check-db> [flags]\n", prog)
	fmt.Fprintln(os.Stderr, "examples:")
	fmt.Fprintf(os.Stderr, "  %s status\n", prog)
	fmt.Fprintf(os.Stderr, "  %s sync-players\n", prog)
	fmt.Fprintf(os.Stderr, "  %s fetch-stats --season=2025 --week=4\n", prog)
	fmt.Fprintf(os.Stderr, "  %s fetch-stats --week=4 --through\n", prog)
	fmt.Fprintf(os.Stderr, "  %s check-db\n", prog)
}
