// Package main provides the forage command line interface: recipe
// ingestion, ingredient enrichment, catalog matching and review
// tooling over a local SQLite database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pantrylab/forage/internal/application/enrichment"
	"github.com/pantrylab/forage/internal/infrastructure/ai/together"
	"github.com/pantrylab/forage/internal/infrastructure/cache"
	"github.com/pantrylab/forage/internal/infrastructure/config"
	"github.com/pantrylab/forage/internal/infrastructure/nutrition/nutritionix"
	gormrepo "github.com/pantrylab/forage/internal/infrastructure/persistence/gorm"
	"github.com/pantrylab/forage/internal/infrastructure/persistence/migrations"
	"github.com/pantrylab/forage/internal/infrastructure/persistence/sqlite"
	"github.com/pantrylab/forage/internal/infrastructure/scrape"
	"github.com/pantrylab/forage/internal/ports/inbound"
	"github.com/pantrylab/forage/internal/ports/outbound"
	apperrors "github.com/pantrylab/forage/pkg/errors"
	"github.com/pantrylab/forage/pkg/logger"
)

const usage = `Usage: forage <command> [flags]

Commands:
  ingest -url <url>     scrape a recipe page and run the pipeline
  enrich [-force]       parse and enrich pending ingredients
  match                 link parsed ingredients to the catalog
  unmatched             list ingredients without a nutrition link
  review-log [-limit N] show the newest enrichment audit entries
  pending               list catalog records awaiting approval
  approve -id N [-reject]  resolve a pending catalog record
  migrate               apply database migrations and exit
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error [%s]: %v\n", apperrors.GetCode(err), err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("missing command")
	}
	command := os.Args[1]

	cfg, err := config.Load(os.Getenv("FORAGE_CONFIG"))
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := sqlite.SetupDatabase(cfg.Database.Path, sqlite.ParseLogLevel(cfg.Database.LogLevel))
	if err != nil {
		return err
	}
	if err := migrations.Up(db); err != nil {
		return apperrors.Wrap(err, "failed to apply migrations")
	}
	if command == "migrate" {
		version, dirty, err := migrations.Version(db)
		if err != nil {
			return err
		}
		fmt.Printf("schema version %d (dirty=%v)\n", version, dirty)
		return nil
	}

	svc := buildService(cfg, db, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch command {
	case "ingest":
		return runIngest(ctx, svc, os.Args[2:])
	case "enrich":
		return runEnrich(ctx, svc, os.Args[2:])
	case "match":
		return runMatch(ctx, svc)
	case "unmatched":
		return runUnmatched(ctx, svc)
	case "review-log":
		return runReviewLog(ctx, svc, os.Args[2:])
	case "pending":
		return runPending(ctx, svc)
	case "approve":
		return runApprove(ctx, svc, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func buildService(cfg *config.Config, db *gorm.DB, log *zap.Logger) inbound.EnrichmentService {
	provider := nutritionix.NewClient(cfg.Nutritionix, log)
	if provider == nil {
		log.Warn("nutritionix credentials missing, provider tier disabled")
	}

	var generative outbound.GenerativeClient
	if client := together.NewClient(cfg.AI, log); client != nil {
		generative = client
	} else {
		log.Warn("AI api key missing, generative tiers disabled")
	}

	return enrichment.NewService(
		gormrepo.NewRecipeRepository(db),
		gormrepo.NewIngredientRepository(db),
		gormrepo.NewNutritionRepository(db),
		gormrepo.NewReviewLogRepository(db),
		gormrepo.NewUsageStore(db),
		scrape.NewScraper(log),
		provider,
		generative,
		cache.NewParseCache(cfg.AI.CacheSize, cfg.AI.CacheTTL),
		cfg.Enrichment.ScoreThreshold,
		cfg.Enrichment.FuzzThreshold,
		cfg.AI.DailyQuota,
		log,
	)
}

func runIngest(ctx context.Context, svc inbound.EnrichmentService, args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	url := fs.String("url", "", "recipe page URL")
	fs.Parse(args)
	if *url == "" {
		return fmt.Errorf("ingest requires -url")
	}

	rec, err := svc.IngestRecipe(ctx, *url)
	if err != nil {
		return err
	}
	fmt.Printf("ingested recipe %d: %s\n", rec.ID, rec.Title)
	return nil
}

func runEnrich(ctx context.Context, svc inbound.EnrichmentService, args []string) error {
	fs := flag.NewFlagSet("enrich", flag.ExitOnError)
	force := fs.Bool("force", false, "reprocess parsed but unlinked ingredients")
	fs.Parse(args)

	processed, err := svc.RunEnrichment(ctx, *force)
	if err != nil {
		return err
	}
	fmt.Printf("enriched %d ingredients\n", processed)
	return nil
}

func runMatch(ctx context.Context, svc inbound.EnrichmentService) error {
	linked, err := svc.RunMatching(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("linked %d ingredients\n", linked)
	return nil
}

func runUnmatched(ctx context.Context, svc inbound.EnrichmentService) error {
	rows, err := svc.UnmatchedReport(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("no unmatched ingredients")
		return nil
	}
	for _, row := range rows {
		name := row.NormalizedName
		if name == "" {
			name = "(unparsed)"
		}
		fmt.Printf("%6d  %-30s  %s\n", row.ID, name, row.RawText)
	}
	fmt.Printf("%d unmatched ingredients\n", len(rows))
	return nil
}

func runReviewLog(ctx context.Context, svc inbound.EnrichmentService, args []string) error {
	fs := flag.NewFlagSet("review-log", flag.ExitOnError)
	limit := fs.Int("limit", 20, "number of entries to show")
	fs.Parse(args)

	entries, err := svc.GetReviewLog(ctx, *limit)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		amount := "-"
		if entry.Amount != nil {
			amount = fmt.Sprintf("%g", *entry.Amount)
		}
		unit := "-"
		if entry.Unit != nil {
			unit = *entry.Unit
		}
		fmt.Printf("%s  #%d  %s %s %q  food=%.0f unit=%.0f  [%s]\n",
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			entry.IngredientID, amount, unit, entry.NormalizedName,
			entry.FoodMatchScore, entry.UnitMatchScore,
			strings.Join(entry.FallbackTiers, ","))
	}
	return nil
}

func runPending(ctx context.Context, svc inbound.EnrichmentService) error {
	records, err := svc.PendingRecords(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no pending records")
		return nil
	}
	for _, record := range records {
		fmt.Printf("%6d  %-30s  %.0f kcal per %.0f g\n",
			record.ID, record.NormalizedName,
			record.Nutrients.Calories, record.ServingWeightGrams)
	}
	return nil
}

func runApprove(ctx context.Context, svc inbound.EnrichmentService, args []string) error {
	fs := flag.NewFlagSet("approve", flag.ExitOnError)
	id := fs.Uint("id", 0, "nutrition record id")
	reject := fs.Bool("reject", false, "mark the record rejected instead")
	fs.Parse(args)
	if *id == 0 {
		return fmt.Errorf("approve requires -id")
	}

	if err := svc.SetApproval(ctx, uint(*id), !*reject); err != nil {
		return err
	}
	if *reject {
		fmt.Printf("record %d rejected\n", *id)
	} else {
		fmt.Printf("record %d approved\n", *id)
	}
	return nil
}
