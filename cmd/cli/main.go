package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/dvloznov/spending-dashboard/internal/config"
	"github.com/dvloznov/spending-dashboard/internal/dashboard"
	"github.com/dvloznov/spending-dashboard/internal/display"
	"github.com/dvloznov/spending-dashboard/internal/domain"
	"github.com/dvloznov/spending-dashboard/internal/logger"
	"github.com/dvloznov/spending-dashboard/internal/report"
	"github.com/dvloznov/spending-dashboard/internal/spending"
	"github.com/dvloznov/spending-dashboard/internal/stats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		printUsage()
		return
	}

	cfg := config.Load()
	log, err := logger.NewFromConfig(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	switch cmd {
	case "overview":
		runOverview(cfg, log)
	case "month":
		runMonth(cfg, log)
	case "databases":
		runDatabases(cfg, log)
	case "export":
		runExport(cfg, log)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Spending Dashboard CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  overview   Show spending per month, most recent first")
	fmt.Println("  month      Show the transactions of one month")
	fmt.Println("  databases  List the Notion databases under NOTION_PAGE_URL")
	fmt.Println("  export     Write the monthly overview as JSON to a GCS bucket")
	fmt.Println("  help       Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func newContext(cfg *config.Config, log zerolog.Logger) (context.Context, context.CancelFunc) {
	budget := cfg.UpstreamTimeout*time.Duration(cfg.UpstreamRetries+1) + time.Minute
	ctx, cancel := context.WithTimeout(context.Background(), budget)
	return logger.WithContext(ctx, log), cancel
}

func openService(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*dashboard.Service, func() error) {
	svc, closeFn, err := dashboard.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open transaction source")
	}
	return svc, closeFn
}

func runOverview(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("overview", flag.ExitOnError)
	limit := fs.Int("limit", 0, "Show at most this many months (0 = all)")
	fs.Parse(os.Args[2:])

	ctx, cancel := newContext(cfg, log)
	defer cancel()

	svc, closeFn := openService(ctx, cfg, log)
	defer closeFn()

	overview, err := svc.Monthly(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build overview")
	}

	months := overview.Months
	if *limit > 0 && *limit < len(months) {
		months = months[:*limit]
	}

	fmt.Printf("\n=== Monthly Spending (%d months) ===\n", overview.Summary.TotalMonths)
	for _, m := range months {
		fmt.Printf("\n%s %d\n", m.MonthName, m.Year)
		fmt.Printf("   Total:        %s (%d transactions)\n", display.Currency(m.TotalSpent), m.TransactionCount)
		fmt.Printf("   Average:      %s\n", display.Currency(m.AverageTransaction))
		fmt.Printf("   Largest:      %s\n", display.Currency(m.LargestTransaction))
		fmt.Printf("   vs previous:  %s\n", display.Percentage(m.PreviousMonthComparison))
		fmt.Printf("   Relative:     %s %d%%\n", bar(m.RelativePercentage), m.RelativePercentage)
	}
	fmt.Printf("\nAverage per month: %s\n\n", display.Currency(overview.Summary.AverageMonthly))
}

func runMonth(cfg *config.Config, log zerolog.Logger) {
	now := time.Now()
	fs := flag.NewFlagSet("month", flag.ExitOnError)
	year := fs.Int("year", now.Year(), "Year")
	month := fs.Int("month", int(now.Month()), "Month (1-12)")
	search := fs.String("search", "", "Match description, merchant or category")
	category := fs.String("category", "", "Exact category (case-insensitive)")
	amountRange := fs.String("amount-range", "", "One of 0-25, 25-100, 100-500, 500+")
	sortBy := fs.String("sort-by", "date", "date, amount or description")
	sortOrder := fs.String("sort-order", "desc", "asc or desc")
	fs.Parse(os.Args[2:])

	target, err := domain.NewMonth(*year, *month)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid year or month")
	}

	ctx, cancel := newContext(cfg, log)
	defer cancel()

	svc, closeFn := openService(ctx, cfg, log)
	defer closeFn()

	view, err := svc.Month(ctx, target, spending.Filters{
		Search:      *search,
		Category:    *category,
		AmountRange: spending.AmountRange(*amountRange),
		SortBy:      spending.SortKey(*sortBy),
		SortOrder:   spending.SortOrder(*sortOrder),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load month")
	}

	loc, _ := cfg.Location()

	s := view.Summary
	fmt.Printf("\n=== %s %d ===\n", s.MonthName, s.Year)
	fmt.Printf("Total:   %s (%d transactions)\n", display.Currency(s.TotalSpent), s.TransactionCount)
	fmt.Printf("Average: %s\n", display.Currency(s.AverageTransaction))
	fmt.Printf("Largest: %s\n", display.Currency(s.LargestTransaction))

	fmt.Printf("\n=== Transactions (%d) ===\n", len(view.Transactions))
	for i, tx := range view.Transactions {
		date, err := display.Date(tx.Date, loc)
		if err != nil {
			date = tx.Date
		}
		fmt.Printf("\n%d. %s\n", i+1, tx.Description)
		fmt.Printf("   Date:     %s\n", date)
		fmt.Printf("   Amount:   %s\n", formatAmount(tx.Amount))
		printOptional("Category", tx.Category)
		printOptional("Merchant", tx.Merchant)
		printOptional("Payment", tx.PaymentMethod)
		printOptional("Notes", tx.Notes)
	}

	if len(view.Categories) > 0 {
		fmt.Printf("\nCategories: %s\n", strings.Join(view.Categories, ", "))
	}
	fmt.Println()
}

func runDatabases(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("databases", flag.ExitOnError)
	fs.Parse(os.Args[2:])

	if cfg.DataSource != config.SourceNotion {
		log.Fatal().Str("data_source", cfg.DataSource).Msg("The databases command needs DATA_SOURCE=notion")
	}

	ctx, cancel := newContext(cfg, log)
	defer cancel()

	notion, err := dashboard.OpenNotion(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open Notion source")
	}

	databases, err := notion.ListDatabases(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list databases")
	}

	fmt.Printf("\n=== Databases (%d) ===\n", len(databases))
	for _, db := range databases {
		marker := " "
		if strings.EqualFold(db.Title, cfg.TransactionsDatabase) {
			marker = "*"
		}
		title := db.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%s %-32s %s\n", marker, title, db.ID)
	}
	fmt.Println()
}

func runExport(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	bucket := fs.String("bucket", cfg.ReportBucket, "GCS bucket or gs:// prefix (or set REPORT_BUCKET env)")
	fs.Parse(os.Args[2:])

	if *bucket == "" {
		log.Fatal().Msg("Usage: cli export -bucket NAME")
	}

	ctx, cancel := newContext(cfg, log)
	defer cancel()

	svc, closeFn := openService(ctx, cfg, log)
	defer closeFn()

	overview, err := svc.Monthly(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build overview")
	}

	var opts []option.ClientOption
	if cfg.GoogleCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleCredentialsFile))
	}
	writer, err := report.NewGCSWriter(ctx, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage writer")
	}
	defer writer.Close()

	uri, err := report.NewExporter(writer).Export(ctx, *bucket, overview)
	if err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	fmt.Printf("Exported %d months to %s\n", len(overview.Months), uri)
}

func formatAmount(amount string) string {
	d, err := stats.ParseAmount(amount)
	if err != nil {
		return amount
	}
	return display.Currency(stats.Currency(d))
}

func printOptional(label string, value *string) {
	if value != nil {
		fmt.Printf("   %-9s %s\n", label+":", *value)
	}
}

// bar renders a 20-cell bar for a 0-100 percentage.
func bar(percent int) string {
	filled := max(0, min(20, percent/5))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", 20-filled) + "]"
}
