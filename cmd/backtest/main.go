package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/vantage-lab/senttrade/internal/backtest"
	"github.com/vantage-lab/senttrade/internal/logger"
	"github.com/vantage-lab/senttrade/internal/provider"
	"github.com/vantage-lab/senttrade/internal/types"
	"github.com/vantage-lab/senttrade/internal/version"
	"github.com/vantage-lab/senttrade/pkg/utils"
)

// runAction loads the config, wires the providers, and executes the
// backtest over the configured date range.
func runAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	outputDir := cmd.String("output")
	priceFlag := cmd.String("price-provider")
	sentimentFlag := cmd.String("sentiment-provider")
	seed := cmd.Int("seed")
	noProgress := cmd.Bool("no-progress")

	l, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer l.Sync()

	config, err := backtest.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Date flags override the config file when set.
	if start := cmd.Timestamp("start"); !start.IsZero() {
		config.StartDate = start
	}

	if end := cmd.Timestamp("end"); !end.IsZero() {
		config.EndDate = end
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	prices, err := provider.NewPriceProvider(provider.PriceProviderType(priceFlag), provider.PriceProviderConfig{
		PolygonAPIKey: os.Getenv("POLYGON_API_KEY"),
		SimSeed:       seed,
	})
	if err != nil {
		return fmt.Errorf("failed to create price provider: %w", err)
	}

	sentiment, err := provider.NewSentimentProvider(provider.SentimentProviderType(sentimentFlag), provider.SentimentProviderConfig{
		AlpacaAPIKey:    os.Getenv("ALPACA_API_KEY"),
		AlpacaAPISecret: os.Getenv("ALPACA_API_SECRET"),
		SimSeed:         seed,
	})
	if err != nil {
		return fmt.Errorf("failed to create sentiment provider: %w", err)
	}

	engine, err := backtest.NewEngine(&config, sentiment, prices, l)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	if !noProgress {
		bar := progressbar.Default(int64(backtest.CountTradingDays(config.StartDate, config.EndDate)), "backtesting")
		engine.SetProgressCallback(func(completed, total int, _ time.Time) {
			bar.Set(completed)
		})
	}

	log.Printf("Starting backtest for %d symbols from %s to %s using %s prices and %s sentiment...",
		len(config.Universe),
		config.StartDate.Format("2006-01-02"), config.EndDate.Format("2006-01-02"),
		priceFlag, sentimentFlag)

	report, err := engine.Run(ctx)
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	if err := report.Persist(outputDir, engine.Ledger()); err != nil {
		return fmt.Errorf("failed to persist report: %w", err)
	}

	printSummary(report)
	log.Printf("Report written to %s", outputDir)

	return nil
}

func printSummary(report *backtest.Report) {
	summary := report.Summary

	fmt.Printf("\nRun %s\n", report.RunID)
	fmt.Printf("Trading days:      %d\n", summary.TradingDays)
	fmt.Printf("Trades:            %d (%d wins, %d losses)\n", summary.TotalTrades, summary.WinningTrades, summary.LosingTrades)
	fmt.Printf("Win rate:          %.2f%%\n", summary.WinRate)
	fmt.Printf("Total P&L:         $%.2f\n", summary.TotalPnL)
	fmt.Printf("Total return:      %.2f%%\n", summary.TotalReturnPct)
	fmt.Printf("Max drawdown:      %.2f%%\n", summary.MaxDrawdownPct)
	fmt.Printf("Final capital:     $%.2f\n", summary.FinalCapital)
	fmt.Printf("Avg holding:       %.1f minutes\n", summary.AvgHoldingMinutes)

	for _, reason := range types.AllExitReasons {
		fmt.Printf("  %-12s %d\n", reason, summary.ExitReasons[reason])
	}
}

// schemaAction prints the JSON schema of the config file format.
func schemaAction(ctx context.Context, cmd *cli.Command) error {
	schema, err := utils.GetSchemaFromConfig(backtest.Config{})
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Println(schema)

	return nil
}

// providersAction lists the supported provider backends.
func providersAction(ctx context.Context, cmd *cli.Command) error {
	fmt.Println("Price providers:")

	for _, name := range provider.SupportedPriceProviders() {
		info, _ := provider.GetPriceProviderInfo(name)
		fmt.Printf("  %-12s %s\n", name, info.Description)
	}

	fmt.Println("Sentiment providers:")

	for _, name := range provider.SupportedSentimentProviders() {
		info, _ := provider.GetSentimentProviderInfo(name)
		fmt.Printf("  %-12s %s\n", name, info.Description)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "backtest",
		Usage:   "Sentiment-screened intraday backtesting",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a backtest over a historical date range",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to the backtest config YAML file",
						Required: true,
					},
					&cli.TimestampFlag{
						Name:    "start",
						Aliases: []string{"s"},
						Usage:   "Override the config start date (`YYYY-MM-DD`)",
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
					},
					&cli.TimestampFlag{
						Name:    "end",
						Aliases: []string{"e"},
						Usage:   "Override the config end date (`YYYY-MM-DD`)",
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
					},
					&cli.StringFlag{
						Name:    "price-provider",
						Aliases: []string{"p"},
						Usage:   "Price data provider (polygon, binance, sim)",
						Value:   string(provider.PriceSim),
					},
					&cli.StringFlag{
						Name:    "sentiment-provider",
						Aliases: []string{"n"},
						Usage:   "Sentiment provider (alpaca_news, sim)",
						Value:   string(provider.SentimentSim),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Directory for the report and ledger export",
						Value:   "results",
					},
					&cli.IntFlag{
						Name:  "seed",
						Usage: "Seed for the simulated providers",
						Value: 42,
					},
					&cli.BoolFlag{
						Name:  "no-progress",
						Usage: "Disable the progress bar",
					},
				},
				Action: runAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the config file",
				Action: schemaAction,
			},
			{
				Name:   "providers",
				Usage:  "List the supported data providers",
				Action: providersAction,
			},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, stopping...")
		cancel()
	}()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
