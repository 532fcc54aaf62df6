package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"tradesage/internal/marketdata/yahoo"
	"tradesage/internal/research"
	"tradesage/internal/trace"
	"tradesage/internal/types"
	"tradesage/internal/websearch/exa"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	horizon := flag.Int("horizon", 30, "forecast horizon in days")
	flag.Parse()

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: tradesage [-config config.yaml] [-horizon days] <company name, description, or ticker>")
		os.Exit(2)
	}

	if err := initializeSystem(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	defer func() { _ = trace.Shutdown(ctx) }()

	cfg, err := loadConfig(ctx, *cfgPath)
	if err != nil {
		os.Exit(1)
	}

	market := yahoo.New()
	search := exa.New(cfg.ExaAPIKey)
	svc := research.NewService(cfg, market, search)

	record, err := svc.Fetch(ctx, query, *horizon)
	if err != nil {
		var nf *research.NotFoundError
		if errors.As(err, &nf) {
			fmt.Fprintln(os.Stderr, nf.Error())
		} else {
			fmt.Fprintf(os.Stderr, "fetching market data failed: %v\n", err)
		}
		os.Exit(1)
	}

	printRecord(record)

	narrator := initializeNarrator(ctx, cfg)
	analysis := narrator.Analyze(ctx, record, *horizon)

	fmt.Println("== Analysis ==")
	if analysis.Failed {
		fmt.Println("Analysis unavailable:", analysis.Reason)
	} else {
		fmt.Println(analysis.Text)
	}
}

func printRecord(record *types.MarketRecord) {
	fmt.Printf("%s (%s)\n", record.Name, record.Symbol)
	fmt.Printf("Current Price: %s\n\n", humanize.CommafWithDigits(record.CurrentPrice, 2))

	fmt.Println("== Recent Price Action ==")
	fmt.Println(record.RecentHistory)

	fmt.Println("== Market Context ==")
	fmt.Println(record.Context)
	fmt.Println()
}
