// Command engine replays a CSV stream of transaction instructions and writes
// the final account snapshots as CSV on stdout. Logs go to stderr so stdout
// stays clean output.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/example/payments-engine/internal/bank"
	"github.com/example/payments-engine/internal/config"
	"github.com/example/payments-engine/internal/csvio"
	"github.com/example/payments-engine/internal/snapshot"
	"github.com/example/payments-engine/internal/stream"
	"github.com/example/payments-engine/pkg/audit"
)

const (
	exitInvalidUsage     = 1
	exitErrorOpeningFile = 2
	exitErrorProcessing  = 3
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(exitInvalidUsage)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "input file must be provided")
		os.Exit(exitInvalidUsage)
	}

	input, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "error opening input file:", err)
		os.Exit(exitErrorOpeningFile)
	}
	defer input.Close()

	if err := run(cfg, logger, input); err != nil {
		fmt.Fprintln(os.Stderr, "error processing transaction instructions:", err)
		os.Exit(exitErrorProcessing)
	}
}

func run(cfg *config.Config, logger *slog.Logger, input *os.File) error {
	ctx := context.Background()

	engine := bank.NewEngine(logger)
	chain := audit.NewChainLogger()
	processor := stream.NewProcessor(engine, logger, chain)

	stats, err := processor.Run(csvio.NewReader(input))
	if err != nil {
		return err
	}

	accounts := engine.Accounts()
	if err := csvio.NewWriter(os.Stdout).WriteAccounts(accounts); err != nil {
		return fmt.Errorf("writing account snapshots: %w", err)
	}

	if err := persistSnapshot(ctx, cfg, accounts); err != nil {
		return err
	}

	logger.Info("run complete",
		"accounts", len(accounts),
		"applied", stats.Applied,
		"rejected", stats.Rejected,
		"malformed", stats.Malformed,
		"audit_entries", chain.Len(),
	)
	return nil
}

func persistSnapshot(ctx context.Context, cfg *config.Config, accounts []bank.Account) error {
	var (
		sink snapshot.Sink
		err  error
	)

	switch cfg.SnapshotSink {
	case config.SinkNone:
		return nil
	case config.SinkSQLite:
		sink, err = snapshot.NewSQLiteSink(cfg.SnapshotDSN)
	case config.SinkPostgres:
		sink, err = snapshot.NewPostgresSink(ctx, cfg.SnapshotDSN)
	}
	if err != nil {
		return fmt.Errorf("opening snapshot sink: %w", err)
	}
	defer sink.Close()

	if err := sink.WriteSnapshot(ctx, accounts); err != nil {
		return fmt.Errorf("persisting snapshot: %w", err)
	}
	return nil
}
