package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/adjury/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Scan many queries from a file",
	Long: `Batch runs one scan per query:
- Read queries from the input file (one per line, # starts a comment)
- Run scans concurrently with a configurable worker count
- Write one JSON report per query

Example:
  adjury batch queries.txt
  adjury batch queries.txt --concurrency 4 --output-dir ./reports
  adjury batch queries.txt --limit 20 --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	addRunFlags(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 2, "number of queries scanned at once")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./adjury-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", time.Hour, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, batchTimeout)
	defer cancel()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}
	processor := worker.NewBatchProcessor(p, concurrency, runRequest())

	fmt.Fprintf(os.Stderr, "⚙️  Scanning queries from %s with %d workers...\n\n", file, concurrency)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	successCount := 0
	failureCount := 0
	for i, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Query, result.Error)
			continue
		}

		path := reportPath(outputDir, i+1, result.Query)
		if err := writeJSONFile(path, result.Result); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Query, err)
			continue
		}
		successCount++

		r := result.Result
		fmt.Fprintf(os.Stderr, "✓ %s (%d violating, %d mixed, %d benign) → %s\n",
			result.Query, len(r.Violating), len(r.Mixed), len(r.Benign), path)
	}

	fmt.Fprintf(os.Stderr, "\n%s\n", banner)
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "%s\n\n", banner)
	fmt.Fprintf(os.Stderr, "  Total:     %d queries\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n\n", outputDir)

	if failureCount > 0 && successCount == 0 {
		return fmt.Errorf("all %d queries failed", failureCount)
	}
	return nil
}
