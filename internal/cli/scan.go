package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/adjury/internal/model"
)

var (
	scanLimit   int
	scanJudges  []string
	refresh     bool
	outJSON     string
	timeout     time.Duration
	llmProvider string
	llmModel    string
	narrate     bool
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <query>",
	Short: "Review the ads matching a query with a judge panel",
	Long: `Scan searches the ads library for a query and, for every ad found:
- Fetches the landing page once per distinct URL
- Asks every judge on the panel for an independent verdict
- Synthesizes a consensus and scores scam fingerprints and harm
- Sorts ads into violating, mixed and benign

Example:
  adjury scan "crypto investment"
  adjury scan "weight loss" --limit 20 --judges meta_ads_integrity,ftc_consumer_protection
  adjury scan "forex" --llm-provider anthropic --llm-model claude-3-5-haiku-latest --json report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	addRunFlags(scanCmd)

	scanCmd.Flags().StringVar(&outJSON, "json", "-", "output JSON path (- for stdout)")
	scanCmd.Flags().DurationVar(&timeout, "timeout", 0, "batch deadline (default from scan.deadline)")
}

// addRunFlags registers the flags shared by scan and batch
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&scanLimit, "limit", 0, "max ads per query (default from scan.default_limit)")
	cmd.Flags().StringSliceVar(&scanJudges, "judges", nil, "comma-separated judge ids (default from scan.default_judges)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the result cache")
	addBackendFlags(cmd)
}

// addBackendFlags registers the judge backend overrides
func addBackendFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama, gemini, bedrock)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
	cmd.Flags().BoolVar(&narrate, "narrate", false, "explain panel disagreements")
}

// applyRunFlags overrides config with the flags the user actually set
func applyRunFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("llm-provider") && !strings.EqualFold(llmProvider, cfg.LLM.Provider) {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.APIKey = ""
		cfg.LLM.Model = ""
		applyEnvFallbacks(cfg)
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = llmModel
	}
	if flags.Changed("narrate") {
		cfg.Narrator.Enabled = narrate
	}
}

// runRequest is the request template the run flags describe
func runRequest() model.ScanRequest {
	return model.ScanRequest{
		ItemLimit:    scanLimit,
		JudgeIDs:     scanJudges,
		ForceRefresh: refresh,
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)
	if cmd.Flags().Changed("timeout") {
		cfg.Scan.Deadline = timeout
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}

	req := runRequest()
	req.Query = args[0]

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning: %s\n", req.Query)
		fmt.Fprintf(os.Stderr, "Provider: %s %s\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintln(os.Stderr)
	}

	result, err := p.RunScan(ctx, req)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if err := writeJSONFile(outJSON, result); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	printSummary(os.Stderr, result)
	return nil
}
