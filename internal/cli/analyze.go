package cli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/adjury/internal/model"
)

var (
	analyzeFile    string
	analyzeImage   string
	analyzeContext string
	analyzeJudges  []string
	crossModel     bool
	analyzeJSON    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Put one piece of content in front of a judge panel",
	Long: `Analyze asks every judge on the panel for a verdict on a single piece of
content, with an optional image, and synthesizes a consensus. With
--cross-model the same content is also given to every configured model
family and their agreement is reported.

Example:
  adjury analyze "Double your bitcoin in 24 hours"
  adjury analyze --file ad.txt --image creative.jpg --context "Advertiser: Quick Wealth"
  adjury analyze "Miracle weight loss" --judges meta_ads_integrity,ftc_consumer_protection --cross-model`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addBackendFlags(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "read the content text from a file (- for stdin)")
	analyzeCmd.Flags().StringVar(&analyzeImage, "image", "", "path to an image to analyze with the text")
	analyzeCmd.Flags().StringVar(&analyzeContext, "context", "", "context hint given to every judge")
	analyzeCmd.Flags().StringSliceVar(&analyzeJudges, "judges", nil, "comma-separated judge ids (default from scan.default_judges)")
	analyzeCmd.Flags().BoolVar(&crossModel, "cross-model", false, "compare verdicts across model families")
	analyzeCmd.Flags().StringVar(&analyzeJSON, "json", "-", "output JSON path (- for stdout)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	req, err := analyzeRequest(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

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

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}

	result, err := p.Analyze(ctx, req)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if err := writeJSONFile(analyzeJSON, result); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	printAnalysis(os.Stderr, result)
	return nil
}

// analyzeRequest assembles the request from the argument and flags
func analyzeRequest(args []string, stdin io.Reader) (model.AnalyzeRequest, error) {
	req := model.AnalyzeRequest{
		ContextHint: analyzeContext,
		JudgeIDs:    analyzeJudges,
		CrossModel:  crossModel,
	}

	switch {
	case len(args) == 1 && analyzeFile != "":
		return req, errors.New("pass the text as an argument or with --file, not both")
	case len(args) == 1:
		req.ContentText = args[0]
	case analyzeFile == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return req, fmt.Errorf("read stdin: %w", err)
		}
		req.ContentText = string(data)
	case analyzeFile != "":
		data, err := os.ReadFile(analyzeFile)
		if err != nil {
			return req, fmt.Errorf("read content: %w", err)
		}
		req.ContentText = string(data)
	}

	if analyzeImage != "" {
		data, err := os.ReadFile(analyzeImage)
		if err != nil {
			return req, fmt.Errorf("read image: %w", err)
		}
		req.ImageBase64 = base64.StdEncoding.EncodeToString(data)
	}

	if strings.TrimSpace(req.ContentText) == "" && req.ImageBase64 == "" {
		return req, errors.New("nothing to analyze: give text, --file or --image")
	}
	return req, nil
}
