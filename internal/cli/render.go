package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/adjury/internal/model"
)

// writeJSON writes v as indented JSON
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// writeJSONFile writes v to path, or to stdout when path is "-"
func writeJSONFile(path string, v any) (err error) {
	if path == "-" || path == "" {
		return writeJSON(os.Stdout, v)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()
	return writeJSON(f, v)
}

// printSummary writes a human summary of a run
func printSummary(w io.Writer, r *model.BatchResult) {
	fmt.Fprintf(w, "\n%s\n", banner)
	fmt.Fprintf(w, "  Scan %q\n", r.Query)
	fmt.Fprintf(w, "%s\n\n", banner)

	source := r.Source
	if r.FromCache {
		source += " (cached result)"
	}
	fmt.Fprintf(w, "  Source:     %s\n", source)
	fmt.Fprintf(w, "  Judges:     %s\n", strings.Join(r.Judges, ", "))
	fmt.Fprintf(w, "  Ads:        %d evaluated, %d fetched\n", r.TotalItems, r.OriginalCount)
	fmt.Fprintf(w, "  Violating:  %d\n", len(r.Violating))
	fmt.Fprintf(w, "  Mixed:      %d\n", len(r.Mixed))
	fmt.Fprintf(w, "  Benign:     %d\n", len(r.Benign))
	if len(r.Failures) > 0 {
		fmt.Fprintf(w, "  Failed:     %d\n", len(r.Failures))
	}
	fmt.Fprintf(w, "  Avg harm:   %.1f\n", r.Stats.AvgHarmScore)

	if len(r.Stats.TopPolicyViolations) > 0 {
		fmt.Fprintf(w, "\n  Top violations:\n")
		for _, v := range r.Stats.TopPolicyViolations {
			fmt.Fprintf(w, "    %s  %s (%s)\n", v.Code, v.Name, v.Severity)
		}
	}

	for _, item := range r.Violating {
		fmt.Fprintf(w, "\n  ✗ %s  %-9s harm %3d  %s\n",
			item.Item.ID, item.Consensus.Badge, item.HarmScore, preview(item.Item.Advertiser, 40))
	}
	for _, f := range r.Failures {
		fmt.Fprintf(w, "\n  ! %s  %s\n", f.ItemID, f.Reason)
	}
	fmt.Fprintln(w)
}

// printAnalysis writes a human summary of a single analysis
func printAnalysis(w io.Writer, r *model.AnalysisResult) {
	fmt.Fprintf(w, "\n%s\n", banner)
	fmt.Fprintf(w, "  Analysis %s\n", r.RequestID)
	fmt.Fprintf(w, "%s\n\n", banner)

	content := preview(r.ContentPreview, 60)
	if r.HasImage {
		content += " [+image]"
	}
	fmt.Fprintf(w, "  Content:    %s\n", content)
	fmt.Fprintf(w, "  Consensus:  %s (%s)\n", r.Consensus.Badge, r.Consensus.Category)
	fmt.Fprintf(w, "  Harm:       %d\n", r.HarmScore)

	fmt.Fprintf(w, "\n  Verdicts:\n")
	for _, v := range r.Verdicts {
		fmt.Fprintf(w, "    %-24s %-12s %.2f\n", v.JudgeID, v.Tier, v.Confidence)
	}
	for _, f := range r.JudgeFailures {
		fmt.Fprintf(w, "    %-24s failed (%s)\n", f.JudgeID, f.Kind)
	}
	if r.Consensus.Tension != "" {
		fmt.Fprintf(w, "\n  Tension:    %s\n", r.Consensus.Tension)
	}

	if cm := r.CrossModel; cm != nil {
		escalate := "no"
		if cm.EscalationRecommended {
			escalate = "yes"
		}
		fmt.Fprintf(w, "\n  Cross-model: %s (escalate %s)\n", cm.Agreement, escalate)
		for _, v := range cm.Verdicts {
			fmt.Fprintf(w, "    %-24s %s\n", v.ModelFamily+" ("+v.ModelID+")", v.Tier)
		}
		for _, f := range cm.Failures {
			fmt.Fprintf(w, "    %-24s failed (%s)\n", f.JudgeID, f.Kind)
		}
		if cm.DisagreementSummary != "" {
			fmt.Fprintf(w, "    %s\n", cm.DisagreementSummary)
		}
	}
	fmt.Fprintln(w)
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename turns a query into a safe file name stem
func sanitizeFilename(s string) string {
	s = filenameReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
	s = strings.Trim(s, ".-_")
	if s == "" {
		s = "query"
	}
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// reportPath names the n-th query's report inside dir
func reportPath(dir string, n int, query string) string {
	return filepath.Join(dir, fmt.Sprintf("%03d-%s.json", n, sanitizeFilename(query)))
}
