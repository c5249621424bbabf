package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/adjury/internal/consensus"
	"github.com/ppiankov/adjury/internal/llm"
	"github.com/ppiankov/adjury/internal/model"
	"github.com/ppiankov/adjury/internal/panel"
	"github.com/ppiankov/adjury/internal/score"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	maxAnalyzeText    = 10_000
	maxImageBytes     = 5 << 20
	analyzePreviewLen = 200
)

// ErrNoVerdicts means every judge failed for a single analysis
var ErrNoVerdicts = errors.New("no judge produced a verdict")

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Analyze rules on one piece of content with a judge panel and, when
// asked, compares model families on the same content. The jury is
// required; a failed cross-model comparison is logged and left out.
func (p *Pipeline) Analyze(ctx context.Context, req model.AnalyzeRequest) (*model.AnalysisResult, error) {
	text := strings.TrimSpace(req.ContentText)
	if utf8.RuneCountInString(text) > maxAnalyzeText {
		return nil, fmt.Errorf("%w: content text exceeds %d characters", ErrInvalidRequest, maxAnalyzeText)
	}
	image, err := decodeImage(req.ImageBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if text == "" && image == nil {
		return nil, fmt.Errorf("%w: content text or an image is required", ErrInvalidRequest)
	}
	judgeIDs, err := p.panelFor(req.JudgeIDs)
	if err != nil {
		return nil, err
	}

	if d := p.cfg.Scan.Deadline; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	evalReq := llm.EvaluateRequest{ContentText: text, ContextHint: strings.TrimSpace(req.ContextHint), Image: image}
	coordinator := panel.NewCoordinator(p.judge, panel.NewSlots(p.cfg.Concurrency.JudgeWorkers), p.logger)

	var (
		verdicts      model.VerdictSet
		judgeFailures []model.JudgeFailure
		cross         *model.CrossModelResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		verdicts, judgeFailures, err = coordinator.Evaluate(gctx, evalReq, judgeIDs)
		return err
	})
	if req.CrossModel {
		g.Go(func() error {
			res, err := p.crossModel.Run(gctx, evalReq)
			if err != nil {
				p.logger.Warn("cross-model analysis skipped", zap.Error(err))
				return nil
			}
			cross = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(verdicts) == 0 {
		return nil, fmt.Errorf("%w (%d failed)", ErrNoVerdicts, len(judgeFailures))
	}

	result := consensus.Synthesize(verdicts)
	if result.Badge != model.BadgeUnanimous {
		result.Narrative, result.Tension = consensus.Narrate(ctx, p.narrator, verdicts, text, p.logger)
	}

	fps := p.scorer.Fingerprints(text)
	out := &model.AnalysisResult{
		RequestID:      p.newID(),
		ContentPreview: analyzePreview(text),
		HasImage:       image != nil,
		Judges:         judgeIDs,
		Verdicts:       verdicts,
		JudgeFailures:  judgeFailures,
		Consensus:      result,
		Fingerprints:   fps,
		Violations:     p.scorer.Violations(fps),
		HarmScore:      score.Harm(fps, result.Distribution),
		CrossModel:     cross,
		AnalyzedAt:     p.now().UTC(),
	}

	p.logger.Info("analysis complete",
		zap.String("request_id", out.RequestID),
		zap.String("badge", string(result.Badge)),
		zap.Int("verdicts", len(verdicts)),
		zap.Int("failed", len(judgeFailures)),
		zap.Bool("cross_model", cross != nil))
	return out, nil
}

// decodeImage accepts raw base64 or a data URL. The type is sniffed from
// the bytes, not taken from the data URL.
func decodeImage(encoded string) (*llm.Image, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, nil
	}
	if strings.HasPrefix(encoded, "data:") {
		_, after, ok := strings.Cut(encoded, ",")
		if !ok {
			return nil, errors.New("malformed image data URL")
		}
		encoded = after
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("image is not valid base64: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	mime := http.DetectContentType(data)
	if !imageTypes[mime] {
		return nil, fmt.Errorf("unsupported image type %s", mime)
	}
	return &llm.Image{Data: data, MIMEType: mime}, nil
}

func analyzePreview(text string) string {
	if utf8.RuneCountInString(text) <= analyzePreviewLen {
		return text
	}
	return consensus.Preview(text, analyzePreviewLen) + "..."
}
