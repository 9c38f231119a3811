package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"waveforge/internal/artifacts"
	"waveforge/internal/config"
	"waveforge/internal/ledger"
	"waveforge/internal/logging"
	"waveforge/internal/media/ffprobe"
	"waveforge/internal/run"
	"waveforge/internal/services"
	"waveforge/internal/services/ffmpeg"
	"waveforge/internal/services/framegen"
	"waveforge/internal/services/segment"
	"waveforge/internal/services/soxcat"
)

// Stage numbers, in execution order.
const (
	StageHashing = iota + 1
	StageSegments
	StageConcat
	StageFrames
	StageVideo
	StageMetadata
)

var stageNames = map[int]string{
	StageHashing:  "hashing",
	StageSegments: "segments",
	StageConcat:   "concat",
	StageFrames:   "frames",
	StageVideo:    "video",
	StageMetadata: "metadata",
}

// audioPresence verifies an audio artifact exists and is nonempty. A
// crashed tool can leave a zero-byte file behind; that must read as
// absent so the stage re-runs.
var audioPresence = artifacts.Postcondition{MinBytes: 1}

// StageName returns the short label for a stage number.
func StageName(stage int) string {
	if name, ok := stageNames[stage]; ok {
		return name
	}
	return fmt.Sprintf("stage%d", stage)
}

// ParseSelector maps an operator-supplied stage selector to the ordered
// list of stages to execute. Accepts "all", a stage number, or a stage
// name.
func ParseSelector(value string) ([]int, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return nil, services.Wrap(services.ErrValidation, "", "parse selector", "stage selector required", nil)
	}
	if trimmed == "all" {
		return []int{StageHashing, StageSegments, StageConcat, StageFrames, StageVideo, StageMetadata}, nil
	}
	for stage, name := range stageNames {
		if trimmed == name || trimmed == fmt.Sprintf("%d", stage) {
			return []int{stage}, nil
		}
	}
	return nil, services.Wrap(services.ErrValidation, "", "parse selector",
		fmt.Sprintf("unknown stage %q (want 1-6, a stage name, or all)", value), nil)
}

// Params carries the per-invocation inputs for stage 1.
type Params struct {
	// InputCSV is the source list of transaction hashes.
	InputCSV string
	// MaxCount truncates the input list. Values < 1 mean no limit.
	MaxCount int
}

// StageResult summarizes one stage's pass over the run's items.
type StageResult struct {
	Stage     string
	Attempted int
	Succeeded int
	Skipped   int
}

// Failed is the number of attempted items that did not succeed.
func (r StageResult) Failed() int {
	return r.Attempted - r.Succeeded
}

type segmentGenerator interface {
	Generate(ctx context.Context, scratchDir, seedHex string) error
}

type audioConcatenator interface {
	Concat(ctx context.Context, input, output string, repeat int) error
}

type frameRenderer interface {
	Render(ctx context.Context, framesDir, audioPath, txHash string) error
}

type videoMuxer interface {
	Mux(ctx context.Context, framesDir, audioPath, outputPath string, frameRate int) error
}

type durationProber interface {
	Duration(ctx context.Context, path string) float64
}

// Option overrides a Pipeline collaborator, primarily for tests.
type Option func(*Pipeline)

// WithSegmentGenerator replaces the stage-2 tool client.
func WithSegmentGenerator(gen segmentGenerator) Option {
	return func(p *Pipeline) { p.segment = gen }
}

// WithConcatenator replaces the stage-3 tool client.
func WithConcatenator(cat audioConcatenator) Option {
	return func(p *Pipeline) { p.concat = cat }
}

// WithFrameRenderer replaces the stage-4 tool client.
func WithFrameRenderer(renderer frameRenderer) Option {
	return func(p *Pipeline) { p.frames = renderer }
}

// WithVideoMuxer replaces the stage-5 tool client.
func WithVideoMuxer(muxer videoMuxer) Option {
	return func(p *Pipeline) { p.video = muxer }
}

// WithDurationProber replaces the stage-6 probe client.
func WithDurationProber(prober durationProber) Option {
	return func(p *Pipeline) { p.probe = prober }
}

// Pipeline drives the stage runners over one run's items.
type Pipeline struct {
	cfg    *config.Config
	layout run.Layout
	store  *ledger.Store
	logger *slog.Logger

	segment segmentGenerator
	concat  audioConcatenator
	frames  frameRenderer
	video   videoMuxer
	probe   durationProber
}

// New wires a pipeline from configuration. Tool clients are constructed
// from the configured binaries unless overridden by options.
func New(cfg *config.Config, layout run.Layout, store *ledger.Store, logger *slog.Logger, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "build pipeline", "config required", nil)
	}
	if store == nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "build pipeline", "ledger store required", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	p := &Pipeline{
		cfg:    cfg,
		layout: layout,
		store:  store,
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}

	var err error
	if p.segment == nil {
		if p.segment, err = segment.New(cfg.Tools.SegmentBinary, cfg.Timeouts.Segment); err != nil {
			return nil, err
		}
	}
	if p.concat == nil {
		if p.concat, err = soxcat.New(cfg.Tools.SoxBinary, cfg.Timeouts.Concat); err != nil {
			return nil, err
		}
	}
	if p.frames == nil {
		if p.frames, err = framegen.New(cfg.Tools.FramegenBinary, cfg.Timeouts.Frames); err != nil {
			return nil, err
		}
	}
	if p.video == nil {
		if p.video, err = ffmpeg.New(cfg.Tools.FFmpegBinary, cfg.Timeouts.Video); err != nil {
			return nil, err
		}
	}
	if p.probe == nil {
		if p.probe, err = ffprobe.New(cfg.Tools.FFprobeBinary, cfg.Timeouts.Probe); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Run executes the selected stages in ascending order and reports one
// summary per stage. Item-level failures never abort the pass; only
// stage-level problems, like a missing mapping file, surface as errors.
//
// An "all" run resumes: items whose outputs already verify are skipped.
// Selecting a single stage regenerates its outputs for every candidate,
// which is how an operator repairs a present-but-corrupt artifact.
func (p *Pipeline) Run(ctx context.Context, selector string, params Params) ([]StageResult, error) {
	stages, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	force := len(stages) == 1

	ctx = services.WithRunID(ctx, p.layout.RunID)
	if err := p.layout.EnsureBase(); err != nil {
		return nil, err
	}

	results := make([]StageResult, 0, len(stages))
	for _, stage := range stages {
		stageCtx := services.WithStage(ctx, StageName(stage))
		log := logging.WithContext(stageCtx, p.logger)
		log.Info("stage starting")

		var result StageResult
		switch stage {
		case StageHashing:
			result, err = p.runHashing(stageCtx, params)
		case StageSegments:
			result, err = p.runSegments(stageCtx, force)
		case StageConcat:
			result, err = p.runConcat(stageCtx, force)
		case StageFrames:
			result, err = p.runFrames(stageCtx, force)
		case StageVideo:
			result, err = p.runVideo(stageCtx, force)
		case StageMetadata:
			result, err = p.runMetadata(stageCtx, force)
		}
		if err != nil {
			return results, err
		}

		log.Info("stage finished",
			logging.Int("attempted", result.Attempted),
			logging.Int("succeeded", result.Succeeded),
			logging.Int("failed", result.Failed()),
			logging.Int("skipped", result.Skipped))
		results = append(results, result)
	}
	return results, nil
}

// itemContext scopes a context and logger to one hash, tagging both with
// a fresh correlation ID so interleaved log lines stay attributable.
func (p *Pipeline) itemContext(ctx context.Context, hash string) (context.Context, *slog.Logger) {
	ctx = services.WithHash(ctx, hash)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	return ctx, logging.WithContext(ctx, p.logger)
}

// failItem records an item failure in the ledger and logs it. The pass
// over remaining items continues regardless.
func (p *Pipeline) failItem(ctx context.Context, log *slog.Logger, item *ledger.Item, err error) {
	log.Error("item failed", logging.Error(err))
	if item == nil {
		return
	}
	item.SetFailed(err.Error())
	if updateErr := p.store.Update(ctx, item); updateErr != nil {
		log.Error("persist failure state", logging.Error(updateErr))
	}
}

// completeItem advances an item's status and persists artifact fields.
func (p *Pipeline) completeItem(ctx context.Context, log *slog.Logger, item *ledger.Item, status ledger.Status) bool {
	item.Advance(status)
	if err := p.store.Update(ctx, item); err != nil {
		log.Error("persist item state", logging.Error(err))
		return false
	}
	return true
}
