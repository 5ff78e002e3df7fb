package usecase

import (
	"context"

	domrepo "EquiScreen/internal/domain/repository"
	"EquiScreen/internal/service/scheduler"
	"EquiScreen/internal/services/indicators"
	applogger "EquiScreen/pkg/logger"
	"EquiScreen/pkg/queue"
)

// RefreshJob consumes scheduled refresh messages and re-runs the filter
// pipeline over the requested universe with every indicator enabled.
type RefreshJob struct {
	pipeline *FilterPipeline
	symbols  *SymbolsUseCase
	frames   []domrepo.Timeframe
	l        *applogger.Logger
}

func NewRefreshJob(pipeline *FilterPipeline, symbols *SymbolsUseCase, frames []domrepo.Timeframe, l *applogger.Logger) *RefreshJob {
	if len(frames) == 0 {
		frames = []domrepo.Timeframe{domrepo.DefaultTimeframe()}
	}
	return &RefreshJob{pipeline: pipeline, symbols: symbols, frames: frames, l: l}
}

func (j *RefreshJob) Name() string { return "filter_refresh_job" }
func (j *RefreshJob) Type() string { return scheduler.RefreshMessageType }

func (j *RefreshJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[scheduler.RefreshPayload](payload)
	if err != nil {
		return err
	}

	symbols, err := j.symbols.Resolve(ctx, p.Universe)
	if err != nil {
		return err
	}

	run, err := j.pipeline.Run(ctx, RunParams{
		Symbols:    symbols,
		TimeFrames: j.frames,
		Selection:  indicators.Selection{BIAS: true, RSI: true, MACD: true},
	})
	if err != nil {
		return err
	}
	if j.l != nil {
		j.l.Info("scheduled refresh completed",
			applogger.Int("symbols", len(symbols)),
			applogger.Int("passed", len(run.Passed)),
			applogger.Int("skipped", len(run.Skipped)),
		)
	}
	return nil
}

var _ queue.Job = (*RefreshJob)(nil)
