package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/dulynoted/internal/logfields"
	"git.home.luguber.info/inful/dulynoted/internal/metrics"
)

// runStages executes stages in order, recording timing and stopping on the
// first error.
func runStages(ctx context.Context, rs *RunState, stages []StageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.Name, ctx.Err())
			rs.Report.recordStage(st.Name, 0, metrics.ResultCanceled, rs.recorder)
			return se
		default:
		}

		slog.Debug("Stage started", logfields.RunID(rs.RunID), logfields.Stage(string(st.Name)))
		t0 := time.Now()
		err := st.Fn(ctx, rs)
		dur := time.Since(t0)

		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultFatal
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				result = metrics.ResultCanceled
			}
		} else if rs.Diagnostics.Len() > rs.diagnosticsSeen {
			result = metrics.ResultWarning
		}
		rs.diagnosticsSeen = rs.Diagnostics.Len()
		rs.Report.recordStage(st.Name, dur, result, rs.recorder)

		slog.Info("Stage complete",
			logfields.RunID(rs.RunID),
			logfields.Stage(string(st.Name)),
			logfields.DurationMS(float64(dur.Microseconds())/1000),
			slog.String("result", string(result)))

		if err != nil {
			if result == metrics.ResultCanceled {
				return newCanceledStageError(st.Name, err)
			}
			return newFatalStageError(st.Name, err)
		}
	}
	return nil
}
