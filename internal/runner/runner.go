// Package runner executes replay scripts step by step against a
// browser page handle. Execution is strictly sequential: later steps
// depend on DOM state left by earlier ones, so step i+1 is never
// dispatched before step i's outcome is known. Each step is attempted
// exactly once; robustness comes from the visibility gate and settle
// pauses, not retries.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/v0xg/webreplay/internal/script"
)

// Events receives progress notifications during a run. Implementations
// must not block; the console logger in internal/display is the usual
// one.
type Events interface {
	StepStart(index, total int, step script.Step)
	StepOK(index int, step script.Step, elapsed time.Duration)
	StepWarn(index int, step script.Step, message string)
	StepFail(index int, step script.Step, err error)
}

type nopEvents struct{}

func (nopEvents) StepStart(int, int, script.Step)        {}
func (nopEvents) StepOK(int, script.Step, time.Duration) {}
func (nopEvents) StepWarn(int, script.Step, string)      {}
func (nopEvents) StepFail(int, script.Step, error)       {}

// Runner replays step sequences. Zero value is usable; New attaches
// an event sink.
type Runner struct {
	events Events
	name   string
}

// New builds a runner reporting to events. A nil events is allowed.
func New(name string, events Events) *Runner {
	if events == nil {
		events = nopEvents{}
	}
	return &Runner{events: events, name: name}
}

// Run executes steps against page in order and returns a complete
// report even when a step fails. Navigation failures are warnings and
// execution continues; any other failure stops the run at that step.
// The page is closed exactly once before Run returns, on every exit
// path.
func (r *Runner) Run(ctx context.Context, page Page, steps []script.Step) *Report {
	report := &Report{
		RunID:     uuid.NewString(),
		Script:    r.name,
		StartedAt: time.Now(),
		Success:   true,
		Results:   []StepResult{},
	}
	defer func() {
		report.ElapsedMs = time.Since(report.StartedAt).Milliseconds()
		if err := page.Close(); err != nil {
			slog.Debug("page close failed", "error", err)
		}
	}()

	events := r.events
	if events == nil {
		events = nopEvents{}
	}

	total := len(steps)
	for i, step := range steps {
		events.StepStart(i, total, step)
		start := time.Now()
		warning, err := r.execute(ctx, page, i, step)
		elapsed := time.Since(start)

		result := StepResult{
			Step:      i,
			Action:    step.Action,
			ElapsedMs: elapsed.Milliseconds(),
		}
		switch {
		case err != nil:
			result.Status = StatusFailed
			result.Message = err.Error()
			report.Results = append(report.Results, result)
			report.Success = false
			report.FirstError = err
			report.Error = err.Error()
			events.StepFail(i, step, err)
			return report
		case warning != "":
			result.Status = StatusOK
			result.Warning = true
			result.Message = warning
			events.StepWarn(i, step, warning)
		default:
			result.Status = StatusOK
			events.StepOK(i, step, elapsed)
		}
		report.Results = append(report.Results, result)
	}
	return report
}

// execute dispatches one step. It returns a warning message for
// recovered failures (navigation only) or an error for fatal ones.
func (r *Runner) execute(ctx context.Context, page Page, index int, step script.Step) (string, error) {
	slog.Debug("executing step", "step", index, "action", step.Action, "selector", step.Selector)

	switch step.Action {
	case script.ActionNavigate:
		// Best-effort initial load: slow or partial navigation is
		// tolerated because later steps re-verify element presence
		// themselves.
		if err := page.Navigate(ctx, step.URL, step.NavTimeout()); err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return fmt.Sprintf("page load: %v (continuing anyway)", err), nil
		}
		return "", page.Sleep(ctx, step.Settle())

	case script.ActionWait:
		return "", page.Sleep(ctx, step.Duration())

	case script.ActionClick, script.ActionFill, script.ActionSelect, script.ActionHover:
		el := page.Locate(step.Selector, step.Index)
		if err := el.WaitVisible(step.Timeout()); err != nil {
			return "", &ElementTimeoutError{
				Selector: step.Selector,
				Index:    step.Index,
				Timeout:  step.Timeout(),
				Err:      err,
			}
		}
		var err error
		switch step.Action {
		case script.ActionClick:
			err = el.Click()
		case script.ActionFill:
			err = el.Fill(*step.Value)
		case script.ActionSelect:
			err = el.SelectOption(*step.Value)
		case script.ActionHover:
			err = el.Hover()
		}
		if err != nil {
			return "", &InteractionError{Action: step.Action, Selector: step.Selector, Err: err}
		}
		return "", page.Sleep(ctx, step.Settle())

	case script.ActionScroll:
		if err := page.Scroll(ctx); err != nil {
			return "", &InteractionError{Action: step.Action, Err: err}
		}
		return "", page.Sleep(ctx, step.Settle())

	case script.ActionPress:
		if err := page.Press(ctx, step.PressKey()); err != nil {
			return "", &InteractionError{Action: step.Action, Err: err}
		}
		return "", page.Sleep(ctx, step.Settle())

	case script.ActionScreenshot:
		if err := page.Screenshot(step.ScreenshotPath(index)); err != nil {
			return "", &InteractionError{Action: step.Action, Err: err}
		}
		return "", nil

	default:
		return "", &script.InvalidStepError{Step: index, Reason: fmt.Sprintf("unknown action %q", step.Action)}
	}
}
