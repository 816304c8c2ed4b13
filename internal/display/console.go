// Package display renders the line-oriented replay log: one start
// line per step and an [OK]/[WARN]/[FAIL] outcome line, plus the
// final summary.
package display

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/v0xg/webreplay/internal/runner"
	"github.com/v0xg/webreplay/internal/script"
)

// Console writes the step log to a writer. Colors are disabled
// automatically when the writer is not a TTY.
type Console struct {
	out  io.Writer
	ok   *color.Color
	warn *color.Color
	fail *color.Color
}

// NewConsole builds a console logger writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{
		out:  out,
		ok:   color.New(color.FgGreen),
		warn: color.New(color.FgYellow),
		fail: color.New(color.FgRed),
	}
}

var _ runner.Events = (*Console)(nil)

// StepStart announces a step before it is attempted.
func (c *Console) StepStart(index, total int, step script.Step) {
	fmt.Fprintf(c.out, "Step %d/%d: %s\n", index+1, total, step)
}

// StepOK records a completed step.
func (c *Console) StepOK(index int, step script.Step, elapsed time.Duration) {
	c.ok.Fprintf(c.out, "  [OK] %s complete (%dms)\n", step.Action, elapsed.Milliseconds())
}

// StepWarn records a recovered failure; the run continues.
func (c *Console) StepWarn(index int, step script.Step, message string) {
	c.warn.Fprintf(c.out, "  [WARN] %s\n", message)
}

// StepFail records the fatal failure that ends the run.
func (c *Console) StepFail(index int, step script.Step, err error) {
	c.fail.Fprintf(c.out, "  [FAIL] %v\n", err)
}

// Summary prints the single final status line for the run.
func (c *Console) Summary(report *runner.Report) {
	if report.Success {
		c.ok.Fprintln(c.out, "[OK] All steps completed successfully")
		return
	}
	c.fail.Fprintf(c.out, "[FAIL] Replay failed: %s\n", report.Error)
	fmt.Fprintf(c.out, "  completed %d of %d attempted steps\n", countOK(report), len(report.Results))
}

// Plan lists the steps of a script without running them.
func (c *Console) Plan(s *script.Script) {
	fmt.Fprintf(c.out, "%s: %d steps\n", s.Name, len(s.Steps))
	for i, step := range s.Steps {
		fmt.Fprintf(c.out, "  [%d] %s\n", i+1, step)
	}
}

func countOK(report *runner.Report) int {
	n := 0
	for _, res := range report.Results {
		if res.Status == runner.StatusOK {
			n++
		}
	}
	return n
}
