package script

import (
	"fmt"
	"strings"
	"time"
)

// Action identifies what a step does to the page.
type Action string

const (
	ActionNavigate   Action = "navigate"
	ActionWait       Action = "wait"
	ActionClick      Action = "click"
	ActionFill       Action = "fill"
	ActionSelect     Action = "select"
	ActionHover      Action = "hover"
	ActionScroll     Action = "scroll"
	ActionPress      Action = "press"
	ActionScreenshot Action = "screenshot"
)

// Timing defaults applied when a step or script leaves them unset.
const (
	DefaultTimeoutMs        = 5000
	DefaultSettleMs         = 500
	DefaultNavTimeoutMs     = 30000
	DefaultNavSettleMs      = 1000
	DefaultWaitMs           = 5000
	DefaultKey              = "Enter"
	DefaultScreenshotPrefix = "screenshot_step_"
)

// Step is one planned browser action. Steps are read-only once
// validated; the runner never mutates them.
type Step struct {
	Action   Action `yaml:"action" json:"action"`
	Selector string `yaml:"selector,omitempty" json:"selector,omitempty"`
	// Index picks the n-th element (0-based) when Selector matches
	// several. Zero means first match.
	Index int `yaml:"index,omitempty" json:"index,omitempty"`
	// Value is the text for fill/select. A nil pointer means the value
	// is absent (invalid for those actions); an empty string clears
	// the field.
	Value *string `yaml:"value,omitempty" json:"value,omitempty"`
	URL   string  `yaml:"url,omitempty" json:"url,omitempty"`
	Key   string  `yaml:"key,omitempty" json:"key,omitempty"`
	Path  string  `yaml:"path,omitempty" json:"path,omitempty"`

	DurationMs int `yaml:"durationMs,omitempty" json:"durationMs,omitempty"`
	TimeoutMs  int `yaml:"timeoutMs,omitempty" json:"timeoutMs,omitempty"`
	SettleMs   int `yaml:"settleMs,omitempty" json:"settleMs,omitempty"`
}

// InvalidStepError reports a step that failed construction-time
// validation. The run never starts when any step is invalid.
type InvalidStepError struct {
	Step   int
	Reason string
}

func (e *InvalidStepError) Error() string {
	return fmt.Sprintf("step %d: %s", e.Step, e.Reason)
}

// NeedsSelector reports whether the action targets a page element.
func (a Action) NeedsSelector() bool {
	switch a {
	case ActionClick, ActionFill, ActionSelect, ActionHover:
		return true
	}
	return false
}

// NeedsValue reports whether the action requires a text value.
func (a Action) NeedsValue() bool {
	return a == ActionFill || a == ActionSelect
}

var knownActions = map[Action]bool{
	ActionNavigate:   true,
	ActionWait:       true,
	ActionClick:      true,
	ActionFill:       true,
	ActionSelect:     true,
	ActionHover:      true,
	ActionScroll:     true,
	ActionPress:      true,
	ActionScreenshot: true,
}

// Validate checks a single step. The index is only used for error
// reporting.
func (s Step) Validate(index int) error {
	if !knownActions[s.Action] {
		return &InvalidStepError{Step: index, Reason: fmt.Sprintf("unknown action %q", s.Action)}
	}
	if s.Action.NeedsSelector() {
		if strings.TrimSpace(s.Selector) == "" {
			return &InvalidStepError{Step: index, Reason: fmt.Sprintf("%s requires a selector", s.Action)}
		}
		if !ValidSelector(s.Selector) {
			return &InvalidStepError{Step: index, Reason: fmt.Sprintf("malformed selector %q", s.Selector)}
		}
	}
	if s.Action.NeedsValue() && s.Value == nil {
		return &InvalidStepError{Step: index, Reason: fmt.Sprintf("%s requires a value (use \"\" to clear the field)", s.Action)}
	}
	if s.Action == ActionNavigate && strings.TrimSpace(s.URL) == "" {
		return &InvalidStepError{Step: index, Reason: "navigate requires a url"}
	}
	if s.Index < 0 {
		return &InvalidStepError{Step: index, Reason: "index must not be negative"}
	}
	if s.DurationMs < 0 || s.TimeoutMs < 0 || s.SettleMs < 0 {
		return &InvalidStepError{Step: index, Reason: "durations and timeouts must not be negative"}
	}
	return nil
}

// ValidateAll validates every step in order and returns the first
// violation.
func ValidateAll(steps []Step) error {
	for i, s := range steps {
		if err := s.Validate(i); err != nil {
			return err
		}
	}
	return nil
}

// ValidSelector rejects locator expressions that can never match:
// leading or trailing combinators, angle brackets left over from raw
// element HTML.
func ValidSelector(selector string) bool {
	s := strings.TrimSpace(selector)
	if s == "" {
		return false
	}
	if strings.ContainsAny(s, "<") {
		return false
	}
	if strings.ContainsAny(s[:1], ">+~{}") {
		return false
	}
	if strings.ContainsAny(s[len(s)-1:], ">+~{") {
		return false
	}
	return true
}

// Timeout is the locate-plus-visibility budget for element actions.
func (s Step) Timeout() time.Duration {
	if s.TimeoutMs > 0 {
		return time.Duration(s.TimeoutMs) * time.Millisecond
	}
	return DefaultTimeoutMs * time.Millisecond
}

// Settle is the pause applied after a successful interaction so the
// page can re-render before the next step.
func (s Step) Settle() time.Duration {
	if s.SettleMs > 0 {
		return time.Duration(s.SettleMs) * time.Millisecond
	}
	if s.Action == ActionNavigate {
		return DefaultNavSettleMs * time.Millisecond
	}
	return DefaultSettleMs * time.Millisecond
}

// Duration is the pause length of a wait step.
func (s Step) Duration() time.Duration {
	if s.DurationMs > 0 {
		return time.Duration(s.DurationMs) * time.Millisecond
	}
	return DefaultWaitMs * time.Millisecond
}

// NavTimeout bounds page loads, which are slower than element waits.
func (s Step) NavTimeout() time.Duration {
	if s.TimeoutMs > 0 {
		return time.Duration(s.TimeoutMs) * time.Millisecond
	}
	return DefaultNavTimeoutMs * time.Millisecond
}

// PressKey is the key for press steps, defaulting to Enter.
func (s Step) PressKey() string {
	if s.Key != "" {
		return s.Key
	}
	return DefaultKey
}

// ScreenshotPath is the output file for screenshot steps.
func (s Step) ScreenshotPath(index int) string {
	if s.Path != "" {
		return s.Path
	}
	return fmt.Sprintf("%s%d.png", DefaultScreenshotPrefix, index)
}

// String renders a short human-readable description of the step.
func (s Step) String() string {
	switch s.Action {
	case ActionNavigate:
		return fmt.Sprintf("navigate %s", s.URL)
	case ActionWait:
		return fmt.Sprintf("wait %dms", int(s.Duration().Milliseconds()))
	case ActionFill:
		return fmt.Sprintf("fill %s with %q", s.target(), s.value())
	case ActionSelect:
		return fmt.Sprintf("select %q in %s", s.value(), s.target())
	case ActionPress:
		return fmt.Sprintf("press %s", s.PressKey())
	case ActionScroll:
		return "scroll down"
	case ActionScreenshot:
		return "screenshot"
	default:
		return fmt.Sprintf("%s %s", s.Action, s.target())
	}
}

func (s Step) value() string {
	if s.Value == nil {
		return ""
	}
	return *s.Value
}

func (s Step) target() string {
	if s.Index > 0 {
		return fmt.Sprintf("%s (match %d)", s.Selector, s.Index)
	}
	return s.Selector
}

// Ptr is a convenience for building fill/select values in literals.
func Ptr(v string) *string { return &v }
