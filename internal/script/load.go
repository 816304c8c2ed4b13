package script

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults are script-wide timing values applied to steps that leave
// the corresponding field unset.
type Defaults struct {
	TimeoutMs    int `yaml:"timeoutMs,omitempty"`
	SettleMs     int `yaml:"settleMs,omitempty"`
	NavTimeoutMs int `yaml:"navTimeoutMs,omitempty"`
}

// Script is a replay script file: an ordered, fixed list of steps.
type Script struct {
	Name     string   `yaml:"name,omitempty"`
	BaseURL  string   `yaml:"baseUrl,omitempty"`
	Defaults Defaults `yaml:"defaults,omitempty"`
	Steps    []Step   `yaml:"steps"`
}

// Load reads, normalizes and validates a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes a script, resolves URLs against baseUrl, prepends the
// initial navigation when the script starts on an element action,
// normalizes the steps and validates them.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("script has no steps")
	}

	if err := s.resolveURLs(); err != nil {
		return nil, err
	}

	// Recorded sessions often omit the page load that started them.
	if s.BaseURL != "" && s.Steps[0].Action != ActionNavigate {
		first := Step{Action: ActionNavigate, URL: s.BaseURL}
		s.Steps = append([]Step{first}, s.Steps...)
	}

	s.Steps = Normalize(s.Steps)
	s.applyDefaults()

	if err := ValidateAll(s.Steps); err != nil {
		return nil, err
	}
	return &s, nil
}

// resolveURLs turns relative navigation targets into absolute ones
// using baseUrl.
func (s *Script) resolveURLs() error {
	if s.BaseURL == "" {
		return nil
	}
	base, err := url.Parse(s.BaseURL)
	if err != nil || base.Scheme == "" {
		return fmt.Errorf("invalid baseUrl %q", s.BaseURL)
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		if st.Action != ActionNavigate || st.URL == "" {
			continue
		}
		ref, err := url.Parse(st.URL)
		if err != nil {
			return &InvalidStepError{Step: i, Reason: fmt.Sprintf("invalid url %q", st.URL)}
		}
		st.URL = base.ResolveReference(ref).String()
	}
	return nil
}

func (s *Script) applyDefaults() {
	for i := range s.Steps {
		st := &s.Steps[i]
		if st.TimeoutMs == 0 {
			if st.Action == ActionNavigate {
				st.TimeoutMs = s.Defaults.NavTimeoutMs
			} else {
				st.TimeoutMs = s.Defaults.TimeoutMs
			}
		}
		if st.SettleMs == 0 {
			st.SettleMs = s.Defaults.SettleMs
		}
	}
}

// OverrideTimeouts replaces the timeout and settle values of every
// step, for command-line overrides. Zero arguments leave the script
// values untouched.
func (s *Script) OverrideTimeouts(timeoutMs, settleMs int) {
	for i := range s.Steps {
		if timeoutMs > 0 && s.Steps[i].Action != ActionNavigate {
			s.Steps[i].TimeoutMs = timeoutMs
		}
		if settleMs > 0 {
			s.Steps[i].SettleMs = settleMs
		}
	}
}
