package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScript = `
name: checkout flow
baseUrl: https://shop.example.com
defaults:
  timeoutMs: 8000
  settleMs: 250
steps:
  - action: navigate
    url: /electronics
  - action: wait
    durationMs: 1000
  - action: click
    selector: "#add-to-cart"
  - action: fill
    selector: "input.qty"
    value: "2"
    timeoutMs: 3000
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sampleScript))
	require.NoError(t, err)

	assert.Equal(t, "checkout flow", s.Name)
	require.Len(t, s.Steps, 4)

	// Relative navigation resolved against baseUrl.
	assert.Equal(t, "https://shop.example.com/electronics", s.Steps[0].URL)

	// Script defaults flow into unset step fields; explicit values win.
	assert.Equal(t, 8000, s.Steps[2].TimeoutMs)
	assert.Equal(t, 250, s.Steps[2].SettleMs)
	assert.Equal(t, 3000, s.Steps[3].TimeoutMs)

	require.NotNil(t, s.Steps[3].Value)
	assert.Equal(t, "2", *s.Steps[3].Value)
}

func TestParsePrependsInitialNavigation(t *testing.T) {
	s, err := Parse([]byte(`
baseUrl: https://shop.example.com
steps:
  - action: click
    selector: "#login"
`))
	require.NoError(t, err)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, ActionNavigate, s.Steps[0].Action)
	assert.Equal(t, "https://shop.example.com", s.Steps[0].URL)
	assert.Equal(t, ActionClick, s.Steps[1].Action)
}

func TestParseEmptyValueStaysDistinctFromAbsent(t *testing.T) {
	s, err := Parse([]byte(`
steps:
  - action: fill
    selector: "#q"
    value: ""
`))
	require.NoError(t, err)
	require.NotNil(t, s.Steps[0].Value)
	assert.Equal(t, "", *s.Steps[0].Value)

	_, err = Parse([]byte(`
steps:
  - action: fill
    selector: "#q"
`))
	var invalid *InvalidStepError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, err.Error(), "fill requires a value")
}

func TestParseRejectsInvalidScripts(t *testing.T) {
	cases := map[string]string{
		"no steps":     `name: empty`,
		"bad yaml":     `steps: [`,
		"bad action":   "steps:\n  - action: teleport\n",
		"bad baseUrl":  "baseUrl: \"::notaurl\"\nsteps:\n  - action: wait\n",
		"bad selector": "steps:\n  - action: click\n    selector: \"> div\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestLoadNameFallsBackToFilename(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smoke-test.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - action: wait\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "smoke-test", s.Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestOverrideTimeouts(t *testing.T) {
	s, err := Parse([]byte(sampleScript))
	require.NoError(t, err)

	s.OverrideTimeouts(1234, 42)
	for _, st := range s.Steps {
		if st.Action == ActionNavigate {
			assert.NotEqual(t, 1234, st.TimeoutMs)
		} else {
			assert.Equal(t, 1234, st.TimeoutMs)
		}
		assert.Equal(t, 42, st.SettleMs)
	}

	// Zero means keep script values.
	before := s.Steps[2].TimeoutMs
	s.OverrideTimeouts(0, 0)
	assert.Equal(t, before, s.Steps[2].TimeoutMs)
}
