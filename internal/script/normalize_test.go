package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAssignsOccurrenceIndexes(t *testing.T) {
	steps := []Step{
		{Action: ActionClick, Selector: ".product-card"},
		{Action: ActionWait, DurationMs: 500},
		{Action: ActionClick, Selector: ".product-card"},
		{Action: ActionClick, Selector: "#checkout"},
		{Action: ActionFill, Selector: ".product-card", Value: Ptr("x")},
	}

	out := Normalize(steps)

	require.Len(t, out, 5)
	assert.Equal(t, 0, out[0].Index)
	assert.Equal(t, 1, out[2].Index)
	assert.Equal(t, 2, out[4].Index)
	// A selector used once keeps the implicit first match.
	assert.Equal(t, 0, out[3].Index)
}

func TestNormalizeKeepsExplicitIndexes(t *testing.T) {
	steps := []Step{
		{Action: ActionClick, Selector: ".row"},
		{Action: ActionClick, Selector: ".row", Index: 4},
	}

	out := Normalize(steps)

	assert.Equal(t, 0, out[0].Index)
	assert.Equal(t, 4, out[1].Index)
}

func TestNormalizeStripsTrackingParams(t *testing.T) {
	steps := []Step{
		{Action: ActionNavigate, URL: "https://shop.example.com/sale?utm_source=mail&utm_campaign=aug&id=42"},
		{Action: ActionNavigate, URL: "https://shop.example.com/item?gclid=abc123"},
		{Action: ActionNavigate, URL: "https://shop.example.com/plain"},
	}

	out := Normalize(steps)

	assert.Equal(t, "https://shop.example.com/sale?id=42", out[0].URL)
	assert.Equal(t, "https://shop.example.com/item", out[1].URL)
	assert.Equal(t, "https://shop.example.com/plain", out[2].URL)
}

func TestNormalizeMergesConsecutiveFills(t *testing.T) {
	steps := []Step{
		{Action: ActionFill, Selector: "#q", Value: Ptr("w")},
		{Action: ActionFill, Selector: "#q", Value: Ptr("wir")},
		{Action: ActionFill, Selector: "#q", Value: Ptr("wireless mouse")},
		{Action: ActionClick, Selector: "#go"},
		{Action: ActionFill, Selector: "#q", Value: Ptr("keyboard")},
	}

	out := Normalize(steps)

	require.Len(t, out, 3)
	assert.Equal(t, "wireless mouse", *out[0].Value)
	assert.Equal(t, ActionClick, out[1].Action)
	assert.Equal(t, "keyboard", *out[2].Value)
}

func TestNormalizeDoesNotMergeDifferentTargets(t *testing.T) {
	steps := []Step{
		{Action: ActionFill, Selector: "#first", Value: Ptr("Ada")},
		{Action: ActionFill, Selector: "#last", Value: Ptr("Lovelace")},
	}

	out := Normalize(steps)
	require.Len(t, out, 2)
}

func TestNormalizeIdempotent(t *testing.T) {
	steps := []Step{
		{Action: ActionNavigate, URL: "https://shop.example.com/?utm_medium=social"},
		{Action: ActionFill, Selector: "#q", Value: Ptr("a")},
		{Action: ActionFill, Selector: "#q", Value: Ptr("ab")},
		{Action: ActionClick, Selector: ".item"},
		{Action: ActionClick, Selector: ".item"},
	}

	once := Normalize(steps)
	twice := Normalize(once)
	assert.Equal(t, once, twice)
}
