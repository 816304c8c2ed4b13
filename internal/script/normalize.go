package script

import (
	"net/url"
	"strings"
)

// Query parameters added by analytics and ad platforms. Replaying
// them changes nothing on the page and ties the script to one
// recorded visit.
var trackingParams = map[string]bool{
	"gclid":   true,
	"fbclid":  true,
	"msclkid": true,
	"igshid":  true,
	"mc_cid":  true,
	"mc_eid":  true,
}

// Normalize cleans a recorded step sequence: merges consecutive fills
// on the same target, strips tracking parameters from navigation
// URLs, and assigns occurrence indexes where the same selector is
// interacted with more than once. Step order is otherwise preserved.
// Normalizing an already-normalized sequence is a no-op.
func Normalize(steps []Step) []Step {
	out := mergeFills(steps)
	for i := range out {
		if out[i].Action == ActionNavigate {
			out[i].URL = stripTracking(out[i].URL)
		}
	}
	assignIndexes(out)
	return out
}

// mergeFills collapses runs of fill steps against the same target,
// keeping the last value. Recorders emit one fill per keystroke
// flush; only the final text matters.
func mergeFills(steps []Step) []Step {
	out := make([]Step, 0, len(steps))
	for _, st := range steps {
		if st.Action == ActionFill && len(out) > 0 {
			prev := &out[len(out)-1]
			if prev.Action == ActionFill && prev.Selector == st.Selector && prev.Index == st.Index {
				*prev = st
				continue
			}
		}
		out = append(out, st)
	}
	return out
}

func stripTracking(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	changed := false
	for key := range q {
		if trackingParams[key] || strings.HasPrefix(strings.ToLower(key), "utm_") {
			q.Del(key)
			changed = true
		}
	}
	if !changed {
		return raw
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// assignIndexes gives the n-th interaction with a repeated selector
// the occurrence index n. Selectors with any explicit index are left
// alone: the author has already disambiguated them.
func assignIndexes(steps []Step) {
	uses := make(map[string][]int)
	explicit := make(map[string]bool)
	for i, st := range steps {
		if !st.Action.NeedsSelector() {
			continue
		}
		uses[st.Selector] = append(uses[st.Selector], i)
		if st.Index != 0 {
			explicit[st.Selector] = true
		}
	}
	for selector, positions := range uses {
		if explicit[selector] || len(positions) < 2 {
			continue
		}
		for occurrence, pos := range positions {
			steps[pos].Index = occurrence
		}
	}
}
