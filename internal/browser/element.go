package browser

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

// element is a lazy locator: selector plus occurrence index. The DOM
// lookup happens in WaitVisible so the whole locate-and-show budget
// is one deadline.
type element struct {
	page     *rod.Page
	selector string
	index    int
	el       *rod.Element
}

const pollInterval = 100 * time.Millisecond

// WaitVisible polls until the index-th match of the selector exists,
// then waits for it to become visible. Both phases share the timeout.
func (e *element) WaitVisible(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		els, err := e.page.Elements(e.selector)
		if err != nil {
			return err
		}
		if len(els) > e.index {
			e.el = els[e.index]
			break
		}
		if time.Now().After(deadline) {
			if len(els) == 0 {
				return fmt.Errorf("no element matches %q", e.selector)
			}
			return fmt.Errorf("%q has %d matches, need at least %d", e.selector, len(els), e.index+1)
		}
		time.Sleep(pollInterval)
	}

	remaining := time.Until(deadline)
	if remaining < pollInterval {
		remaining = pollInterval
	}
	return e.el.Timeout(remaining).WaitVisible()
}

func (e *element) resolved() (*rod.Element, error) {
	if e.el == nil {
		return nil, fmt.Errorf("element %q not resolved, call WaitVisible first", e.selector)
	}
	return e.el, nil
}

func (e *element) Click() error {
	el, err := e.resolved()
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// Fill replaces the field's text. Selecting everything first makes
// the subsequent input overwrite instead of append; an empty text
// deletes the selection, clearing the field.
func (e *element) Fill(text string) error {
	el, err := e.resolved()
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return err
	}
	if text == "" {
		return el.Type(input.Backspace)
	}
	return el.Input(text)
}

func (e *element) SelectOption(value string) error {
	el, err := e.resolved()
	if err != nil {
		return err
	}
	return el.Select([]string{value}, true, rod.SelectorTypeText)
}

func (e *element) Hover() error {
	el, err := e.resolved()
	if err != nil {
		return err
	}
	return el.Hover()
}

var namedKeys = map[string]input.Key{
	"Enter":      input.Enter,
	"Tab":        input.Tab,
	"Escape":     input.Escape,
	"Backspace":  input.Backspace,
	"Delete":     input.Delete,
	"ArrowUp":    input.ArrowUp,
	"ArrowDown":  input.ArrowDown,
	"ArrowLeft":  input.ArrowLeft,
	"ArrowRight": input.ArrowRight,
	"PageUp":     input.PageUp,
	"PageDown":   input.PageDown,
	"Home":       input.Home,
	"End":        input.End,
}

func lookupKey(name string) (input.Key, error) {
	if k, ok := namedKeys[name]; ok {
		return k, nil
	}
	if len(name) == 1 {
		return input.Key(name[0]), nil
	}
	return 0, fmt.Errorf("unknown key %q", name)
}
