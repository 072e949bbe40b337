package service

import (
	"bytes"
	"fmt"
	"io"

	"go.uber.org/atomic"
	"golang.org/x/net/html"
)

// RedirectMarkers are the element ids an external payment redirect page
// injects when it is ready for a native form submission
var RedirectMarkers = []string{"card_number", "bill_to_email", "payment_confirmation"}

// RedirectHook fires the native form submission once the payment redirect
// integration reports every marker. It fires at most once.
type RedirectHook struct {
	fired    atomic.Bool
	onSubmit func()
}

// NewRedirectHook creates a hook calling onSubmit; nil means no-op
func NewRedirectHook(onSubmit func()) *RedirectHook {
	if onSubmit == nil {
		onSubmit = func() {}
	}
	return &RedirectHook{onSubmit: onSubmit}
}

// Notify reports the markers currently present and returns true on the call
// that fires the submission
func (h *RedirectHook) Notify(present []string) bool {
	if !hasAllMarkers(present) {
		return false
	}
	if !h.fired.CompareAndSwap(false, true) {
		return false
	}
	h.onSubmit()
	return true
}

// NotifyDocument detects markers in an HTML document and notifies the hook
func (h *RedirectHook) NotifyDocument(doc []byte) (bool, error) {
	present, err := DetectRedirectMarkers(bytes.NewReader(doc))
	if err != nil {
		return false, err
	}
	return h.Notify(present), nil
}

// DetectRedirectMarkers returns the redirect markers found as element ids
// in an HTML document, in RedirectMarkers order
func DetectRedirectMarkers(r io.Reader) ([]string, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redirect document: %w", err)
	}

	wanted := make(map[string]bool, len(RedirectMarkers))
	for _, m := range RedirectMarkers {
		wanted[m] = false
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key != "id" {
					continue
				}
				if _, ok := wanted[attr.Val]; ok {
					wanted[attr.Val] = true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	found := make([]string, 0, len(RedirectMarkers))
	for _, m := range RedirectMarkers {
		if wanted[m] {
			found = append(found, m)
		}
	}
	return found, nil
}

func hasAllMarkers(present []string) bool {
	seen := make(map[string]bool, len(present))
	for _, p := range present {
		seen[p] = true
	}
	for _, m := range RedirectMarkers {
		if !seen[m] {
			return false
		}
	}
	return true
}
