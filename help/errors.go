package help

import (
	"errors"
	"slices"
)

// ParseErrors accumulates low-level parse failures for one document, such
// as parameter metadata that only decoded through the last-chance path.
//
// Each parse owns its own accumulator; call [ParseErrors.Clear] before
// reusing one for another document. Not safe for concurrent use.
type ParseErrors struct {
	errs []error
}

// Add records err. Nil errors and nil receivers are ignored.
func (p *ParseErrors) Add(err error) {
	if p == nil || err == nil {
		return
	}

	p.errs = append(p.errs, err)
}

// HadErrors reports whether any error was recorded.
func (p *ParseErrors) HadErrors() bool {
	return p != nil && len(p.errs) > 0
}

// Errors returns the recorded errors in order.
func (p *ParseErrors) Errors() []error {
	if p == nil {
		return nil
	}

	return slices.Clone(p.errs)
}

// Err joins the recorded errors, or returns nil.
func (p *ParseErrors) Err() error {
	if !p.HadErrors() {
		return nil
	}

	return errors.Join(p.errs...)
}

// Clear discards all recorded errors.
func (p *ParseErrors) Clear() {
	if p == nil {
		return
	}

	p.errs = nil
}
