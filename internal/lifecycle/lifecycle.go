// Package lifecycle owns the construction and teardown of one request's
// docxengine.Editor, so handlers never have to remember the release rules
// documented on the Editor/Factory contract themselves.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/docxredline/api/internal/docxengine"
)

// Handle bundles a live editor with its release function. Release is safe
// to call more than once and must be deferred by the caller immediately
// after Create returns without error.
type Handle struct {
	Editor  docxengine.Editor
	release func()
}

// Release tears down the editor's held virtual DOM. Idempotent.
func (h *Handle) Release() {
	if h == nil || h.release == nil {
		return
	}
	h.release()
}

// Create loads buf through factory and returns a Handle wrapping the
// resulting editor. If Load itself fails, any editor it may have partially
// constructed was already released by the factory per the Factory
// contract; Create does not need to (and cannot) clean up further.
func Create(ctx context.Context, factory docxengine.Factory, buf []byte, opts docxengine.LoadOptions) (*Handle, error) {
	editor, err := factory.Load(ctx, buf, opts)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: load document: %w", err)
	}

	released := false
	release := func() {
		if released {
			return
		}
		released = true
		editor.Destroy()
	}

	return &Handle{Editor: editor, release: release}, nil
}
