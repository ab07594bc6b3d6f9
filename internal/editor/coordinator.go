// Package editor coordinates a transient, modal-like forecast editor: a
// caller shows it and blocks until the editor is committed or cancelled.
package editor

import (
	"context"
	"errors"
	"sync"

	"github.com/i474232898/weather-forecast-state/internal/weather"
)

var (
	// ErrAlreadyVisible is returned by Show while a previous handle is outstanding.
	ErrAlreadyVisible = errors.New("editor is already visible")
	// ErrNotVisible is returned by Commit and Cancel when nothing is shown.
	ErrNotVisible = errors.New("editor is not visible")
	// ErrAlreadyResolved is returned when a handle is resolved twice.
	ErrAlreadyResolved = errors.New("editor handle already resolved")
	// ErrCommitInProgress is returned by Commit and Cancel while a commit is running.
	ErrCommitInProgress = errors.New("editor commit in progress")
)

// Renderer is asked to redraw after every visibility change.
type Renderer interface {
	RequestRender()
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func()

func (f RenderFunc) RequestRender() { f() }

// Committer performs the mutation behind Commit.
type Committer interface {
	AddForecast(ctx context.Context, d weather.Draft) bool
}

// Handle is a one-shot completion signal returned by Show.
type Handle struct {
	mu       sync.Mutex
	done     chan struct{}
	resolved bool
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// Done is closed once the editor is committed or cancelled.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the editor closes. There is no timeout.
func (h *Handle) Wait() {
	<-h.done
}

// Resolved reports whether the handle has completed.
func (h *Handle) Resolved() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.resolved
}

func (h *Handle) resolve() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.resolved {
		return ErrAlreadyResolved
	}
	h.resolved = true
	close(h.done)
	return nil
}

// Coordinator is a single-slot show/await/resolve primitive.
// It starts hidden; Show makes it visible until Commit or Cancel.
type Coordinator struct {
	renderer  Renderer
	committer Committer

	mu         sync.Mutex
	pending    *Handle
	committing bool
}

// New creates a hidden Coordinator.
func New(renderer Renderer, committer Committer) *Coordinator {
	return &Coordinator{renderer: renderer, committer: committer}
}

// Visible reports whether the editor is currently shown.
func (c *Coordinator) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// Pending returns the outstanding handle, if any.
func (c *Coordinator) Pending() (*Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending, c.pending != nil
}

// Show makes the editor visible and returns a handle that completes when it closes.
func (c *Coordinator) Show() (*Handle, error) {
	c.mu.Lock()
	if c.pending != nil {
		c.mu.Unlock()
		return nil, ErrAlreadyVisible
	}
	h := newHandle()
	c.pending = h
	c.mu.Unlock()

	c.renderer.RequestRender()
	return h, nil
}

// Commit adds a forecast built from d, then closes the editor.
// The editor stays visible while the add runs, so Show keeps failing until it closes.
// The editor closes even if the add is rejected; the boolean reports the add.
func (c *Coordinator) Commit(ctx context.Context, d weather.Draft) (bool, error) {
	c.mu.Lock()
	if err := c.checkResolvable(); err != nil {
		c.mu.Unlock()
		return false, err
	}
	c.committing = true
	c.mu.Unlock()

	ok := c.committer.AddForecast(ctx, d)

	c.mu.Lock()
	h := c.pending
	c.pending = nil
	c.committing = false
	c.mu.Unlock()

	return ok, c.finish(h)
}

// Cancel closes the editor without changes.
func (c *Coordinator) Cancel() error {
	c.mu.Lock()
	if err := c.checkResolvable(); err != nil {
		c.mu.Unlock()
		return err
	}
	h := c.pending
	c.pending = nil
	c.mu.Unlock()

	return c.finish(h)
}

// checkResolvable must be called with mu held.
func (c *Coordinator) checkResolvable() error {
	if c.pending == nil {
		return ErrNotVisible
	}
	if c.committing {
		return ErrCommitInProgress
	}
	return nil
}

func (c *Coordinator) finish(h *Handle) error {
	c.renderer.RequestRender()
	return h.resolve()
}
