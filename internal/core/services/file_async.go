package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/firmproto/internal/core/domain"
	"github.com/custodia-labs/firmproto/internal/core/ports/driven"
	"github.com/custodia-labs/firmproto/internal/core/ports/driving"
	"github.com/custodia-labs/firmproto/internal/logger"
	"github.com/custodia-labs/firmproto/internal/protocols/file"
)

var (
	_ driving.Completion     = (*completion)(nil)
	_ driving.OpenCompletion = (*openCompletion)(nil)
)

// OpenAsync submits an open that completes through ev. Requires
// file.TierAsync.
func (f *File) OpenAsync(name string, mode file.Mode, attrs file.Attribute, ev driven.Event) (driving.OpenCompletion, error) {
	const op = "file.open-ex"
	if ev == nil {
		return nil, domain.NewInvalidParameter(op, "nil event")
	}
	units, err := openArgs(op, name, mode, attrs)
	if err != nil {
		return nil, err
	}

	t := f.lock()
	defer f.mu.Unlock()

	if err := f.requireAsync(op); err != nil {
		return nil, err
	}
	oc := &openCompletion{next: new(driven.FileProtocol)}
	oc.completion = f.newCompletion(op, &driven.IoToken{Event: ev})
	if err := f.finish(op, t.OpenEx(oc.next, units, uint64(mode), uint64(attrs), oc.token)); err != nil {
		f.pending.Add(-1)
		return nil, err
	}
	return oc, nil
}

// ReadAsync submits a read into p that completes through ev. p must not be
// touched until the completion is observed. Requires file.TierAsync.
func (f *File) ReadAsync(p []byte, ev driven.Event) (driving.Completion, error) {
	return f.submit("file.read-ex", p, ev, driven.FileProtocol.ReadEx)
}

// WriteAsync submits a write of p that completes through ev. p must not be
// touched until the completion is observed. Requires file.TierAsync.
func (f *File) WriteAsync(p []byte, ev driven.Event) (driving.Completion, error) {
	return f.submit("file.write-ex", p, ev, driven.FileProtocol.WriteEx)
}

// FlushAsync submits a flush that completes through ev. Requires
// file.TierAsync.
func (f *File) FlushAsync(ev driven.Event) (driving.Completion, error) {
	return f.submit("file.flush-ex", nil, ev, driven.FileProtocol.FlushEx)
}

type tokenSlot func(driven.FileProtocol, *driven.IoToken) domain.Status

func (f *File) submit(op string, p []byte, ev driven.Event, slot tokenSlot) (driving.Completion, error) {
	if ev == nil {
		return nil, domain.NewInvalidParameter(op, "nil event")
	}

	t := f.lock()
	defer f.mu.Unlock()

	if err := f.requireAsync(op); err != nil {
		return nil, err
	}
	c := f.newCompletion(op, &driven.IoToken{Event: ev, BufferSize: uint(len(p)), Buffer: p})
	if err := f.finish(op, slot(t, c.token)); err != nil {
		f.pending.Add(-1)
		return nil, err
	}
	return c, nil
}

// requireAsync gates the token slots on the cached tier.
func (f *File) requireAsync(op string) error {
	if f.tier < file.TierAsync {
		return domain.NewUnsupported(op,
			fmt.Sprintf("requires revision %s, table has %s", file.Revision2, f.rev))
	}
	return nil
}

func (f *File) newCompletion(op string, tok *driven.IoToken) *completion {
	f.pending.Add(1)
	return &completion{
		op:       op,
		token:    tok,
		capacity: len(tok.Buffer),
		observed: func() { f.pending.Add(-1) },
	}
}

// completion binds an accepted token to its event. The token is read only
// after the event is observed signalled.
type completion struct {
	op       string
	token    *driven.IoToken
	capacity int
	observed func()

	once    sync.Once
	settled atomic.Bool
	n       int
	err     error
}

// Wait blocks until the token's event is signalled or ctx is done.
func (c *completion) Wait(ctx context.Context) (int, error) {
	if err := c.token.Event.Wait(ctx); err != nil {
		return 0, err
	}
	c.settle()
	return c.n, c.err
}

// Poll reports whether the token's event is signalled.
func (c *completion) Poll() (bool, int, error) {
	if !c.token.Event.Signaled() {
		return false, 0, nil
	}
	c.settle()
	return true, c.n, c.err
}

func (c *completion) settle() {
	c.once.Do(func() {
		logger.Call(c.op+" (completed)", c.token.Status)
		if _, err := domain.CheckOp(c.op, c.token.Status); err != nil {
			c.err = err
		} else {
			c.n, c.err = checkCount(c.op, c.token.BufferSize, c.capacity)
		}
		c.observed()
		c.settled.Store(true)
	})
}

// openCompletion is a completion whose result is a new handle.
type openCompletion struct {
	*completion
	next *driven.FileProtocol

	adopt  sync.Once
	handle *File
	err    error
}

// Wait blocks until the open completes or ctx is done.
func (c *openCompletion) Wait(ctx context.Context) (driving.FileHandle, error) {
	_, err := c.completion.Wait(ctx)
	if err := c.result(err); err != nil {
		return nil, err
	}
	return c.handle, nil
}

// Poll reports whether the open completed.
func (c *openCompletion) Poll() (bool, driving.FileHandle, error) {
	done, _, err := c.completion.Poll()
	if !done {
		return false, nil, nil
	}
	if err := c.result(err); err != nil {
		return true, nil, err
	}
	return true, c.handle, nil
}

// result adopts the opened table once the token has settled. Until then
// waitErr is a ctx error and passes through, leaving the result for a later
// Wait or Poll.
func (c *openCompletion) result(waitErr error) error {
	if !c.settled.Load() {
		return waitErr
	}
	c.adopt.Do(func() {
		if c.completion.err != nil {
			c.err = c.completion.err
			return
		}
		c.handle, c.err = adoptOpened(c.op, *c.next)
	})
	return c.err
}
