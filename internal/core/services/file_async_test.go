package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/firmproto/internal/adapters/driven/emulated"
	"github.com/custodia-labs/firmproto/internal/core/domain"
	"github.com/custodia-labs/firmproto/internal/protocols/file"
)

func TestFile_AsyncGatedByRevision(t *testing.T) {
	vol, root := newRoot(t, emulated.VolumeConfig{Revision: file.Revision})

	_, err := root.FlushAsync(emulated.NewEvent())
	var e *domain.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, domain.KindUnsupported, e.Kind)
	assert.True(t, e.Local)

	_, err = root.ReadAsync(make([]byte, 4), emulated.NewEvent())
	assert.ErrorIs(t, err, domain.ErrUnsupported)

	_, err = root.OpenAsync("x", rwc, 0, emulated.NewEvent())
	assert.ErrorIs(t, err, domain.ErrUnsupported)

	assert.Zero(t, vol.TotalCalls())
}

func TestFile_AsyncNilEvent(t *testing.T) {
	_, root := newRoot(t, emulated.VolumeConfig{})
	_, err := root.WriteAsync([]byte("x"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestFile_AsyncCompletesOutOfOrder(t *testing.T) {
	vol, root := newRoot(t, emulated.VolumeConfig{DeferCompletions: true})
	vol.AddFile("one", []byte("first"))
	vol.AddFile("two", []byte("second"))

	h1, err := root.Open("one", file.ModeRead, 0)
	require.NoError(t, err)
	h2, err := root.Open("two", file.ModeRead, 0)
	require.NoError(t, err)

	buf1 := make([]byte, 16)
	buf2 := make([]byte, 16)
	c1, err := h1.ReadAsync(buf1, emulated.NewEvent())
	require.NoError(t, err)
	c2, err := h2.ReadAsync(buf2, emulated.NewEvent())
	require.NoError(t, err)
	assert.Equal(t, 2, vol.Pending())

	done, _, _ := c1.Poll()
	assert.False(t, done)

	require.True(t, vol.Complete(1))
	done, n, err := c2.Poll()
	require.True(t, done)
	require.NoError(t, err)
	assert.Equal(t, "second", string(buf2[:n]))

	done, _, _ = c1.Poll()
	assert.False(t, done)

	require.True(t, vol.Complete(0))
	n, err = c1.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", string(buf1[:n]))

	// a settled completion keeps its result
	n, err = c1.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestFile_AsyncWaitHonoursContext(t *testing.T) {
	vol, root := newRoot(t, emulated.VolumeConfig{DeferCompletions: true})
	c, err := root.FlushAsync(emulated.NewEvent())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	vol.CompleteAll()
	_, err = c.Wait(context.Background())
	assert.NoError(t, err)
}

func TestFile_AsyncErrorStatusOnToken(t *testing.T) {
	vol, root := newRoot(t, emulated.VolumeConfig{})
	vol.AddFile("ro", []byte("data"))

	h, err := root.Open("ro", file.ModeRead, 0)
	require.NoError(t, err)

	c, err := h.WriteAsync([]byte("x"), emulated.NewEvent())
	require.NoError(t, err)
	_, err = c.Wait(context.Background())
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestFile_OpenAsyncAdoptsHandle(t *testing.T) {
	vol, root := newRoot(t, emulated.VolumeConfig{})

	oc, err := root.OpenAsync("made-async.txt", rwc, 0, emulated.NewEvent())
	require.NoError(t, err)
	h, err := oc.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, file.TierAsync, h.Tier())

	c, err := h.WriteAsync([]byte("async"), emulated.NewEvent())
	require.NoError(t, err)
	n, err := c.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	require.NoError(t, h.Close())

	data, ok := vol.Contents("made-async.txt")
	require.True(t, ok)
	assert.Equal(t, "async", string(data))

	// the adopted handle is stable across observations
	done, again, err := oc.Poll()
	require.True(t, done)
	require.NoError(t, err)
	assert.Same(t, h, again)
}

func TestFile_OpenAsyncNotFound(t *testing.T) {
	_, root := newRoot(t, emulated.VolumeConfig{})

	oc, err := root.OpenAsync("missing", file.ModeRead, 0, emulated.NewEvent())
	require.NoError(t, err)
	h, err := oc.Wait(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, h)
}

func TestFile_CloseWithPendingCompletion(t *testing.T) {
	vol, root := newRoot(t, emulated.VolumeConfig{DeferCompletions: true})
	h, err := root.Open("f", rwc, 0)
	require.NoError(t, err)

	c, err := h.FlushAsync(emulated.NewEvent())
	require.NoError(t, err)
	require.NoError(t, h.Close())

	vol.CompleteAll()
	_, err = c.Wait(context.Background())
	assert.NoError(t, err)
}

// impatientEvent reports ctx errors before looking at the signal, as a
// polling foreign event does when the deadline and the completion race.
type impatientEvent struct {
	*emulated.Event
}

func (e impatientEvent) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.Event.Wait(ctx)
}

func TestFile_OpenAsyncResultOutlivesCancelledWait(t *testing.T) {
	vol, root := newRoot(t, emulated.VolumeConfig{DeferCompletions: true})

	oc, err := root.OpenAsync("late.txt", rwc, 0, impatientEvent{emulated.NewEvent()})
	require.NoError(t, err)
	require.True(t, vol.Complete(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h, err := oc.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, h)

	h, err = oc.Wait(context.Background())
	require.NoError(t, err)
	require.NotNil(t, h)
	_, err = h.Write([]byte("kept"))
	require.NoError(t, err)
	require.NoError(t, h.Close())

	done, again, err := oc.Poll()
	assert.True(t, done)
	assert.NoError(t, err)
	assert.Same(t, h, again)

	data, ok := vol.Contents("late.txt")
	require.True(t, ok)
	assert.Equal(t, "kept", string(data))
}
