package playback

import (
	"context"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tideline/internal/session"
)

func startRunner(t *testing.T, o *Orchestrator) (*Runner, context.Context) {
	t.Helper()
	r := NewRunner(o)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = r.Run(ctx) }()
	return r, ctx
}

func load(ids ...string) func(*Orchestrator) error {
	return func(o *Orchestrator) error {
		return o.LoadQueue(tracks(ids...), LoadOptions{})
	}
}

func start(o *Orchestrator) error { return o.Start(nil) }

func TestRunner_ReconcilesSessionEvents(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		o, m := newTestOrchestrator(t)
		r, ctx := startRunner(t, o)

		require.NoError(t, r.Do(ctx, load("a", "b", "c", "d")))
		require.NoError(t, r.Do(ctx, start))
		assert.Equal(t, "a", r.Status().CurrentTrack.ID)

		m.Emit(session.ItemTransition{Index: 1, Reason: session.ReasonAuto})
		synctest.Wait()

		st := r.Status()
		assert.Equal(t, 1, st.CurrentIndex)
		assert.Equal(t, "b", st.CurrentTrack.ID)
	})
}

func TestRunner_DoReturnsCommandError(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		o, _ := newTestOrchestrator(t)
		r, ctx := startRunner(t, o)

		err := r.Do(ctx, start)

		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestRunner_RefreshesPositionWhilePlaying(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		o, m := newTestOrchestrator(t)
		r, ctx := startRunner(t, o)
		require.NoError(t, r.Do(ctx, load("a", "b")))
		require.NoError(t, r.Do(ctx, start))

		m.SetPosition(30 * time.Second)
		m.Emit(session.IsPlayingChanged{Playing: true})
		time.Sleep(600 * time.Millisecond)
		synctest.Wait()

		assert.InDelta(t, 0.5, r.Status().Progress, 1e-9)

		m.Emit(session.IsPlayingChanged{Playing: false})
		synctest.Wait()
		m.SetPosition(45 * time.Second)
		time.Sleep(2 * time.Second)
		synctest.Wait()

		assert.InDelta(t, 0.5, r.Status().Progress, 1e-9)
	})
}

func TestRefresh_SingleTickerPerPlayback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		o, m := newTestOrchestrator(t)
		var ticks atomic.Int32
		o.post = func(context.Context, func()) { ticks.Add(1) }

		m.SetPlaying(true)
		o.HandleEvent(session.IsPlayingChanged{Playing: true})
		o.HandleEvent(session.IsPlayingChanged{Playing: true})
		time.Sleep(1100 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, int32(2), ticks.Load())

		m.SetPlaying(false)
		o.HandleEvent(session.IsPlayingChanged{Playing: false})
		time.Sleep(time.Second)
		synctest.Wait()

		assert.Equal(t, int32(2), ticks.Load())
	})
}

func TestRunner_PublishesToSubscribers(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		o, _ := newTestOrchestrator(t)
		sub := o.Subscribe()
		r, ctx := startRunner(t, o)

		require.NoError(t, r.Do(ctx, load("a", "b", "c")))
		q := <-sub.QueueChanged
		assert.Len(t, q.Tracks, 3)

		require.NoError(t, r.Do(ctx, start))
		tc := <-sub.TrackChanged
		assert.Equal(t, "a", tc.Current.ID)
	})
}

func TestRunner_StopsWithContext(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		o, _ := newTestOrchestrator(t)
		sub := o.Subscribe()
		r := NewRunner(o)
		ctx, cancel := context.WithCancel(context.Background())
		errc := make(chan error, 1)
		go func() { errc <- r.Run(ctx) }()

		cancel()
		require.NoError(t, <-errc)
		<-sub.Done

		err := r.Do(context.Background(), start)
		assert.ErrorIs(t, err, ErrStopped)
	})
}
