package state

import (
	"context"

	"github.com/llehouerou/tideline/internal/playback"
)

// Watch keeps store up to date with the queue published on sub until ctx is
// done or the subscription ends. Nothing is saved before the first queue
// event, so a restore that fails leaves the previous queue on disk.
//
// from seeds the modes and current track that were set before sub existed.
func Watch(ctx context.Context, sub *playback.Subscription, store Interface, from playback.Status) {
	st := QueueState{
		RepeatMode: from.RepeatMode,
		Shuffle:    from.Shuffle,
	}
	if from.CurrentTrack != nil {
		st.CurrentID = from.CurrentTrack.ID
	}
	loaded := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case q := <-sub.QueueChanged:
			st.Tracks = q.Natural
			loaded = true
		case tc := <-sub.TrackChanged:
			st.CurrentID = ""
			if tc.Current != nil {
				st.CurrentID = tc.Current.ID
			}
		case mc := <-sub.ModeChanged:
			st.RepeatMode = mc.RepeatMode
			st.Shuffle = mc.Shuffle
		}
		if loaded {
			store.SaveQueueDeferred(st)
		}
	}
}
