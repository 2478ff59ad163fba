package playback

import (
	"context"
	"time"
)

// startRefresh polls the session position while playing. Ticks are posted to
// the execution context, so without a Runner nothing is polled.
func (o *Orchestrator) startRefresh() {
	if o.refreshing {
		return
	}
	o.refreshing = true
	if o.post == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	o.refreshCancel = cancel
	post, interval := o.post, o.refreshInterval
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				post(ctx, o.refreshPosition)
			}
		}
	}()
}

func (o *Orchestrator) stopRefresh() {
	if o.refreshCancel != nil {
		o.refreshCancel()
		o.refreshCancel = nil
	}
	o.refreshing = false
}

func (o *Orchestrator) refreshPosition() {
	if !o.refreshing || o.currentTrack == nil {
		return
	}
	o.progress = o.fraction(o.session.CurrentPosition())
}
