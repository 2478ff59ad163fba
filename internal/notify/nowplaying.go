package notify

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/llehouerou/tideline/internal/playback"
	"github.com/llehouerou/tideline/internal/playlist"
)

// Options configures the notifications sent by Watch.
type Options struct {
	Timeout      int32 // ms, -1 = server default
	ShowAlbumArt bool
	Logger       zerolog.Logger
}

// NowPlaying builds the notification announcing t.
func NowPlaying(t playlist.Track, opts Options) Notification {
	title := t.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(t.Path), filepath.Ext(t.Path))
	}
	var info []string
	if t.Artist != "" {
		info = append(info, t.Artist)
	}
	if t.Album != "" {
		info = append(info, t.Album)
	}

	n := Notification{
		Title:   title,
		Body:    strings.Join(info, " · "),
		Timeout: opts.Timeout,
		Urgency: UrgencyLow,
	}
	if opts.ShowAlbumArt {
		n.Icon = findAlbumArt(t.Path)
	}
	return n
}

// PlaybackError builds the notification for a session failure.
func PlaybackError(e playback.ErrorEvent, opts Options) Notification {
	body := e.Err.Error()
	if e.Path != "" {
		body = filepath.Base(e.Path) + ": " + body
	}
	return Notification{
		Title:   "Playback error",
		Body:    body,
		Timeout: opts.Timeout,
		Urgency: UrgencyCritical,
	}
}

// Watch notifies every new current track and every playback error until ctx
// is done or sub ends. A now-playing notification replaces the previous one,
// and is closed when nothing is current anymore.
func Watch(ctx context.Context, sub *playback.Subscription, n Notifier, opts Options) {
	var lastID uint32
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case tc := <-sub.TrackChanged:
			if tc.Current == nil {
				if lastID != 0 {
					if err := n.Close(lastID); err != nil {
						opts.Logger.Debug().Err(err).Msg("close notification")
					}
					lastID = 0
				}
				continue
			}
			notif := NowPlaying(*tc.Current, opts)
			notif.ReplacesID = lastID
			id, err := n.Notify(notif)
			if err != nil {
				opts.Logger.Debug().Err(err).Str("track", tc.Current.ID).Msg("now playing notification")
				continue
			}
			lastID = id
		case e := <-sub.Error:
			if _, err := n.Notify(PlaybackError(e, opts)); err != nil {
				opts.Logger.Debug().Err(err).Msg("error notification")
			}
		}
	}
}
