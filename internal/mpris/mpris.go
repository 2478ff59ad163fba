//go:build linux

package mpris

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/tideline/internal/playback"
	"github.com/llehouerou/tideline/internal/playlist"
)

const busName = "tideline"

// Adapter connects the playback runner to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
	cancel context.CancelFunc
}

// New creates and starts a new MPRIS adapter. Commands received over D-Bus
// run on ctrl until ctx is done or Close is called.
func New(ctx context.Context, ctrl Controller) (*Adapter, error) {
	ctx, cancel := context.WithCancel(ctx)
	a := &Adapter{cancel: cancel}
	a.server = server.NewServer(busName, &rootAdapter{}, &playerAdapter{ctrl: ctrl, ctx: ctx})

	// Start the server in background
	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	a.cancel()
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Tideline", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/wav", "audio/ogg"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter and optional interfaces.
type playerAdapter struct {
	ctrl Controller
	ctx  context.Context
}

func (p *playerAdapter) do(fn func(*playback.Orchestrator) error) error {
	return p.ctrl.Do(p.ctx, fn)
}

func (p *playerAdapter) Next() error {
	return p.do((*playback.Orchestrator).Next)
}

func (p *playerAdapter) Previous() error {
	return p.do((*playback.Orchestrator).Previous)
}

func (p *playerAdapter) Pause() error {
	return p.do(func(o *playback.Orchestrator) error {
		if o.Status().State != playback.StatePlaying {
			return nil
		}
		return o.PlayPause()
	})
}

func (p *playerAdapter) PlayPause() error {
	return p.do((*playback.Orchestrator).PlayPause)
}

// Stop pauses and rewinds the current track; the queue stays loaded.
func (p *playerAdapter) Stop() error {
	return p.do(func(o *playback.Orchestrator) error {
		st := o.Status()
		if st.State == playback.StatePlaying {
			if err := o.PlayPause(); err != nil {
				return err
			}
		}
		if st.CurrentTrack == nil || st.IsEnded {
			return nil
		}
		return o.SeekToFraction(0)
	})
}

func (p *playerAdapter) Play() error {
	return p.do(func(o *playback.Orchestrator) error {
		if o.Status().State == playback.StatePlaying {
			return nil
		}
		return o.PlayPause()
	})
}

// Seek moves relative to the current position. Seeking past the end skips
// to the next track, as MPRIS requires.
func (p *playerAdapter) Seek(offset types.Microseconds) error {
	return p.do(func(o *playback.Orchestrator) error {
		st := o.Status()
		if st.CurrentTrack == nil || st.CurrentTrack.Duration <= 0 {
			return nil
		}
		d := st.CurrentTrack.Duration
		target := position(st) + time.Duration(offset)*time.Microsecond
		if target >= d {
			return o.Next()
		}
		return o.SeekToFraction(max(float64(target), 0) / float64(d))
	})
}

// SetPosition ignores requests for a track that is no longer current.
func (p *playerAdapter) SetPosition(trackID string, pos types.Microseconds) error {
	return p.do(func(o *playback.Orchestrator) error {
		st := o.Status()
		if st.CurrentTrack == nil || formatTrackID(st.CurrentTrack) != trackID {
			return nil
		}
		d := st.CurrentTrack.Duration
		target := time.Duration(pos) * time.Microsecond
		if target < 0 || target > d || d <= 0 {
			return nil
		}
		return o.SeekToFraction(float64(target) / float64(d))
	})
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.ctrl.Status().State {
	case playback.StatePlaying:
		return types.PlaybackStatusPlaying, nil
	case playback.StatePaused:
		return types.PlaybackStatusPaused, nil
	case playback.StateIdle, playback.StateLoaded, playback.StateEnded:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	track := p.ctrl.Status().CurrentTrack
	if track == nil {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId:     dbus.ObjectPath(formatTrackID(track)),
		Length:      types.Microseconds(track.Duration.Microseconds()),
		Title:       track.Title,
		Album:       track.Album,
		TrackNumber: track.TrackNumber,
	}
	if track.Artist != "" {
		meta.Artist = []string{track.Artist}
	}

	if artPath := FindAlbumArt(track.Path); artPath != "" {
		meta.ArtUrl = "file://" + artPath
	}

	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Position() (int64, error) {
	return position(p.ctrl.Status()).Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.ctrl.Status().HasNext, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.ctrl.Status().HasPrevious, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.ctrl.Status().IsLoaded, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.ctrl.Status().CurrentTrack != nil, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	st := p.ctrl.Status()
	return st.CurrentTrack != nil && !st.IsEnded, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	switch p.ctrl.Status().RepeatMode {
	case playback.RepeatOne:
		return types.LoopStatusTrack, nil
	case playback.RepeatAll:
		return types.LoopStatusPlaylist, nil
	case playback.RepeatOff:
		return types.LoopStatusNone, nil
	}
	return types.LoopStatusNone, nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	mode := playback.RepeatOff
	switch status {
	case types.LoopStatusNone:
	case types.LoopStatusTrack:
		mode = playback.RepeatOne
	case types.LoopStatusPlaylist:
		mode = playback.RepeatAll
	}
	return p.do(func(o *playback.Orchestrator) error {
		o.SetRepeatMode(mode)
		return nil
	})
}

// Shuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) Shuffle() (bool, error) {
	return p.ctrl.Status().Shuffle, nil
}

// SetShuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) SetShuffle(shuffle bool) error {
	return p.do(func(o *playback.Orchestrator) error {
		if o.Status().Shuffle == shuffle {
			return nil
		}
		return o.SwitchShuffle()
	})
}

func position(st playback.Status) time.Duration {
	if st.CurrentTrack == nil {
		return 0
	}
	return time.Duration(st.Progress * float64(st.CurrentTrack.Duration))
}

func formatTrackID(t *playlist.Track) string {
	h := fnv.New64a()
	h.Write([]byte(t.ID))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
