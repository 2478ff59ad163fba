package playerbar

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/tideline/internal/playback"
	"github.com/llehouerou/tideline/internal/playlist"
)

func playingStatus() playback.Status {
	return playback.Status{
		State:        playback.StatePlaying,
		IsPlaying:    true,
		IsLoaded:     true,
		CurrentIndex: 0,
		CurrentTrack: &playlist.Track{
			ID:       "a",
			Title:    "So What",
			Artist:   "Miles Davis",
			Album:    "Kind of Blue",
			Duration: 4 * time.Minute,
		},
		Progress: 0.25,
		QueueLen: 5,
	}
}

func TestView_PlayingTrack(t *testing.T) {
	out := ansi.Strip(New().View(playingStatus(), 80))

	for _, want := range []string{"So What", "Miles Davis", "Kind of Blue", "> 1:00", "4:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("should contain %q, got:\n%s", want, out)
		}
	}
}

func TestView_Idle(t *testing.T) {
	out := ansi.Strip(New().View(playback.Status{CurrentIndex: playlist.NotFound}, 60))

	if !strings.Contains(out, "Nothing playing") {
		t.Errorf("idle bar should say nothing is playing, got:\n%s", out)
	}
	if !strings.Contains(out, "# 0:00") {
		t.Errorf("idle bar should show the stop icon, got:\n%s", out)
	}
}

func TestView_LoadedNotStarted(t *testing.T) {
	st := playback.Status{State: playback.StateLoaded, IsLoaded: true, QueueLen: 12, CurrentIndex: playlist.NotFound}

	out := ansi.Strip(New().View(st, 60))

	if !strings.Contains(out, "12 tracks queued") {
		t.Errorf("got:\n%s", out)
	}
}

func TestView_Width(t *testing.T) {
	for _, width := range []int{30, 60, 120} {
		out := New().View(playingStatus(), width)
		lines := strings.Split(out, "\n")
		if len(lines) != Height {
			t.Errorf("width %d: %d lines, want %d", width, len(lines), Height)
		}
		for i, line := range lines {
			if w := ansi.StringWidth(line); w != width {
				t.Errorf("width %d: line %d is %d wide: %q", width, i, w, ansi.Strip(line))
			}
		}
	}
}

func TestView_Modes(t *testing.T) {
	st := playingStatus()
	st.Shuffle = true
	st.RepeatMode = playback.RepeatOne

	out := ansi.Strip(New().View(st, 80))

	if !strings.Contains(out, "[S] [1]") {
		t.Errorf("should show shuffle and repeat-one icons, got:\n%s", out)
	}
}

func TestStateIcon(t *testing.T) {
	tests := []struct {
		state playback.State
		want  string
	}{
		{playback.StatePlaying, ">"},
		{playback.StatePaused, "="},
		{playback.StateLoaded, "#"},
		{playback.StateEnded, "#"},
		{playback.StateIdle, "#"},
	}
	for _, tt := range tests {
		if got := StateIcon(playback.Status{State: tt.state}); got != tt.want {
			t.Errorf("StateIcon(%v) = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestModes(t *testing.T) {
	tests := []struct {
		shuffle bool
		repeat  playback.RepeatMode
		want    string
	}{
		{false, playback.RepeatOff, ""},
		{true, playback.RepeatOff, "[S]"},
		{false, playback.RepeatAll, "[R]"},
		{true, playback.RepeatAll, "[S] [R]"},
	}
	for _, tt := range tests {
		if got := Modes(playback.Status{Shuffle: tt.shuffle, RepeatMode: tt.repeat}); got != tt.want {
			t.Errorf("Modes(%v, %v) = %q, want %q", tt.shuffle, tt.repeat, got, tt.want)
		}
	}
}
