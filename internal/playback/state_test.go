// internal/playback/state_test.go
package playback

import (
	"testing"

	"github.com/llehouerou/tideline/internal/session"
)

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "Idle"},
		{StateLoaded, "Loaded"},
		{StatePlaying, "Playing"},
		{StatePaused, "Paused"},
		{StateEnded, "Ended"},
		{State(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestState_IsActive(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateIdle, false},
		{StateLoaded, false},
		{StatePlaying, true},
		{StatePaused, true},
		{StateEnded, false},
	}
	for _, tt := range tests {
		if got := tt.state.IsActive(); got != tt.want {
			t.Errorf("%v.IsActive() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestRepeatMode_Next(t *testing.T) {
	tests := []struct {
		mode RepeatMode
		want RepeatMode
	}{
		{RepeatOff, RepeatAll},
		{RepeatAll, RepeatOne},
		{RepeatOne, RepeatOff},
	}
	for _, tt := range tests {
		if got := tt.mode.Next(); got != tt.want {
			t.Errorf("%v.Next() = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestRepeatMode_Session(t *testing.T) {
	if RepeatAll.session() != session.RepeatAll {
		t.Errorf("RepeatAll.session() = %v", RepeatAll.session())
	}
	if RepeatOne.session() != session.RepeatOne {
		t.Errorf("RepeatOne.session() = %v", RepeatOne.session())
	}
	if RepeatOff.session() != session.RepeatOff {
		t.Errorf("RepeatOff.session() = %v", RepeatOff.session())
	}
}

func TestParseRepeatMode(t *testing.T) {
	tests := []struct {
		in      string
		want    RepeatMode
		wantErr bool
	}{
		{"off", RepeatOff, false},
		{"", RepeatOff, false},
		{"ALL", RepeatAll, false},
		{"one", RepeatOne, false},
		{"radio", RepeatOff, true},
	}
	for _, tt := range tests {
		got, err := ParseRepeatMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRepeatMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseRepeatMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
