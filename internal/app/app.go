package app

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/tideline/internal/errmsg"
	"github.com/llehouerou/tideline/internal/library"
	"github.com/llehouerou/tideline/internal/playback"
	"github.com/llehouerou/tideline/internal/playlist"
	"github.com/llehouerou/tideline/internal/search"
	"github.com/llehouerou/tideline/internal/ui/playerbar"
	"github.com/llehouerou/tideline/internal/ui/tracklist"
)

// Controller runs commands against the orchestrator. playback.Runner
// implements it.
type Controller interface {
	Do(ctx context.Context, fn func(*playback.Orchestrator) error) error
	Status() playback.Status
}

var _ Controller = (*playback.Runner)(nil)

// FocusTarget identifies which panel has keyboard focus.
type FocusTarget int

const (
	FocusLibrary FocusTarget = iota
	FocusQueue
)

// Options configures the Model.
type Options struct {
	// LibraryFolder is scanned on start. Empty leaves the library empty.
	LibraryFolder string
	// ShuffleOnLoad shuffles every queue loaded from the library.
	ShuffleOnLoad bool
	// Statuses delivers published statuses; usually fed by an orchestrator
	// listener.
	Statuses <-chan playback.Status
	// Events delivers queue changes and session errors.
	Events *playback.Subscription
	// NativeOutput delivers lines captured from native audio code.
	NativeOutput <-chan string
	Logger zerolog.Logger
}

// Model is the root bubbletea model.
type Model struct {
	ctx  context.Context
	ctrl Controller
	opts Options
	log  zerolog.Logger

	keys      KeyMap
	help      help.Model
	library   tracklist.Model
	queue     tracklist.Model
	playerBar playerbar.Model
	search    search.Model

	searching bool
	status   playback.Status
	focus    FocusTarget
	width    int
	height   int
	errText  string
	scanning bool
}

// New creates the root model. ctx bounds every command sent to ctrl.
func New(ctx context.Context, ctrl Controller, opts Options) Model {
	m := Model{
		ctx:       ctx,
		ctrl:      ctrl,
		opts:      opts,
		log:       opts.Logger,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		library:   tracklist.New("Library"),
		queue:     tracklist.New("Queue").WithDimmedPast(),
		playerBar: playerbar.New(),
		search:    search.New(),
		status:    ctrl.Status(),
		scanning:  opts.LibraryFolder != "",
	}
	m.library.SetFocused(true)
	return m
}

// Init starts the library scan and the event listeners.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.opts.LibraryFolder != "" {
		cmds = append(cmds, m.scanLibrary())
	}
	if m.opts.Statuses != nil {
		cmds = append(cmds, waitStatus(m.opts.Statuses))
	}
	if m.opts.Events != nil {
		cmds = append(cmds, waitEvent(m.opts.Events))
	}
	if m.opts.NativeOutput != nil {
		cmds = append(cmds, waitNativeOutput(m.opts.NativeOutput))
	}
	return tea.Batch(cmds...)
}

func (m Model) scanLibrary() tea.Cmd {
	ctx, root, log := m.ctx, m.opts.LibraryFolder, m.log
	return func() tea.Msg {
		tracks, err := library.Scan(ctx, root, library.WithLogger(log))
		return LibraryLoadedMsg{Tracks: tracks, Err: err}
	}
}

// run executes fn on the controller in a command. Failures come back as a
// CommandErrorMsg labelled op.
func (m Model) run(op errmsg.Op, fn func(*playback.Orchestrator) error) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		if err := ctrl.Do(ctx, fn); err != nil {
			return CommandErrorMsg{Op: op, Err: err}
		}
		return StatusMsg(ctrl.Status())
	}
}

// Focus returns the focused panel.
func (m Model) Focus() FocusTarget { return m.focus }

// Status returns the last status the model rendered.
func (m Model) Status() playback.Status { return m.status }

// ErrorText returns the error shown in the status line, or "".
func (m Model) ErrorText() string { return m.errText }

func (m *Model) setFocus(f FocusTarget) {
	m.focus = f
	m.library.SetFocused(f == FocusLibrary)
	m.queue.SetFocused(f == FocusQueue)
}

// libraryIndex returns the position of t in the library list.
func (m Model) libraryIndex(t *playlist.Track) int {
	if t == nil {
		return playlist.NotFound
	}
	for i, lt := range m.library.Tracks() {
		if lt.Same(*t) {
			return i
		}
	}
	return playlist.NotFound
}
