// Package state persists the playback queue across runs.
package state

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	dbutil "github.com/llehouerou/tideline/internal/db"
)

const (
	appName      = "tideline"
	dbFileName   = "tideline.db"
	saveDebounce = 500 * time.Millisecond
	saveTimeout  = 5 * time.Second
)

// Option configures a Manager.
type Option func(*Manager)

func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithDebounce sets how long SaveQueueDeferred waits for further changes.
func WithDebounce(d time.Duration) Option {
	return func(m *Manager) { m.debounce = d }
}

type Manager struct {
	db       *sql.DB
	log      zerolog.Logger
	debounce time.Duration

	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *QueueState
}

// Open opens the state database at path; an empty path selects the XDG
// data directory.
func Open(path string, opts ...Option) (*Manager, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	db, err := dbutil.Open(path)
	if err != nil {
		return nil, err
	}
	if err := initSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "init schema")
	}

	m := &Manager{db: db, log: zerolog.Nop(), debounce: saveDebounce}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// DefaultPath returns the database location under the XDG data directory.
func DefaultPath() (string, error) {
	p, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return "", errors.Wrap(err, "resolve state path")
	}
	return p, nil
}

// Close flushes a pending deferred save and closes the database.
func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	if pending != nil {
		m.save(*pending)
	}

	return m.db.Close()
}

// GetQueue returns the saved queue, or nil if none was saved.
func (m *Manager) GetQueue(ctx context.Context) (*QueueState, error) {
	return getQueue(ctx, m.db)
}

func (m *Manager) SaveQueue(ctx context.Context, state QueueState) error {
	return saveQueue(ctx, m.db, state)
}

// SaveQueueDeferred saves state once no other save has been requested for
// the debounce delay. Only the latest state is written.
func (m *Manager) SaveQueueDeferred(state QueueState) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &state

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(m.debounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		if pending != nil {
			m.save(*pending)
		}
	})
}

func (m *Manager) save(state QueueState) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := saveQueue(ctx, m.db, state); err != nil {
		m.log.Error().Err(err).Msg("save queue")
		return
	}
	m.log.Debug().Int("tracks", len(state.Tracks)).Msg("queue saved")
}
