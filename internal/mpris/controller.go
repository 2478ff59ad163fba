// Package mpris exposes playback on the session D-Bus (MPRIS). It is a no-op
// outside Linux.
package mpris

import (
	"context"

	"github.com/llehouerou/tideline/internal/playback"
)

// Controller runs commands on the orchestrator and reports its state.
// playback.Runner implements it.
type Controller interface {
	Do(ctx context.Context, fn func(*playback.Orchestrator) error) error
	Status() playback.Status
}

var _ Controller = (*playback.Runner)(nil)
