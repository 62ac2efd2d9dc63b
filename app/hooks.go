package app

import (
	"context"
	"errors"
	"fmt"
)

// Stage is a point in the application lifecycle where hooks run.
type Stage int

const (
	// StageStarted follows infrastructure startup, before routes are wired.
	StageStarted Stage = iota
	// StageReady follows the HTTP server binding its port.
	StageReady
	// StageStopping precedes component shutdown.
	StageStopping
)

func (s Stage) String() string {
	switch s {
	case StageStarted:
		return "started"
	case StageReady:
		return "ready"
	case StageStopping:
		return "stopping"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Hook is a lifecycle callback.
type Hook func(ctx context.Context) error

type hookSet map[Stage][]Hook

// run executes the hooks registered for stage in order. Startup stages stop
// at the first failure; StageStopping runs every hook and joins the errors.
func (hs hookSet) run(ctx context.Context, stage Stage) error {
	var errs []error
	for i, h := range hs[stage] {
		if err := h(ctx); err != nil {
			err = fmt.Errorf("%s hook #%d: %w", stage, i+1, err)
			if stage != StageStopping {
				return err
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OnStart registers hooks for StageStarted.
func (a *App) OnStart(hooks ...Hook) {
	a.hooks[StageStarted] = append(a.hooks[StageStarted], hooks...)
}

// OnReady registers hooks for StageReady.
func (a *App) OnReady(hooks ...Hook) {
	a.hooks[StageReady] = append(a.hooks[StageReady], hooks...)
}

// OnStop registers hooks for StageStopping.
func (a *App) OnStop(hooks ...Hook) {
	a.hooks[StageStopping] = append(a.hooks[StageStopping], hooks...)
}
