package component

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/kbukum/authsvc/logger"
)

// stopTimeout bounds each component's Stop call.
const stopTimeout = 10 * time.Second

type slot struct {
	Component
	running bool
}

// Registry starts components in registration order and stops them in
// reverse. StartAll may be called again after more components are
// registered; it only starts the new ones.
type Registry struct {
	mu    sync.RWMutex
	slots []*slot
	log   *logger.Logger
}

func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{log: log.WithComponent("registry")}
}

func (r *Registry) find(name string) *slot {
	i := slices.IndexFunc(r.slots, func(s *slot) bool { return s.Name() == name })
	if i < 0 {
		return nil
	}
	return r.slots[i]
}

// Register appends c. Dependencies must be registered first.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.find(c.Name()) != nil {
		return fmt.Errorf("component %s already registered", c.Name())
	}
	r.slots = append(r.slots, &slot{Component: c})
	r.log.Debug("Component registered", logger.Fields(logger.FieldComponent, c.Name()))
	return nil
}

// StartAll starts every component that is not running yet. On failure it
// returns immediately and leaves the already running ones for StopAll.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.slots {
		if s.running {
			continue
		}
		if err := s.Start(ctx); err != nil {
			r.log.Error("Component start failed", logger.Fields(logger.FieldComponent, s.Name(), logger.FieldError, err.Error()))
			return fmt.Errorf("failed to start %s: %w", s.Name(), err)
		}
		s.running = true
		r.log.Info("Component started", startFields(s.Component))
	}
	return nil
}

func startFields(c Component) map[string]interface{} {
	fields := logger.Fields(logger.FieldComponent, c.Name())
	if d, ok := c.(Describable); ok {
		desc := d.Describe()
		fields["type"], fields["details"] = desc.Type, desc.Details
	}
	return fields
}

// StopAll stops running components newest first and joins their errors.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, s := range slices.Backward(r.slots) {
		if !s.running {
			continue
		}
		s.running = false
		if err := r.stop(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) stop(ctx context.Context, s *slot) error {
	ctx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()

	if err := s.Stop(ctx); err != nil {
		r.log.Error("Component stop failed", logger.Fields(logger.FieldComponent, s.Name(), logger.FieldError, err.Error()))
		return fmt.Errorf("failed to stop %s: %w", s.Name(), err)
	}
	r.log.Info("Component stopped", logger.Fields(logger.FieldComponent, s.Name()))
	return nil
}

// HealthAll probes every registered component, running or not.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Health, len(r.slots))
	for i, s := range r.slots {
		out[i] = s.Health(ctx)
	}
	return out
}

// Get returns the component registered under name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s := r.find(name); s != nil {
		return s.Component
	}
	return nil
}
