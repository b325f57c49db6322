// Package lifecycle starts and stops components in dependency order.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/moolen/opsask/internal/logging"
)

const defaultShutdownTimeout = 30 * time.Second

// Manager orchestrates component startup and shutdown. Components start
// after their dependencies and stop before them, each shutdown bounded by
// a per-component grace period.
type Manager struct {
	components      []Component
	dependencies    map[Component][]Component
	running         map[Component]bool
	started         []Component // startup order, for reverse-order shutdown
	shutdownTimeout time.Duration
	mu              sync.Mutex
	logger          *logging.Logger
}

// NewManager creates a lifecycle manager with the default shutdown grace
// period.
func NewManager() *Manager {
	return &Manager{
		dependencies:    make(map[Component][]Component),
		running:         make(map[Component]bool),
		shutdownTimeout: defaultShutdownTimeout,
		logger:          logging.GetLogger("lifecycle"),
	}
}

// Register adds a component. Dependencies must already be registered; the
// component will start after all of them and stop before any of them.
func (m *Manager) Register(component Component, dependsOn ...Component) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if component == nil {
		return errors.New("cannot register nil component")
	}
	if component.Name() == "" {
		return errors.New("component must have a non-empty name")
	}
	for _, c := range m.components {
		if c == component {
			return fmt.Errorf("component %s is already registered", component.Name())
		}
	}
	for _, dep := range dependsOn {
		if !m.isRegistered(dep) {
			return fmt.Errorf("dependency %s is not registered", dep.Name())
		}
	}
	if m.createsCycle(component, dependsOn) {
		return fmt.Errorf("registering %s would create a circular dependency", component.Name())
	}

	m.components = append(m.components, component)
	m.dependencies[component] = dependsOn
	m.logger.Debug("Registered component %s with %d dependencies", component.Name(), len(dependsOn))
	return nil
}

func (m *Manager) isRegistered(component Component) bool {
	for _, c := range m.components {
		if c == component {
			return true
		}
	}
	return false
}

func (m *Manager) createsCycle(component Component, dependsOn []Component) bool {
	seen := make(map[Component]bool)
	var walk func(deps []Component) bool
	walk = func(deps []Component) bool {
		for _, dep := range deps {
			if dep == component {
				return true
			}
			if seen[dep] {
				continue
			}
			seen[dep] = true
			if walk(m.dependencies[dep]) {
				return true
			}
		}
		return false
	}
	return walk(dependsOn)
}

// Start starts all components in dependency order. If one fails, the
// already started components are stopped in reverse order and the error
// is returned.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.started = nil
	for _, component := range m.sorted() {
		m.logger.Info("Starting %s", component.Name())
		begin := time.Now()

		if err := component.Start(ctx); err != nil {
			m.logger.Error("Failed to start %s: %v", component.Name(), err)
			m.rollback()
			return fmt.Errorf("failed to start %s: %w", component.Name(), err)
		}

		m.running[component] = true
		m.started = append(m.started, component)
		m.logger.Info("%s started (took %dms)", component.Name(), time.Since(begin).Milliseconds())
	}

	m.logger.Info("All components started")
	return nil
}

// sorted returns components in dependency order, dependencies first.
func (m *Manager) sorted() []Component {
	visited := make(map[Component]bool)
	var order []Component
	var visit func(c Component)
	visit = func(c Component) {
		if visited[c] {
			return
		}
		visited[c] = true
		for _, dep := range m.dependencies[c] {
			visit(dep)
		}
		order = append(order, c)
	}
	for _, c := range m.components {
		visit(c)
	}
	return order
}

// rollback stops components started during a failed Start, newest first.
func (m *Manager) rollback() {
	for i := len(m.started) - 1; i >= 0; i-- {
		component := m.started[i]
		m.logger.Debug("Rolling back: stopping %s", component.Name())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := component.Stop(ctx); err != nil {
			m.logger.Warn("Error stopping %s during rollback: %v", component.Name(), err)
		}
		cancel()
		m.running[component] = false
	}
	m.started = nil
}

// Stop stops all started components in reverse startup order. Each gets
// its own grace period; failures are logged but never abort the shutdown
// of the remaining components.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Stopping all components")

	for i := len(m.started) - 1; i >= 0; i-- {
		component := m.started[i]
		if !m.running[component] {
			continue
		}

		m.logger.Info("Stopping %s", component.Name())
		begin := time.Now()

		componentCtx, cancel := context.WithTimeout(ctx, m.shutdownTimeout)
		err := component.Stop(componentCtx)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				m.logger.Warn("Component %s exceeded shutdown grace period of %s", component.Name(), m.shutdownTimeout)
			} else {
				m.logger.Error("Error stopping %s: %v", component.Name(), err)
			}
		} else {
			m.logger.Info("%s stopped (took %dms)", component.Name(), time.Since(begin).Milliseconds())
		}
		m.running[component] = false
	}

	m.logger.Info("All components stopped")
	return nil
}

// IsRunning reports whether the component started and has not stopped.
func (m *Manager) IsRunning(component Component) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running[component]
}

// SetShutdownTimeout sets the per-component shutdown grace period.
func (m *Manager) SetShutdownTimeout(timeout time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shutdownTimeout = timeout
}
