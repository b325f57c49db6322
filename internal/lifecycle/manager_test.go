package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingComponent struct {
	name     string
	startErr error
	stopErr  error
	events   *[]string
}

func (c *recordingComponent) Start(ctx context.Context) error {
	*c.events = append(*c.events, "start:"+c.name)
	return c.startErr
}

func (c *recordingComponent) Stop(ctx context.Context) error {
	*c.events = append(*c.events, "stop:"+c.name)
	return c.stopErr
}

func (c *recordingComponent) Name() string { return c.name }

func TestManagerStartStopOrder(t *testing.T) {
	var events []string
	storage := &recordingComponent{name: "storage", events: &events}
	server := &recordingComponent{name: "server", events: &events}

	m := NewManager()
	require.NoError(t, m.Register(storage))
	require.NoError(t, m.Register(server, storage))

	require.NoError(t, m.Start(context.Background()))
	assert.True(t, m.IsRunning(storage))
	assert.True(t, m.IsRunning(server))

	require.NoError(t, m.Stop(context.Background()))
	assert.False(t, m.IsRunning(server))

	assert.Equal(t, []string{"start:storage", "start:server", "stop:server", "stop:storage"}, events)
}

func TestManagerStartFailureRollsBack(t *testing.T) {
	var events []string
	ok := &recordingComponent{name: "ok", events: &events}
	broken := &recordingComponent{name: "broken", startErr: errors.New("boom"), events: &events}

	m := NewManager()
	require.NoError(t, m.Register(ok))
	require.NoError(t, m.Register(broken, ok))

	err := m.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	// The successfully started component was stopped again.
	assert.Equal(t, []string{"start:ok", "start:broken", "stop:ok"}, events)
	assert.False(t, m.IsRunning(ok))
}

func TestManagerRegisterValidation(t *testing.T) {
	var events []string
	a := &recordingComponent{name: "a", events: &events}
	b := &recordingComponent{name: "b", events: &events}
	unregistered := &recordingComponent{name: "ghost", events: &events}

	m := NewManager()
	require.NoError(t, m.Register(a))

	assert.Error(t, m.Register(nil))
	assert.Error(t, m.Register(a), "duplicate registration")
	assert.Error(t, m.Register(b, unregistered), "unknown dependency")

	require.NoError(t, m.Register(b, a))
}

func TestManagerStopErrorDoesNotAbort(t *testing.T) {
	var events []string
	failing := &recordingComponent{name: "failing", stopErr: errors.New("stop failed"), events: &events}
	clean := &recordingComponent{name: "clean", events: &events}

	m := NewManager()
	require.NoError(t, m.Register(clean))
	require.NoError(t, m.Register(failing, clean))

	require.NoError(t, m.Start(context.Background()))
	require.NoError(t, m.Stop(context.Background()))

	// Both stop attempts happened despite the first one failing.
	assert.Equal(t, []string{"start:clean", "start:failing", "stop:failing", "stop:clean"}, events)
}
