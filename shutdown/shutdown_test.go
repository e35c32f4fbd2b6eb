package shutdown

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubManager struct {
	started bool
}

func (m *stubManager) GetName() string { return "StubManager" }
func (m *stubManager) Start(gs GracefulShutdownI) error { m.started = true; return nil }
func (m *stubManager) ShutdownStart() error { return nil }
func (m *stubManager) ShutdownFinish() error { return nil }

func TestStartRunsAllCallbacks(t *testing.T) {
	gs := New()

	var mu sync.Mutex
	var names []string
	for i := 0; i < 3; i++ {
		gs.AddCallback(Func(func(manager string) error {
			mu.Lock()
			defer mu.Unlock()
			names = append(names, manager)
			return nil
		}))
	}

	gs.Start(&stubManager{})

	assert.Equal(t, []string{"StubManager", "StubManager", "StubManager"}, names)
}

func TestErrorHandlerReceivesCallbackErrors(t *testing.T) {
	gs := New()

	var got error
	gs.SetErrorHandler(ErrorFunc(func(err error) { got = err }))

	want := errors.New("callback failed")
	gs.AddCallback(Func(func(string) error { return want }))

	gs.Start(&stubManager{})
	assert.Equal(t, want, got)
}

func TestStartShutdownManagers(t *testing.T) {
	gs := New()
	m := &stubManager{}
	gs.AddShutdownManager(m)

	require.NoError(t, gs.StartShutdownManagers())
	assert.True(t, m.started)
}
