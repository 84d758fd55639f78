package factory

import (
	"time"

	"github.com/mcoot/sporthub/internal/bundle"
	"github.com/mcoot/sporthub/internal/dependencies/mocks"
	"github.com/mcoot/sporthub/internal/services/session"
	"github.com/mcoot/sporthub/internal/storage/memory"
	"github.com/mcoot/sporthub/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Memory     *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
// and the embedded bundled document
func NewTestApp() *TestApp {
	return NewTestAppWithStore(memory.New())
}

// NewTestAppWithStore creates a test App over an existing memory store. Pass
// a handle from Attach to simulate a second browsing context.
func NewTestAppWithStore(store *memory.Storage) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, bundle.Embedded(), mockClock, mockRandom, session.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Memory:     store,
	}
}

// Attach creates a second App sharing this one's storage, with its own clock
func (t *TestApp) Attach() *TestApp {
	other := NewTestAppWithStore(t.Memory.Attach())
	other.MockClock.Set(t.MockClock.Now())
	return other
}
