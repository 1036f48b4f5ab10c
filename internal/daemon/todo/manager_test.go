package todo

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toodo-app/toodo/internal/config"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestManager(t *testing.T) (*Manager, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	return NewManager(t.TempDir(), time.Hour, WithClock(clock.Now)), clock
}

func TestCreateThenGet(t *testing.T) {
	m, _ := newTestManager(t)

	created, err := m.Create("groceries")
	require.NoError(t, err)
	assert.Equal(t, "groceries", created.Name)

	got, err := m.Get("groceries")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.Steps)
	assert.True(t, got.CreatedAt.Equal(got.LastUpdatedAt))
	assert.True(t, got.ExpiresAt.Equal(got.CreatedAt.Add(time.Hour)))
	assert.Equal(t, "groceries", got.Key)
}

func TestCreateRejectsBlankName(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Create("   ")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestCreateOverwritesExisting(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Create("trip")
	require.NoError(t, err)
	_, err = m.AddStep("trip", "pack")
	require.NoError(t, err)

	_, err = m.Create("trip")
	require.NoError(t, err)

	got, err := m.Get("trip")
	require.NoError(t, err)
	assert.Empty(t, got.Steps)
}

func TestGetMissingReturnsNil(t *testing.T) {
	m, _ := newTestManager(t)

	got, err := m.Get("nope")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestAddStep(t *testing.T) {
	m, clock := newTestManager(t)

	_, err := m.Create("work")
	require.NoError(t, err)
	before, err := m.Get("work")
	require.NoError(t, err)

	clock.Advance(time.Second)
	_, err = m.AddStep("work", "write report")
	require.NoError(t, err)

	after, err := m.Get("work")
	require.NoError(t, err)
	require.Len(t, after.Steps, len(before.Steps)+1)
	assert.Equal(t, "write report", after.Steps[0].Description)
	assert.False(t, after.Steps[0].Completed)
	assert.True(t, after.LastUpdatedAt.After(before.LastUpdatedAt))
	assert.True(t, after.CreatedAt.Equal(before.CreatedAt))
}

func TestLastUpdatedAtStrictlyIncreasesWithinSameMillisecond(t *testing.T) {
	m, _ := newTestManager(t)

	created, err := m.Create("fast")
	require.NoError(t, err)

	first, err := m.AddStep("fast", "a")
	require.NoError(t, err)
	second, err := m.AddStep("fast", "b")
	require.NoError(t, err)

	assert.True(t, first.LastUpdatedAt.After(created.LastUpdatedAt))
	assert.True(t, second.LastUpdatedAt.After(first.LastUpdatedAt))
}

func TestAddStepMissingTodo(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.AddStep("ghost", "boo")
	assert.ErrorIs(t, err, ErrNotFound)

	_, statErr := os.Stat(config.TodoFile(m.Dir(), "ghost"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestAddStepCollapsesNewlines(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Create("notes")
	require.NoError(t, err)
	_, err = m.AddStep("notes", "line one\n- [x] injected")
	require.NoError(t, err)

	got, err := m.Get("notes")
	require.NoError(t, err)
	require.Len(t, got.Steps, 1)
	assert.Equal(t, "line one - [x] injected", got.Steps[0].Description)
	assert.False(t, got.Steps[0].Completed)
}

func TestAddStepWithMetaCommentText(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Create("demo")
	require.NoError(t, err)

	for _, text := range []string{
		`document the <!-- meta: {"expiresAt":1} --> header`,
		"<!-- meta: {} -->",
	} {
		before, err := m.Get("demo")
		require.NoError(t, err)

		_, err = m.AddStep("demo", text)
		require.NoError(t, err)

		got, err := m.Get("demo")
		require.NoError(t, err, "todo must not be treated as expired")
		require.NotNil(t, got)
		require.Len(t, got.Steps, len(before.Steps)+1)
		assert.Equal(t, text, got.Steps[len(got.Steps)-1].Description)
		assert.True(t, got.ExpiresAt.Equal(before.ExpiresAt))
	}
}

func TestCompleteStep(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Create("chores")
	require.NoError(t, err)
	for _, s := range []string{"dishes", "laundry", "vacuum"} {
		_, err = m.AddStep("chores", s)
		require.NoError(t, err)
	}

	_, err = m.CompleteStep("chores", 1)
	require.NoError(t, err)

	got, err := m.Get("chores")
	require.NoError(t, err)
	require.Len(t, got.Steps, 3)
	assert.False(t, got.Steps[0].Completed)
	assert.True(t, got.Steps[1].Completed)
	assert.False(t, got.Steps[2].Completed)
	assert.Equal(t, "laundry", got.Steps[1].Description)
}

func TestStepIndexOutOfRangeMutatesNothing(t *testing.T) {
	tests := []struct {
		name  string
		index int
		op    func(m *Manager, index int) error
	}{
		{"complete negative", -1, func(m *Manager, i int) error { _, err := m.CompleteStep("list", i); return err }},
		{"complete past end", 2, func(m *Manager, i int) error { _, err := m.CompleteStep("list", i); return err }},
		{"delete negative", -1, func(m *Manager, i int) error { _, err := m.DeleteStep("list", i); return err }},
		{"delete past end", 5, func(m *Manager, i int) error { _, err := m.DeleteStep("list", i); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestManager(t)
			_, err := m.Create("list")
			require.NoError(t, err)
			_, err = m.AddStep("list", "one")
			require.NoError(t, err)
			_, err = m.AddStep("list", "two")
			require.NoError(t, err)

			path := config.TodoFile(m.Dir(), "list")
			before, err := os.ReadFile(path)
			require.NoError(t, err)

			err = tt.op(m, tt.index)
			assert.ErrorIs(t, err, ErrStepOutOfRange)

			after, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, string(before), string(after))
		})
	}
}

func TestStepOperationsOnMissingTodo(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.CompleteStep("missing", 0)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.DeleteStep("missing", 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteStepShiftsIndices(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Create("shift")
	require.NoError(t, err)
	_, err = m.AddStep("shift", "A")
	require.NoError(t, err)
	_, err = m.AddStep("shift", "B")
	require.NoError(t, err)

	_, err = m.DeleteStep("shift", 0)
	require.NoError(t, err)

	got, err := m.Get("shift")
	require.NoError(t, err)
	require.Len(t, got.Steps, 1)
	assert.Equal(t, "B", got.Steps[0].Description)
	assert.False(t, got.Steps[0].Completed)
}

func TestDemoScenario(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Create("demo")
	require.NoError(t, err)
	_, err = m.AddStep("demo", "step one")
	require.NoError(t, err)
	_, err = m.AddStep("demo", "step two")
	require.NoError(t, err)
	_, err = m.CompleteStep("demo", 0)
	require.NoError(t, err)
	_, err = m.DeleteStep("demo", 1)
	require.NoError(t, err)

	got, err := m.Get("demo")
	require.NoError(t, err)
	require.Len(t, got.Steps, 1)
	assert.Equal(t, "step one", got.Steps[0].Description)
	assert.True(t, got.Steps[0].Completed)
}

func TestGetExpiredDeletesFile(t *testing.T) {
	m, clock := newTestManager(t)

	_, err := m.Create("stale")
	require.NoError(t, err)
	path := config.TodoFile(m.Dir(), "stale")

	clock.Advance(time.Hour + time.Millisecond)

	got, err := m.Get("stale")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrExpired)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// Once evicted, it is simply gone.
	got, err = m.Get("stale")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestNotExpiredAtExactExpiry(t *testing.T) {
	m, clock := newTestManager(t)

	_, err := m.Create("edge")
	require.NoError(t, err)

	clock.Advance(time.Hour)

	got, err := m.Get("edge")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestListFiltersExpiredWithoutDeleting(t *testing.T) {
	m, clock := newTestManager(t)

	_, err := m.Create("old")
	require.NoError(t, err)
	clock.Advance(30 * time.Minute)
	_, err = m.Create("new")
	require.NoError(t, err)
	clock.Advance(31 * time.Minute)

	todos, err := m.List()
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "new", todos[0].Name)

	_, statErr := os.Stat(config.TodoFile(m.Dir(), "old"))
	assert.NoError(t, statErr)
}

func TestListOrdersByLastUpdatedDescending(t *testing.T) {
	m, clock := newTestManager(t)

	for _, name := range []string{"first", "second", "third"} {
		_, err := m.Create(name)
		require.NoError(t, err)
		clock.Advance(time.Second)
	}
	_, err := m.AddStep("first", "bump")
	require.NoError(t, err)

	todos, err := m.List()
	require.NoError(t, err)
	require.Len(t, todos, 3)

	names := []string{todos[0].Name, todos[1].Name, todos[2].Name}
	assert.Equal(t, []string{"first", "third", "second"}, names)
	for i := 1; i < len(todos); i++ {
		assert.True(t, todos[i-1].LastUpdatedAt.After(todos[i].LastUpdatedAt))
	}
}

func TestListMissingDirIsEmpty(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(filepath.Join(t.TempDir(), "does", "not", "exist"), time.Hour, WithClock(clock.Now))

	todos, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestListSkipsOtherFilesAndUsesHeadingName(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Create("Buy milk & eggs!")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), "README.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), "bare.md"), []byte("- [ ] loose\n"), 0o644))

	todos, err := m.List()
	require.NoError(t, err)
	require.Len(t, todos, 2)

	byKey := map[string]string{}
	for _, td := range todos {
		byKey[td.Key] = td.Name
	}
	assert.Equal(t, "Buy milk & eggs!", byKey["Buy_milk___eggs_"])
	assert.Equal(t, "bare", byKey["bare"])
}

func TestDelete(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Create("temp")
	require.NoError(t, err)
	require.NoError(t, m.Delete("temp"))

	got, err := m.Get("temp")
	assert.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, m.Delete("temp"), ErrNotFound)
}

func TestDeleteMany(t *testing.T) {
	m, _ := newTestManager(t)

	for _, name := range []string{"a", "b", "c"} {
		_, err := m.Create(name)
		require.NoError(t, err)
	}

	calls := 0
	unsubscribe := m.Subscribe(func() { calls++ })
	defer unsubscribe()

	n, err := m.DeleteMany([]string{"a", "c", "missing"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, calls)

	todos, err := m.List()
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "b", todos[0].Name)
}

func TestSubscribeNotifiesOnMutations(t *testing.T) {
	m, _ := newTestManager(t)

	calls := 0
	unsubscribe := m.Subscribe(func() { calls++ })

	_, err := m.Create("watched")
	require.NoError(t, err)
	_, err = m.AddStep("watched", "x")
	require.NoError(t, err)
	_, err = m.CompleteStep("watched", 0)
	require.NoError(t, err)
	_, err = m.DeleteStep("watched", 0)
	require.NoError(t, err)
	require.NoError(t, m.Delete("watched"))
	assert.Equal(t, 5, calls)

	// Reads and failed mutations are silent.
	_, _ = m.Get("watched")
	_, _ = m.List()
	_, _ = m.AddStep("watched", "y")
	assert.Equal(t, 5, calls)

	unsubscribe()
	_, err = m.Create("after")
	require.NoError(t, err)
	assert.Equal(t, 5, calls)
}
