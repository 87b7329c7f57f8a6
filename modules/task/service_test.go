package task

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	domain "github.com/Bart3kD/task-manager/domain/task"
	"github.com/Bart3kD/task-manager/domain/user"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

var (
	alice = user.Session{UserID: "alice", Email: "alice@example.com"}
	bob   = user.Session{UserID: "bob"}
	// mid-morning on 2024-06-15, UTC
	fixedNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
)

func newTestService(store Store) *Service {
	return NewService(store, &mockLogger{},
		WithClock(func() time.Time { return fixedNow }),
		WithLocation(time.UTC),
	)
}

// forEachStore runs fn against the SQLite repository and the memory store.
func forEachStore(t *testing.T, fn func(t *testing.T, svc *Service)) {
	t.Run("sqlite", func(t *testing.T) {
		fn(t, newTestService(NewRepository(setupTestDB(t))))
	})
	t.Run("memory", func(t *testing.T) {
		fn(t, newTestService(NewMemoryStore()))
	})
}

func TestService_Create(t *testing.T) {
	forEachStore(t, func(t *testing.T, svc *Service) {
		ctx := context.Background()

		created, err := svc.Create(ctx, alice, domain.CreateInput{
			Title:       "  Pay rent ",
			Description: "",
			DueDate:     "2024-06-30",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "alice", created.UserID)
		assert.Equal(t, "Pay rent", created.Title)
		assert.Nil(t, created.Description)
		assert.Equal(t, domain.PriorityMedium, created.Priority)
		assert.Equal(t, domain.StatusTodo, created.Status)
		assert.False(t, created.Completed)
		assert.True(t, created.CreatedAt.Equal(fixedNow))

		found, err := svc.Get(ctx, alice, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Title, found.Title)
		require.NotNil(t, found.DueDate)
		assert.Equal(t, "2024-06-30", found.DueDate.UTC().Format(domain.DateLayout))
	})
}

func TestService_CreateRejectsYesterdayButUpdateAccepts(t *testing.T) {
	forEachStore(t, func(t *testing.T, svc *Service) {
		ctx := context.Background()
		yesterday := fixedNow.AddDate(0, 0, -1).Format(domain.DateLayout)

		_, err := svc.Create(ctx, alice, domain.CreateInput{Title: "late", DueDate: yesterday})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)

		created, err := svc.Create(ctx, alice, domain.CreateInput{Title: "on time"})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, alice, created.ID, domain.UpdateInput{DueDate: &yesterday})
		require.NoError(t, err)
		require.NotNil(t, updated.DueDate)
		assert.Equal(t, yesterday, updated.DueDate.UTC().Format(domain.DateLayout))

		stats, err := svc.Stats(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Overdue)
	})
}

func TestService_ToggleRoundTrip(t *testing.T) {
	forEachStore(t, func(t *testing.T, svc *Service) {
		ctx := context.Background()
		created, err := svc.Create(ctx, alice, domain.CreateInput{Title: "flip me", Status: "in_progress"})
		require.NoError(t, err)
		require.False(t, created.Completed)

		toggled, err := svc.Toggle(ctx, alice, created.ID)
		require.NoError(t, err)
		assert.True(t, toggled.Completed)
		// status is independent of the completed flag
		assert.Equal(t, domain.StatusInProgress, toggled.Status)

		back, err := svc.Toggle(ctx, alice, created.ID)
		require.NoError(t, err)
		assert.False(t, back.Completed)

		stored, err := svc.Get(ctx, alice, created.ID)
		require.NoError(t, err)
		assert.False(t, stored.Completed)
	})
}

func TestService_ToggleNotFound(t *testing.T) {
	forEachStore(t, func(t *testing.T, svc *Service) {
		_, err := svc.Toggle(context.Background(), alice, "does-not-exist")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestService_Update(t *testing.T) {
	forEachStore(t, func(t *testing.T, svc *Service) {
		ctx := context.Background()
		created, err := svc.Create(ctx, alice, domain.CreateInput{Title: "draft", Description: "first", Priority: "low"})
		require.NoError(t, err)

		later := fixedNow.Add(2 * time.Hour)
		svc.now = func() time.Time { return later }

		priority := "urgent"
		done := true
		updated, err := svc.Update(ctx, alice, created.ID, domain.UpdateInput{Priority: &priority, Completed: &done})
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityUrgent, updated.Priority)
		assert.True(t, updated.Completed)
		assert.True(t, updated.UpdatedAt.Equal(later))

		stored, err := svc.Get(ctx, alice, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "draft", stored.Title)
		require.NotNil(t, stored.Description)
		assert.Equal(t, "first", *stored.Description)
		assert.Equal(t, domain.PriorityUrgent, stored.Priority)
		assert.True(t, stored.CreatedAt.Equal(fixedNow))

		blank := ""
		_, err = svc.Update(ctx, alice, created.ID, domain.UpdateInput{Title: &blank})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.Update(ctx, alice, "missing", domain.UpdateInput{Priority: &priority})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestService_UpdateNullClears(t *testing.T) {
	forEachStore(t, func(t *testing.T, svc *Service) {
		ctx := context.Background()
		created, err := svc.Create(ctx, alice, domain.CreateInput{Title: "dated", Description: "desc", DueDate: "2024-06-20"})
		require.NoError(t, err)

		var in domain.UpdateInput
		require.NoError(t, json.Unmarshal([]byte(`{"description": null, "due_date": null}`), &in))
		_, err = svc.Update(ctx, alice, created.ID, in)
		require.NoError(t, err)

		stored, err := svc.Get(ctx, alice, created.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.Description)
		assert.Nil(t, stored.DueDate)
	})
}

func TestService_EmptyUpdateWritesNothing(t *testing.T) {
	forEachStore(t, func(t *testing.T, svc *Service) {
		ctx := context.Background()
		created, err := svc.Create(ctx, alice, domain.CreateInput{Title: "untouched"})
		require.NoError(t, err)

		svc.now = func() time.Time { return fixedNow.Add(time.Hour) }

		got, err := svc.Update(ctx, alice, created.ID, domain.UpdateInput{})
		require.NoError(t, err)
		assert.True(t, got.UpdatedAt.Equal(fixedNow))

		stored, err := svc.Get(ctx, alice, created.ID)
		require.NoError(t, err)
		assert.True(t, stored.UpdatedAt.Equal(fixedNow))

		_, err = svc.Update(ctx, alice, "missing", domain.UpdateInput{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	forEachStore(t, func(t *testing.T, svc *Service) {
		ctx := context.Background()
		created, err := svc.Create(ctx, alice, domain.CreateInput{Title: "temporary"})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, alice, created.ID))

		_, err = svc.Get(ctx, alice, created.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, svc.Delete(ctx, alice, created.ID), domain.ErrNotFound)
	})
}

func TestService_OwnerIsolation(t *testing.T) {
	forEachStore(t, func(t *testing.T, svc *Service) {
		ctx := context.Background()
		mine, err := svc.Create(ctx, alice, domain.CreateInput{Title: "alice only"})
		require.NoError(t, err)

		_, err = svc.Get(ctx, bob, mine.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = svc.Toggle(ctx, bob, mine.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, svc.Delete(ctx, bob, mine.ID), domain.ErrNotFound)

		page, err := svc.List(ctx, bob, domain.Filter{})
		require.NoError(t, err)
		assert.Empty(t, page.Tasks)
		assert.Zero(t, page.Total)

		stats, err := svc.Stats(ctx, bob)
		require.NoError(t, err)
		assert.Equal(t, domain.Stats{}, *stats)
	})
}

func TestService_Unauthenticated(t *testing.T) {
	svc := newTestService(NewMemoryStore())
	ctx := context.Background()
	anon := user.Session{}

	_, err := svc.Create(ctx, anon, domain.CreateInput{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = svc.Get(ctx, anon, "id")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = svc.List(ctx, anon, domain.Filter{})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = svc.Update(ctx, anon, "id", domain.UpdateInput{})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = svc.Toggle(ctx, anon, "id")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.ErrorIs(t, svc.Delete(ctx, anon, "id"), domain.ErrUnauthenticated)
	_, err = svc.Stats(ctx, anon)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestService_ListAndStats(t *testing.T) {
	forEachStore(t, func(t *testing.T, svc *Service) {
		ctx := context.Background()
		inputs := []domain.CreateInput{
			{Title: "due today", DueDate: "2024-06-15", Priority: "urgent"},
			{Title: "due next week", DueDate: "2024-06-22"},
			{Title: "no date", Status: "in_progress"},
			{Title: "finish me", Status: "completed"},
		}
		for _, in := range inputs {
			_, err := svc.Create(ctx, alice, in)
			require.NoError(t, err)
		}

		completed := domain.StatusCompleted
		page, err := svc.List(ctx, alice, domain.Filter{Status: &completed})
		require.NoError(t, err)
		// status "completed" is answered from the completed flag, which no task has yet
		assert.Empty(t, page.Tasks)

		page, err = svc.List(ctx, alice, domain.Filter{SortBy: domain.SortDueDate, Order: domain.OrderAsc, Limit: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 4, page.Total)
		assert.Equal(t, 2, page.Limit)
		require.Len(t, page.Tasks, 2)
		assert.Equal(t, "due today", page.Tasks[0].Title)
		assert.Equal(t, "due next week", page.Tasks[1].Title)

		stats, err := svc.Stats(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, domain.Stats{Total: 4, Pending: 4, Todo: 2, InProgress: 1, Urgent: 1, DueToday: 1}, *stats)
	})
}

func TestService_ListValidatesFilter(t *testing.T) {
	svc := newTestService(NewMemoryStore())

	_, err := svc.List(context.Background(), alice, domain.Filter{Limit: 500})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "limit", verr.Fields[0].Field)
}

// failingStore fails every call with err.
type failingStore struct{ err error }

func (f failingStore) Insert(context.Context, *domain.Task) error { return f.err }
func (f failingStore) Get(context.Context, string, string) (*domain.Task, error) {
	return nil, f.err
}
func (f failingStore) List(context.Context, string, domain.Filter) ([]domain.Task, int64, error) {
	return nil, 0, f.err
}
func (f failingStore) All(context.Context, string) ([]domain.Task, error) { return nil, f.err }
func (f failingStore) Update(context.Context, *domain.Task, []string) error {
	return f.err
}
func (f failingStore) Delete(context.Context, string, string) error { return f.err }

func TestService_StoreFailurePassesThrough(t *testing.T) {
	storeErr := errors.New("connection reset")
	svc := newTestService(failingStore{err: storeErr})
	ctx := context.Background()

	_, err := svc.Create(ctx, alice, domain.CreateInput{Title: "x"})
	assert.ErrorIs(t, err, storeErr)
	_, err = svc.List(ctx, alice, domain.Filter{})
	assert.ErrorIs(t, err, storeErr)
	_, err = svc.Toggle(ctx, alice, "id")
	assert.ErrorIs(t, err, storeErr)
	_, err = svc.Stats(ctx, alice)
	assert.ErrorIs(t, err, storeErr)
	assert.ErrorIs(t, svc.Delete(ctx, alice, "id"), storeErr)
}
