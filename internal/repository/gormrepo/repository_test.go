package gormrepo

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"exercise-tracker/internal/models"
	"exercise-tracker/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.Migrate(db))

	repo := New(db)
	t.Cleanup(func() { _ = repo.Close(context.Background()) })
	return repo
}

func TestCreateUser(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, "fcc_test")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "fcc_test", user.Username)
	assert.Empty(t, user.Log)

	got, err := repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "fcc_test", got.Username)
	assert.NotNil(t, got.Log)
	assert.Empty(t, got.Log)
}

func TestCreateUser_EmptyUsername(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.CreateUser(context.Background(), "  ")
	assert.ErrorIs(t, err, repository.ErrInvalidUsername)
	assert.ErrorIs(t, err, repository.ErrValidation)
}

func TestListUsers(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	alice, err := repo.CreateUser(ctx, "alice")
	require.NoError(t, err)
	bob, err := repo.CreateUser(ctx, "bob")
	require.NoError(t, err)
	_, err = repo.AppendExercise(ctx, alice.ID, models.Exercise{Description: "run", Duration: 10, Date: time.Now()})
	require.NoError(t, err)

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.ElementsMatch(t,
		[]string{alice.ID, bob.ID},
		[]string{users[0].ID, users[1].ID},
	)
	for _, u := range users {
		assert.NotEmpty(t, u.Username)
		assert.Empty(t, u.Log)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetUser(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAppendExercise_KeepsInsertionOrder(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, "fcc_test")
	require.NoError(t, err)

	days := []int{3, 1, 5, 2, 4}
	for _, d := range days {
		_, err := repo.AppendExercise(ctx, user.ID, models.Exercise{
			Description: fmt.Sprintf("day %d", d),
			Duration:    d * 10,
			Date:        time.Date(2023, time.January, d, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	got, err := repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, got.Log, len(days))
	for i, d := range days {
		assert.Equal(t, fmt.Sprintf("day %d", d), got.Log[i].Description)
		assert.Equal(t, d*10, got.Log[i].Duration)
		assert.True(t, time.Date(2023, time.January, d, 0, 0, 0, 0, time.UTC).Equal(got.Log[i].Date))
	}
}

func TestAppendExercise_ReturnsUpdatedUser(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, "fcc_test")
	require.NoError(t, err)

	updated, err := repo.AppendExercise(ctx, user.ID, models.Exercise{Description: "test run", Duration: 30, Date: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, "fcc_test", updated.Username)
	require.Len(t, updated.Log, 1)
	assert.Equal(t, "test run", updated.Log[0].Description)
	assert.Equal(t, user.ID, updated.Log[0].UserID)
}

func TestAppendExercise_UnknownUser(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.AppendExercise(context.Background(), "missing", models.Exercise{Duration: 5, Date: time.Now()})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAppendExercise_ConcurrentAppendsAreKept(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, "busy")
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.AppendExercise(ctx, user.ID, models.Exercise{
				Description: fmt.Sprintf("set %d", i),
				Duration:    i,
				Date:        time.Now(),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	got, err := repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, got.Log, n)
}
