package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academic-integrity-simulator/internal/model"
)

func TestSessionRepositoryLifecycle(t *testing.T) {
	repo := NewSessionRepository(true, nil)

	conv := repo.Create()
	require.NotEmpty(t, conv.ID)
	assert.True(t, conv.IntegrityCheck())
	assert.Equal(t, 1, repo.Len())

	got, found := repo.Get(conv.ID)
	require.True(t, found)
	assert.Same(t, conv, got)

	assert.True(t, repo.Delete(conv.ID))
	assert.False(t, repo.Delete(conv.ID))
	_, found = repo.Get(conv.ID)
	assert.False(t, found)
	assert.Zero(t, repo.Len())
}

func TestSessionRepositoryDefaultToggle(t *testing.T) {
	repo := NewSessionRepository(false, nil)
	assert.False(t, repo.Create().IntegrityCheck())
}

func TestSessionRepositoryKeepsTurnsPerSession(t *testing.T) {
	repo := NewSessionRepository(true, nil)
	a, b := repo.Create(), repo.Create()

	a.Append(model.UserTurn("hello"))

	gotA, _ := repo.Get(a.ID)
	gotB, _ := repo.Get(b.ID)
	assert.Equal(t, 1, gotA.Len())
	assert.Zero(t, gotB.Len())
}

func TestSessionRepositorySweep(t *testing.T) {
	repo := NewSessionRepository(true, nil)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return clock }

	stale := repo.Create()
	clock = clock.Add(20 * time.Minute)
	fresh := repo.Create()
	clock = clock.Add(20 * time.Minute)

	removed := repo.Sweep(30 * time.Minute)

	assert.Equal(t, 1, removed)
	_, found := repo.Get(stale.ID)
	assert.False(t, found)
	_, found = repo.Get(fresh.ID)
	assert.True(t, found)
}
