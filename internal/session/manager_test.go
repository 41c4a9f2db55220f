package session

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(ttl time.Duration) (*Manager, *time.Time) {
	current := sessionNow
	m := NewManager(ttl, nil)
	m.now = func() time.Time { return current }
	return m, &current
}

func TestManager_CreateAndGet(t *testing.T) {
	m, _ := newTestManager(30 * time.Minute)

	created := m.Create(10)
	require.NotNil(t, created)

	got, err := m.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, StepCalendar, got.Step)
	assert.Equal(t, int64(10), got.ServiceID)
}

func TestManager_Get_Unknown(t *testing.T) {
	m, _ := newTestManager(30 * time.Minute)

	_, err := m.Get(uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_Get_Expired(t *testing.T) {
	m, current := newTestManager(30 * time.Minute)

	created := m.Create(10)

	*current = sessionNow.Add(31 * time.Minute)

	_, err := m.Get(created.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_Update_SlidesExpiry(t *testing.T) {
	m, current := newTestManager(30 * time.Minute)

	created := m.Create(10)

	*current = sessionNow.Add(20 * time.Minute)

	updated, err := m.Update(created.ID, func(s *Session) error {
		return s.SelectDate("2025-06-03")
	})
	require.NoError(t, err)
	assert.Equal(t, StepTime, updated.Step)
	assert.Equal(t, (*current).Add(30*time.Minute), updated.ExpiresAt)

	// Без продления сессия уже истекла бы
	*current = sessionNow.Add(45 * time.Minute)
	got, err := m.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-03", got.SelectedDate)
}

func TestManager_Update_RollsBackOnError(t *testing.T) {
	m, _ := newTestManager(30 * time.Minute)

	created := m.Create(10)

	failure := errors.New("transition rejected")
	_, err := m.Update(created.ID, func(s *Session) error {
		s.SelectedDate = "2025-06-03"
		s.Step = StepTime
		return failure
	})
	assert.ErrorIs(t, err, failure)

	// Частичные изменения из fn не применяются
	got, err := m.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, StepCalendar, got.Step)
	assert.Empty(t, got.SelectedDate)
}

func TestManager_SnapshotIsolation(t *testing.T) {
	m, _ := newTestManager(30 * time.Minute)

	created := m.Create(10)

	// Мутация снапшота не затрагивает хранимую сессию
	created.Step = StepConfirmation
	created.SelectedDate = "2025-06-03"

	got, err := m.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, StepCalendar, got.Step)
	assert.Empty(t, got.SelectedDate)
}

func TestManager_Delete(t *testing.T) {
	m, _ := newTestManager(30 * time.Minute)

	created := m.Create(10)
	m.Delete(created.ID)

	_, err := m.Get(created.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_CollectExpired(t *testing.T) {
	m, current := newTestManager(30 * time.Minute)

	expired := m.Create(10)

	*current = sessionNow.Add(31 * time.Minute)
	fresh := m.Create(20)

	m.collectExpired()

	assert.Equal(t, 1, m.Len())
	_, err := m.Get(expired.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(fresh.ID)
	assert.NoError(t, err)
}
