package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// gcInterval период очистки истекших сессий
const gcInterval = 1 * time.Minute

// Logger интерфейс логгера
type Logger interface {
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// Manager хранилище активных сессий бронирования в памяти процесса
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   Logger

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewManager создает менеджер сессий с заданным TTL
func NewManager(ttl time.Duration, logger Logger) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start запускает фоновую очистку истекших сессий
func (m *Manager) Start() {
	go func() {
		defer close(m.doneCh)
		ticker := time.NewTicker(gcInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.collectExpired()
			case <-m.stopCh:
				return
			}
		}
	}()
}

// Stop останавливает фоновую очистку
func (m *Manager) Stop() {
	close(m.stopCh)
	<-m.doneCh
}

// Create создает новую сессию для услуги
func (m *Manager) Create(serviceID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := NewSession(serviceID, m.ttl, m.now())
	m.sessions[s.ID] = s

	snapshot := *s
	return &snapshot
}

// Get возвращает копию сессии по идентификатору
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok || s.IsExpired(m.now()) {
		return nil, ErrSessionNotFound
	}

	snapshot := *s
	return &snapshot, nil
}

// Update применяет fn к сессии под блокировкой и возвращает копию результата.
// Ошибка из fn откатывает изменения - fn работает с копией до успеха
func (m *Manager) Update(id uuid.UUID, fn func(s *Session) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	s, ok := m.sessions[id]
	if !ok || s.IsExpired(now) {
		return nil, ErrSessionNotFound
	}

	candidate := *s
	if err := fn(&candidate); err != nil {
		return nil, err
	}

	candidate.UpdatedAt = now
	candidate.ExpiresAt = now.Add(m.ttl)
	m.sessions[id] = &candidate

	snapshot := candidate
	return &snapshot, nil
}

// Delete удаляет сессию
func (m *Manager) Delete(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len возвращает количество сессий в хранилище, включая истекшие до очистки
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) collectExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, s := range m.sessions {
		if s.IsExpired(now) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 && m.logger != nil {
		m.logger.Debug("session manager: collected %d expired sessions, %d active", removed, len(m.sessions))
	}
}
