package login

import (
	"crypto/subtle"
	"fmt"
	"sync"
	"time"

	"github.com/udisondev/npsgo/internal/crypto"
)

// SessionStore хранит сессии, установленные по LOGIN_REQUEST.
type SessionStore interface {
	Store(ticket string, key crypto.SessionKey) *SessionInfo
	Lookup(ticket string) (*SessionInfo, error)
}

// SessionManager хранит сессии в памяти по session ticket.
// Thread-safe через sync.Map для оптимальной read performance.
type SessionManager struct {
	sessions sync.Map // map[string]*SessionInfo
}

// SessionInfo хранит восстановленный сессионный ключ клиента.
// Экспортируется для тестирования (можно манипулировать CreatedAt).
type SessionInfo struct {
	Ticket     string
	SessionKey crypto.SessionKey
	CreatedAt  time.Time
}

// Expired сообщает, истекла ли сессия к моменту now:
// либо прошло больше ttl с создания, либо наступил expiry из blob ключа.
func (s *SessionInfo) Expired(now time.Time, ttl time.Duration) bool {
	if ttl > 0 && now.Sub(s.CreatedAt) > ttl {
		return true
	}
	if at, ok := s.SessionKey.ExpiresAt(); ok && !now.Before(at) {
		return true
	}
	return false
}

// NewSessionManager создаёт новый SessionManager.
func NewSessionManager() *SessionManager {
	return &SessionManager{}
}

// Store сохраняет сессионный ключ для ticket. Повторный LOGIN_REQUEST с тем же ticket
// заменяет предыдущую сессию.
func (sm *SessionManager) Store(ticket string, key crypto.SessionKey) *SessionInfo {
	info := &SessionInfo{
		Ticket:     ticket,
		SessionKey: key,
		CreatedAt:  time.Now(),
	}
	sm.sessions.Store(ticket, info)
	return info
}

// Lookup возвращает сессию для ticket.
func (sm *SessionManager) Lookup(ticket string) (*SessionInfo, error) {
	val, ok := sm.sessions.Load(ticket)
	if !ok {
		return nil, fmt.Errorf("%w: ticket %q", ErrSessionNotFound, ticket)
	}
	return val.(*SessionInfo), nil
}

// Validate проверяет, что для ticket сохранён именно этот ключ.
// Сравнение в constant time.
func (sm *SessionManager) Validate(ticket string, key []byte) bool {
	info, err := sm.Lookup(ticket)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(info.SessionKey.Key, key) == 1
}

// Remove удаляет сессию для ticket.
func (sm *SessionManager) Remove(ticket string) {
	sm.sessions.Delete(ticket)
}

// CleanExpired удаляет сессии старше ttl и сессии с истёкшим ключом.
// ttl <= 0 отключает проверку возраста. Возвращает количество удалённых сессий.
func (sm *SessionManager) CleanExpired(ttl time.Duration) int {
	now := time.Now()
	removed := 0
	sm.sessions.Range(func(key, value any) bool {
		ticket := key.(string)
		info := value.(*SessionInfo)
		if info.Expired(now, ttl) {
			sm.sessions.Delete(ticket)
			removed++
		}
		return true
	})
	return removed
}

// Count возвращает количество активных сессий.
func (sm *SessionManager) Count() int {
	count := 0
	sm.sessions.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// StoreInfo сохраняет готовый SessionInfo (для тестов с манипуляцией времени).
func (sm *SessionManager) StoreInfo(info *SessionInfo) {
	sm.sessions.Store(info.Ticket, info)
}
