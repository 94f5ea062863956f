package login

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/udisondev/npsgo/internal/crypto"
)

func testKey(b byte) crypto.SessionKey {
	key := make([]byte, 16)
	for i := range key {
		key[i] = b + byte(i)
	}
	return crypto.SessionKey{Key: key, Scheme: crypto.SchemeOAEP}
}

func TestSessionManager_StoreAndValidate(t *testing.T) {
	sm := NewSessionManager()
	key := testKey(1)

	// Store session
	info := sm.Store("ticket-1", key)
	if info.Ticket != "ticket-1" {
		t.Errorf("Expected ticket-1, got %q", info.Ticket)
	}

	if !sm.Validate("ticket-1", key.Key) {
		t.Error("Expected validation to pass with stored key")
	}

	// Другой ключ → false
	if sm.Validate("ticket-1", testKey(2).Key) {
		t.Error("Expected validation to fail with wrong key")
	}
}

func TestSessionManager_Lookup(t *testing.T) {
	sm := NewSessionManager()
	sm.Store("ticket-1", testKey(1))

	info, err := sm.Lookup("ticket-1")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if info.SessionKey.Scheme != crypto.SchemeOAEP {
		t.Errorf("Expected OAEP scheme, got %s", info.SessionKey.Scheme)
	}

	// Несуществующий ticket → ErrSessionNotFound
	if _, err := sm.Lookup("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
	if sm.Validate("missing", testKey(1).Key) {
		t.Error("Expected validation to fail for non-existent ticket")
	}
}

func TestSessionManager_StoreReplaces(t *testing.T) {
	sm := NewSessionManager()
	sm.Store("ticket-1", testKey(1))
	sm.Store("ticket-1", testKey(9))

	if sm.Count() != 1 {
		t.Errorf("Expected count=1, got %d", sm.Count())
	}
	if !sm.Validate("ticket-1", testKey(9).Key) {
		t.Error("Expected the second key to replace the first")
	}
}

func TestSessionManager_Remove(t *testing.T) {
	sm := NewSessionManager()
	sm.Store("ticket-1", testKey(1))
	sm.Remove("ticket-1")

	if sm.Validate("ticket-1", testKey(1).Key) {
		t.Error("Expected validation to fail after Remove")
	}
}

func TestSessionManager_ExpiredByAge(t *testing.T) {
	sm := NewSessionManager()

	// Создаём сессию с прошедшим временем через StoreInfo
	sm.StoreInfo(&SessionInfo{
		Ticket:     "old",
		SessionKey: testKey(1),
		CreatedAt:  time.Now().Add(-2 * time.Hour),
	})
	sm.Store("fresh", testKey(2))

	// CleanExpired с TTL 1 час должен удалить только старую сессию
	if removed := sm.CleanExpired(1 * time.Hour); removed != 1 {
		t.Errorf("Expected 1 removed session, got %d", removed)
	}
	if _, err := sm.Lookup("old"); err == nil {
		t.Error("Expected expired session to be removed")
	}
	if _, err := sm.Lookup("fresh"); err != nil {
		t.Errorf("Expected fresh session to stay, got %v", err)
	}
}

func TestSessionManager_ExpiredByKeyExpiry(t *testing.T) {
	sm := NewSessionManager()

	past := testKey(1)
	past.Expiry = uint32(time.Now().Add(-time.Minute).Unix())
	past.HasExpiry = true

	future := testKey(2)
	future.Expiry = uint32(time.Now().Add(time.Hour).Unix())
	future.HasExpiry = true

	sm.Store("past", past)
	sm.Store("future", future)
	sm.Store("no-expiry", testKey(3))

	// ttl=0 отключает проверку возраста, остаётся только expiry ключа
	if removed := sm.CleanExpired(0); removed != 1 {
		t.Errorf("Expected 1 removed session, got %d", removed)
	}
	if sm.Count() != 2 {
		t.Errorf("Expected count=2, got %d", sm.Count())
	}
	if _, err := sm.Lookup("past"); err == nil {
		t.Error("Expected session with expired key to be removed")
	}
}

func TestSessionInfo_Expired(t *testing.T) {
	now := time.Now()
	info := &SessionInfo{SessionKey: testKey(1), CreatedAt: now.Add(-time.Minute)}

	if info.Expired(now, time.Hour) {
		t.Error("Session younger than ttl must not expire")
	}
	if !info.Expired(now, 30*time.Second) {
		t.Error("Session older than ttl must expire")
	}
	if info.Expired(now, 0) {
		t.Error("ttl=0 must disable the age check")
	}
}

func TestSessionManager_ConcurrentAccess(t *testing.T) {
	sm := NewSessionManager()
	var wg sync.WaitGroup

	// Concurrent Store / Validate / Remove
	for i := range 100 {
		ticket := fmt.Sprintf("ticket-%d", i%10)
		wg.Add(3)
		go func() {
			defer wg.Done()
			sm.Store(ticket, testKey(byte(i)))
		}()
		go func() {
			defer wg.Done()
			sm.Validate(ticket, testKey(byte(i)).Key)
		}()
		go func() {
			defer wg.Done()
			sm.Remove(ticket)
		}()
	}

	wg.Wait()

	// Если дошли сюда без panic, значит thread-safe
	if n := sm.Count(); n > 10 {
		t.Errorf("Expected at most 10 sessions, got %d", n)
	}
}

func TestSessionManager_Count(t *testing.T) {
	sm := NewSessionManager()

	// Изначально 0
	if sm.Count() != 0 {
		t.Errorf("Expected count=0, got %d", sm.Count())
	}

	sm.Store("t1", testKey(1))
	sm.Store("t2", testKey(2))
	sm.Store("t3", testKey(3))

	if sm.Count() != 3 {
		t.Errorf("Expected count=3, got %d", sm.Count())
	}

	// Удаляем одну
	sm.Remove("t2")

	if sm.Count() != 2 {
		t.Errorf("Expected count=2, got %d", sm.Count())
	}
}
