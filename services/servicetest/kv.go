package servicetest

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// MemoryKV is a KeyValueStore backed by a map. Expired keys read as missing.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]kvEntry
}

type kvEntry struct {
	value   string
	expires time.Time
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: map[string]kvEntry{}}
}

func (kv *MemoryKV) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		s = "1"
	}
	entry := kvEntry{value: s}
	if expiration > 0 {
		entry.expires = time.Now().Add(expiration)
	}
	kv.values[key] = entry
	return nil
}

func (kv *MemoryKV) Get(_ context.Context, key string) (string, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	entry, ok := kv.values[key]
	if !ok {
		return "", nil
	}
	if !entry.expires.IsZero() && time.Now().After(entry.expires) {
		delete(kv.values, key)
		return "", nil
	}
	return entry.value, nil
}

func (kv *MemoryKV) Delete(_ context.Context, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.values, key)
	return nil
}

func (kv *MemoryKV) Incr(_ context.Context, key string, expiration time.Duration) (int64, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	entry, ok := kv.values[key]
	if ok && !entry.expires.IsZero() && time.Now().After(entry.expires) {
		ok = false
	}
	var n int64
	if ok {
		var err error
		if n, err = strconv.ParseInt(entry.value, 10, 64); err != nil {
			return 0, err
		}
	} else {
		entry = kvEntry{}
		if expiration > 0 {
			entry.expires = time.Now().Add(expiration)
		}
	}
	n++
	entry.value = strconv.FormatInt(n, 10)
	kv.values[key] = entry
	return n, nil
}

// Mailer records reset codes instead of sending them.
type Mailer struct {
	mu   sync.Mutex
	Sent map[string]string
}

func NewMailer() *Mailer {
	return &Mailer{Sent: map[string]string{}}
}

func (m *Mailer) SendResetCode(to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent[to] = code
	return nil
}

func (m *Mailer) CodeFor(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Sent[to]
}
