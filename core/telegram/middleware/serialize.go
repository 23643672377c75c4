package middleware

import (
	"sync"

	tele "gopkg.in/telebot.v4"
)

// KeyedMutex hands out one mutex per key and forgets it once nobody holds or waits on it.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex returns an empty KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[int64]*keyedEntry)}
}

// Lock blocks until key is free and returns the matching unlock func.
func (k *KeyedMutex) Lock(key int64) (unlock func()) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// Len returns the number of keys currently held or awaited.
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

// SerializePerUser runs updates of one user strictly one after another.
// telebot dispatches every update on its own goroutine, so without this a
// fast double tap could interleave two dialogue steps of the same user.
// Updates from different users still run concurrently.
func SerializePerUser(locks *KeyedMutex) tele.MiddlewareFunc {
	if locks == nil {
		locks = NewKeyedMutex()
	}
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil {
				return next(c)
			}
			unlock := locks.Lock(user.ID)
			defer unlock()
			return next(c)
		}
	}
}
