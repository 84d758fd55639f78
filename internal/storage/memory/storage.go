package memory

import (
	"context"
	"sync"

	"github.com/mcoot/sporthub/internal/model"
	"github.com/mcoot/sporthub/internal/storage"
)

// subscriberBuffer bounds how many changes a slow subscriber may fall behind
// before further changes are dropped for it
const subscriberBuffer = 64

// backend is the map shared by every handle
type backend struct {
	mu   sync.RWMutex
	data map[string]string

	subsMu     sync.Mutex
	subs       map[*subscriber]struct{}
	nextOrigin int
}

type subscriber struct {
	origin int
	ch     chan storage.Change
}

// Storage is an in-memory implementation of the store interface. Each handle
// plays the part of one browsing context; handles created with Attach share the
// same data and see each other's changes.
type Storage struct {
	b      *backend
	origin int
}

// New creates a new in-memory store and returns its first handle
func New() *Storage {
	b := &backend{
		data: make(map[string]string),
		subs: make(map[*subscriber]struct{}),
	}
	return b.handle()
}

// Attach returns another handle on the same data
func (s *Storage) Attach() *Storage {
	return s.b.handle()
}

func (b *backend) handle() *Storage {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	b.nextOrigin++
	return &Storage{b: b, origin: b.nextOrigin}
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	s.b.mu.RLock()
	defer s.b.mu.RUnlock()
	value, ok := s.b.data[key]
	if !ok {
		return "", model.ErrKeyNotFound
	}
	return value, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	s.b.mu.Lock()
	s.b.data[key] = value
	s.b.mu.Unlock()

	s.b.notify(s.origin, storage.Change{Key: key})
	return nil
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	s.b.mu.Lock()
	_, existed := s.b.data[key]
	delete(s.b.data, key)
	s.b.mu.Unlock()

	if existed {
		s.b.notify(s.origin, storage.Change{Key: key, Removed: true})
	}
	return nil
}

func (s *Storage) Subscribe(ctx context.Context) (<-chan storage.Change, error) {
	sub := &subscriber{
		origin: s.origin,
		ch:     make(chan storage.Change, subscriberBuffer),
	}

	s.b.subsMu.Lock()
	s.b.subs[sub] = struct{}{}
	s.b.subsMu.Unlock()

	go func() {
		<-ctx.Done()
		s.b.unsubscribe(sub)
	}()

	return sub.ch, nil
}

// Close ends every subscription opened through this handle
func (s *Storage) Close() error {
	s.b.subsMu.Lock()
	defer s.b.subsMu.Unlock()
	for sub := range s.b.subs {
		if sub.origin == s.origin {
			delete(s.b.subs, sub)
			close(sub.ch)
		}
	}
	return nil
}

// Keys returns the number of stored keys
func (s *Storage) Keys() int {
	s.b.mu.RLock()
	defer s.b.mu.RUnlock()
	return len(s.b.data)
}

func (b *backend) unsubscribe(sub *subscriber) {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		close(sub.ch)
	}
}

func (b *backend) notify(origin int, change storage.Change) {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	for sub := range b.subs {
		if sub.origin == origin {
			continue
		}
		select {
		case sub.ch <- change:
		default:
			// subscriber is behind; it reloads on the next change it does see
		}
	}
}
