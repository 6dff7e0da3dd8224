package session

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/NethermindEth/songslide/pkg/studio/playback"
)

const (
	DefaultStoreSize = 1000
	DefaultStoreTTL  = 2 * time.Hour
)

type StoreOptions struct {
	Size int
	TTL  time.Duration
	// Playback is the template for every session's slideshow controller.
	Playback playback.ControllerOptions
	// OnEvict runs after a session has been closed, for any reason.
	OnEvict func(id string)
}

// Store holds live sessions in an expiring LRU. A session leaving the store by
// eviction, expiry, deletion or purge is always closed.
type Store struct {
	cache    *expirable.LRU[string, *Session]
	playback playback.ControllerOptions
}

func NewStore(opts StoreOptions) *Store {
	if opts.Size <= 0 {
		opts.Size = DefaultStoreSize
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultStoreTTL
	}

	onEvict := func(id string, s *Session) {
		s.Close()
		slog.Info("session closed", "session", id)
		if opts.OnEvict != nil {
			opts.OnEvict(id)
		}
	}

	return &Store{
		cache:    expirable.NewLRU[string, *Session](opts.Size, onEvict, opts.TTL),
		playback: opts.Playback,
	}
}

func (s *Store) Create(style string) *Session {
	sess := newSession(uuid.NewString(), style, s.playback)
	s.cache.Add(sess.ID(), sess)
	return sess
}

// Get returns a live session and extends its lifetime.
func (s *Store) Get(id string) (*Session, error) {
	sess, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	s.cache.Add(id, sess)
	return sess, nil
}

func (s *Store) Delete(id string) bool {
	return s.cache.Remove(id)
}

func (s *Store) Len() int {
	return s.cache.Len()
}

// Purge closes every session.
func (s *Store) Purge() {
	s.cache.Purge()
}
