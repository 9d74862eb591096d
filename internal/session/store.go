package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/media-bot/internal/metrics"
	"github.com/ytget/media-bot/internal/model"
)

// Package session holds the process-wide mapping from user identity to the
// last resolved media, bridging "list formats" and "pick one" interactions.

// ErrNotFound is returned when no live session matches a resolve request:
// the session never existed, expired, or was overwritten by a newer Put.
var ErrNotFound = errors.New("session not found or expired")

// shardCount spreads user keys over independent locks so unrelated users
// never serialize on each other.
const shardCount = 32

// Selection is a fully resolved ladder pick, ready to hand to a transfer.
type Selection struct {
	URL     string
	Title   string
	Variant model.EncodingVariant
}

type shard struct {
	mu       sync.RWMutex
	sessions map[int64]*model.Session
}

// Store is a time-bounded per-user session store. A zero ttl disables
// expiry; sessions then live until overwritten.
type Store struct {
	shards [shardCount]*shard
	ttl    time.Duration
	now    func() time.Time
}

// NewStore creates a session store with the given time-to-live.
func NewStore(ttl time.Duration) *Store {
	s := &Store{ttl: ttl, now: time.Now}
	for i := range s.shards {
		s.shards[i] = &shard{sessions: make(map[int64]*model.Session)}
	}
	return s
}

func (s *Store) shardFor(userID int64) *shard {
	return s.shards[uint64(userID)%shardCount]
}

// Put stores a new session for the user, unconditionally replacing any
// existing one. The returned session carries the ID that selection tokens
// must echo back; tokens minted against the replaced session stop resolving.
func (s *Store) Put(userID int64, media model.MediaDescriptor, ladder model.SelectionLadder) *model.Session {
	sess := &model.Session{
		ID:        uuid.NewString()[:8],
		Media:     media,
		Ladder:    ladder,
		CreatedAt: s.now(),
	}

	sh := s.shardFor(userID)
	sh.mu.Lock()
	_, replaced := sh.sessions[userID]
	sh.sessions[userID] = sess
	sh.mu.Unlock()

	if !replaced {
		metrics.LiveSessions.Inc()
	}
	return sess
}

// Resolve looks up the user's live session and addresses a ladder entry by
// (kind, index). It returns ErrNotFound when no session exists, the session
// ID does not match (the session was overwritten), the session expired, or
// the index is out of bounds for the requested kind.
func (s *Store) Resolve(userID int64, sessionID string, kind model.MediaKind, index int) (Selection, error) {
	sh := s.shardFor(userID)
	sh.mu.RLock()
	sess, ok := sh.sessions[userID]
	sh.mu.RUnlock()

	if !ok || sess.ID != sessionID {
		return Selection{}, ErrNotFound
	}
	if s.expired(sess) {
		s.evict(userID, sess.ID)
		return Selection{}, ErrNotFound
	}

	variant, ok := sess.Ladder.At(kind, index)
	if !ok {
		return Selection{}, ErrNotFound
	}
	return Selection{URL: sess.Media.URL, Title: sess.Media.Title, Variant: variant}, nil
}

// Invalidate drops the user's session if it still carries the given ID.
func (s *Store) Invalidate(userID int64, sessionID string) {
	s.evict(userID, sessionID)
}

func (s *Store) expired(sess *model.Session) bool {
	return s.ttl > 0 && s.now().Sub(sess.CreatedAt) > s.ttl
}

func (s *Store) evict(userID int64, sessionID string) {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	if cur, ok := sh.sessions[userID]; ok && cur.ID == sessionID {
		delete(sh.sessions, userID)
		metrics.LiveSessions.Dec()
	}
	sh.mu.Unlock()
}
