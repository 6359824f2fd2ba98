// Package store owns the in-memory comment collection. Comments are
// append-only: reactions are incremented, replies appended, and the
// needs-reply flag toggled in place, but nothing is ever deleted.
package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/remiriasukaretto/tokumei/internal/domain"
)

var (
	ErrCommentNotFound     = errors.New("comment not found")
	ErrInvalidReactionKind = errors.New("invalid reaction kind")
	ErrEmptyMessage        = errors.New("message must not be empty")
	ErrReplyClosed         = errors.New("comment no longer accepts replies")
)

// Store is the process-local comment collection. All state is lost on
// restart; there is no persistence layer behind it.
type Store struct {
	mu       sync.Mutex
	comments []*domain.Comment
	byID     map[int64]*domain.Comment

	// nextID is a strictly monotonic counter shared by comments and
	// replies. Wall-clock ids are not unique under concurrent creation.
	nextID int64

	now func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		byID: make(map[int64]*domain.Comment),
		now:  time.Now,
	}
}

func (s *Store) allocID() int64 {
	s.nextID++
	return s.nextID
}

// Append creates a comment with a fresh id, zeroed reactions, no replies
// and needsReply set. The message must already have passed moderation.
// A deep copy is returned so callers never alias store-owned state.
func (s *Store) Append(name, message string) *domain.Comment {
	name = strings.TrimSpace(name)
	if name == "" {
		name = domain.DefaultCommentName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := &domain.Comment{
		ID:         s.allocID(),
		Name:       name,
		Message:    strings.TrimSpace(message),
		CreatedAt:  s.now().UTC(),
		Reactions:  domain.NewReactions(),
		Replies:    []domain.Reply{},
		NeedsReply: true,
	}

	s.comments = append(s.comments, c)
	s.byID[c.ID] = c
	return c.Clone()
}

// Get returns a copy of the comment with the given id.
func (s *Store) Get(id int64) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return nil, ErrCommentNotFound
	}
	return c.Clone(), nil
}

// AddReaction increments one reaction counter and returns the full
// reaction map after the increment. The read-modify-write happens under
// the store lock so concurrent reactions never lose updates.
func (s *Store) AddReaction(id int64, kind domain.ReactionKind) (map[domain.ReactionKind]int, error) {
	if !domain.ValidReactionKind(string(kind)) {
		return nil, ErrInvalidReactionKind
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return nil, ErrCommentNotFound
	}

	c.Reactions[kind]++

	reactions := make(map[domain.ReactionKind]int, len(c.Reactions))
	for k, v := range c.Reactions {
		reactions[k] = v
	}
	return reactions, nil
}

// AddReply appends a reply to the comment. The needs-reply flag is a soft
// hint: replies are only refused when the flag was explicitly set to
// false, not after a first reply.
func (s *Store) AddReply(id int64, name, message string) (domain.Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return domain.Reply{}, ErrEmptyMessage
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = domain.DefaultReplyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return domain.Reply{}, ErrCommentNotFound
	}
	if !c.NeedsReply {
		return domain.Reply{}, ErrReplyClosed
	}

	r := domain.Reply{
		ID:        s.allocID(),
		Name:      name,
		Message:   message,
		CreatedAt: s.now().UTC(),
	}
	c.Replies = append(c.Replies, r)
	return r, nil
}

// SetReplyStatus overwrites the needs-reply flag unconditionally.
func (s *Store) SetReplyStatus(id int64, needsReply bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return ErrCommentNotFound
	}
	c.NeedsReply = needsReply
	return nil
}

// List returns copies of all comments in insertion order.
func (s *Store) List() []*domain.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Comment, len(s.comments))
	for i, c := range s.comments {
		out[i] = c.Clone()
	}
	return out
}
