package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/remiriasukaretto/tokumei/internal/audit"
	"github.com/remiriasukaretto/tokumei/internal/domain"
	"github.com/remiriasukaretto/tokumei/internal/hub"
	"github.com/remiriasukaretto/tokumei/internal/moderation"
	"github.com/remiriasukaretto/tokumei/internal/store"
	"github.com/remiriasukaretto/tokumei/pkg/log"
)

var (
	ErrCommentNotFound     = errors.New("comment not found")
	ErrInvalidReactionKind = errors.New("invalid reaction kind")
	ErrEmptyMessage        = errors.New("message is required")
	ErrReplyClosed         = errors.New("comment no longer accepts replies")
)

// ModerationError rejects a comment that contains banned content. It
// carries the matched words so the client can show what was detected.
type ModerationError struct {
	Detected []string
}

func (e *ModerationError) Error() string {
	return fmt.Sprintf("message contains banned words: %s", strings.Join(e.Detected, ", "))
}

// boardService implements BoardService. The mutex makes each operation a
// single critical section across filter, store and hub, which is what
// gives subscribers a gap-free, duplicate-free view: a subscriber is
// either registered before a publish or receives the mutation in its
// backlog, never both and never neither.
type boardService struct {
	mu     sync.Mutex
	filter *moderation.Filter
	store  *store.Store
	hub    *hub.Hub
}

// NewBoardService wires the filter, store and hub into one board.
func NewBoardService(filter *moderation.Filter, st *store.Store, h *hub.Hub) BoardService {
	return &boardService{
		filter: filter,
		store:  st,
		hub:    h,
	}
}

// PostComment runs the moderation gate, stores the comment and announces
// it. A blocked message leaves the store untouched but can still grow the
// banned-word set and trigger an ng_words_updated announcement.
func (s *boardService) PostComment(ctx context.Context, name, message string) (*domain.Comment, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.filter.Check(message)

	if len(res.NewlyBanned) > 0 {
		s.publish(domain.EventNGWordsUpdated, domain.NGWordsUpdatedPayload{
			NGWords: s.filter.Words(),
			Added:   res.NewlyBanned,
		})
		audit.LogWords(ctx, audit.ActionWordsLearned, res.NewlyBanned, "banned words learned")
	}

	if res.Blocked {
		audit.LogWords(ctx, audit.ActionCommentBlocked, res.Matched, "comment blocked by moderation")
		return nil, &ModerationError{Detected: res.Matched}
	}

	c := s.store.Append(name, message)
	s.publish(domain.EventComment, c)
	audit.Log(ctx, audit.ActionCommentPosted, "comment posted")

	return c, nil
}

// ListComments returns all comments in insertion order.
func (s *boardService) ListComments(ctx context.Context) []*domain.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.List()
}

// ListNGWords returns the banned words in the order they were learned.
func (s *boardService) ListNGWords(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter.Words()
}

// React increments a reaction counter and announces the new counts.
func (s *boardService) React(ctx context.Context, commentID int64, kind string) (*domain.ReactionUpdatedPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reactions, err := s.store.AddReaction(commentID, domain.ReactionKind(kind))
	if err != nil {
		return nil, translate(err)
	}

	payload := &domain.ReactionUpdatedPayload{
		CommentID: commentID,
		Reactions: reactions,
	}
	s.publish(domain.EventReactionUpdated, payload)
	return payload, nil
}

// Reply appends a host reply and announces it.
func (s *boardService) Reply(ctx context.Context, commentID int64, name, message string) (*domain.ReplyAddedPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reply, err := s.store.AddReply(commentID, name, message)
	if err != nil {
		return nil, translate(err)
	}

	payload := &domain.ReplyAddedPayload{
		CommentID: commentID,
		Reply:     reply,
	}
	s.publish(domain.EventReplyAdded, payload)
	audit.Log(ctx, audit.ActionReplyAdded, "reply added")
	return payload, nil
}

// SetReplyStatus overwrites the needs-reply flag and announces the change.
func (s *boardService) SetReplyStatus(ctx context.Context, commentID int64, needsReply bool) (*domain.ReplyRequirementUpdatedPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SetReplyStatus(commentID, needsReply); err != nil {
		return nil, translate(err)
	}

	payload := &domain.ReplyRequirementUpdatedPayload{
		CommentID:  commentID,
		NeedsReply: needsReply,
	}
	s.publish(domain.EventReplyRequirementUpdated, payload)
	audit.Log(ctx, audit.ActionReplyStatusSet, "reply status updated")
	return payload, nil
}

// Subscribe registers a live-feed subscriber and returns it together with
// the backlog: one comment event per stored comment in insertion order,
// then one ng_words_updated snapshot. Holding the service mutex across
// snapshot and registration means no concurrent publish can fall into the
// gap between the two.
func (s *boardService) Subscribe(ctx context.Context) (*hub.Subscriber, []hub.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comments := s.store.List()
	backlog := make([]hub.Event, 0, len(comments)+1)
	for _, c := range comments {
		if evt, ok := marshalEvent(domain.EventComment, c); ok {
			backlog = append(backlog, evt)
		}
	}

	words := s.filter.Words()
	if words == nil {
		words = []string{}
	}
	if evt, ok := marshalEvent(domain.EventNGWordsUpdated, domain.NGWordsUpdatedPayload{
		NGWords: words,
		Added:   []string{},
	}); ok {
		backlog = append(backlog, evt)
	}

	sub := s.hub.Subscribe()
	return sub, backlog
}

func (s *boardService) publish(kind string, payload interface{}) {
	evt, ok := marshalEvent(kind, payload)
	if !ok {
		return
	}
	s.hub.Publish(evt)
}

func marshalEvent(kind string, payload interface{}) (hub.Event, bool) {
	data, err := json.Marshal(payload)
	if err != nil {
		l := log.L()
		l.Error().Err(err).Str(log.FieldEventKind, kind).Msg("failed to marshal event payload")
		return hub.Event{}, false
	}
	return hub.Event{Kind: kind, Data: data}, true
}

func translate(err error) error {
	switch {
	case errors.Is(err, store.ErrCommentNotFound):
		return ErrCommentNotFound
	case errors.Is(err, store.ErrInvalidReactionKind):
		return ErrInvalidReactionKind
	case errors.Is(err, store.ErrEmptyMessage):
		return ErrEmptyMessage
	case errors.Is(err, store.ErrReplyClosed):
		return ErrReplyClosed
	}
	return err
}
