package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/remiriasukaretto/tokumei/internal/domain"
)

func TestAppend(t *testing.T) {
	s := New()

	c := s.Append("A", "hello")

	if c.Name != "A" {
		t.Errorf("Append() = name %q, want %q", c.Name, "A")
	}
	if c.Message != "hello" {
		t.Errorf("Append() = message %q, want %q", c.Message, "hello")
	}
	if !c.NeedsReply {
		t.Errorf("Append() = needsReply %t, want %t", c.NeedsReply, true)
	}
	if len(c.Replies) != 0 {
		t.Errorf("Append() = %d replies, want 0", len(c.Replies))
	}
	for _, k := range domain.ReactionKinds {
		if got, ok := c.Reactions[k]; !ok || got != 0 {
			t.Errorf("Append() = reaction %s = %d (present %t), want 0", k, got, ok)
		}
	}
}

func TestAppendDefaultsName(t *testing.T) {
	s := New()

	c := s.Append("  ", "hello")
	if c.Name != domain.DefaultCommentName {
		t.Errorf("Append() = name %q, want %q", c.Name, domain.DefaultCommentName)
	}
}

func TestIDsAreUnique(t *testing.T) {
	s := New()

	var wg sync.WaitGroup
	const n = 50
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- s.Append("", "hello").ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("Append() = duplicate id %d", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Errorf("Append() = %d distinct ids, want %d", len(seen), n)
	}
}

func TestGet(t *testing.T) {
	s := New()
	c := s.Append("A", "hello")

	got, err := s.Get(c.ID)
	if err != nil {
		t.Fatalf("Get() = err %v", err)
	}
	if got.ID != c.ID {
		t.Errorf("Get() = id %d, want %d", got.ID, c.ID)
	}

	if _, err := s.Get(9999); !errors.Is(err, ErrCommentNotFound) {
		t.Errorf("Get() = err %v, want %v", err, ErrCommentNotFound)
	}
}

func TestAddReaction(t *testing.T) {
	s := New()
	c := s.Append("A", "hello")

	reactions, err := s.AddReaction(c.ID, domain.ReactionLove)
	if err != nil {
		t.Fatalf("AddReaction() = err %v", err)
	}
	if reactions[domain.ReactionLove] != 1 {
		t.Errorf("AddReaction() = love %d, want 1", reactions[domain.ReactionLove])
	}
	if reactions[domain.ReactionLike] != 0 || reactions[domain.ReactionLaugh] != 0 {
		t.Errorf("AddReaction() = %v, want other kinds untouched", reactions)
	}

	if _, err := s.AddReaction(c.ID, "angry"); !errors.Is(err, ErrInvalidReactionKind) {
		t.Errorf("AddReaction() = err %v, want %v", err, ErrInvalidReactionKind)
	}
	if _, err := s.AddReaction(9999, domain.ReactionLike); !errors.Is(err, ErrCommentNotFound) {
		t.Errorf("AddReaction() = err %v, want %v", err, ErrCommentNotFound)
	}
}

func TestAddReactionConcurrent(t *testing.T) {
	s := New()
	c := s.Append("A", "hello")

	var wg sync.WaitGroup
	const likes, loves = 100, 40
	for i := 0; i < likes; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddReaction(c.ID, domain.ReactionLike)
		}()
	}
	for i := 0; i < loves; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddReaction(c.ID, domain.ReactionLove)
		}()
	}
	wg.Wait()

	got, err := s.Get(c.ID)
	if err != nil {
		t.Fatalf("Get() = err %v", err)
	}
	if got.Reactions[domain.ReactionLike] != likes {
		t.Errorf("AddReaction() = like %d, want %d", got.Reactions[domain.ReactionLike], likes)
	}
	if got.Reactions[domain.ReactionLove] != loves {
		t.Errorf("AddReaction() = love %d, want %d", got.Reactions[domain.ReactionLove], loves)
	}
}

func TestAddReply(t *testing.T) {
	s := New()
	c := s.Append("A", "hello")

	r, err := s.AddReply(c.ID, "", "hi")
	if err != nil {
		t.Fatalf("AddReply() = err %v", err)
	}
	if r.Name != domain.DefaultReplyName {
		t.Errorf("AddReply() = name %q, want %q", r.Name, domain.DefaultReplyName)
	}
	if r.ID == c.ID {
		t.Errorf("AddReply() = reply id %d collides with comment id", r.ID)
	}

	got, _ := s.Get(c.ID)
	if len(got.Replies) != 1 {
		t.Fatalf("AddReply() = %d replies, want 1", len(got.Replies))
	}

	// needsReply is a soft hint: a second reply is still allowed.
	if _, err := s.AddReply(c.ID, "host", "hi again"); err != nil {
		t.Errorf("AddReply() = err %v, want nil for second reply", err)
	}

	if _, err := s.AddReply(c.ID, "", "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("AddReply() = err %v, want %v", err, ErrEmptyMessage)
	}
	if _, err := s.AddReply(9999, "", "hi"); !errors.Is(err, ErrCommentNotFound) {
		t.Errorf("AddReply() = err %v, want %v", err, ErrCommentNotFound)
	}
}

func TestSetReplyStatus(t *testing.T) {
	s := New()
	c := s.Append("A", "hello")

	// Setting false twice is idempotent and closes replies both times.
	for i := 0; i < 2; i++ {
		if err := s.SetReplyStatus(c.ID, false); err != nil {
			t.Fatalf("SetReplyStatus() = err %v", err)
		}
		got, _ := s.Get(c.ID)
		if got.NeedsReply {
			t.Errorf("SetReplyStatus() = needsReply %t, want %t", got.NeedsReply, false)
		}
		if _, err := s.AddReply(c.ID, "", "hi"); !errors.Is(err, ErrReplyClosed) {
			t.Errorf("AddReply() = err %v, want %v", err, ErrReplyClosed)
		}
	}

	// Re-opening allows replies again.
	if err := s.SetReplyStatus(c.ID, true); err != nil {
		t.Fatalf("SetReplyStatus() = err %v", err)
	}
	if _, err := s.AddReply(c.ID, "", "hi"); err != nil {
		t.Errorf("AddReply() = err %v, want nil after re-open", err)
	}

	if err := s.SetReplyStatus(9999, false); !errors.Is(err, ErrCommentNotFound) {
		t.Errorf("SetReplyStatus() = err %v, want %v", err, ErrCommentNotFound)
	}
}

func TestListInsertionOrder(t *testing.T) {
	s := New()
	first := s.Append("A", "one")
	second := s.Append("B", "two")

	list := s.List()
	if len(list) != 2 {
		t.Fatalf("List() = %d comments, want 2", len(list))
	}
	if list[0].ID != first.ID || list[1].ID != second.ID {
		t.Errorf("List() = ids [%d %d], want [%d %d]", list[0].ID, list[1].ID, first.ID, second.ID)
	}
}

func TestClonesDoNotAliasStoreState(t *testing.T) {
	s := New()
	c := s.Append("A", "hello")

	c.Reactions[domain.ReactionLike] = 42
	c.Replies = append(c.Replies, domain.Reply{ID: 999})

	got, _ := s.Get(c.ID)
	if got.Reactions[domain.ReactionLike] != 0 {
		t.Errorf("Get() = like %d, want 0 after mutating a returned copy", got.Reactions[domain.ReactionLike])
	}
	if len(got.Replies) != 0 {
		t.Errorf("Get() = %d replies, want 0 after mutating a returned copy", len(got.Replies))
	}
}
