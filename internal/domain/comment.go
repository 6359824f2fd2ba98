package domain

import (
	"time"
)

// Default display names when the request omits one.
const (
	DefaultCommentName = "anonymous"
	DefaultReplyName   = "host"
)

// ReactionKind identifies one of the fixed reaction counters.
type ReactionKind string

const (
	ReactionLike  ReactionKind = "like"
	ReactionLove  ReactionKind = "love"
	ReactionLaugh ReactionKind = "laugh"
)

// ReactionKinds lists every supported kind in display order.
var ReactionKinds = []ReactionKind{ReactionLike, ReactionLove, ReactionLaugh}

// ValidReactionKind reports whether s names a supported reaction kind.
func ValidReactionKind(s string) bool {
	switch ReactionKind(s) {
	case ReactionLike, ReactionLove, ReactionLaugh:
		return true
	}
	return false
}

// NewReactions returns a reaction map with every kind present at zero.
func NewReactions() map[ReactionKind]int {
	m := make(map[ReactionKind]int, len(ReactionKinds))
	for _, k := range ReactionKinds {
		m[k] = 0
	}
	return m
}

// Comment is a viewer message that passed moderation.
type Comment struct {
	ID         int64                `json:"id"`
	Name       string               `json:"name"`
	Message    string               `json:"message"`
	CreatedAt  time.Time            `json:"createdAt"`
	Reactions  map[ReactionKind]int `json:"reactions"`
	Replies    []Reply              `json:"replies"`
	NeedsReply bool                 `json:"needsReply"`
}

// Reply is a host response attached to a comment. It has no lifecycle of
// its own; it lives and dies with its parent comment.
type Reply struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a deep copy safe to hand outside the store's lock.
func (c *Comment) Clone() *Comment {
	cp := *c
	cp.Reactions = make(map[ReactionKind]int, len(c.Reactions))
	for k, v := range c.Reactions {
		cp.Reactions[k] = v
	}
	cp.Replies = make([]Reply, len(c.Replies))
	copy(cp.Replies, c.Replies)
	return &cp
}

// PostCommentRequest is the create-comment request body.
type PostCommentRequest struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// PostReactionRequest is the add-reaction request body.
type PostReactionRequest struct {
	Kind string `json:"kind"`
}

// PostReplyRequest is the add-reply request body.
type PostReplyRequest struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// SetReplyStatusRequest is the reply-status update body. NeedsReply is a
// pointer so a missing or non-boolean field is rejected instead of
// defaulting to false.
type SetReplyStatusRequest struct {
	NeedsReply *bool `json:"needsReply" binding:"required"`
}
