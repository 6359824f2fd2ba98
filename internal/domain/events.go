package domain

// Event kinds pushed to live-feed subscribers.
const (
	EventComment                 = "comment"
	EventNGWordsUpdated          = "ng_words_updated"
	EventReactionUpdated         = "reaction_updated"
	EventReplyAdded              = "reply_added"
	EventReplyRequirementUpdated = "reply_requirement_updated"
)

// NGWordsUpdatedPayload carries the full banned-word set plus the words
// added by the triggering request.
type NGWordsUpdatedPayload struct {
	NGWords []string `json:"ngWords"`
	Added   []string `json:"added"`
}

// ReactionUpdatedPayload carries the full reaction map after an increment.
type ReactionUpdatedPayload struct {
	CommentID int64                `json:"commentId"`
	Reactions map[ReactionKind]int `json:"reactions"`
}

// ReplyAddedPayload carries a newly appended reply.
type ReplyAddedPayload struct {
	CommentID int64 `json:"commentId"`
	Reply     Reply `json:"reply"`
}

// ReplyRequirementUpdatedPayload carries a needs-reply flag change.
type ReplyRequirementUpdatedPayload struct {
	CommentID  int64 `json:"commentId"`
	NeedsReply bool  `json:"needsReply"`
}
