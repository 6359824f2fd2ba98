package audit

import (
	"context"
	"strings"

	"github.com/remiriasukaretto/tokumei/pkg/log"
)

// Audit actions for the comment board.
const (
	ActionCommentPosted  = "board.comment_posted"
	ActionCommentBlocked = "board.comment_blocked"
	ActionWordsLearned   = "board.ng_words_learned"
	ActionReplyAdded     = "board.reply_added"
	ActionReplyStatusSet = "board.reply_status_set"
)

// Field constants for audit entries.
const (
	FieldAction = "action"
	FieldDetail = "detail"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Msg(msg)
}

// LogWords emits an audit log carrying the words involved in a moderation
// decision.
func LogWords(ctx context.Context, action string, words []string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(FieldDetail, strings.Join(words, ",")).
		Msg(msg)
}
