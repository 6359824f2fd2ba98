package service

import (
	"context"

	"github.com/remiriasukaretto/tokumei/internal/domain"
	"github.com/remiriasukaretto/tokumei/internal/hub"
)

// BoardService orchestrates moderation, the comment store and the event
// hub. Every method is one atomic transaction over the shared state, so
// all subscribers observe mutations in a single global order.
type BoardService interface {
	PostComment(ctx context.Context, name, message string) (*domain.Comment, error)
	ListComments(ctx context.Context) []*domain.Comment
	ListNGWords(ctx context.Context) []string
	React(ctx context.Context, commentID int64, kind string) (*domain.ReactionUpdatedPayload, error)
	Reply(ctx context.Context, commentID int64, name, message string) (*domain.ReplyAddedPayload, error)
	SetReplyStatus(ctx context.Context, commentID int64, needsReply bool) (*domain.ReplyRequirementUpdatedPayload, error)
	Subscribe(ctx context.Context) (*hub.Subscriber, []hub.Event)
}
