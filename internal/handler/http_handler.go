package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/remiriasukaretto/tokumei/internal/domain"
	"github.com/remiriasukaretto/tokumei/internal/service"
	"github.com/remiriasukaretto/tokumei/pkg/log"
	"github.com/remiriasukaretto/tokumei/pkg/response"
)

// Handler handles the REST surface of the comment board.
type Handler struct {
	board service.BoardService
}

// NewHandler creates a new HTTP handler.
func NewHandler(board service.BoardService) *Handler {
	return &Handler{board: board}
}

// RegisterRoutes registers all REST routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		comments := api.Group("/comments")
		{
			comments.GET("", h.ListComments)
			comments.POST("", h.PostComment)
			comments.POST("/:id/reactions", h.React)
			comments.POST("/:id/replies", h.Reply)
			comments.PUT("/:id/reply-status", h.SetReplyStatus)
		}
		api.GET("/ng-words", h.ListNGWords)
	}
}

// PostComment creates a comment after it passes moderation.
func (h *Handler) PostComment(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.PostCommentRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}

	comment, err := h.board.PostComment(ctx, req.Name, req.Message)
	if err != nil {
		var modErr *service.ModerationError
		switch {
		case errors.As(err, &modErr):
			response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "MODERATION_REJECTED",
				"message contains banned words", gin.H{"detectedWords": modErr.Detected})
		case errors.Is(err, service.ErrEmptyMessage):
			response.BadRequest(c, "message is required")
		default:
			l.Error().Err(err).Msg("failed to post comment")
			response.InternalError(c, "failed to post comment")
		}
		return
	}

	response.Created(c, comment)
}

// ListComments returns every comment in insertion order.
func (h *Handler) ListComments(c *gin.Context) {
	response.Success(c, h.board.ListComments(c.Request.Context()))
}

// ListNGWords returns the banned words in the order they were learned.
func (h *Handler) ListNGWords(c *gin.Context) {
	words := h.board.ListNGWords(c.Request.Context())
	if words == nil {
		words = []string{}
	}
	response.Success(c, gin.H{"ngWords": words})
}

// React increments one reaction counter on a comment.
func (h *Handler) React(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	commentID, ok := commentIDParam(c)
	if !ok {
		return
	}

	var req domain.PostReactionRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}

	payload, err := h.board.React(ctx, commentID, req.Kind)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			response.NotFound(c, "comment not found")
		case errors.Is(err, service.ErrInvalidReactionKind):
			response.BadRequest(c, "kind must be one of like, love, laugh")
		default:
			l.Error().Err(err).Int64(log.FieldCommentID, commentID).Msg("failed to add reaction")
			response.InternalError(c, "failed to add reaction")
		}
		return
	}

	response.Success(c, payload)
}

// Reply appends a host reply to a comment.
func (h *Handler) Reply(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	commentID, ok := commentIDParam(c)
	if !ok {
		return
	}

	var req domain.PostReplyRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}

	payload, err := h.board.Reply(ctx, commentID, req.Name, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			response.NotFound(c, "comment not found")
		case errors.Is(err, service.ErrEmptyMessage):
			response.BadRequest(c, "message is required")
		case errors.Is(err, service.ErrReplyClosed):
			response.Conflict(c, "comment no longer accepts replies")
		default:
			l.Error().Err(err).Int64(log.FieldCommentID, commentID).Msg("failed to add reply")
			response.InternalError(c, "failed to add reply")
		}
		return
	}

	response.Success(c, payload)
}

// SetReplyStatus overwrites the needs-reply flag on a comment.
func (h *Handler) SetReplyStatus(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	commentID, ok := commentIDParam(c)
	if !ok {
		return
	}

	var req domain.SetReplyStatusRequest
	if !bindJSON(c, &req, "needsReply boolean is required") {
		return
	}

	payload, err := h.board.SetReplyStatus(ctx, commentID, *req.NeedsReply)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			response.NotFound(c, "comment not found")
		default:
			l.Error().Err(err).Int64(log.FieldCommentID, commentID).Msg("failed to set reply status")
			response.InternalError(c, "failed to set reply status")
		}
		return
	}

	response.Success(c, payload)
}

// bindJSON decodes the request body into req. A body that is not JSON at
// all is MALFORMED_REQUEST; a body that parses but carries a missing or
// wrong-typed field is a plain bad-request with invalidMsg.
func bindJSON(c *gin.Context, req interface{}, invalidMsg string) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	l := log.Ctx(c.Request.Context())
	l.Warn().Err(err).Msg("failed to bind request body")

	var typeErr *json.UnmarshalTypeError
	var validationErrs validator.ValidationErrors
	if errors.As(err, &typeErr) || errors.As(err, &validationErrs) {
		response.BadRequest(c, invalidMsg)
	} else {
		response.Error(c, http.StatusBadRequest, "MALFORMED_REQUEST", "invalid json body")
	}
	return false
}

func commentIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid comment id")
		return 0, false
	}
	return id, true
}
