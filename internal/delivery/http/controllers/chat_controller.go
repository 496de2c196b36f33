package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"quickplan/internal/delivery/http/helpers"
	"quickplan/internal/delivery/http/middleware"
	"quickplan/internal/domain"
)

type ChatController struct {
	Logger  *slog.Logger
	Gate    domain.ChatAccessService
	History domain.ChatHistoryService
}

func NewChatController(logger *slog.Logger, gate domain.ChatAccessService, history domain.ChatHistoryService) *ChatController {
	return &ChatController{
		Logger:  logger,
		Gate:    gate,
		History: history,
	}
}

// ListMessagesSuccessResponse is the success response envelope for GET /events/{eventID}/messages (200).
type ListMessagesSuccessResponse struct {
	Data  []*domain.Message `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListMessages godoc
// @Summary Replay an event's chat history
// @Description Returns the event's full message history, ascending by created_at. Gated like the realtime room: the event's creator must be on the PRO plan and the caller must be the creator (bearer token) or a registered guest (nickname query parameter). Unknown events and denied identities both answer access_denied.
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param nickname query string false "Guest nickname"
// @Success 200 {object} controllers.ListMessagesSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: access_denied"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/messages [get]
func (c *ChatController) ListMessages(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}

	identity := domain.ChatIdentity{Nickname: r.URL.Query().Get("nickname")}
	if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
		identity.UserID = userID
	}

	if _, err := c.Gate.Authorize(r.Context(), eventID, identity); err != nil {
		// Unknown event and failed gate answer identically: no existence leak.
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrAccessDenied) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeAccessDenied, "Access denied")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	messages, err := c.History.ListForEvent(r.Context(), eventID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, messages)
}
