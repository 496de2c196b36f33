package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"quickplan/internal/delivery/http/helpers"
	"quickplan/internal/delivery/http/middleware"
	"quickplan/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

type EventController struct {
	Logger  *slog.Logger
	Service domain.VotingService
}

func NewEventController(logger *slog.Logger, svc domain.VotingService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateOptionRequest is one option in the create-event request body.
type CreateOptionRequest struct {
	Name     string     `json:"name"`
	Price    *float64   `json:"price"`
	StartsAt *time.Time `json:"starts_at"`
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Name           string                `json:"name"`
	VotingDeadline time.Time             `json:"voting_deadline"`
	Options        []CreateOptionRequest `json:"options"`
	GuestNicknames []string              `json:"guest_nicknames"`
}

// Validate implements helpers.Validator.
func (r *CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if r.VotingDeadline.IsZero() {
		errs = append(errs, "voting_deadline is required")
	}
	if len(r.Options) == 0 {
		errs = append(errs, "at least one option is required")
	}
	for _, o := range r.Options {
		if strings.TrimSpace(o.Name) == "" {
			errs = append(errs, "option name must not be blank")
			break
		}
	}
	return errs
}

// CreateEventSuccessResponse is the success response envelope for POST /events (201).
type CreateEventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateEvent godoc
// @Summary Create an event with options and invited guests
// @Description Creates an event owned by the authenticated user, with its voting deadline, its ordered options, and its guest list. Guest nicknames must be non-blank and unique within the event; all guests start without a vote.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateEventRequest true "Event to create"
// @Success 201 {object} controllers.CreateEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	options := make([]domain.OptionInput, 0, len(req.Options))
	for _, o := range req.Options {
		options = append(options, domain.OptionInput{
			Name:     o.Name,
			Price:    o.Price,
			StartsAt: o.StartsAt,
		})
	}

	event, err := c.Service.CreateEvent(r.Context(), userID, req.Name, req.VotingDeadline, options, req.GuestNicknames)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListEventsData is the data object for GET /events.
type ListEventsData struct {
	Events []*domain.Event        `json:"events"`
	Meta   helpers.PaginationMeta `json:"meta"`
}

// ListEventsSuccessResponse is the success response envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Data  *ListEventsData   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListMyEvents godoc
// @Summary List the authenticated creator's events
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	params := helpers.ParsePagination(r)
	events, total, err := c.Service.ListEventsByCreator(r.Context(), userID, params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsData{
		Events: events,
		Meta:   helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event and cascades its options, guests, and messages. Only the event's creator may delete it.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "Deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := c.eventIDFromPath(w, r)
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	if err := c.Service.DeleteEvent(r.Context(), eventID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetGuestViewSuccessResponse is the success response envelope for GET /events/{eventID}/guests/{nickname} (200).
type GetGuestViewSuccessResponse struct {
	Data  *domain.GuestEventView `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// GetEventForGuest godoc
// @Summary Get an event as seen by one guest
// @Description Returns the event with its options and guest list, plus the named guest's current vote resolved.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param nickname path string true "Guest nickname"
// @Success 200 {object} controllers.GetGuestViewSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found or unknown_guest"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/guests/{nickname} [get]
func (c *EventController) GetEventForGuest(w http.ResponseWriter, r *http.Request) {
	eventID, ok := c.eventIDFromPath(w, r)
	if !ok {
		return
	}
	nickname := r.PathValue("nickname")
	if nickname == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing nickname")
		return
	}

	view, err := c.Service.GetEventForGuest(r.Context(), eventID, nickname)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrUnknownGuest) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeUnknownGuest, "guest not registered for event")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// SubmitVoteRequest is the request body for PUT /events/{eventID}/guests/{nickname}/vote.
// Choice is an option id, the string "unavailable", or null to cancel the vote.
type SubmitVoteRequest struct {
	Choice *string `json:"choice"`
}

// SubmitVoteSuccessResponse is the success response envelope for the vote endpoint (200).
type SubmitVoteSuccessResponse struct {
	Data  *domain.Guest     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SubmitVote godoc
// @Summary Submit, change, or cancel a guest's vote
// @Description Records the guest's choice: an option id, "unavailable", or null to cancel. Rejected with voting_closed once the deadline has passed, regardless of the payload.
// @Tags events
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param nickname path string true "Guest nickname"
// @Param body body controllers.SubmitVoteRequest true "Vote choice"
// @Success 200 {object} controllers.SubmitVoteSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found or unknown_guest"
// @Failure 409 {object} helpers.APIResponse "error.code: voting_closed"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/guests/{nickname}/vote [put]
func (c *EventController) SubmitVote(w http.ResponseWriter, r *http.Request) {
	eventID, ok := c.eventIDFromPath(w, r)
	if !ok {
		return
	}
	nickname := r.PathValue("nickname")
	if nickname == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing nickname")
		return
	}

	var req SubmitVoteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	guest, err := c.Service.SubmitVote(r.Context(), eventID, nickname, req.Choice)
	if err != nil {
		if errors.Is(err, domain.ErrVotingClosed) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeVotingClosed, "voting deadline has passed")
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrUnknownGuest) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeUnknownGuest, "guest not registered for event")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, guest)
}

// GetTallySuccessResponse is the success response envelope for GET /events/{eventID}/tally (200).
type GetTallySuccessResponse struct {
	Data  *domain.Tally     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetTally godoc
// @Summary Get the current vote tally for an event
// @Description Returns per-option counts in option insertion order, the unavailable bucket, total votes cast, and the winner (ties resolve to the earliest-created option).
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.GetTallySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/tally [get]
func (c *EventController) GetTally(w http.ResponseWriter, r *http.Request) {
	eventID, ok := c.eventIDFromPath(w, r)
	if !ok {
		return
	}

	tally, err := c.Service.Tally(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tally)
}

func (c *EventController) eventIDFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return "", false
	}
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return "", false
	}
	return eventID, true
}
