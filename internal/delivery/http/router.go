package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"quickplan/internal/delivery/http/controllers"
	"quickplan/internal/delivery/http/middleware"
	"quickplan/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Creator endpoints require a Bearer token; guest endpoints are identified by
// nickname; the chat history endpoint accepts either.
func NewRouter(
	eventController *controllers.EventController,
	chatController *controllers.ChatController,
	wsHandler http.HandlerFunc,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier)
	optionalAuth := middleware.OptionalAuth(verifier)

	// Creator
	mux.HandleFunc("POST /events", requireAuth(eventController.CreateEvent))
	mux.HandleFunc("GET /events", requireAuth(eventController.ListMyEvents))
	mux.HandleFunc("DELETE /events/{eventID}", requireAuth(eventController.DeleteEvent))

	// Guest
	mux.HandleFunc("GET /events/{eventID}/guests/{nickname}", eventController.GetEventForGuest)
	mux.HandleFunc("PUT /events/{eventID}/guests/{nickname}/vote", eventController.SubmitVote)
	mux.HandleFunc("GET /events/{eventID}/tally", eventController.GetTally)

	// Chat
	mux.HandleFunc("GET /events/{eventID}/messages", optionalAuth(chatController.ListMessages))
	mux.HandleFunc("GET /ws", wsHandler)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
