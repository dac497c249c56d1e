package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"kinolab/handlers"
	"kinolab/services/sessions"
)

// corsMiddleware handles CORS for API routes
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleOptions handles OPTIONS requests for CORS preflight
func handleOptions(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Register mounts API endpoints onto the provided router.
func Register(
	r *mux.Router,
	authHandler *handlers.AuthHandler,
	metadataHandler *handlers.MetadataHandler,
	playerHandler *handlers.PlayerHandler,
	favoritesHandler *handlers.FavoritesHandler,
	reactionsHandler *handlers.ReactionsHandler,
	torrentsHandler *handlers.TorrentsHandler,
	imageHandler *handlers.ImageHandler,
	sessionsSvc *sessions.Service,
) {
	api := r.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware)

	// Auth routes (no authentication required)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/auth/verify", authHandler.Verify).Methods(http.MethodPost)
	api.HandleFunc("/auth/verify", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/auth/resend", authHandler.ResendVerification).Methods(http.MethodPost)
	api.HandleFunc("/auth/resend", handleOptions).Methods(http.MethodOptions)

	// Discovery, details and playback resolution are public; Image
	// components cannot send auth headers either.
	api.HandleFunc("/metadata/trending", metadataHandler.Trending).Methods(http.MethodGet)
	api.HandleFunc("/metadata/trending", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/metadata/search", metadataHandler.Search).Methods(http.MethodGet)
	api.HandleFunc("/metadata/search", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/metadata/{mediaType}/{id}", metadataHandler.Details).Methods(http.MethodGet)
	api.HandleFunc("/metadata/{mediaType}/{id}", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/metadata/{mediaType}/{id}/external-ids", metadataHandler.ExternalIDs).Methods(http.MethodGet)
	api.HandleFunc("/metadata/{mediaType}/{id}/external-ids", handleOptions).Methods(http.MethodOptions)

	api.HandleFunc("/player/resolve", playerHandler.Resolve).Methods(http.MethodPost)
	api.HandleFunc("/player/resolve", handleOptions).Methods(http.MethodOptions)

	api.HandleFunc("/torrents/search", torrentsHandler.Search).Methods(http.MethodGet)
	api.HandleFunc("/torrents/search", handleOptions).Methods(http.MethodOptions)

	api.HandleFunc("/image", imageHandler.Proxy).Methods(http.MethodGet)
	api.HandleFunc("/image", handleOptions).Methods(http.MethodOptions)

	// Protected routes - require authentication
	protected := api.PathPrefix("").Subrouter()
	protected.Use(handlers.AuthMiddleware(sessionsSvc))

	protected.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)
	protected.HandleFunc("/auth/me", handleOptions).Methods(http.MethodOptions)

	protected.HandleFunc("/favorites", favoritesHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/favorites", favoritesHandler.Add).Methods(http.MethodPost)
	protected.HandleFunc("/favorites", handleOptions).Methods(http.MethodOptions)
	protected.HandleFunc("/favorites/{mediaType}/{id}", favoritesHandler.Contains).Methods(http.MethodGet)
	protected.HandleFunc("/favorites/{mediaType}/{id}", favoritesHandler.Remove).Methods(http.MethodDelete)
	protected.HandleFunc("/favorites/{mediaType}/{id}", handleOptions).Methods(http.MethodOptions)

	protected.HandleFunc("/reactions/{mediaType}/{id}", reactionsHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/reactions/{mediaType}/{id}", reactionsHandler.Set).Methods(http.MethodPost)
	protected.HandleFunc("/reactions/{mediaType}/{id}", handleOptions).Methods(http.MethodOptions)
}
