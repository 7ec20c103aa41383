package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"mathblast/internal/auth"
)

// NewRouter assembles the public auth relay, the token-gated API, and the
// websocket play endpoint. authHandler may be nil when no identity
// provider is configured; token verification still applies either way.
func NewRouter(verifier auth.Verifier, api *APIHandler, authHandler *AuthHandler, play *PlayHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	if authHandler != nil {
		authRouter := r.PathPrefix("/auth").Subrouter()
		authRouter.HandleFunc("/login", authHandler.Login).Methods("POST")
		authRouter.HandleFunc("/register", authHandler.Register).Methods("POST")
		authRouter.HandleFunc("/federated", authHandler.Federated).Methods("GET")
		authRouter.HandleFunc("/refresh", authHandler.Refresh).Methods("POST")
		authRouter.HandleFunc("/me", authHandler.Me).Methods("GET")
		authRouter.HandleFunc("/profile", authHandler.UpdateProfile).Methods("PUT")
		authRouter.HandleFunc("/signout", authHandler.SignOut).Methods("POST")
	}

	protected := r.PathPrefix("/").Subrouter()
	protected.Use(auth.Middleware(verifier))
	protected.HandleFunc("/users", api.Users).Methods("GET")
	protected.HandleFunc("/users", api.CreateUser).Methods("POST")
	protected.HandleFunc("/leaderboard", api.Leaderboard).Methods("GET")
	protected.HandleFunc("/scores/me", api.MyHistory).Methods("GET")
	if play != nil {
		protected.HandleFunc("/play", play.ServeWS)
	}
	return r
}
