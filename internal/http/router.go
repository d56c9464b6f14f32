package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RouterConfig wires handlers and middleware into the HTTP router.
type RouterConfig struct {
	Reservations *ReservationHandler
	Rooms        *RoomHandler
	Middleware   []func(http.Handler) http.Handler
	Authenticate func(http.Handler) http.Handler
}

// NewRouter builds the route table. Middleware wraps every route; the
// Authenticate middleware guards the API routes only, leaving the health
// endpoint open for probes.
func NewRouter(cfg RouterConfig) http.Handler {
	router := mux.NewRouter()
	for _, middleware := range cfg.Middleware {
		if middleware != nil {
			router.Use(middleware)
		}
	}

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/").Subrouter()
	if cfg.Authenticate != nil {
		api.Use(cfg.Authenticate)
	}

	if cfg.Reservations != nil {
		api.HandleFunc("/reservations", cfg.Reservations.List).Methods(http.MethodGet)
		api.HandleFunc("/reservations", cfg.Reservations.Create).Methods(http.MethodPost)
		api.HandleFunc("/reservations/{id}", cfg.Reservations.Update).Methods(http.MethodPatch)
		api.HandleFunc("/reservations/{id}", cfg.Reservations.Delete).Methods(http.MethodDelete)
	}

	if cfg.Rooms != nil {
		api.HandleFunc("/rooms", cfg.Rooms.List).Methods(http.MethodGet)
	}

	return router
}
