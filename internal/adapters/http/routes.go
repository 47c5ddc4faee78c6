package web

import (
	"net/http"

	"gymdesk/internal/adapters/http/middleware"
)

// registerRoutes wires all application routes. Paths carry a trailing slash;
// the {$} anchor keeps "/" from swallowing everything. Routes behind a login
// are guarded by RequireAuth rather than per-handler checks.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/{$}", handleHome)
	mux.HandleFunc("/register/{$}", handleRegister)
	mux.HandleFunc("/login/{$}", handleLogin)
	mux.HandleFunc("/logout/{$}", handleLogout)
	mux.Handle("/dashboard/{$}", middleware.RequireAuth(http.HandlerFunc(handleDashboard)))
	mux.Handle("/plans/{$}", middleware.RequireAuth(http.HandlerFunc(handlePlans)))
	mux.Handle("/subscribe/{plan_id}/{$}", middleware.RequireAuth(http.HandlerFunc(handleSubscribe)))
	mux.Handle("/inbox/{$}", middleware.RequireAuth(http.HandlerFunc(handleInbox)))
	mux.Handle("/chat/{user_id}/{$}", middleware.RequireAuth(http.HandlerFunc(handleChat)))
}
