package handler

import "net/http"

type routeInfo struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Auth   string `json:"auth"`
}

// ServeRouteIndex lists the API surface for quick discovery in development.
func ServeRouteIndex() http.HandlerFunc {
	routes := []routeInfo{
		{http.MethodPost, "/v1/auth/signup", "none"},
		{http.MethodPost, "/v1/auth/login", "none"},
		{http.MethodGet, "/v1/me", "bearer"},
		{http.MethodGet, "/v1/account", "bearer"},
		{http.MethodGet, "/v1/account/ledger", "bearer"},
		{http.MethodPost, "/v1/pets", "bearer"},
		{http.MethodGet, "/v1/pets", "bearer"},
		{http.MethodGet, "/v1/pets/{id}", "bearer"},
		{http.MethodPut, "/v1/pets/{id}", "bearer"},
		{http.MethodDelete, "/v1/pets/{id}", "bearer"},
		{http.MethodPost, "/v1/pets/{id}/observations", "bearer"},
		{http.MethodGet, "/v1/pets/{id}/observations", "bearer"},
		{http.MethodPut, "/v1/observations/{id}", "bearer"},
		{http.MethodDelete, "/v1/observations/{id}", "bearer"},
		{http.MethodPost, "/v1/admin/accounts/{id}/adjustments", "admin"},
		{http.MethodPut, "/v1/admin/accounts/{id}/tier", "admin"},
		{http.MethodGet, "/v1/admin/accounts/{id}/ledger", "admin"},
		{http.MethodGet, "/health", "none"},
		{http.MethodGet, "/health/ready", "none"},
		{http.MethodGet, "/metrics", "none"},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		RespondSuccess(w, http.StatusOK, routes)
	}
}
