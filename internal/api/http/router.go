package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter registers every API route under its security route name.
func NewRouter(h *Handler, health *HealthHandler, auth *AuthMiddleware) *mux.Router {
	router := mux.NewRouter()
	router.Use(MetricsMiddleware, auth.Middleware)

	router.HandleFunc("/healthz", health.Health).Methods(http.MethodGet).Name("Health")
	router.HandleFunc("/readyz", health.Readiness).Methods(http.MethodGet).Name("Readiness")
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet).Name("Metrics")

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/me", h.GetMemberDetails).Methods(http.MethodGet).Name("GetMemberDetails")
	api.HandleFunc("/me/items", h.ListMemberItems).Methods(http.MethodGet).Name("ListMemberItems")
	api.HandleFunc("/me/items/{code}/history", h.GetItemHistory).Methods(http.MethodGet).Name("GetItemHistory")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/members", h.ListMembers).Methods(http.MethodGet).Name("ListMembers")
	admin.HandleFunc("/members", h.CreateMember).Methods(http.MethodPost).Name("CreateMember")
	admin.HandleFunc("/members/{id}", h.UpdateMember).Methods(http.MethodPut).Name("UpdateMember")
	admin.HandleFunc("/members/{id}/summary", h.GetMemberSummary).Methods(http.MethodGet).Name("GetMemberSummary")
	admin.HandleFunc("/members/{id}/toggle-active", h.ToggleMemberActive).Methods(http.MethodPost).Name("ToggleMemberActive")
	admin.HandleFunc("/members/{id}/toggle-admin", h.ToggleAdmin).Methods(http.MethodPost).Name("ToggleAdmin")
	admin.HandleFunc("/members/{id}/items/{code}/toggle", h.ToggleItemIssued).Methods(http.MethodPost).Name("ToggleItemIssued")

	admin.HandleFunc("/items", h.ListItems).Methods(http.MethodGet).Name("ListItems")
	admin.HandleFunc("/items/{code}/transactions", h.ListItemTransactions).Methods(http.MethodGet).Name("ListItemTransactions")

	admin.HandleFunc("/transactions", h.CreateTransaction).Methods(http.MethodPost).Name("CreateTransaction")
	admin.HandleFunc("/transactions/{id}", h.UpdateTransaction).Methods(http.MethodPut).Name("UpdateTransaction")
	admin.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods(http.MethodDelete).Name("DeleteTransaction")

	admin.HandleFunc("/settings", h.GetSettings).Methods(http.MethodGet).Name("GetSettings")
	admin.HandleFunc("/settings", h.UpdateSettings).Methods(http.MethodPut).Name("UpdateSettings")
	admin.HandleFunc("/settings/accrue", h.AccruePrincipal).Methods(http.MethodPost).Name("AccruePrincipal")

	admin.HandleFunc("/cache", h.GetCacheSnapshot).Methods(http.MethodGet).Name("GetCacheSnapshot")
	admin.HandleFunc("/cache/reload", h.ReloadCache).Methods(http.MethodPost).Name("ReloadCache")

	return router
}
