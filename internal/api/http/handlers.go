package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"mitramandal-backend/internal/service"
)

// Handler serves the REST API on top of the services.
type Handler struct {
	members      service.MemberService
	items        service.ItemService
	transactions service.TransactionService
	admin        service.AdminService
	cache        service.CacheService
}

func NewHandler(
	members service.MemberService,
	items service.ItemService,
	transactions service.TransactionService,
	admin service.AdminService,
	cache service.CacheService,
) *Handler {
	return &Handler{
		members:      members,
		items:        items,
		transactions: transactions,
		admin:        admin,
		cache:        cache,
	}
}

func callerID(r *http.Request) string {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		return ""
	}
	return claims.MemberID
}

func queryInt32(r *http.Request, key string) int32 {
	v, err := strconv.ParseInt(r.URL.Query().Get(key), 10, 32)
	if err != nil {
		return 0
	}
	return int32(v)
}

// Member self-service

func (h *Handler) GetMemberDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.members.GetMemberDetails(r.Context(), callerID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, details)
}

func (h *Handler) ListMemberItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.members.ListMemberItems(r.Context(), callerID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) GetItemHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.members.GetItemHistory(r.Context(), callerID(r), mux.Vars(r)["code"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

// Admin - members

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.members.ListMembers(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, members)
}

func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req enrollMemberRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	member, err := h.members.EnrollMember(r.Context(), service.EnrollMemberRequest{
		Name:        req.Name,
		Mobile:      req.Mobile,
		ItemCodes:   req.ItemCodes,
		CreateItems: req.CreateItems,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, member)
}

func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	var req updateMemberRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	member, err := h.members.UpdateMember(r.Context(), mux.Vars(r)["id"], req.Name, req.Mobile)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, member)
}

func (h *Handler) GetMemberSummary(w http.ResponseWriter, r *http.Request) {
	details, err := h.members.GetMemberDetails(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, details)
}

func (h *Handler) ToggleMemberActive(w http.ResponseWriter, r *http.Request) {
	member, err := h.members.ToggleActive(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, member)
}

func (h *Handler) ToggleAdmin(w http.ResponseWriter, r *http.Request) {
	settings, err := h.admin.ToggleAdmin(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (h *Handler) ToggleItemIssued(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	item, err := h.members.ToggleItemIssued(r.Context(), vars["id"], vars["code"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// Admin - items and transactions

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.ListItems(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) ListItemTransactions(w http.ResponseWriter, r *http.Request) {
	page, err := h.items.ListItemTransactions(r.Context(), mux.Vars(r)["code"],
		queryInt32(r, "page"), queryInt32(r, "limit"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	txn, err := h.transactions.CreateTransaction(r.Context(), req.toService(callerID(r)))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, txn)
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	txn, err := h.transactions.UpdateTransaction(r.Context(), mux.Vars(r)["id"], req.toService(callerID(r)))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, txn)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.transactions.DeleteTransaction(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Admin - club settings and cache

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.admin.GetSettings(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	settings, err := h.admin.UpdateSettings(r.Context(), service.SettingsUpdate{
		InterestPerMonth:            req.InterestPerMonth,
		DefaultPrincipalAmount:      req.DefaultPrincipalAmount,
		CurrentTotalPrincipalAmount: req.CurrentTotalPrincipalAmount,
		DateOfEMI:                   req.DateOfEMI,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (h *Handler) AccruePrincipal(w http.ResponseWriter, r *http.Request) {
	settings, err := h.admin.AccruePrincipal(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (h *Handler) GetCacheSnapshot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cache.Snapshot())
}

func (h *Handler) ReloadCache(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Reload(r.Context()); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "cache reloaded"})
}
