package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/vslaledger/internal/adapter/http/dto"
	"github.com/iho/vslaledger/internal/usecase"
)

// ShareHandler handles share purchase HTTP requests.
type ShareHandler struct {
	shareUC *usecase.ShareUseCase
}

// NewShareHandler creates a new ShareHandler.
func NewShareHandler(shareUC *usecase.ShareUseCase) *ShareHandler {
	return &ShareHandler{shareUC: shareUC}
}

// Purchase records an investor share purchase.
func (h *ShareHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req dto.PurchaseSharesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	purchase, err := h.shareUC.PurchaseShares(r.Context(), req.ToUseCaseInput(actorID(r)))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to purchase shares", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.SharePurchaseFromDomain(purchase))
}

// ListByCycle lists a cycle's share purchases.
func (h *ShareHandler) ListByCycle(w http.ResponseWriter, r *http.Request) {
	cycleID := chi.URLParam(r, "id")
	if cycleID == "" {
		writeError(w, http.StatusBadRequest, "missing cycle ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	purchases, err := h.shareUC.ListByCycle(r.Context(), cycleID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list share purchases", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SharePurchasesFromDomain(purchases))
}

// ListByInvestor lists a member's share purchases.
func (h *ShareHandler) ListByInvestor(w http.ResponseWriter, r *http.Request) {
	investorID := chi.URLParam(r, "id")
	if investorID == "" {
		writeError(w, http.StatusBadRequest, "missing investor ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	purchases, err := h.shareUC.ListByInvestor(r.Context(), investorID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list share purchases", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SharePurchasesFromDomain(purchases))
}
