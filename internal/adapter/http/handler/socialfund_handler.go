package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/vslaledger/internal/adapter/http/dto"
	"github.com/iho/vslaledger/internal/usecase"
)

// SocialFundHandler handles welfare fund HTTP requests.
type SocialFundHandler struct {
	fundUC *usecase.SocialFundUseCase
}

// NewSocialFundHandler creates a new SocialFundHandler.
func NewSocialFundHandler(fundUC *usecase.SocialFundUseCase) *SocialFundHandler {
	return &SocialFundHandler{fundUC: fundUC}
}

// Contribute records a welfare fund contribution.
func (h *SocialFundHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	var req dto.SocialFundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	fundTx, err := h.fundUC.Contribute(r.Context(), req.ToUseCaseInput(actorID(r)))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record contribution", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.SocialFundTransactionFromDomain(fundTx))
}

// Withdraw records a welfare fund withdrawal. Overdraws are rejected.
func (h *SocialFundHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.SocialFundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	fundTx, err := h.fundUC.Withdraw(r.Context(), req.ToUseCaseInput(actorID(r)))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record withdrawal", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.SocialFundTransactionFromDomain(fundTx))
}

// Balance returns a group's welfare fund balance for a cycle.
func (h *SocialFundHandler) Balance(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	cycleID := r.URL.Query().Get("cycle_id")
	if cycleID == "" {
		writeError(w, http.StatusBadRequest, "missing cycle_id parameter", "")
		return
	}

	balance, err := h.fundUC.GetGroupBalance(r.Context(), groupID, cycleID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{Balance: balance})
}

// List lists a group's welfare fund transactions for a cycle.
func (h *SocialFundHandler) List(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	cycleID := r.URL.Query().Get("cycle_id")
	if cycleID == "" {
		writeError(w, http.StatusBadRequest, "missing cycle_id parameter", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	txs, err := h.fundUC.ListByGroup(r.Context(), groupID, cycleID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list fund transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SocialFundTransactionsFromDomain(txs))
}
