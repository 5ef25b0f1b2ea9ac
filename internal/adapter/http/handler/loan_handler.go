package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/vslaledger/internal/adapter/http/dto"
	"github.com/iho/vslaledger/internal/usecase"
)

// LoanHandler handles loan-related HTTP requests.
type LoanHandler struct {
	loanUC *usecase.LoanUseCase
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loanUC *usecase.LoanUseCase) *LoanHandler {
	return &LoanHandler{loanUC: loanUC}
}

// Disburse creates a new loan outside a meeting.
func (h *LoanHandler) Disburse(w http.ResponseWriter, r *http.Request) {
	var req dto.DisburseLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.Disburse(r.Context(), req.ToUseCaseInput(actorID(r)))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to disburse loan", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.LoanFromDomain(loan))
}

// Get retrieves a loan by ID.
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	loan, err := h.loanUC.GetLoan(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get loan", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// Repay records a repayment against a loan.
func (h *LoanHandler) Repay(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")
	if loanID == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	var req dto.RecordRepaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.RecordRepayment(r.Context(), req.ToUseCaseInput(loanID, actorID(r)))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record repayment", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.LoanFromDomain(loan))
}

// Penalty records a penalty against a loan.
func (h *LoanHandler) Penalty(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")
	if loanID == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	var req dto.RecordPenaltyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.RecordPenalty(r.Context(), req.ToUseCaseInput(loanID, actorID(r)))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record penalty", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.LoanFromDomain(loan))
}

// Balance recomputes a loan's balance from its transaction log.
func (h *LoanHandler) Balance(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")
	if loanID == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	balance, err := h.loanUC.CalculateBalance(r.Context(), loanID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to calculate balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{Balance: balance})
}

// ListTransactions lists a loan's transaction log.
func (h *LoanHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")
	if loanID == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	txs, err := h.loanUC.ListLoanTransactions(r.Context(), loanID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list loan transactions", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.LoanTransactionsFromDomain(txs))
}

// ListByCycle lists a cycle's loans.
func (h *LoanHandler) ListByCycle(w http.ResponseWriter, r *http.Request) {
	cycleID := chi.URLParam(r, "id")
	if cycleID == "" {
		writeError(w, http.StatusBadRequest, "missing cycle ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	loans, err := h.loanUC.ListLoansByCycle(r.Context(), cycleID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list loans", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoansFromDomain(loans))
}
