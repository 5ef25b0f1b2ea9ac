package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/vslaledger/internal/adapter/http/dto"
	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/internal/usecase"
	"github.com/iho/vslaledger/internal/usecase/mocks"
)

type handlerEnv struct {
	router  chi.Router
	entries *mocks.MockEntryRepository
	loans   *mocks.MockLoanRepository
}

// newHandlerEnv wires the meeting and loan handlers against in-memory
// mocks seeded with one group, one active cycle and two members.
func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()

	txManager := mocks.NewMockTransactionManager()
	cycleRepo := mocks.NewMockCycleRepository()
	memberRepo := mocks.NewMockMemberRepository()
	meetingRepo := mocks.NewMockMeetingRepository()
	entryRepo := mocks.NewMockEntryRepository()
	loanRepo := mocks.NewMockLoanRepository()
	loanTxRepo := mocks.NewMockLoanTransactionRepository()
	shareRepo := mocks.NewMockShareRepository()
	fundRepo := mocks.NewMockSocialFundRepository()
	outboxRepo := mocks.NewMockOutboxRepository()
	auditRepo := mocks.NewMockAuditRepository()
	idGen := mocks.NewMockIDGenerator()

	seedCycle := &domain.Cycle{
		ID:           "cycle-1",
		GroupID:      "grp-1",
		Name:         "2026 cycle",
		SharePrice:   decimal.NewFromInt(5000),
		InterestRate: decimal.NewFromInt(10),
		Status:       domain.CycleActive,
	}
	if err := cycleRepo.Create(context.Background(), seedCycle); err != nil {
		t.Fatalf("seed cycle: %v", err)
	}

	for _, m := range []*domain.Member{
		{ID: "mem-1", GroupID: "grp-1", Name: "Amina"},
		{ID: "mem-2", GroupID: "grp-1", Name: "Joseph"},
	} {
		if err := memberRepo.Create(context.Background(), m); err != nil {
			t.Fatalf("seed member: %v", err)
		}
	}

	loanUC := usecase.NewLoanUseCase(txManager, cycleRepo, memberRepo, loanRepo, loanTxRepo, entryRepo, outboxRepo, auditRepo, idGen, nil)
	shareUC := usecase.NewShareUseCase(txManager, cycleRepo, memberRepo, shareRepo, entryRepo, auditRepo, idGen, nil)
	fundUC := usecase.NewSocialFundUseCase(txManager, cycleRepo, memberRepo, fundRepo, auditRepo, idGen, nil)
	entryUC := usecase.NewEntryUseCase(entryRepo, memberRepo)

	processor := usecase.NewMeetingProcessor(usecase.MeetingProcessorConfig{
		TxManager:      txManager,
		MeetingRepo:    meetingRepo,
		CycleRepo:      cycleRepo,
		MemberRepo:     memberRepo,
		AttendanceRepo: mocks.NewMockAttendanceRepository(),
		ActionPlanRepo: mocks.NewMockActionPlanRepository(),
		EntryRepo:      entryRepo,
		OutboxRepo:     outboxRepo,
		AuditRepo:      auditRepo,
		IDGen:          idGen,
		Retrier:        mocks.NewMockRetrier(),
		Loans:          loanUC,
		Shares:         shareUC,
		SocialFund:     fundUC,
	})

	meetingHandler := NewMeetingHandler(processor, entryUC)
	loanHandler := NewLoanHandler(loanUC)

	r := chi.NewRouter()
	r.Post("/meetings", meetingHandler.Submit)
	r.Get("/meetings/{id}", meetingHandler.Get)
	r.Get("/meetings/{id}/entries", meetingHandler.ListEntries)
	r.Post("/loans", loanHandler.Disburse)
	r.Get("/loans/{id}", loanHandler.Get)
	r.Post("/loans/{id}/repayments", loanHandler.Repay)

	return &handlerEnv{router: r, entries: entryRepo, loans: loanRepo}
}

func (e *handlerEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", "officer-1")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	return rec
}

func TestMeetingHandler_SubmitProcessesSavings(t *testing.T) {
	env := newHandlerEnv(t)

	body := `{
		"local_id": "mobile-1",
		"cycle_id": "cycle-1",
		"group_id": "grp-1",
		"meeting_date": "2026-03-14T10:00:00Z",
		"meeting_number": 1,
		"attendance": [{"member_id": "mem-1", "present": true}],
		"transactions": [{"member_id": "mem-1", "amount": "2000", "source": "savings"}]
	}`

	rec := env.do(t, http.MethodPost, "/meetings", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.SubmitMeetingResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if !resp.Result.Success {
		t.Fatalf("expected success, got %+v", resp.Result)
	}

	if resp.Meeting.ProcessingStatus != "completed" {
		t.Fatalf("expected completed, got %s", resp.Meeting.ProcessingStatus)
	}

	if got := len(env.entries.All()); got != 2 {
		t.Fatalf("expected 2 ledger legs, got %d", got)
	}
}

func TestMeetingHandler_SubmitUnknownCycleIsUnprocessable(t *testing.T) {
	env := newHandlerEnv(t)

	body := `{
		"local_id": "mobile-2",
		"cycle_id": "ghost",
		"group_id": "grp-1",
		"meeting_date": "2026-03-14T10:00:00Z",
		"meeting_number": 1
	}`

	rec := env.do(t, http.MethodPost, "/meetings", body)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.SubmitMeetingResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if resp.Result.Success {
		t.Fatalf("expected failure result")
	}

	if resp.Meeting.ProcessingStatus != "failed" {
		t.Fatalf("expected failed status, got %s", resp.Meeting.ProcessingStatus)
	}
}

func TestMeetingHandler_GetUnknownMeetingReturns404(t *testing.T) {
	env := newHandlerEnv(t)

	rec := env.do(t, http.MethodGet, "/meetings/ghost", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLoanHandler_DisburseAndOverpay(t *testing.T) {
	env := newHandlerEnv(t)

	disburse := `{
		"cycle_id": "cycle-1",
		"borrower_id": "mem-1",
		"principal": "100000",
		"duration_months": 3,
		"disbursement_date": "2026-03-14T00:00:00Z"
	}`

	rec := env.do(t, http.MethodPost, "/loans", disburse)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var loan dto.LoanResponse
	if err := json.NewDecoder(rec.Body).Decode(&loan); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if !loan.TotalDue.Equal(decimal.NewFromInt(110000)) {
		t.Fatalf("expected total due 110000, got %s", loan.TotalDue)
	}

	overpay := `{"amount": "200000", "transaction_date": "2026-04-01T00:00:00Z"}`
	rec = env.do(t, http.MethodPost, "/loans/"+loan.ID+"/repayments", overpay)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for overpayment, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMeetingHandler_ListEntriesForMeeting(t *testing.T) {
	env := newHandlerEnv(t)

	body := `{
		"local_id": "mobile-3",
		"cycle_id": "cycle-1",
		"group_id": "grp-1",
		"meeting_date": "2026-03-14T10:00:00Z",
		"meeting_number": 1,
		"transactions": [{"member_id": "mem-2", "amount": "1500", "source": "savings"}]
	}`

	rec := env.do(t, http.MethodPost, "/meetings", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.SubmitMeetingResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	rec = env.do(t, http.MethodGet, "/meetings/"+resp.Meeting.ID+"/entries", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var entries []*dto.EntryResponse
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(entries))
	}

	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}

	if !sum.IsZero() {
		t.Fatalf("expected legs to net to zero, got %s", sum)
	}
}
