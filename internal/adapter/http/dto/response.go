package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/internal/usecase"
)

// MeetingResponse represents a meeting in API responses.
type MeetingResponse struct {
	ID               string          `json:"id"`
	LocalID          string          `json:"local_id"`
	CycleID          string          `json:"cycle_id"`
	GroupID          string          `json:"group_id"`
	MeetingDate      time.Time       `json:"meeting_date"`
	MeetingNumber    int             `json:"meeting_number"`
	TotalSavings     decimal.Decimal `json:"total_savings"`
	TotalSharesSold  int64           `json:"total_shares_sold"`
	ProcessingStatus string          `json:"processing_status"`
	HasErrors        bool            `json:"has_errors"`
	HasWarnings      bool            `json:"has_warnings"`
	Errors           []domain.Issue  `json:"errors,omitempty"`
	Warnings         []domain.Issue  `json:"warnings,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	ProcessedAt      *time.Time      `json:"processed_at,omitempty"`
}

// MeetingFromDomain converts a domain meeting to a response.
func MeetingFromDomain(m *domain.Meeting) *MeetingResponse {
	return &MeetingResponse{
		ID:               m.ID,
		LocalID:          m.LocalID,
		CycleID:          m.CycleID,
		GroupID:          m.GroupID,
		MeetingDate:      m.MeetingDate,
		MeetingNumber:    m.MeetingNumber,
		TotalSavings:     m.TotalSavings,
		TotalSharesSold:  m.TotalSharesSold,
		ProcessingStatus: string(m.ProcessingStatus),
		HasErrors:        m.HasErrors,
		HasWarnings:      m.HasWarnings,
		Errors:           m.Errors,
		Warnings:         m.Warnings,
		CreatedAt:        m.CreatedAt,
		ProcessedAt:      m.ProcessedAt,
	}
}

// MeetingsFromDomain converts domain meetings to responses.
func MeetingsFromDomain(meetings []*domain.Meeting) []*MeetingResponse {
	result := make([]*MeetingResponse, len(meetings))
	for i, m := range meetings {
		result[i] = MeetingFromDomain(m)
	}
	return result
}

// SubmitMeetingResponse is the combined submission outcome: the stored
// meeting plus the processing result the client acts on.
type SubmitMeetingResponse struct {
	Meeting *MeetingResponse         `json:"meeting"`
	Result  *domain.ProcessingResult `json:"result"`
}

// LoanResponse represents a loan in API responses.
type LoanResponse struct {
	ID               string          `json:"id"`
	CycleID          string          `json:"cycle_id"`
	GroupID          string          `json:"group_id"`
	BorrowerID       string          `json:"borrower_id"`
	Principal        decimal.Decimal `json:"principal"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	DurationMonths   int             `json:"duration_months"`
	TotalDue         decimal.Decimal `json:"total_due"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	Balance          decimal.Decimal `json:"balance"`
	DisbursementDate time.Time       `json:"disbursement_date"`
	DueDate          time.Time       `json:"due_date"`
	Status           string          `json:"status"`
	Purpose          string          `json:"purpose,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// LoanFromDomain converts a domain loan to a response.
func LoanFromDomain(l *domain.Loan) *LoanResponse {
	return &LoanResponse{
		ID:               l.ID,
		CycleID:          l.CycleID,
		GroupID:          l.GroupID,
		BorrowerID:       l.BorrowerID,
		Principal:        l.Principal,
		InterestRate:     l.InterestRate,
		DurationMonths:   l.DurationMonths,
		TotalDue:         l.TotalDue,
		AmountPaid:       l.AmountPaid,
		Balance:          l.Balance,
		DisbursementDate: l.DisbursementDate,
		DueDate:          l.DueDate,
		Status:           string(l.Status),
		Purpose:          l.Purpose,
		CreatedAt:        l.CreatedAt,
	}
}

// LoansFromDomain converts domain loans to responses.
func LoansFromDomain(loans []*domain.Loan) []*LoanResponse {
	result := make([]*LoanResponse, len(loans))
	for i, l := range loans {
		result[i] = LoanFromDomain(l)
	}
	return result
}

// LoanTransactionResponse represents one row of a loan's transaction log.
type LoanTransactionResponse struct {
	ID              string          `json:"id"`
	LoanID          string          `json:"loan_id"`
	Amount          decimal.Decimal `json:"amount"`
	Type            string          `json:"type"`
	TransactionDate time.Time       `json:"transaction_date"`
	Description     string          `json:"description,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// LoanTransactionsFromDomain converts loan transactions to responses.
func LoanTransactionsFromDomain(txs []*domain.LoanTransaction) []*LoanTransactionResponse {
	result := make([]*LoanTransactionResponse, len(txs))
	for i, tx := range txs {
		result[i] = &LoanTransactionResponse{
			ID:              tx.ID,
			LoanID:          tx.LoanID,
			Amount:          tx.Amount,
			Type:            string(tx.Type),
			TransactionDate: tx.TransactionDate,
			Description:     tx.Description,
			CreatedAt:       tx.CreatedAt,
		}
	}
	return result
}

// SharePurchaseResponse represents a share purchase in API responses.
type SharePurchaseResponse struct {
	ID             string          `json:"id"`
	CycleID        string          `json:"cycle_id"`
	InvestorID     string          `json:"investor_id"`
	NumberOfShares int64           `json:"number_of_shares"`
	SharePrice     decimal.Decimal `json:"share_price"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	PurchaseDate   time.Time       `json:"purchase_date"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SharePurchaseFromDomain converts a domain share purchase to a response.
func SharePurchaseFromDomain(s *domain.SharePurchase) *SharePurchaseResponse {
	return &SharePurchaseResponse{
		ID:             s.ID,
		CycleID:        s.CycleID,
		InvestorID:     s.InvestorID,
		NumberOfShares: s.NumberOfShares,
		SharePrice:     s.SharePrice,
		TotalPaid:      s.TotalPaid,
		PurchaseDate:   s.PurchaseDate,
		CreatedAt:      s.CreatedAt,
	}
}

// SharePurchasesFromDomain converts domain share purchases to responses.
func SharePurchasesFromDomain(purchases []*domain.SharePurchase) []*SharePurchaseResponse {
	result := make([]*SharePurchaseResponse, len(purchases))
	for i, s := range purchases {
		result[i] = SharePurchaseFromDomain(s)
	}
	return result
}

// SocialFundTransactionResponse represents a welfare fund movement.
type SocialFundTransactionResponse struct {
	ID              string          `json:"id"`
	GroupID         string          `json:"group_id"`
	CycleID         string          `json:"cycle_id"`
	MemberID        *string         `json:"member_id,omitempty"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transaction_date"`
	Reason          string          `json:"reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SocialFundTransactionFromDomain converts a fund transaction to a response.
func SocialFundTransactionFromDomain(t *domain.SocialFundTransaction) *SocialFundTransactionResponse {
	return &SocialFundTransactionResponse{
		ID:              t.ID,
		GroupID:         t.GroupID,
		CycleID:         t.CycleID,
		MemberID:        t.MemberID,
		Type:            string(t.Type),
		Amount:          t.Amount,
		TransactionDate: t.TransactionDate,
		Reason:          t.Reason,
		CreatedAt:       t.CreatedAt,
	}
}

// SocialFundTransactionsFromDomain converts fund transactions to responses.
func SocialFundTransactionsFromDomain(txs []*domain.SocialFundTransaction) []*SocialFundTransactionResponse {
	result := make([]*SocialFundTransactionResponse, len(txs))
	for i, t := range txs {
		result[i] = SocialFundTransactionFromDomain(t)
	}
	return result
}

// GroupResponse represents a group in API responses.
type GroupResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupFromDomain converts a domain group to a response.
func GroupFromDomain(g *domain.Group) *GroupResponse {
	return &GroupResponse{ID: g.ID, Name: g.Name, Location: g.Location, CreatedAt: g.CreatedAt}
}

// GroupsFromDomain converts domain groups to responses.
func GroupsFromDomain(groups []*domain.Group) []*GroupResponse {
	result := make([]*GroupResponse, len(groups))
	for i, g := range groups {
		result[i] = GroupFromDomain(g)
	}
	return result
}

// CycleResponse represents a savings cycle in API responses.
type CycleResponse struct {
	ID           string          `json:"id"`
	GroupID      string          `json:"group_id"`
	Name         string          `json:"name"`
	SharePrice   decimal.Decimal `json:"share_price"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	StartDate    time.Time       `json:"start_date"`
	EndDate      time.Time       `json:"end_date"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CycleFromDomain converts a domain cycle to a response.
func CycleFromDomain(c *domain.Cycle) *CycleResponse {
	return &CycleResponse{
		ID:           c.ID,
		GroupID:      c.GroupID,
		Name:         c.Name,
		SharePrice:   c.SharePrice,
		InterestRate: c.InterestRate,
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
		Status:       string(c.Status),
		CreatedAt:    c.CreatedAt,
	}
}

// CyclesFromDomain converts domain cycles to responses.
func CyclesFromDomain(cycles []*domain.Cycle) []*CycleResponse {
	result := make([]*CycleResponse, len(cycles))
	for i, c := range cycles {
		result[i] = CycleFromDomain(c)
	}
	return result
}

// MemberResponse represents a member in API responses.
type MemberResponse struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
	CreatedAt time.Time `json:"created_at"`
}

// MemberFromDomain converts a domain member to a response.
func MemberFromDomain(m *domain.Member) *MemberResponse {
	return &MemberResponse{
		ID:        m.ID,
		GroupID:   m.GroupID,
		Name:      m.Name,
		Phone:     m.Phone,
		JoinedAt:  m.JoinedAt,
		CreatedAt: m.CreatedAt,
	}
}

// MembersFromDomain converts domain members to responses.
func MembersFromDomain(members []*domain.Member) []*MemberResponse {
	result := make([]*MemberResponse, len(members))
	for i, m := range members {
		result[i] = MemberFromDomain(m)
	}
	return result
}

// EntryResponse represents one ledger leg in API responses.
type EntryResponse struct {
	ID              string          `json:"id"`
	GroupID         string          `json:"group_id"`
	MemberID        *string         `json:"member_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Source          string          `json:"source"`
	TransactionDate time.Time       `json:"transaction_date"`
	Description     string          `json:"description,omitempty"`
	MeetingID       *string         `json:"meeting_id,omitempty"`
	LoanID          *string         `json:"loan_id,omitempty"`
	ContraID        *string         `json:"contra_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain ledger leg to a response.
func EntryFromDomain(e *domain.AccountTransaction) *EntryResponse {
	return &EntryResponse{
		ID:              e.ID,
		GroupID:         e.GroupID,
		MemberID:        e.MemberID,
		Amount:          e.Amount,
		Source:          string(e.Source),
		TransactionDate: e.TransactionDate,
		Description:     e.Description,
		MeetingID:       e.MeetingID,
		LoanID:          e.LoanID,
		ContraID:        e.ContraID,
		CreatedAt:       e.CreatedAt,
	}
}

// EntriesFromDomain converts domain ledger legs to responses.
func EntriesFromDomain(entries []*domain.AccountTransaction) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// MemberStatementResponse represents a member's signed transaction history.
type MemberStatementResponse struct {
	Member       *MemberResponse  `json:"member"`
	Transactions []*EntryResponse `json:"transactions"`
	NetPosition  decimal.Decimal  `json:"net_position"`
}

// MemberStatementFromUseCase converts a statement to a response.
func MemberStatementFromUseCase(s *usecase.MemberStatement) *MemberStatementResponse {
	return &MemberStatementResponse{
		Member:       MemberFromDomain(s.Member),
		Transactions: EntriesFromDomain(s.Transactions),
		NetPosition:  s.NetPosition,
	}
}

// BalanceResponse represents a single computed balance.
type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
