package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/internal/infrastructure/metrics"
)

// MeetingProcessor converts one submitted meeting into ledger state. It is
// the only writer of account, loan, share and social fund rows tied to a
// meeting.
type MeetingProcessor struct {
	txManager      TransactionManager
	meetingRepo    MeetingRepository
	cycleRepo      CycleRepository
	memberRepo     MemberRepository
	attendanceRepo AttendanceRepository
	actionPlanRepo ActionPlanRepository
	entryRepo      EntryRepository
	outboxRepo     OutboxRepository
	auditRepo      AuditRepository
	idGen          IDGenerator
	retrier        Retrier

	loans      *LoanUseCase
	shares     *ShareUseCase
	socialFund *SocialFundUseCase
	metrics    *metrics.Metrics

	// Action plans are an optional feature; when disabled the processor
	// records a warning instead of creating rows.
	actionPlansEnabled bool
}

// MeetingProcessorConfig holds dependencies for the MeetingProcessor.
type MeetingProcessorConfig struct {
	TxManager          TransactionManager
	MeetingRepo        MeetingRepository
	CycleRepo          CycleRepository
	MemberRepo         MemberRepository
	AttendanceRepo     AttendanceRepository
	ActionPlanRepo     ActionPlanRepository
	EntryRepo          EntryRepository
	OutboxRepo         OutboxRepository
	AuditRepo          AuditRepository
	IDGen              IDGenerator
	Retrier            Retrier
	Loans              *LoanUseCase
	Shares             *ShareUseCase
	SocialFund         *SocialFundUseCase
	Metrics            *metrics.Metrics
	ActionPlansEnabled bool
}

// NewMeetingProcessor creates a new MeetingProcessor.
func NewMeetingProcessor(cfg MeetingProcessorConfig) *MeetingProcessor {
	return &MeetingProcessor{
		txManager:          cfg.TxManager,
		meetingRepo:        cfg.MeetingRepo,
		cycleRepo:          cfg.CycleRepo,
		memberRepo:         cfg.MemberRepo,
		attendanceRepo:     cfg.AttendanceRepo,
		actionPlanRepo:     cfg.ActionPlanRepo,
		entryRepo:          cfg.EntryRepo,
		outboxRepo:         cfg.OutboxRepo,
		auditRepo:          cfg.AuditRepo,
		idGen:              cfg.IDGen,
		retrier:            cfg.Retrier,
		loans:              cfg.Loans,
		shares:             cfg.Shares,
		socialFund:         cfg.SocialFund,
		metrics:            cfg.Metrics,
		actionPlansEnabled: cfg.ActionPlansEnabled,
	}
}

// SubmitMeeting persists a new meeting and processes it. Resubmission of an
// already-known local id returns the stored result without reprocessing.
func (p *MeetingProcessor) SubmitMeeting(ctx context.Context, meeting *domain.Meeting, actorID string) (*domain.ProcessingResult, error) {
	if err := meeting.Validate(); err != nil {
		return nil, err
	}

	existing, err := p.meetingRepo.GetByLocalID(ctx, meeting.LocalID)
	if err != nil && !errors.Is(err, domain.ErrMeetingNotFound) {
		return nil, err
	}

	if existing != nil {
		meeting.ID = existing.ID
		meeting.ProcessingStatus = existing.ProcessingStatus
		meeting.Errors = existing.Errors
		meeting.Warnings = existing.Warnings

		return existing.Result(), nil
	}

	now := time.Now().UTC()
	meeting.ID = p.idGen.Generate()
	meeting.ProcessingStatus = domain.ProcessingPending
	meeting.CreatedBy = actorID
	meeting.CreatedAt = now
	meeting.UpdatedAt = now

	if err := p.meetingRepo.Create(ctx, meeting); err != nil {
		return nil, err
	}

	result, err := p.ProcessMeeting(ctx, meeting.ID, actorID)
	if err != nil {
		return nil, err
	}

	if updated, err := p.meetingRepo.GetByID(ctx, meeting.ID); err == nil {
		*meeting = *updated
	}

	return result, nil
}

// ProcessMeeting processes a pending meeting. Transient database failures
// (deadlocks between concurrent meetings of different cycles) are retried;
// every attempt re-reads the meeting so issue lists never accumulate across
// attempts.
func (p *MeetingProcessor) ProcessMeeting(ctx context.Context, meetingID, actorID string) (*domain.ProcessingResult, error) {
	var result *domain.ProcessingResult

	run := func() error {
		var err error
		result, err = p.processOnce(ctx, meetingID, actorID)

		return err
	}

	var err error
	if p.retrier != nil {
		err = p.retrier.Retry(ctx, run)
	} else {
		err = run()
	}

	if err != nil {
		return nil, err
	}

	return result, nil
}

// meetingTally accumulates what one processing attempt wrote, so metrics
// are recorded once, after the commit, never for rolled-back attempts.
type meetingTally struct {
	postings  int
	disbursed []*domain.Loan
	repaid    []*domain.Loan
	shares    []*domain.SharePurchase
	fundTypes []domain.SocialFundType
}

func (p *MeetingProcessor) processOnce(ctx context.Context, meetingID, actorID string) (*domain.ProcessingResult, error) {
	start := time.Now()
	tally := &meetingTally{}

	meeting, err := p.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	if meeting.ProcessingStatus != domain.ProcessingPending {
		return nil, domain.ErrMeetingAlreadyProcessed
	}

	if err := meeting.Validate(); err != nil {
		return p.fail(ctx, meeting, domain.IssueMalformedPayload, err)
	}

	tx, err := p.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Structural validation. The FOR UPDATE lock on the cycle row also
	// serializes concurrent meetings of the same cycle, so social fund
	// balance checks and loan mutations cannot race.
	cycle, err := p.cycleRepo.GetByIDForUpdate(ctx, tx, meeting.CycleID)
	if err != nil {
		if errors.Is(err, domain.ErrCycleNotFound) {
			return p.fail(ctx, meeting, domain.IssueCycleNotFound, err)
		}

		return nil, err
	}

	if cycle.GroupID != meeting.GroupID {
		return p.fail(ctx, meeting, domain.IssueGroupMismatch, domain.ErrGroupMismatch)
	}

	now := time.Now().UTC()

	if err := p.recordAttendance(ctx, tx, meeting, now); err != nil {
		return nil, err
	}

	if err := p.applyTransactions(ctx, tx, meeting, actorID, tally); err != nil {
		return nil, err
	}

	if err := p.disburseLoans(ctx, tx, cycle, meeting, actorID, tally); err != nil {
		return nil, err
	}

	if structural, err := p.applyRepayments(ctx, tx, cycle, meeting, actorID, tally); err != nil {
		if structural {
			return p.fail(ctx, meeting, domain.IssuePaymentExceedsBalance, err)
		}

		return nil, err
	}

	if err := p.purchaseShares(ctx, tx, cycle, meeting, actorID, tally); err != nil {
		return nil, err
	}

	if err := p.applySocialFund(ctx, tx, meeting, actorID, tally); err != nil {
		return nil, err
	}

	if err := p.recordActionPlans(ctx, tx, meeting, now); err != nil {
		return nil, err
	}

	if err := p.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            p.idGen.Generate(),
		AggregateID:   meeting.ID,
		AggregateType: domain.AggregateTypeMeeting,
		EventType:     domain.EventTypeMeetingProcessed,
		Payload: domain.MarshalState(domain.MeetingProcessedEvent{
			MeetingID: meeting.ID,
			LocalID:   meeting.LocalID,
			GroupID:   meeting.GroupID,
			CycleID:   meeting.CycleID,
			Status:    string(domain.ProcessingCompleted),
			Warnings:  len(meeting.Warnings),
		}),
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	meeting.ProcessingStatus = domain.ProcessingCompleted
	meeting.ProcessedAt = &now
	meeting.UpdatedAt = now

	if err := p.meetingRepo.UpdateStatusTx(ctx, tx, meeting); err != nil {
		return nil, err
	}

	if p.auditRepo != nil {
		if err := p.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
			ID:           p.idGen.Generate(),
			ActorID:      actorID,
			Action:       string(domain.AuditActionMeetingProcess),
			ResourceType: domain.AggregateTypeMeeting,
			ResourceID:   meeting.ID,
			AfterState:   domain.MarshalState(meeting.Result()),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    now,
		}); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.recordProcessed(meeting, tally, time.Since(start))

	return meeting.Result(), nil
}

// recordProcessed records metrics for a committed meeting.
func (p *MeetingProcessor) recordProcessed(meeting *domain.Meeting, tally *meetingTally, elapsed time.Duration) {
	if p.metrics == nil {
		return
	}

	p.metrics.MeetingsProcessed.WithLabelValues(string(domain.ProcessingCompleted)).Inc()
	p.metrics.MeetingDuration.Observe(elapsed.Seconds())
	p.recordIssues(meeting)

	p.metrics.PostingsWritten.Add(float64(tally.postings))

	for _, loan := range tally.disbursed {
		p.metrics.LoansDisbursed.Inc()
		p.metrics.LoanAmount.Observe(loan.Principal.InexactFloat64())
		p.metrics.LoansOutstanding.Inc()
	}

	for _, loan := range tally.repaid {
		p.metrics.LoanRepayments.Inc()

		if loan.Status == domain.LoanPaid {
			p.metrics.LoansOutstanding.Dec()
		}
	}

	for _, share := range tally.shares {
		p.metrics.SharePurchases.Inc()
		p.metrics.SharesSold.Add(float64(share.NumberOfShares))
	}

	for _, typ := range tally.fundTypes {
		p.metrics.SocialFundTransactions.WithLabelValues(string(typ)).Inc()
	}

	if p.auditRepo != nil {
		p.metrics.AuditLogsCreated.WithLabelValues(string(domain.AuditActionMeetingProcess), string(domain.AuditStatusSuccess)).Inc()
	}
}

func (p *MeetingProcessor) recordIssues(meeting *domain.Meeting) {
	for _, issue := range meeting.Errors {
		p.metrics.MeetingIssues.WithLabelValues(issue.Type, "error").Inc()
	}

	for _, issue := range meeting.Warnings {
		p.metrics.MeetingIssues.WithLabelValues(issue.Type, "warning").Inc()
	}
}

// fail rolls the transaction back (via the caller's defer), persists the
// failed status outside it and reports the structural error in the result.
func (p *MeetingProcessor) fail(ctx context.Context, meeting *domain.Meeting, issueType string, cause error) (*domain.ProcessingResult, error) {
	now := time.Now().UTC()

	meeting.AddError(issueType, cause.Error())
	meeting.ProcessingStatus = domain.ProcessingFailed
	meeting.ProcessedAt = &now
	meeting.UpdatedAt = now

	if err := p.meetingRepo.UpdateStatus(ctx, meeting); err != nil {
		return nil, err
	}

	if p.auditRepo != nil {
		_ = p.auditRepo.Create(ctx, &domain.AuditLog{
			ID:           p.idGen.Generate(),
			Action:       string(domain.AuditActionMeetingProcess),
			ResourceType: domain.AggregateTypeMeeting,
			ResourceID:   meeting.ID,
			Status:       string(domain.AuditStatusFailure),
			ErrorMessage: cause.Error(),
			CreatedAt:    now,
		})
	}

	if p.metrics != nil {
		p.metrics.MeetingsProcessed.WithLabelValues(string(domain.ProcessingFailed)).Inc()
		p.recordIssues(meeting)

		if p.auditRepo != nil {
			p.metrics.AuditLogsCreated.WithLabelValues(string(domain.AuditActionMeetingProcess), string(domain.AuditStatusFailure)).Inc()
		}
	}

	return meeting.Result(), nil
}

func (p *MeetingProcessor) recordAttendance(ctx context.Context, tx Transaction, meeting *domain.Meeting, now time.Time) error {
	for _, rec := range meeting.Attendance {
		if _, err := p.memberRepo.GetByID(ctx, rec.MemberID); err != nil {
			if errors.Is(err, domain.ErrMemberNotFound) {
				meeting.AddWarning(domain.IssueMemberNotFound,
					fmt.Sprintf("attendance: member %s not found", rec.MemberID))

				continue
			}

			return err
		}

		if err := p.attendanceRepo.Create(ctx, tx, &domain.Attendance{
			ID:        p.idGen.Generate(),
			MeetingID: meeting.ID,
			MemberID:  rec.MemberID,
			Present:   rec.Present,
			Note:      rec.Note,
			CreatedAt: now,
		}); err != nil {
			return err
		}
	}

	return nil
}

// memberLegAmount returns the signed member-leg amount for an ad-hoc
// meeting transaction: distributions credit the member, everything else
// flows from the member to the group.
func memberLegAmount(source domain.TransactionSource, amount decimal.Decimal) decimal.Decimal {
	switch source {
	case domain.SourceShareDividend, domain.SourceWelfareDistribution:
		return amount
	default:
		return amount.Neg()
	}
}

func (p *MeetingProcessor) applyTransactions(ctx context.Context, tx Transaction, meeting *domain.Meeting, actorID string, tally *meetingTally) error {
	for i, item := range meeting.Transactions {
		if !item.Source.Valid() {
			meeting.AddWarning(domain.IssueMalformedPayload,
				fmt.Sprintf("transaction %d: unknown source %q", i, item.Source))

			continue
		}

		if err := domain.ValidateAmount(item.Amount); err != nil {
			meeting.AddWarning(domain.IssueInvalidAmount,
				fmt.Sprintf("transaction %d: %v", i, err))

			continue
		}

		member, err := p.memberRepo.GetByID(ctx, item.MemberID)
		if err != nil {
			if errors.Is(err, domain.ErrMemberNotFound) {
				meeting.AddWarning(domain.IssueMemberNotFound,
					fmt.Sprintf("transaction %d: member %s not found", i, item.MemberID))

				continue
			}

			return err
		}

		if member.GroupID != meeting.GroupID {
			meeting.AddWarning(domain.IssueMemberNotFound,
				fmt.Sprintf("transaction %d: member %s does not belong to group", i, item.MemberID))

			continue
		}

		meetingID := meeting.ID
		groupLeg, memberLeg := domain.NewPosting(domain.PostingParams{
			GroupLegID:   p.idGen.Generate(),
			MemberLegID:  p.idGen.Generate(),
			GroupID:      meeting.GroupID,
			MemberID:     item.MemberID,
			MemberAmount: memberLegAmount(item.Source, item.Amount),
			Source:       item.Source,
			Date:         meeting.MeetingDate,
			Description:  item.Description,
			MeetingID:    &meetingID,
			ActorID:      actorID,
			Now:          time.Now().UTC(),
		})

		if err := p.entryRepo.Create(ctx, tx, groupLeg); err != nil {
			return err
		}

		if err := p.entryRepo.Create(ctx, tx, memberLeg); err != nil {
			return err
		}

		tally.postings += 2
	}

	return nil
}

func (p *MeetingProcessor) disburseLoans(ctx context.Context, tx Transaction, cycle *domain.Cycle, meeting *domain.Meeting, actorID string, tally *meetingTally) error {
	for i, item := range meeting.Loans {
		meetingID := meeting.ID

		loan, err := p.loans.disburseInTx(ctx, tx, cycle, DisburseLoanInput{
			CycleID:          cycle.ID,
			BorrowerID:       item.BorrowerID,
			Principal:        item.Principal,
			InterestRate:     item.InterestRate,
			DurationMonths:   item.DurationMonths,
			DisbursementDate: meeting.MeetingDate,
			Purpose:          item.Purpose,
			MeetingID:        &meetingID,
			ActorID:          actorID,
		})

		switch {
		case err == nil:
			tally.disbursed = append(tally.disbursed, loan)
			tally.postings += 2
		case errors.Is(err, domain.ErrMemberNotFound), errors.Is(err, domain.ErrGroupMismatch):
			meeting.AddWarning(domain.IssueMemberNotFound,
				fmt.Sprintf("loan %d: borrower %s not found in group", i, item.BorrowerID))
		case errors.Is(err, domain.ErrInvalidAmount):
			meeting.AddWarning(domain.IssueInvalidAmount,
				fmt.Sprintf("loan %d: %v", i, err))
		default:
			return err
		}
	}

	return nil
}

// applyRepayments applies repayment lines. A repayment exceeding the loan
// balance is a structural error: the first return value tells the caller to
// abort the whole meeting.
func (p *MeetingProcessor) applyRepayments(ctx context.Context, tx Transaction, cycle *domain.Cycle, meeting *domain.Meeting, actorID string, tally *meetingTally) (bool, error) {
	for i, item := range meeting.Repayments {
		loan, err := p.loans.loanRepo.GetByIDForUpdate(ctx, tx, item.LoanID)
		if err != nil {
			if errors.Is(err, domain.ErrLoanNotFound) {
				meeting.AddWarning(domain.IssueLoanNotFound,
					fmt.Sprintf("repayment %d: loan %s not found", i, item.LoanID))

				continue
			}

			return false, err
		}

		if loan.CycleID != cycle.ID {
			meeting.AddWarning(domain.IssueLoanCycleMismatch,
				fmt.Sprintf("repayment %d: loan %s belongs to another cycle", i, item.LoanID))

			continue
		}

		meetingID := meeting.ID

		repaid, err := p.loans.repayInTx(ctx, tx, RecordRepaymentInput{
			LoanID:          item.LoanID,
			Amount:          item.Amount,
			TransactionDate: meeting.MeetingDate,
			MeetingID:       &meetingID,
			ActorID:         actorID,
		})

		switch {
		case err == nil:
			tally.repaid = append(tally.repaid, repaid)
			tally.postings += 2
		case errors.Is(err, domain.ErrPaymentExceedsBalance):
			return true, fmt.Errorf("repayment %d: %w", i, err)
		case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrLoanAlreadyPaid):
			meeting.AddWarning(domain.IssueInvalidAmount,
				fmt.Sprintf("repayment %d: %v", i, err))
		default:
			return false, err
		}
	}

	return false, nil
}

func (p *MeetingProcessor) purchaseShares(ctx context.Context, tx Transaction, cycle *domain.Cycle, meeting *domain.Meeting, actorID string, tally *meetingTally) error {
	for i, item := range meeting.SharePurchases {
		meetingID := meeting.ID

		share, err := p.shares.purchaseInTx(ctx, tx, cycle, PurchaseSharesInput{
			CycleID:        cycle.ID,
			InvestorID:     item.InvestorID,
			NumberOfShares: item.NumberOfShares,
			SharePrice:     item.SharePrice,
			PurchaseDate:   meeting.MeetingDate,
			MeetingID:      &meetingID,
			ActorID:        actorID,
		})

		switch {
		case err == nil:
			tally.shares = append(tally.shares, share)
			tally.postings += 2
		case errors.Is(err, domain.ErrInvestorNotFound):
			meeting.AddWarning(domain.IssueInvestorNotFound,
				fmt.Sprintf("share purchase %d: investor %s not found", i, item.InvestorID))
		case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrMalformedMeeting):
			meeting.AddWarning(domain.IssueInvalidAmount,
				fmt.Sprintf("share purchase %d: %v", i, err))
		default:
			return err
		}
	}

	return nil
}

func (p *MeetingProcessor) applySocialFund(ctx context.Context, tx Transaction, meeting *domain.Meeting, actorID string, tally *meetingTally) error {
	for i, item := range meeting.SocialFund {
		meetingID := meeting.ID

		input := SocialFundInput{
			GroupID:         meeting.GroupID,
			CycleID:         meeting.CycleID,
			MemberID:        item.MemberID,
			Amount:          item.Amount,
			TransactionDate: meeting.MeetingDate,
			Reason:          item.Reason,
			MeetingID:       &meetingID,
			ActorID:         actorID,
		}

		var err error

		switch item.Type {
		case domain.SocialFundContribution:
			_, err = p.socialFund.contributeInTx(ctx, tx, input)
		case domain.SocialFundWithdrawal:
			_, err = p.socialFund.withdrawInTx(ctx, tx, input)
		default:
			meeting.AddWarning(domain.IssueMalformedPayload,
				fmt.Sprintf("social fund %d: unknown type %q", i, item.Type))

			continue
		}

		switch {
		case err == nil:
			tally.fundTypes = append(tally.fundTypes, item.Type)
		case errors.Is(err, domain.ErrInsufficientSocialFund):
			meeting.AddWarning(domain.IssueInsufficientFund,
				fmt.Sprintf("social fund %d: %v", i, err))
		case errors.Is(err, domain.ErrMemberNotFound):
			meeting.AddWarning(domain.IssueMemberNotFound,
				fmt.Sprintf("social fund %d: member not found", i))
		case errors.Is(err, domain.ErrInvalidAmount):
			meeting.AddWarning(domain.IssueInvalidAmount,
				fmt.Sprintf("social fund %d: %v", i, err))
		default:
			return err
		}
	}

	return nil
}

func (p *MeetingProcessor) recordActionPlans(ctx context.Context, tx Transaction, meeting *domain.Meeting, now time.Time) error {
	if len(meeting.ActionPlans) == 0 {
		return nil
	}

	if !p.actionPlansEnabled {
		meeting.AddWarning(domain.IssueActionPlansDisabled,
			"action plans skipped: feature not enabled")

		return nil
	}

	for _, item := range meeting.ActionPlans {
		if err := p.actionPlanRepo.Create(ctx, tx, &domain.ActionPlan{
			ID:          p.idGen.Generate(),
			GroupID:     meeting.GroupID,
			MeetingID:   meeting.ID,
			Kind:        item.Kind,
			Title:       item.Title,
			Description: item.Description,
			DueDate:     item.DueDate,
			Status:      item.Status,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
	}

	return nil
}

// GetMeeting retrieves a meeting by ID.
func (p *MeetingProcessor) GetMeeting(ctx context.Context, id string) (*domain.Meeting, error) {
	return p.meetingRepo.GetByID(ctx, id)
}

// ListMeetingsByGroup lists meetings of a group.
func (p *MeetingProcessor) ListMeetingsByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Meeting, error) {
	limit, offset, _ = domain.ValidatePagination(limit, offset)

	return p.meetingRepo.ListByGroup(ctx, groupID, limit, offset)
}
