package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/internal/usecase"
)

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

const loanColumns = `id, cycle_id, group_id, borrower_id, principal, interest_rate, duration_months,
	total_due, amount_paid, balance, disbursement_date, due_date, status, purpose,
	created_by, created_at, updated_at`

// Create creates a new loan within a transaction.
func (r *LoanRepository) Create(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO loans (`+loanColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		loan.ID,
		loan.CycleID,
		loan.GroupID,
		loan.BorrowerID,
		decimalToNumeric(loan.Principal),
		decimalToNumeric(loan.InterestRate),
		loan.DurationMonths,
		decimalToNumeric(loan.TotalDue),
		decimalToNumeric(loan.AmountPaid),
		decimalToNumeric(loan.Balance),
		timeToPgTimestamptz(loan.DisbursementDate),
		timeToPgTimestamptz(loan.DueDate),
		string(loan.Status),
		loan.Purpose,
		loan.CreatedBy,
		timeToPgTimestamptz(loan.CreatedAt),
		timeToPgTimestamptz(loan.UpdatedAt),
	)

	return err
}

// GetByID retrieves a loan by ID.
func (r *LoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)

	return scanLoanRow(row)
}

// GetByIDForUpdate retrieves a loan with a FOR UPDATE lock; every
// balance-changing operation goes through this read.
func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error) {
	row := txQuerier(tx).QueryRow(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = $1 FOR UPDATE`, id)

	return scanLoanRow(row)
}

// UpdateBalance updates the repayment-derived fields of a loan.
func (r *LoanRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, amountPaid, balance decimal.Decimal, status domain.LoanStatus, updatedAt time.Time) error {
	_, err := txQuerier(tx).Exec(ctx, `
		UPDATE loans
		SET amount_paid = $2, balance = $3, status = $4, updated_at = $5
		WHERE id = $1`,
		id,
		decimalToNumeric(amountPaid),
		decimalToNumeric(balance),
		string(status),
		timeToPgTimestamptz(updatedAt),
	)

	return err
}

// UpdateStatus updates only the status of a loan.
func (r *LoanRepository) UpdateStatus(ctx context.Context, id string, status domain.LoanStatus, updatedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE loans
		SET status = $2, updated_at = $3
		WHERE id = $1`,
		id, string(status), timeToPgTimestamptz(updatedAt))

	return err
}

// ListByCycle lists loans issued in a cycle.
func (r *LoanRepository) ListByCycle(ctx context.Context, cycleID string, limit, offset int) ([]*domain.Loan, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE cycle_id = $1 ORDER BY disbursement_date DESC LIMIT $2 OFFSET $3`,
		cycleID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLoans(rows)
}

// ListByBorrower lists a borrower's loans.
func (r *LoanRepository) ListByBorrower(ctx context.Context, borrowerID string, limit, offset int) ([]*domain.Loan, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE borrower_id = $1 ORDER BY disbursement_date DESC LIMIT $2 OFFSET $3`,
		borrowerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLoans(rows)
}

// ListDueBefore lists active loans whose due date has passed.
func (r *LoanRepository) ListDueBefore(ctx context.Context, dueDate time.Time) ([]*domain.Loan, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE status = $1 AND due_date < $2`,
		string(domain.LoanActive), timeToPgTimestamptz(dueDate))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLoans(rows)
}

func scanLoanRow(row pgx.Row) (*domain.Loan, error) {
	loan, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}

		return nil, err
	}

	return loan, nil
}

func scanLoans(rows pgx.Rows) ([]*domain.Loan, error) {
	var loans []*domain.Loan

	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}

	return loans, rows.Err()
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var (
		loan             domain.Loan
		principal        pgtype.Numeric
		interestRate     pgtype.Numeric
		totalDue         pgtype.Numeric
		amountPaid       pgtype.Numeric
		balance          pgtype.Numeric
		disbursementDate pgtype.Timestamptz
		dueDate          pgtype.Timestamptz
		status           string
		createdAt        pgtype.Timestamptz
		updatedAt        pgtype.Timestamptz
	)

	if err := row.Scan(
		&loan.ID,
		&loan.CycleID,
		&loan.GroupID,
		&loan.BorrowerID,
		&principal,
		&interestRate,
		&loan.DurationMonths,
		&totalDue,
		&amountPaid,
		&balance,
		&disbursementDate,
		&dueDate,
		&status,
		&loan.Purpose,
		&loan.CreatedBy,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	loan.Principal = numericToDecimal(principal)
	loan.InterestRate = numericToDecimal(interestRate)
	loan.TotalDue = numericToDecimal(totalDue)
	loan.AmountPaid = numericToDecimal(amountPaid)
	loan.Balance = numericToDecimal(balance)
	loan.DisbursementDate = disbursementDate.Time
	loan.DueDate = dueDate.Time
	loan.Status = domain.LoanStatus(status)
	loan.CreatedAt = createdAt.Time
	loan.UpdatedAt = updatedAt.Time

	return &loan, nil
}
