package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/internal/usecase"
)

// LoanTransactionRepository implements usecase.LoanTransactionRepository.
// The log is append-only; the loan balance is recomputable as the negated
// sum of its amounts.
type LoanTransactionRepository struct {
	pool *pgxpool.Pool
}

// NewLoanTransactionRepository creates a new LoanTransactionRepository.
func NewLoanTransactionRepository(pool *pgxpool.Pool) *LoanTransactionRepository {
	return &LoanTransactionRepository{pool: pool}
}

// Create creates a new loan transaction log row within a transaction.
func (r *LoanTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, loanTx *domain.LoanTransaction) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO loan_transactions (id, loan_id, amount, type, transaction_date, description, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		loanTx.ID,
		loanTx.LoanID,
		decimalToNumeric(loanTx.Amount),
		string(loanTx.Type),
		timeToPgTimestamptz(loanTx.TransactionDate),
		loanTx.Description,
		loanTx.CreatedBy,
		timeToPgTimestamptz(loanTx.CreatedAt),
	)

	return err
}

// ListByLoan lists the full transaction log of a loan, oldest first.
func (r *LoanTransactionRepository) ListByLoan(ctx context.Context, loanID string) ([]*domain.LoanTransaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, loan_id, amount, type, transaction_date, description, created_by, created_at
		FROM loan_transactions
		WHERE loan_id = $1
		ORDER BY transaction_date, created_at, id`, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []*domain.LoanTransaction
	for rows.Next() {
		var (
			loanTx          domain.LoanTransaction
			amount          pgtype.Numeric
			txType          string
			transactionDate pgtype.Timestamptz
			createdAt       pgtype.Timestamptz
		)

		if err := rows.Scan(
			&loanTx.ID,
			&loanTx.LoanID,
			&amount,
			&txType,
			&transactionDate,
			&loanTx.Description,
			&loanTx.CreatedBy,
			&createdAt,
		); err != nil {
			return nil, err
		}

		loanTx.Amount = numericToDecimal(amount)
		loanTx.Type = domain.LoanTransactionType(txType)
		loanTx.TransactionDate = transactionDate.Time
		loanTx.CreatedAt = createdAt.Time

		txs = append(txs, &loanTx)
	}

	return txs, rows.Err()
}
