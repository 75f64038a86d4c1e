package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/signal-subscription/internal/domain/entity"
	"github.com/oksasatya/signal-subscription/internal/domain/repository"
)

const paymentColumns = `id, account_id, plan_id, amount, currency, order_id,
	COALESCE(payment_id, ''), COALESCE(signature, ''), status, created_at, updated_at, paid_at`

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

var _ repository.PaymentRepository = (*PaymentRepository)(nil)

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var (
		p      entity.Payment
		status string
	)
	if err := row.Scan(&p.ID, &p.AccountID, &p.PlanID, &p.Amount, &p.Currency, &p.OrderID,
		&p.PaymentID, &p.Signature, &status, &p.CreatedAt, &p.UpdatedAt, &p.PaidAt); err != nil {
		return nil, translate(err)
	}
	p.Status = entity.PaymentStatus(status)
	return &p, nil
}

func (r *PaymentRepository) Create(ctx context.Context, p *entity.Payment) error {
	if p.Status == "" {
		p.Status = entity.PaymentCreated
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO payments (account_id, plan_id, amount, currency, order_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, p.AccountID, p.PlanID, p.Amount, p.Currency, p.OrderID, string(p.Status))
	return translate(row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt))
}

func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*entity.Payment, error) {
	return scanPayment(r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE order_id = $1`, orderID))
}

func (r *PaymentRepository) ListByAccount(ctx context.Context, accountID string) ([]*entity.Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE account_id = $1
		ORDER BY created_at DESC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PaymentRepository) CompleteAndActivate(ctx context.Context, c repository.PaymentCompletion) (bool, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// compare-and-set: only one caller moves the order out of created
	tag, err := tx.Exec(ctx, `
		UPDATE payments
		SET status = 'paid', payment_id = $2, signature = $3, paid_at = $4, updated_at = now()
		WHERE order_id = $1 AND account_id = $5 AND status = 'created'
	`, c.OrderID, c.PaymentID, c.Signature, c.PaidAt, c.AccountID)
	if err != nil {
		return false, fmt.Errorf("mark payment paid: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	n, err := setEntitlement(ctx, tx, c.AccountID, c.Entitlement)
	if err != nil {
		return false, fmt.Errorf("write entitlement: %w", err)
	}
	if n == 0 {
		return false, repository.ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}
