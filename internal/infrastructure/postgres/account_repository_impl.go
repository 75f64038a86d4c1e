package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/signal-subscription/internal/domain/entity"
	"github.com/oksasatya/signal-subscription/internal/domain/repository"
)

const accountColumns = `id, name, email, password_hash, role,
	plan_id, plan_name, plan_price, plan_currency, plan_start_date, plan_end_date, plan_order_id, plan_payment_id,
	trading_view_id, expiry_warning_email_sent, created_at, updated_at`

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

var _ repository.AccountRepository = (*AccountRepository)(nil)

func scanAccount(row pgx.Row) (*entity.Account, error) {
	var (
		a                                   entity.Account
		role                                string
		planID, planName, planCur           *string
		planOrder, planPayment, tradingView *string
		planPrice                           *int64
		planStart, planEnd                  *time.Time
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &role,
		&planID, &planName, &planPrice, &planCur, &planStart, &planEnd, &planOrder, &planPayment,
		&tradingView, &a.ExpiryWarningEmailSent, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	a.Role = entity.Role(role)
	if tradingView != nil {
		a.TradingViewID = *tradingView
	}
	if planID != nil && planStart != nil && planEnd != nil {
		a.ActivePlan = &entity.Entitlement{
			PlanID:    *planID,
			Name:      deref(planName),
			Currency:  deref(planCur),
			StartDate: planStart.UTC(),
			EndDate:   planEnd.UTC(),
			OrderID:   deref(planOrder),
			PaymentID: deref(planPayment),
		}
		if planPrice != nil {
			a.ActivePlan.Price = *planPrice
		}
	}
	return &a, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	if a.Role == "" {
		a.Role = entity.RoleUser
	}
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, a.Name, a.Email, a.PasswordHash, string(a.Role))

	return translate(row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt))
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email))))
}

func (r *AccountRepository) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET reset_token_hash = $2, reset_token_expires_at = $3, updated_at = now()
		WHERE id = $1
	`, id, tokenHash, expiresAt)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		UPDATE accounts
		SET password_hash = $2, reset_token_hash = NULL, reset_token_expires_at = NULL, updated_at = now()
		WHERE reset_token_hash = $1 AND reset_token_expires_at > $3
		RETURNING id
	`, tokenHash, passwordHash, now).Scan(&id)
	if err != nil {
		return "", translate(err)
	}
	return id, nil
}

func (r *AccountRepository) SetTradingViewID(ctx context.Context, id, tradingViewID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts SET trading_view_id = $2, updated_at = now() WHERE id = $1
	`, id, nullable(tradingViewID))
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) SetEntitlement(ctx context.Context, id string, ent entity.Entitlement) error {
	tag, err := setEntitlement(ctx, r.pool, id, ent)
	if err != nil {
		return err
	}
	if tag == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// execer is satisfied by both the pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func setEntitlement(ctx context.Context, db execer, id string, ent entity.Entitlement) (int64, error) {
	tag, err := db.Exec(ctx, `
		UPDATE accounts
		SET plan_id = $2, plan_name = $3, plan_price = $4, plan_currency = $5,
		    plan_start_date = $6, plan_end_date = $7, plan_order_id = $8, plan_payment_id = $9,
		    expiry_warning_email_sent = FALSE, updated_at = now()
		WHERE id = $1
	`, id, ent.PlanID, ent.Name, ent.Price, ent.Currency, ent.StartDate, ent.EndDate,
		nullable(ent.OrderID), nullable(ent.PaymentID))
	if err != nil {
		return 0, translate(err)
	}
	return tag.RowsAffected(), nil
}

func (r *AccountRepository) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*entity.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE plan_end_date >= $1 AND plan_end_date < $2 AND expiry_warning_email_sent = FALSE
		ORDER BY plan_end_date
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("list expiring accounts: %w", err)
	}
	defer rows.Close()

	var out []*entity.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AccountRepository) MarkExpiryWarningSent(ctx context.Context, id string, endDate time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET expiry_warning_email_sent = TRUE, updated_at = now()
		WHERE id = $1 AND plan_end_date = $2
	`, id, endDate)
	if err != nil {
		return false, translate(err)
	}
	return tag.RowsAffected() == 1, nil
}
