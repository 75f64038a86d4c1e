package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/signal-subscription/internal/application"
	"github.com/oksasatya/signal-subscription/internal/domain/entity"
	"github.com/oksasatya/signal-subscription/pkg/helpers"
)

const day = 24 * time.Hour

func (f *fixture) withPlanEndingIn(t *testing.T, email string, left time.Duration) *entity.Account {
	t.Helper()
	p := f.signup(t, email, email)
	acc, err := f.accounts.GetByID(context.Background(), p.AccountID())
	require.NoError(t, err)
	now := f.clock.Now()
	acc.ActivePlan = &entity.Entitlement{PlanID: "starter_1m", Name: "Starter", StartDate: now.Add(left - 30*day), EndDate: now.Add(left)}
	f.accounts.Put(acc)
	return acc
}

func TestSweepSendsOncePerWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acc := f.withPlanEndingIn(t, "alice@example.com", 5*day+12*time.Hour)

	res, err := f.expiry.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, application.SweepResult{Matched: 1, Sent: 1}, res)

	sent := f.notifier.Sent("expiry")
	require.Len(t, sent, 1)
	assert.Equal(t, "alice@example.com", sent[0].To)
	assert.Equal(t, 6, sent[0].Days)

	stored, _ := f.accounts.GetByID(ctx, acc.ID)
	assert.True(t, stored.ExpiryWarningEmailSent)

	res, err = f.expiry.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.Sent)
	assert.Len(t, f.notifier.Sent("expiry"), 1)
}

func TestSweepWindowBounds(t *testing.T) {
	f := newFixture(t)
	f.withPlanEndingIn(t, "early@example.com", 5*day-time.Minute)
	f.withPlanEndingIn(t, "start@example.com", 5*day)
	f.withPlanEndingIn(t, "end@example.com", 6*day)
	f.withPlanEndingIn(t, "late@example.com", 10*day)

	res, err := f.expiry.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, "start@example.com", f.notifier.Sent("expiry")[0].To)
}

func TestSweepIsolatesFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.withPlanEndingIn(t, "a@example.com", 5*day+time.Hour)
	bad := f.withPlanEndingIn(t, "b@example.com", 5*day+2*time.Hour)
	flaky := f.withPlanEndingIn(t, "c@example.com", 5*day+3*time.Hour)
	f.withPlanEndingIn(t, "d@example.com", 5*day+4*time.Hour)

	f.notifier.FailFor["b@example.com"] = errors.New("mailbox full")
	f.accounts.MarkErr[flaky.ID] = errors.New("connection reset")

	res, err := f.expiry.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, application.SweepResult{Matched: 4, Sent: 2, Failed: 2}, res)

	// the failed account is retried on the next run
	delete(f.notifier.FailFor, "b@example.com")
	delete(f.accounts.MarkErr, flaky.ID)
	res, err = f.expiry.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Sent)

	stored, _ := f.accounts.GetByID(ctx, bad.ID)
	assert.True(t, stored.ExpiryWarningEmailSent)
}

func TestSweepReportsListFailure(t *testing.T) {
	f := newFixture(t)
	f.accounts.Err = errors.New("db down")
	_, err := f.expiry.Sweep(context.Background())
	assert.Error(t, err)
}

func TestActivationResetsWarning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acc := f.withPlanEndingIn(t, "alice@example.com", 5*day+time.Hour)
	_, err := f.expiry.Sweep(ctx)
	require.NoError(t, err)

	admin := &application.Principal{Account: &entity.Account{ID: "admin", Role: entity.RoleAdmin}}
	_, err = f.subscriptions.Renew(ctx, admin, acc.ID, "starter_1m")
	require.NoError(t, err)

	// 25 days later the new window is inside the warning range again
	f.clock.Advance(24*day + 12*time.Hour)
	res, err := f.expiry.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	f := newFixture(t)
	_, err := application.NewExpiryScheduler(f.expiry, "every day", time.UTC, helpers.NewDiscardLogger())
	assert.Error(t, err)
}

func TestSchedulerStartStop(t *testing.T) {
	f := newFixture(t)
	s, err := application.NewExpiryScheduler(f.expiry, "0 9 * * *", time.UTC, helpers.NewDiscardLogger())
	require.NoError(t, err)
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
