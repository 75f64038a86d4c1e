package application

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/oksasatya/signal-subscription/internal/domain/entitlement"
	"github.com/oksasatya/signal-subscription/internal/domain/repository"
)

// The sweep warns accounts whose plan ends between five and six days out.
// With a daily tick every window passes through exactly one sweep.
const (
	warnWindowStart = 5 * 24 * time.Hour
	warnWindowEnd   = 6 * 24 * time.Hour
)

type SweepResult struct {
	Matched int
	Sent    int
	Failed  int
	Skipped int
}

// ExpiryNotifier sends the one-per-window expiry warning.
type ExpiryNotifier struct {
	accounts repository.AccountRepository
	notifier Notifier
	limiter  *rate.Limiter
	logger   *logrus.Logger
	now      func() time.Time
}

// NewExpiryNotifier throttles sends to perSecond; zero or less disables throttling.
func NewExpiryNotifier(accounts repository.AccountRepository, notifier Notifier, perSecond float64, logger *logrus.Logger, now func() time.Time) *ExpiryNotifier {
	if now == nil {
		now = time.Now
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &ExpiryNotifier{
		accounts: accounts,
		notifier: notifier,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger,
		now:      now,
	}
}

// Sweep processes every eligible account. A failure for one account is
// logged and counted; the rest are still processed. The returned error is
// only set when the candidate list could not be loaded or ctx ended.
func (n *ExpiryNotifier) Sweep(ctx context.Context) (SweepResult, error) {
	started := time.Now()
	defer func() { sweepDuration.Observe(time.Since(started).Seconds()) }()

	now := n.now()
	var res SweepResult
	candidates, err := n.accounts.ListExpiringBetween(ctx, now.Add(warnWindowStart), now.Add(warnWindowEnd))
	if err != nil {
		return res, err
	}
	res.Matched = len(candidates)

	for _, acc := range candidates {
		if err := n.limiter.Wait(ctx); err != nil {
			return res, err
		}
		log := n.logger.WithField("account_id", acc.ID)
		if acc.ActivePlan == nil {
			res.Skipped++
			continue
		}

		days := entitlement.DaysRemaining(acc, now)
		if err := n.notifier.ExpiryWarning(ctx, acc, days); err != nil {
			res.Failed++
			sweepWarningsTotal.WithLabelValues("error").Inc()
			log.WithError(err).Warn("expiry warning failed")
			continue
		}

		marked, err := n.accounts.MarkExpiryWarningSent(ctx, acc.ID, acc.ActivePlan.EndDate)
		if err != nil {
			res.Failed++
			sweepWarningsTotal.WithLabelValues("error").Inc()
			log.WithError(err).Error("expiry warning sent but flag not stored")
			continue
		}
		if !marked {
			// renewed between the listing and now; the new window gets its own warning
			log.Info("plan changed during sweep")
		}
		res.Sent++
		sweepWarningsTotal.WithLabelValues("ok").Inc()
		log.WithField("days_remaining", days).Info("expiry warning sent")
	}
	return res, nil
}

// ExpiryScheduler runs the sweep on a cron schedule. Overlapping ticks are
// skipped.
type ExpiryScheduler struct {
	cron     *cron.Cron
	notifier *ExpiryNotifier
	logger   *logrus.Logger
	timeout  time.Duration
}

func NewExpiryScheduler(n *ExpiryNotifier, spec string, loc *time.Location, logger *logrus.Logger) (*ExpiryScheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	cl := cron.PrintfLogger(logger)
	s := &ExpiryScheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		notifier: n,
		logger:   logger,
		timeout:  time.Hour,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ExpiryScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.logger.Info("expiry sweep started")
	res, err := s.notifier.Sweep(ctx)
	entry := s.logger.WithFields(logrus.Fields{
		"matched": res.Matched,
		"sent":    res.Sent,
		"failed":  res.Failed,
		"skipped": res.Skipped,
	})
	if err != nil {
		entry.WithError(err).Error("expiry sweep aborted")
		return
	}
	entry.Info("expiry sweep finished")
}

func (s *ExpiryScheduler) Start() { s.cron.Start() }

// Stop prevents further ticks and waits for a running sweep, or for ctx.
func (s *ExpiryScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
