// Package container builds the application's object graph once in main and
// hands it to the router and the scheduler. Nothing here is global.
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/signal-subscription/config"
	"github.com/oksasatya/signal-subscription/internal/application"
	"github.com/oksasatya/signal-subscription/internal/domain/gateway"
	"github.com/oksasatya/signal-subscription/internal/domain/repository"
	pginfra "github.com/oksasatya/signal-subscription/internal/infrastructure/postgres"
	"github.com/oksasatya/signal-subscription/internal/infrastructure/razorpay"
	"github.com/oksasatya/signal-subscription/internal/infrastructure/receipts"
	"github.com/oksasatya/signal-subscription/internal/infrastructure/redisstore"
	"github.com/oksasatya/signal-subscription/internal/infrastructure/search"
	"github.com/oksasatya/signal-subscription/pkg/helpers"
	"github.com/oksasatya/signal-subscription/pkg/mailer"
	tpl "github.com/oksasatya/signal-subscription/pkg/mailer/templates"
)

// Deps are the stores and external services the services run against.
// Search, Receipts and Redis are optional.
type Deps struct {
	Accounts   repository.AccountRepository
	Payments   repository.PaymentRepository
	Blacklist  application.TokenBlacklist
	Gateway    gateway.Gateway
	Dispatcher mailer.Dispatcher
	Search     repository.AccountSearch
	Receipts   application.ReceiptArchive
	Redis      redis.Cmdable
	Hasher     helpers.PasswordHasher
	Health     map[string]func(ctx context.Context) error
	Now        func() time.Time
}

type Container struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
	Redis   redis.Cmdable
	Health  map[string]func(ctx context.Context) error

	Sessions      *application.SessionService
	Auth          *application.AuthService
	Subscriptions *application.SubscriptionService
	Accounts      *application.AccountService
	Expiry        *application.ExpiryNotifier

	closers []func()
}

// New wires the services over d.
func New(cfg *config.Config, logger *logrus.Logger, d Deps) (*Container, error) {
	jwt, err := helpers.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}
	if d.Now != nil {
		jwt = jwt.WithClock(d.Now)
	}
	if d.Hasher == nil {
		d.Hasher = helpers.NewBcryptHasher(0)
	}
	if d.Dispatcher == nil {
		d.Dispatcher = mailer.NoopDispatcher{Logger: logger}
	}

	notifier := application.NewMailNotifier(d.Dispatcher, application.MailSettings{
		Branding: tpl.Branding{
			AppName:     cfg.AppName,
			CompanyName: cfg.CompanyName,
			SupportURL:  cfg.SupportURL,
			FrontendURL: cfg.FrontendURL,
		},
		SupportEmail: cfg.SupportEmail,
		RenewalURL:   cfg.FrontendURL + "/plans",
		Location:     cfg.ExpiryLocation(),
	})

	sessions := application.NewSessionService(jwt, d.Accounts, d.Blacklist, logger, d.Now)
	c := &Container{
		Config:   cfg,
		Logger:   logger,
		Cookies:  helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure).WithClock(d.Now),
		Redis:    d.Redis,
		Health:   d.Health,
		Sessions: sessions,
		Auth: application.NewAuthService(d.Accounts, d.Hasher, sessions, notifier, d.Search, logger, d.Now, application.AuthConfig{
			ResetTTL: cfg.ResetTTL,
			ResetURL: cfg.ResetPasswordURL,
		}),
		Subscriptions: application.NewSubscriptionService(application.NewCatalog(application.DefaultPlans()),
			d.Payments, d.Accounts, d.Gateway, notifier, d.Receipts, d.Search, logger, d.Now),
		Accounts: application.NewAccountService(d.Accounts, d.Search, notifier, logger, d.Now),
		Expiry:   application.NewExpiryNotifier(d.Accounts, notifier, cfg.ExpirySendRate, logger, d.Now),
	}
	return c, nil
}

// Build connects to postgres and redis, plus the optional services that are
// configured, and wires the container over them.
func Build(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	var closers []func()
	fail := func(err error) (*Container, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		return nil, err
	}

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return fail(fmt.Errorf("connect postgres: %w", err))
	}
	closers = append(closers, pool.Close)

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	closers = append(closers, func() { _ = rdb.Close() })
	if err := helpers.PingRedis(ctx, rdb); err != nil {
		return fail(fmt.Errorf("connect redis: %w", err))
	}

	d := Deps{
		Accounts:  pginfra.NewAccountRepository(pool),
		Payments:  pginfra.NewPaymentRepository(pool),
		Blacklist: redisstore.NewTokenBlacklist(rdb),
		Gateway:   razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayAPIURL, cfg.GatewayTimeout),
		Redis:     rdb,
		Health: map[string]func(context.Context) error{
			"postgres": pool.Ping,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	}
	if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
		logger.Warn("razorpay credentials missing; checkout is disabled")
	}

	dispatcher, closeMail, err := buildDispatcher(cfg, logger)
	if err != nil {
		return fail(err)
	}
	if closeMail != nil {
		closers = append(closers, closeMail)
	}
	d.Dispatcher = dispatcher

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			return fail(fmt.Errorf("elasticsearch client: %w", err))
		}
		d.Search = search.NewAccountIndex(es, cfg.ESAccountsIndex)
	} else {
		logger.Info("elasticsearch not configured; admin search disabled")
	}

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return fail(fmt.Errorf("gcs client: %w", err))
		}
		closers = append(closers, func() { _ = gcs.Close() })
		d.Receipts = receipts.NewGCSArchive(gcs, cfg.GCSBucket)
	}

	c, err := New(cfg, logger, d)
	if err != nil {
		return fail(err)
	}
	c.closers = closers
	return c, nil
}

// buildDispatcher picks how emails leave the API: dropped when sending is
// disabled, queued when RabbitMQ is configured, else sent inline via Mailgun.
func buildDispatcher(cfg *config.Config, logger *logrus.Logger) (mailer.Dispatcher, func(), error) {
	if !cfg.MailSendEnabled {
		logger.Info("email sending disabled")
		return mailer.NoopDispatcher{Logger: logger}, nil, nil
	}
	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			return nil, nil, fmt.Errorf("rabbitmq publisher: %w", err)
		}
		return mailer.QueueDispatcher{Publisher: pub}, pub.Close, nil
	}
	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	if !mg.Configured() {
		logger.Warn("mailgun not configured; emails will be dropped")
		return mailer.NoopDispatcher{Logger: logger}, nil, nil
	}
	return mailer.DirectDispatcher{Sender: mg}, nil, nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
