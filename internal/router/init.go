package router

import (
	"github.com/oksasatya/signal-subscription/internal/container"
	handlers "github.com/oksasatya/signal-subscription/internal/interface/http"
	"github.com/oksasatya/signal-subscription/internal/router/modules"
	"github.com/oksasatya/signal-subscription/pkg/validation"
)

// InitModules builds the handlers over ctr and registers every feature
// module. Call once during startup, before RegisterAll.
func InitModules(r *Registry, ctr *container.Container) {
	validation.Init()

	errs := &handlers.Errors{
		Cookies:      ctr.Cookies,
		Logger:       ctr.Logger,
		HideInternal: ctr.Config.IsProduction(),
	}
	guard := modules.Guard{Redis: ctr.Redis, Auth: ctr.Sessions, Fail: errs.Abort}

	r.Add(modules.NewOpsModule(handlers.NewHealthHandler(ctr.Health), ctr.Config.MetricsEnabled, guard))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(ctr.Auth, ctr.Accounts, ctr.Cookies, errs), guard))
	r.Add(modules.NewPlanModule(handlers.NewPlanHandler(ctr.Subscriptions, errs), guard))
	r.Add(modules.NewPaymentModule(
		handlers.NewPaymentHandler(ctr.Subscriptions, ctr.Accounts, errs),
		handlers.NewTradingViewHandler(ctr.Accounts, errs),
		guard,
	))
	r.Add(modules.NewContactModule(handlers.NewContactHandler(ctr.Accounts, errs), guard))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(ctr.Subscriptions, ctr.Accounts, errs), guard))
}
