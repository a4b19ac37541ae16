package grantmatching

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/grant-matching/internal/http/handlers/admin/approvals"
	"github.com/magabrotheeeer/grant-matching/internal/http/handlers/admin/decide"
	"github.com/magabrotheeeer/grant-matching/internal/http/handlers/admin/deleteuser"
	adminpayments "github.com/magabrotheeeer/grant-matching/internal/http/handlers/admin/payments"
	announcementget "github.com/magabrotheeeer/grant-matching/internal/http/handlers/announcement/get"
	announcementview "github.com/magabrotheeeer/grant-matching/internal/http/handlers/announcement/view"
	companycreate "github.com/magabrotheeeer/grant-matching/internal/http/handlers/company/create"
	companyme "github.com/magabrotheeeer/grant-matching/internal/http/handlers/company/me"
	"github.com/magabrotheeeer/grant-matching/internal/http/handlers/competition/predict"
	"github.com/magabrotheeeer/grant-matching/internal/http/handlers/draft/generate"
	"github.com/magabrotheeeer/grant-matching/internal/http/handlers/draft/revise"
	"github.com/magabrotheeeer/grant-matching/internal/http/handlers/feedback/matchget"
	"github.com/magabrotheeeer/grant-matching/internal/http/handlers/feedback/matchsubmit"
	"github.com/magabrotheeeer/grant-matching/internal/http/handlers/feedback/site"
	"github.com/magabrotheeeer/grant-matching/internal/http/handlers/guest/matching"
	"github.com/magabrotheeeer/grant-matching/internal/http/handlers/health"
	newsletterconfirm "github.com/magabrotheeeer/grant-matching/internal/http/handlers/newsletter/confirm"
	"github.com/magabrotheeeer/grant-matching/internal/http/handlers/newsletter/subscribe"
	"github.com/magabrotheeeer/grant-matching/internal/http/handlers/notification/getsettings"
	"github.com/magabrotheeeer/grant-matching/internal/http/handlers/notification/updatesettings"
	"github.com/magabrotheeeer/grant-matching/internal/http/handlers/payment/checkout"
	paymentconfirm "github.com/magabrotheeeer/grant-matching/internal/http/handlers/payment/confirm"
	"github.com/magabrotheeeer/grant-matching/internal/http/handlers/payment/webhook"
	"github.com/magabrotheeeer/grant-matching/internal/http/handlers/retargeting/unsubscribe"
	"github.com/magabrotheeeer/grant-matching/internal/http/handlers/saved/update"
	"github.com/magabrotheeeer/grant-matching/internal/http/handlers/search/record"
	"github.com/magabrotheeeer/grant-matching/internal/http/handlers/subscription/cancel"
	subscriptionme "github.com/magabrotheeeer/grant-matching/internal/http/handlers/subscription/me"
	"github.com/magabrotheeeer/grant-matching/internal/http/handlers/upload/businessplan"
	"github.com/magabrotheeeer/grant-matching/internal/http/middlewarectx"
	"github.com/magabrotheeeer/grant-matching/internal/metrics"
	"github.com/magabrotheeeer/grant-matching/internal/services/announcement"
	"github.com/magabrotheeeer/grant-matching/internal/services/approval"
	"github.com/magabrotheeeer/grant-matching/internal/services/company"
	"github.com/magabrotheeeer/grant-matching/internal/services/competition"
	"github.com/magabrotheeeer/grant-matching/internal/services/drafting"
	"github.com/magabrotheeeer/grant-matching/internal/services/feedback"
	"github.com/magabrotheeeer/grant-matching/internal/services/guest"
	"github.com/magabrotheeeer/grant-matching/internal/services/newsletter"
	"github.com/magabrotheeeer/grant-matching/internal/services/notification"
	"github.com/magabrotheeeer/grant-matching/internal/services/payment"
	"github.com/magabrotheeeer/grant-matching/internal/services/saved"
	"github.com/magabrotheeeer/grant-matching/internal/services/search"
	"github.com/magabrotheeeer/grant-matching/internal/services/subscription"
	"github.com/magabrotheeeer/grant-matching/internal/services/upload"
	"github.com/magabrotheeeer/grant-matching/internal/services/user"
)

// Services — сервисы, которые обслуживают маршруты API.
type Services struct {
	Announcements *announcement.Service
	Approvals     *approval.Service
	Companies     *company.Service
	Competition   *competition.Service
	Drafting      *drafting.Service
	Feedback      *feedback.Service
	Guest         *guest.Service
	Newsletter    *newsletter.Service
	Notifications *notification.Service
	Payments      *payment.Service
	Saved         *saved.Service
	Search        *search.Service
	Subscriptions *subscription.Service
	Uploads       *upload.Service
	Users         *user.Service
}

// Deps — зависимости маршрутизатора помимо сервисов.
type Deps struct {
	Sessions middlewarectx.TokenParser
	Admins   middlewarectx.AdminPolicy
	Limiter  *middlewarectx.IPRateLimiter
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Checkers map[string]health.Checker
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s Services, d Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		d.Metrics.Middleware,
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(middlewarectx.Session(d.Sessions, logger))

		// Открытые конечные точки, сессия необязательна
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(d.Limiter, logger))
			r.Get("/announcements/{id}", announcementget.New(logger, s.Announcements).ServeHTTP)
			r.Post("/announcements/{id}/view", announcementview.New(logger, s.Announcements).ServeHTTP)
			r.Get("/guest/matching/{id}", matching.New(logger, s.Guest).ServeHTTP)
			r.Post("/payments/checkout", checkout.New(logger, s.Payments).ServeHTTP)
			r.Post("/payments/confirm", paymentconfirm.New(logger, s.Payments).ServeHTTP)
			r.Post("/feedback", site.New(logger, s.Feedback).ServeHTTP)
			r.Post("/search/record", record.New(logger, s.Search).ServeHTTP)
			r.Post("/newsletter/subscribe", subscribe.New(logger, s.Newsletter).ServeHTTP)
			r.Get("/newsletter/confirm", newsletterconfirm.New(logger, s.Newsletter).ServeHTTP)
			r.Get("/retargeting/unsubscribe", unsubscribe.New(logger, s.Newsletter).ServeHTTP)
		})

		// Вебхуки шлюзов не ограничиваются по IP: шлюзы ходят с небольшого набора адресов
		wh := webhook.New(logger, s.Payments)
		r.Post("/payments/webhook", wh.ServeHTTP)
		r.Post("/payments/webhook/{gateway}", wh.ServeHTTP)

		// Группа с обязательной сессией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireUser(logger))
			r.Post("/companies", companycreate.New(logger, s.Companies).ServeHTTP)
			r.Get("/companies/me", companyme.New(logger, s.Companies).ServeHTTP)
			r.Get("/competition/predict", predict.New(logger, s.Competition).ServeHTTP)
			r.Post("/ai/drafts", generate.New(logger, s.Drafting).ServeHTTP)
			r.Post("/ai/drafts/revise", revise.New(logger, s.Drafting).ServeHTTP)
			r.Get("/subscriptions/me", subscriptionme.New(logger, s.Subscriptions).ServeHTTP)
			r.Post("/subscriptions/cancel", cancel.New(logger, s.Subscriptions).ServeHTTP)
			r.Post("/matching/{id}/feedback", matchsubmit.New(logger, s.Feedback).ServeHTTP)
			r.Get("/matching/{id}/feedback", matchget.New(logger, s.Feedback).ServeHTTP)
			r.Get("/notifications/settings", getsettings.New(logger, s.Notifications).ServeHTTP)
			r.Put("/notifications/settings", updatesettings.New(logger, s.Notifications).ServeHTTP)
			r.Patch("/saved-announcements/update", update.New(logger, s.Saved).ServeHTTP)
			r.Post("/upload/business-plan", businessplan.New(logger, s.Uploads).ServeHTTP)
		})

		// Администрирование
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireAdmin(d.Admins, logger))
			r.Get("/admin/approvals", approvals.New(logger, s.Approvals).ServeHTTP)
			r.Post("/admin/approvals", decide.New(logger, s.Approvals).ServeHTTP)
			r.Get("/admin/payments", adminpayments.New(logger, s.Payments).ServeHTTP)
			r.Delete("/admin/users/{id}", deleteuser.New(logger, s.Users).ServeHTTP)
		})
	})

	r.Get("/healthz", health.New(logger, d.Checkers).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
