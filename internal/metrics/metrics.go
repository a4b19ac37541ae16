// Package metrics содержит счётчики Prometheus сервиса.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics хранит счётчики приложения. Нулевой указатель допустим: вызовы становятся no-op.
type Metrics struct {
	WebhookEvents *prometheus.CounterVec
	DraftSections *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
}

// New создаёт счётчики и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		WebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grantmatch_webhook_events_total",
			Help: "Payment webhook events by gateway, mapped status and processing result.",
		}, []string{"gateway", "status", "result"}),
		DraftSections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grantmatch_draft_sections_total",
			Help: "AI draft section generations by section and outcome.",
		}, []string{"section", "status"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grantmatch_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "code"}),
	}
	reg.MustRegister(m.WebhookEvents, m.DraftSections, m.HTTPRequests)
	return m
}

// Webhook учитывает событие вебхука.
func (m *Metrics) Webhook(gateway, status, result string) {
	if m == nil {
		return
	}
	m.WebhookEvents.WithLabelValues(gateway, status, result).Inc()
}

// DraftSection учитывает генерацию раздела черновика.
func (m *Metrics) DraftSection(section, status string) {
	if m == nil {
		return
	}
	m.DraftSections.WithLabelValues(section, status).Inc()
}

// Middleware считает HTTP запросы по шаблону маршрута chi, чтобы id в пути
// не раздували число меток.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil {
			next.ServeHTTP(w, r)
			return
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(code)).Inc()
	})
}
