// metrics.go — Prometheus метрики доменных операций Auth Module.
package service

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// loginsTotal — количество попыток входа по результату.
	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "au_logins_total",
			Help: "Количество попыток входа по результату (success/failure)",
		},
		[]string{"result"},
	)

	// ticketChecksTotal — количество проверок тикетов по вердикту.
	ticketChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "au_ticket_checks_total",
			Help: "Количество проверок тикетов по вердикту (ok/unauthorized/forbidden)",
		},
		[]string{"verdict"},
	)
)

// observeLogin фиксирует результат попытки входа.
func observeLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	loginsTotal.WithLabelValues(result).Inc()
}

// observeTicketCheck фиксирует вердикт проверки тикета.
func observeTicketCheck(code int) {
	verdict := "unauthorized"
	switch code {
	case http.StatusOK:
		verdict = "ok"
	case http.StatusForbidden:
		verdict = "forbidden"
	}
	ticketChecksTotal.WithLabelValues(verdict).Inc()
}
