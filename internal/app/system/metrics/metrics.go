// Package metrics registers the Prometheus collectors for outbound
// integrations and the reminder worker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EmailSends counts send attempts by transport ("sendgrid", "smtp")
	// and status ("sent", "failed").
	EmailSends = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kommunalcrm",
		Name:      "email_sends_total",
		Help:      "Email send attempts by transport and status.",
	}, []string{"transport", "status"})

	// AICalls counts LLM completions by task and status
	// ("ok", "rate_limited", "error").
	AICalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kommunalcrm",
		Name:      "ai_calls_total",
		Help:      "LLM completion calls by task and status.",
	}, []string{"task", "status"})

	// ReminderPasses counts completed reminder worker passes.
	ReminderPasses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kommunalcrm",
		Name:      "reminder_passes_total",
		Help:      "Completed reminder scan passes.",
	})

	// RemindersSent counts meetings for which a reminder was dispatched.
	RemindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kommunalcrm",
		Name:      "reminders_sent_total",
		Help:      "Meeting reminders dispatched.",
	})
)
