package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	SessionsCreated   prometheus.Counter
	SessionsDeleted   prometheus.Counter
	MessagesCreated   *prometheus.CounterVec
	RecordingsCreated prometheus.Counter
	ReplyJobsDone     prometheus.Counter
	ReplyJobsFailed   prometheus.Counter
}

var (
	once   sync.Once
	global *Metrics
)

func Global() *Metrics {
	once.Do(func() {
		global = &Metrics{
			SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "voicechat",
				Name:      "sessions_created_total",
				Help:      "Total chat sessions created",
			}),
			SessionsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "voicechat",
				Name:      "sessions_deleted_total",
				Help:      "Total chat sessions deleted (cascade included)",
			}),
			MessagesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "voicechat",
				Name:      "messages_created_total",
				Help:      "Total chat messages created, by message type",
			}, []string{"message_type"}),
			RecordingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "voicechat",
				Name:      "recordings_created_total",
				Help:      "Total audio recordings registered",
			}),
			ReplyJobsDone: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "voicechat",
				Name:      "reply_jobs_done_total",
				Help:      "Total reply jobs completed",
			}),
			ReplyJobsFailed: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "voicechat",
				Name:      "reply_jobs_failed_total",
				Help:      "Total reply jobs failed",
			}),
		}
		prometheus.MustRegister(
			global.SessionsCreated,
			global.SessionsDeleted,
			global.MessagesCreated,
			global.RecordingsCreated,
			global.ReplyJobsDone,
			global.ReplyJobsFailed,
		)
	})
	return global
}
