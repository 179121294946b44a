package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	MembershipEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_membership_events_total",
			Help: "Total number of membership lifecycle transitions",
		},
		[]string{"event"},
	)

	ActiveMemberships = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gymdesk_active_memberships",
			Help: "Number of active memberships",
		},
		[]string{"plan"},
	)

	CheckInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_checkins_total",
			Help: "Total number of member check-ins",
		},
		[]string{"type"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_class_bookings_total",
			Help: "Total number of class bookings",
		},
		[]string{"status"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_notifications_total",
			Help: "Total number of notifications sent",
		},
		[]string{"type", "status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymdesk_notification_queue_length",
			Help: "Current length of notification queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordMembershipEvent(event string) {
	MembershipEventsTotal.WithLabelValues(event).Inc()
}

func RecordCheckIn(checkInType string) {
	CheckInsTotal.WithLabelValues(checkInType).Inc()
}

func RecordBooking(status string) {
	BookingsTotal.WithLabelValues(status).Inc()
}

func RecordNotification(notificationType, status string) {
	NotificationsTotal.WithLabelValues(notificationType, status).Inc()
}
