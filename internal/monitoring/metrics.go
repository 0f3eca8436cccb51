package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 监控指标
type Metrics struct {
	// HTTP 请求指标
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestSize     *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// 联系人指标
	ContactsCreated prometheus.Counter
	ContactsUpdated prometheus.Counter
	ContactsDeleted prometheus.Counter

	// 标签指标
	TagsCreated prometheus.Counter
	TagsDeleted prometheus.Counter

	// 模板指标
	TemplatesCreated prometheus.Counter
	TemplatesUpdated prometheus.Counter
	TemplatesDeleted prometheus.Counter

	// 广播指标
	BroadcastsDispatched     prometheus.Counter
	BroadcastFanoutDuration  prometheus.Histogram
	BroadcastAudienceSize    prometheus.Histogram
	EmailsSentTotal          prometheus.Counter
	EmailsFailedTotal        prometheus.Counter
	BroadcastEventsTotal     *prometheus.CounterVec

	// 系统指标
	SystemUptime prometheus.Gauge

	// 错误指标
	ErrorsTotal *prometheus.CounterVec
	PanicsTotal prometheus.Counter
}

// NewMetrics 创建监控指标
func NewMetrics() *Metrics {
	return &Metrics{
		// HTTP 请求指标
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chattflow_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chattflow_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chattflow_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "endpoint"},
		),

		HTTPResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chattflow_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "endpoint"},
		),

		// 联系人指标
		ContactsCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "chattflow_contacts_created_total",
				Help: "Total number of contacts created",
			},
		),

		ContactsUpdated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "chattflow_contacts_updated_total",
				Help: "Total number of contacts updated",
			},
		),

		ContactsDeleted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "chattflow_contacts_deleted_total",
				Help: "Total number of contacts deleted",
			},
		),

		// 标签指标
		TagsCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "chattflow_tags_created_total",
				Help: "Total number of tags created",
			},
		),

		TagsDeleted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "chattflow_tags_deleted_total",
				Help: "Total number of tags deleted",
			},
		),

		// 模板指标
		TemplatesCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "chattflow_templates_created_total",
				Help: "Total number of email templates created",
			},
		),

		TemplatesUpdated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "chattflow_templates_updated_total",
				Help: "Total number of email templates updated",
			},
		),

		TemplatesDeleted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "chattflow_templates_deleted_total",
				Help: "Total number of email templates deleted",
			},
		),

		// 广播指标
		BroadcastsDispatched: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "chattflow_broadcasts_dispatched_total",
				Help: "Total number of broadcasts dispatched",
			},
		),

		BroadcastFanoutDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chattflow_broadcast_fanout_duration_seconds",
				Help:    "Time spent fanning one broadcast out to the gateway",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			},
		),

		BroadcastAudienceSize: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chattflow_broadcast_audience_size",
				Help:    "Number of contacts resolved per broadcast",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),

		EmailsSentTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "chattflow_emails_sent_total",
				Help: "Total number of emails accepted by the gateway",
			},
		),

		EmailsFailedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "chattflow_emails_failed_total",
				Help: "Total number of emails rejected by the gateway",
			},
		),

		BroadcastEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chattflow_broadcast_events_total",
				Help: "Total number of recorded broadcast engagement events",
			},
			[]string{"kind"},
		),

		// 系统指标
		SystemUptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "chattflow_uptime_seconds",
				Help: "Server uptime in seconds",
			},
		),

		// 错误指标
		ErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chattflow_errors_total",
				Help: "Total number of errors",
			},
			[]string{"type", "component"},
		),

		PanicsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "chattflow_panics_total",
				Help: "Total number of recovered panics",
			},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求指标
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration, requestSize, responseSize int64) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	m.HTTPRequestSize.WithLabelValues(method, endpoint).Observe(float64(requestSize))
	m.HTTPResponseSize.WithLabelValues(method, endpoint).Observe(float64(responseSize))
}

// RecordContactCreated 记录联系人创建
func (m *Metrics) RecordContactCreated() {
	m.ContactsCreated.Inc()
}

// RecordContactUpdated 记录联系人更新
func (m *Metrics) RecordContactUpdated() {
	m.ContactsUpdated.Inc()
}

// RecordContactDeleted 记录联系人删除
func (m *Metrics) RecordContactDeleted() {
	m.ContactsDeleted.Inc()
}

// RecordTagCreated 记录标签创建
func (m *Metrics) RecordTagCreated() {
	m.TagsCreated.Inc()
}

// RecordTagDeleted 记录标签删除
func (m *Metrics) RecordTagDeleted() {
	m.TagsDeleted.Inc()
}

// RecordTemplateCreated 记录模板创建
func (m *Metrics) RecordTemplateCreated() {
	m.TemplatesCreated.Inc()
}

// RecordTemplateUpdated 记录模板更新
func (m *Metrics) RecordTemplateUpdated() {
	m.TemplatesUpdated.Inc()
}

// RecordTemplateDeleted 记录模板删除
func (m *Metrics) RecordTemplateDeleted() {
	m.TemplatesDeleted.Inc()
}

// RecordBroadcast 记录一次广播调度的汇总指标
func (m *Metrics) RecordBroadcast(total, sent, failed int, duration time.Duration) {
	m.BroadcastsDispatched.Inc()
	m.BroadcastAudienceSize.Observe(float64(total))
	m.BroadcastFanoutDuration.Observe(duration.Seconds())
	m.EmailsSentTotal.Add(float64(sent))
	m.EmailsFailedTotal.Add(float64(failed))
}

// RecordBroadcastEvent 记录广播互动事件（open/click）
func (m *Metrics) RecordBroadcastEvent(kind string) {
	m.BroadcastEventsTotal.WithLabelValues(kind).Inc()
}

// RecordError 记录错误
func (m *Metrics) RecordError(errorType, component string) {
	m.ErrorsTotal.WithLabelValues(errorType, component).Inc()
}

// RecordPanic 记录 panic
func (m *Metrics) RecordPanic() {
	m.PanicsTotal.Inc()
}

// UpdateSystemUptime 更新系统运行时间
func (m *Metrics) UpdateSystemUptime(uptime time.Duration) {
	m.SystemUptime.Set(uptime.Seconds())
}

// HTTPHandler 返回 Prometheus HTTP 处理器
func (m *Metrics) HTTPHandler() http.Handler {
	return promhttp.Handler()
}
