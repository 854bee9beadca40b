package core

import (
	"context"
	"strings"
)

// Metric names are suffixed to the service prefix, e.g.
// "billing_api.invocation.total".
const (
	MetricInvocationTotal    = "invocation.total"
	MetricInvocationDuration = "invocation.duration_ms"
	MetricHookErrors         = "hook.errors"
)

type NopMetricsRecorder struct{}

func (NopMetricsRecorder) IncCounter(context.Context, string, int64, map[string]string) {}

func (NopMetricsRecorder) ObserveHistogram(context.Context, string, float64, map[string]string) {}

// recordMetrics emits one counter and one duration sample per invocation,
// plus a hook error counter when a commit hook failed.
func (r *Runtime) recordMetrics(ctx context.Context, report Report) {
	prefix := metricPrefix(r.config.ServiceName)
	tags := invocationTags(report)
	r.metricsRecorder.IncCounter(ctx, prefix+"."+MetricInvocationTotal, 1, cloneTags(tags))
	r.metricsRecorder.ObserveHistogram(ctx, prefix+"."+MetricInvocationDuration, float64(report.Duration.Milliseconds()), cloneTags(tags))
	if report.HookErr != nil {
		r.metricsRecorder.IncCounter(ctx, prefix+"."+MetricHookErrors, 1, cloneTags(tags))
	}
}

// invocationTags keeps label cardinality bounded: caller and correlation ids
// go to logs and observers only.
func invocationTags(report Report) map[string]string {
	return map[string]string{
		"name":   report.Name,
		"status": report.Status,
		"phase":  string(report.Phase),
	}
}

func metricPrefix(serviceName string) string {
	prefix := strings.TrimSpace(strings.ToLower(serviceName))
	prefix = strings.ReplaceAll(prefix, " ", "_")
	prefix = strings.ReplaceAll(prefix, "-", "_")
	if prefix == "" {
		return "apicall"
	}
	return prefix
}

func cloneTags(tags map[string]string) map[string]string {
	copied := make(map[string]string, len(tags))
	for key, value := range tags {
		copied[key] = value
	}
	return copied
}

var _ MetricsRecorder = NopMetricsRecorder{}
