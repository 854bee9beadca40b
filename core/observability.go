package core

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Report describes one finished invocation. Phase tells a stage failure from
// a commit failure without changing what the caller observes.
type Report struct {
	InvocationID  string
	Name          string
	Status        string
	Phase         Phase
	Err           error
	HookErr       error
	CallerID      string
	CorrelationID string
	StartedAt     time.Time
	Duration      time.Duration
}

func (p *Pipeline[U, In, Out, C]) observe(
	ctx context.Context,
	startedAt time.Time,
	phase Phase,
	err error,
	hookErr error,
	callCtx C,
) {
	report := Report{
		InvocationID: uuid.NewString(),
		Name:         p.Name(),
		Status:       StatusSuccess,
		Phase:        phase,
		Err:          err,
		HookErr:      hookErr,
		StartedAt:    startedAt.UTC(),
		Duration:     time.Since(startedAt),
	}
	if err != nil {
		report.Status = StatusFailure
	}
	if !isNilValue(any(callCtx)) {
		report.CallerID = strings.TrimSpace(callCtx.CallerID())
		report.CorrelationID = strings.TrimSpace(callCtx.CorrelationID())
	}
	p.runtime.record(ctx, p.logger, report)
}

func (r *Runtime) record(ctx context.Context, logger Logger, report Report) {
	r.recordMetrics(ctx, report)

	fields := map[string]any{
		"invocation_id": report.InvocationID,
		"name":          report.Name,
		"status":        report.Status,
		"phase":         string(report.Phase),
		"duration_ms":   report.Duration.Milliseconds(),
	}
	if report.CallerID != "" {
		fields["caller_id"] = report.CallerID
	}
	if report.CorrelationID != "" {
		fields["correlation_id"] = report.CorrelationID
	}
	if report.Err != nil {
		fields["error"] = report.Err.Error()
	}
	if report.HookErr != nil {
		fields["hook_error"] = report.HookErr.Error()
	}

	switch {
	case report.Err != nil:
		logWithLevel(ctx, logger, "error", report.Name+" failed at "+string(report.Phase), fields)
	case report.HookErr != nil:
		logWithLevel(ctx, logger, "warn", report.Name+" commit hook failed", fields)
	case r.config.LogSuccess:
		logWithLevel(ctx, logger, "info", report.Name+" committed", fields)
	}

	for _, observer := range r.observers {
		observer.ObserveInvocation(ctx, report)
	}
}

func logWithLevel(ctx context.Context, logger Logger, level string, message string, fields map[string]any) {
	if logger == nil {
		return
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch level {
	case "error":
		logger.Error(message, args...)
	case "warn":
		logger.Warn(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}
