package gojob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-apicall/core"

	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue"
	"github.com/goliatone/go-job/queue/worker"
	glog "github.com/goliatone/go-logger/glog"
)

const (
	ScriptPathPrefix = "apicall://"

	paramPrincipal     = "apicall.principal"
	paramCorrelationID = "apicall.correlation_id"
	paramMetadata      = "apicall.metadata"
)

// Invocation is a deferred call to a named handler. Request tokens are never
// written to the queue; the consumer re-resolves the caller from Principal.
type Invocation struct {
	Name           string
	Parameters     map[string]any
	Request        core.Request
	IdempotencyKey string
	DedupPolicy    string
}

// RetryPolicy defines queue retry bounds to avoid unbounded retry loops.
type RetryPolicy struct {
	MaxAttempts     int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	DeadLetterOnMax bool
}

// Backoff doubles BaseDelay per attempt, capped at MaxDelay.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if p.BaseDelay <= 0 || attempt <= 0 {
		return 0
	}
	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if p.MaxDelay > 0 && delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// NackOptions is the retry decision for a failed delivery before it is
// mapped onto a go-job disposition.
type NackOptions struct {
	Delay      time.Duration
	Requeue    bool
	DeadLetter bool
	Reason     string
}

// NormalizeAttempt enforces bounded retry behavior for a nack operation.
func (p RetryPolicy) NormalizeAttempt(opts NackOptions, attempt int) NackOptions {
	out := opts
	out.Reason = strings.TrimSpace(out.Reason)
	if out.Delay < 0 {
		out.Delay = 0
	}
	if p.MaxDelay > 0 && out.Delay > p.MaxDelay {
		out.Delay = p.MaxDelay
	}
	if out.DeadLetter {
		out.Requeue = false
	}
	if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
		out.Requeue = false
		if p.DeadLetterOnMax || out.DeadLetter {
			out.DeadLetter = true
		}
	}
	if !out.Requeue && !out.DeadLetter {
		out.Requeue = true
	}
	return out
}

// Terminal reports whether the delivery will not be retried.
func (o NackOptions) Terminal() bool {
	return o.DeadLetter || !o.Requeue
}

// ToNackOptions maps a retry decision onto go-job nack semantics. A decision
// that neither requeues nor dead letters is a plain failure.
func ToNackOptions(opts NackOptions) queue.NackOptions {
	out := queue.NackOptions{Reason: opts.Reason}
	switch {
	case opts.DeadLetter:
		out.Disposition = queue.NackDispositionDeadLetter
	case opts.Requeue:
		out.Disposition = queue.NackDispositionRetry
		out.Delay = opts.Delay
	default:
		out.Disposition = queue.NackDispositionFailed
	}
	return out
}

// FromNackOptions maps go-job nack options back to a retry decision.
func FromNackOptions(opts queue.NackOptions) NackOptions {
	out := NackOptions{Reason: opts.Reason}
	switch opts.Disposition {
	case queue.NackDispositionRetry:
		out.Requeue = true
		out.Delay = opts.Delay
	case queue.NackDispositionDeadLetter:
		out.DeadLetter = true
	}
	return out
}

func ToExecutionMessage(inv Invocation) *job.ExecutionMessage {
	name := strings.TrimSpace(inv.Name)
	params := copyAnyMap(inv.Parameters)
	if principal := strings.TrimSpace(inv.Request.Principal); principal != "" {
		params[paramPrincipal] = principal
	}
	if correlationID := strings.TrimSpace(inv.Request.CorrelationID); correlationID != "" {
		params[paramCorrelationID] = correlationID
	}
	if len(inv.Request.Metadata) > 0 {
		params[paramMetadata] = copyAnyMap(inv.Request.Metadata)
	}
	return &job.ExecutionMessage{
		JobID:          name,
		ScriptPath:     ScriptPathPrefix + name,
		Parameters:     params,
		IdempotencyKey: strings.TrimSpace(inv.IdempotencyKey),
		DedupPolicy:    job.DeduplicationPolicy(strings.TrimSpace(inv.DedupPolicy)),
	}
}

func FromExecutionMessage(msg *job.ExecutionMessage) Invocation {
	if msg == nil {
		return Invocation{}
	}
	params := copyAnyMap(msg.Parameters)
	inv := Invocation{
		Name:           strings.TrimSpace(msg.JobID),
		IdempotencyKey: strings.TrimSpace(msg.IdempotencyKey),
		DedupPolicy:    strings.TrimSpace(string(msg.DedupPolicy)),
	}
	if inv.Name == "" {
		inv.Name = strings.TrimPrefix(strings.TrimSpace(msg.ScriptPath), ScriptPathPrefix)
	}
	if principal, ok := params[paramPrincipal].(string); ok {
		inv.Request.Principal = principal
	}
	if correlationID, ok := params[paramCorrelationID].(string); ok {
		inv.Request.CorrelationID = correlationID
	}
	if metadata, ok := params[paramMetadata].(map[string]any); ok {
		inv.Request.Metadata = copyAnyMap(metadata)
	}
	delete(params, paramPrincipal)
	delete(params, paramCorrelationID)
	delete(params, paramMetadata)
	inv.Parameters = params
	return inv
}

// Enqueue queues inv and returns the queue's acceptance receipt.
func Enqueue(ctx context.Context, enqueuer queue.Enqueuer, inv Invocation) (queue.EnqueueReceipt, error) {
	if enqueuer == nil {
		return queue.EnqueueReceipt{}, fmt.Errorf("gojob: enqueuer is not configured")
	}
	if strings.TrimSpace(inv.Name) == "" {
		return queue.EnqueueReceipt{}, fmt.Errorf("gojob: invocation name is required")
	}
	receipt, err := enqueuer.Enqueue(ctx, ToExecutionMessage(inv))
	if err != nil {
		return queue.EnqueueReceipt{}, fmt.Errorf("gojob: enqueue %q: %w", strings.TrimSpace(inv.Name), err)
	}
	return receipt, nil
}

type JobHandler interface {
	HandleInvocation(ctx context.Context, inv Invocation) error
}

type JobHandlerFunc func(ctx context.Context, inv Invocation) error

func (f JobHandlerFunc) HandleInvocation(ctx context.Context, inv Invocation) error {
	return f(ctx, inv)
}

// Consumer pulls deliveries and routes them by job id. Failed deliveries are
// nacked under the retry policy. The attempt number comes from the delivery
// when the queue driver tracks it; otherwise it is counted locally per
// idempotency key, or per message fingerprint for keyless invocations.
type Consumer struct {
	dequeuer queue.Dequeuer
	policy   RetryPolicy
	logger   core.Logger

	mu       sync.Mutex
	handlers map[string]JobHandler
	attempts map[string]int
}

func NewConsumer(dequeuer queue.Dequeuer, policy RetryPolicy, logger core.Logger) *Consumer {
	return &Consumer{
		dequeuer: dequeuer,
		policy:   policy,
		logger:   glog.Ensure(logger),
		handlers: map[string]JobHandler{},
		attempts: map[string]int{},
	}
}

func (c *Consumer) Handle(name string, handler JobHandler) error {
	if c == nil {
		return fmt.Errorf("gojob: consumer is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("gojob: handler name is required")
	}
	if handler == nil {
		return fmt.Errorf("gojob: handler is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.handlers[name]; exists {
		return fmt.Errorf("gojob: handler already registered for %q", name)
	}
	c.handlers[name] = handler
	return nil
}

// ProcessNext handles exactly one delivery.
func (c *Consumer) ProcessNext(ctx context.Context) error {
	if c == nil || c.dequeuer == nil {
		return fmt.Errorf("gojob: dequeuer is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	delivery, err := c.dequeuer.Dequeue(ctx)
	if err != nil {
		return err
	}
	if delivery == nil {
		return nil
	}
	inv := FromExecutionMessage(delivery.Message())

	c.mu.Lock()
	handler := c.handlers[inv.Name]
	c.mu.Unlock()
	if handler == nil {
		c.logger.Warn("gojob: no handler for invocation", "name", inv.Name)
		return delivery.Nack(ctx, ToNackOptions(NackOptions{
			DeadLetter: true,
			Reason:     fmt.Sprintf("no handler registered for %q", inv.Name),
		}))
	}

	key := AttemptKey(inv)
	if err := handler.HandleInvocation(ctx, inv); err != nil {
		attempt := c.nextAttempt(delivery, key)
		opts := c.policy.NormalizeAttempt(NackOptions{
			Delay:   c.policy.Backoff(attempt),
			Requeue: true,
			Reason:  err.Error(),
		}, attempt)
		c.logger.Error("gojob: invocation failed", "name", inv.Name, "attempt", attempt, "dead_letter", opts.DeadLetter, "error", err.Error())
		if opts.Terminal() {
			c.resetAttempts(key)
		}
		return delivery.Nack(ctx, ToNackOptions(opts))
	}
	c.resetAttempts(key)
	return delivery.Ack(ctx)
}

// Run processes deliveries until ctx is done or the dequeuer fails.
func (c *Consumer) Run(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("gojob: consumer is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.ProcessNext(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
}

// Attempts returns the locally counted failures for key.
func (c *Consumer) Attempts(key string) int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts[key]
}

// AttemptKey identifies redeliveries of the same invocation. Keyless
// invocations are fingerprinted by name, caller and parameters so unrelated
// calls to one handler do not share a retry budget.
func AttemptKey(inv Invocation) string {
	if key := strings.TrimSpace(inv.IdempotencyKey); key != "" {
		return key
	}
	payload, err := json.Marshal(struct {
		Name          string         `json:"name"`
		Principal     string         `json:"principal"`
		CorrelationID string         `json:"correlation_id"`
		Parameters    map[string]any `json:"parameters"`
	}{inv.Name, inv.Request.Principal, inv.Request.CorrelationID, inv.Parameters})
	if err != nil {
		payload = []byte(fmt.Sprintf("%s|%s|%s|%v", inv.Name, inv.Request.Principal, inv.Request.CorrelationID, inv.Parameters))
	}
	sum := sha256.Sum256(payload)
	return inv.Name + ":" + hex.EncodeToString(sum[:8])
}

type deliveryAttempts interface {
	Attempts() int
}

func (c *Consumer) nextAttempt(delivery queue.Delivery, key string) int {
	if reader, ok := delivery.(deliveryAttempts); ok {
		if attempt := reader.Attempts(); attempt > 0 {
			return attempt
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts[key]++
	return c.attempts[key]
}

func (c *Consumer) resetAttempts(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.attempts, key)
}

// WorkerHookAdapter turns go-job worker lifecycle events into log lines.
type WorkerHookAdapter struct {
	logger core.Logger
}

func NewWorkerHookAdapter(logger core.Logger) *WorkerHookAdapter {
	return &WorkerHookAdapter{logger: glog.Ensure(logger)}
}

func (a *WorkerHookAdapter) OnStart(ctx context.Context, event worker.Event) {
	a.log(ctx, "debug", "gojob: invocation started", event)
}

func (a *WorkerHookAdapter) OnSuccess(ctx context.Context, event worker.Event) {
	a.log(ctx, "info", "gojob: invocation succeeded", event)
}

func (a *WorkerHookAdapter) OnFailure(ctx context.Context, event worker.Event) {
	a.log(ctx, "error", "gojob: invocation failed", event)
}

func (a *WorkerHookAdapter) OnRetry(ctx context.Context, event worker.Event) {
	a.log(ctx, "warn", "gojob: invocation retry scheduled", event)
}

func (a *WorkerHookAdapter) log(ctx context.Context, level string, msg string, event worker.Event) {
	if a == nil || a.logger == nil {
		return
	}
	logger := a.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	args := eventArgs(event)
	switch level {
	case "error":
		logger.Error(msg, args...)
	case "warn":
		logger.Warn(msg, args...)
	case "info":
		logger.Info(msg, args...)
	default:
		logger.Debug(msg, args...)
	}
}

func eventArgs(event worker.Event) []any {
	message := event.Message
	if message == nil && event.Delivery != nil {
		message = event.Delivery.Message()
	}
	inv := FromExecutionMessage(message)
	args := []any{"name", inv.Name, "attempt", event.Attempt}
	if inv.IdempotencyKey != "" {
		args = append(args, "idempotency_key", inv.IdempotencyKey)
	}
	if event.Delay > 0 {
		args = append(args, "delay_ms", event.Delay.Milliseconds())
	}
	if event.Duration > 0 {
		args = append(args, "duration_ms", event.Duration.Milliseconds())
	}
	if event.Err != nil {
		args = append(args, "error", event.Err.Error())
	}
	return args
}

func copyAnyMap(in map[string]any) map[string]any {
	if len(in) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

var (
	_ JobHandler  = JobHandlerFunc(nil)
	_ worker.Hook = (*WorkerHookAdapter)(nil)
)
