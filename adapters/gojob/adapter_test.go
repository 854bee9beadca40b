package gojob

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-apicall/core"

	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue"
	"github.com/goliatone/go-job/queue/worker"
	glog "github.com/goliatone/go-logger/glog"
)

func TestInvocationMappingRoundTrip(t *testing.T) {
	original := Invocation{
		Name:       "SendReminder",
		Parameters: map[string]any{"invoice_id": "inv_1"},
		Request: core.Request{
			Principal:     "user_1",
			Token:         "secret",
			CorrelationID: "corr_1",
			Metadata:      map[string]any{"tenant": "acme"},
		},
		IdempotencyKey: "idem-1",
		DedupPolicy:    "drop",
	}

	converted := ToExecutionMessage(original)
	if converted.JobID != "SendReminder" || converted.ScriptPath != "apicall://SendReminder" {
		t.Fatalf("unexpected job addressing %q %q", converted.JobID, converted.ScriptPath)
	}
	for _, value := range converted.Parameters {
		if value == "secret" {
			t.Fatalf("expected token to stay out of the queue")
		}
	}

	roundTrip := FromExecutionMessage(converted)
	if roundTrip.Name != original.Name {
		t.Fatalf("expected name %q, got %q", original.Name, roundTrip.Name)
	}
	if roundTrip.Request.Principal != "user_1" || roundTrip.Request.CorrelationID != "corr_1" {
		t.Fatalf("expected request identity to survive mapping, got %#v", roundTrip.Request)
	}
	if roundTrip.Request.Token != "" {
		t.Fatalf("expected token to be dropped")
	}
	if roundTrip.Request.Metadata["tenant"] != "acme" {
		t.Fatalf("expected request metadata to survive mapping")
	}
	if len(roundTrip.Parameters) != 1 || roundTrip.Parameters["invoice_id"] != "inv_1" {
		t.Fatalf("expected only caller parameters, got %#v", roundTrip.Parameters)
	}
	if roundTrip.IdempotencyKey != "idem-1" || roundTrip.DedupPolicy != "drop" {
		t.Fatalf("unexpected dedup mapping %#v", roundTrip)
	}
}

func TestEnqueue(t *testing.T) {
	enqueuer := &stubQueueEnqueuer{}
	receipt, err := Enqueue(context.Background(), enqueuer, Invocation{Name: "Ping"})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if enqueuer.last == nil || enqueuer.last.JobID != "Ping" {
		t.Fatalf("expected mapped go-job message")
	}
	if receipt.DispatchID != "dispatch-1" {
		t.Fatalf("expected queue receipt, got %#v", receipt)
	}
	if _, err := Enqueue(context.Background(), enqueuer, Invocation{}); err == nil {
		t.Fatalf("expected blank name to be rejected")
	}
	if _, err := Enqueue(context.Background(), nil, Invocation{Name: "Ping"}); err == nil {
		t.Fatalf("expected missing enqueuer to fail")
	}

	enqueuer.err = errors.New("broker down")
	if _, err := Enqueue(context.Background(), enqueuer, Invocation{Name: "Ping"}); !errors.Is(err, enqueuer.err) {
		t.Fatalf("expected wrapped enqueue error, got %v", err)
	}
}

func TestRetryPolicyBoundaries(t *testing.T) {
	policy := RetryPolicy{
		MaxAttempts:     3,
		BaseDelay:       time.Second,
		MaxDelay:        10 * time.Second,
		DeadLetterOnMax: true,
	}
	if got := policy.Backoff(1); got != time.Second {
		t.Fatalf("expected 1s backoff, got %s", got)
	}
	if got := policy.Backoff(3); got != 4*time.Second {
		t.Fatalf("expected 4s backoff, got %s", got)
	}
	if got := policy.Backoff(10); got != 10*time.Second {
		t.Fatalf("expected capped backoff, got %s", got)
	}

	opts := policy.NormalizeAttempt(NackOptions{Delay: 30 * time.Second, Requeue: true}, 1)
	if opts.Delay != 10*time.Second || !opts.Requeue {
		t.Fatalf("expected bounded requeue, got %#v", opts)
	}
	opts = policy.NormalizeAttempt(NackOptions{Requeue: true}, 3)
	if opts.Requeue || !opts.DeadLetter {
		t.Fatalf("expected dead letter on max attempts, got %#v", opts)
	}
}

func TestNackOptionsMapDispositions(t *testing.T) {
	retry := ToNackOptions(NackOptions{Requeue: true, Delay: time.Second, Reason: "later"})
	if retry.Disposition != queue.NackDispositionRetry || retry.Delay != time.Second || retry.Reason != "later" {
		t.Fatalf("unexpected retry mapping %#v", retry)
	}
	dead := ToNackOptions(NackOptions{Requeue: true, DeadLetter: true, Delay: time.Second})
	if dead.Disposition != queue.NackDispositionDeadLetter || dead.Delay != 0 {
		t.Fatalf("unexpected dead letter mapping %#v", dead)
	}
	failed := ToNackOptions(NackOptions{Reason: "gone"})
	if failed.Disposition != queue.NackDispositionFailed {
		t.Fatalf("unexpected failed mapping %#v", failed)
	}
	for _, opts := range []queue.NackOptions{retry, dead, failed} {
		if err := queue.ValidateNackOptions(opts); err != nil {
			t.Fatalf("expected valid go-job nack options %#v: %v", opts, err)
		}
	}

	back := FromNackOptions(retry)
	if !back.Requeue || back.DeadLetter || back.Delay != time.Second {
		t.Fatalf("unexpected reverse retry mapping %#v", back)
	}
	if back := FromNackOptions(dead); !back.DeadLetter || back.Requeue {
		t.Fatalf("unexpected reverse dead letter mapping %#v", back)
	}
}

func TestConsumer_AcksSuccessfulInvocation(t *testing.T) {
	delivery := &stubQueueDelivery{msg: ToExecutionMessage(Invocation{
		Name:       "SendReminder",
		Parameters: map[string]any{"invoice_id": "inv_1"},
		Request:    core.Request{Principal: "user_1"},
	})}
	consumer := NewConsumer(&stubQueueDequeuer{deliveries: []queue.Delivery{delivery}}, RetryPolicy{}, nil)

	var handled Invocation
	if err := consumer.Handle("SendReminder", JobHandlerFunc(func(_ context.Context, inv Invocation) error {
		handled = inv
		return nil
	})); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if err := consumer.ProcessNext(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if !delivery.acked {
		t.Fatalf("expected ack")
	}
	if handled.Request.Principal != "user_1" || handled.Parameters["invoice_id"] != "inv_1" {
		t.Fatalf("unexpected handled invocation %#v", handled)
	}
}

func TestConsumer_NacksFailuresUntilDeadLetter(t *testing.T) {
	msg := ToExecutionMessage(Invocation{Name: "SendReminder", IdempotencyKey: "idem-7"})
	deliveries := []*stubQueueDelivery{{msg: msg}, {msg: msg}}
	dequeuer := &stubQueueDequeuer{}
	for _, d := range deliveries {
		dequeuer.deliveries = append(dequeuer.deliveries, d)
	}
	consumer := NewConsumer(dequeuer, RetryPolicy{MaxAttempts: 2, BaseDelay: time.Second, DeadLetterOnMax: true}, nil)
	if err := consumer.Handle("SendReminder", JobHandlerFunc(func(context.Context, Invocation) error {
		return errors.New("smtp down")
	})); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if err := consumer.ProcessNext(context.Background()); err != nil {
		t.Fatalf("process first: %v", err)
	}
	first := deliveries[0].nackOpts
	if first.Disposition != queue.NackDispositionRetry || first.Delay != time.Second || first.Reason != "smtp down" {
		t.Fatalf("unexpected first nack %#v", first)
	}
	if consumer.Attempts("idem-7") != 1 {
		t.Fatalf("expected one recorded attempt, got %d", consumer.Attempts("idem-7"))
	}

	if err := consumer.ProcessNext(context.Background()); err != nil {
		t.Fatalf("process second: %v", err)
	}
	second := deliveries[1].nackOpts
	if second.Disposition != queue.NackDispositionDeadLetter {
		t.Fatalf("expected dead letter on second failure, got %#v", second)
	}
	if consumer.Attempts("idem-7") != 0 {
		t.Fatalf("expected attempts to reset after dead letter")
	}
}

func TestConsumer_KeylessInvocationsKeepSeparateBudgets(t *testing.T) {
	first := &stubQueueDelivery{msg: ToExecutionMessage(Invocation{
		Name:    "SendReminder",
		Request: core.Request{Principal: "user_1"},
	})}
	second := &stubQueueDelivery{msg: ToExecutionMessage(Invocation{
		Name:    "SendReminder",
		Request: core.Request{Principal: "user_2"},
	})}
	retried := &stubQueueDelivery{msg: first.msg}
	dequeuer := &stubQueueDequeuer{deliveries: []queue.Delivery{first, second, retried}}
	consumer := NewConsumer(dequeuer, RetryPolicy{MaxAttempts: 2, DeadLetterOnMax: true}, nil)
	if err := consumer.Handle("SendReminder", JobHandlerFunc(func(context.Context, Invocation) error {
		return errors.New("smtp down")
	})); err != nil {
		t.Fatalf("handle: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := consumer.ProcessNext(context.Background()); err != nil {
			t.Fatalf("process %d: %v", i, err)
		}
	}
	if first.nackOpts.Disposition != queue.NackDispositionRetry {
		t.Fatalf("expected first caller to be retried, got %#v", first.nackOpts)
	}
	if second.nackOpts.Disposition != queue.NackDispositionRetry {
		t.Fatalf("expected second caller to keep its own budget, got %#v", second.nackOpts)
	}
	if retried.nackOpts.Disposition != queue.NackDispositionDeadLetter {
		t.Fatalf("expected redelivery of first caller to exhaust its budget, got %#v", retried.nackOpts)
	}
	if consumer.Attempts(AttemptKey(FromExecutionMessage(second.msg))) != 1 {
		t.Fatalf("expected second caller to hold one attempt")
	}
}

func TestConsumer_PrefersDriverAttempts(t *testing.T) {
	delivery := &countedDelivery{
		stubQueueDelivery: stubQueueDelivery{msg: ToExecutionMessage(Invocation{Name: "SendReminder", IdempotencyKey: "idem-3"})},
		attempts:          3,
	}
	consumer := NewConsumer(&stubQueueDequeuer{deliveries: []queue.Delivery{delivery}}, RetryPolicy{MaxAttempts: 3, DeadLetterOnMax: true}, nil)
	if err := consumer.Handle("SendReminder", JobHandlerFunc(func(context.Context, Invocation) error {
		return errors.New("smtp down")
	})); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if err := consumer.ProcessNext(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if delivery.nackOpts.Disposition != queue.NackDispositionDeadLetter {
		t.Fatalf("expected driver attempt count to dead letter, got %#v", delivery.nackOpts)
	}
}

func TestAttemptKey(t *testing.T) {
	if got := AttemptKey(Invocation{Name: "SendReminder", IdempotencyKey: " idem-1 "}); got != "idem-1" {
		t.Fatalf("expected idempotency key, got %q", got)
	}
	a := AttemptKey(Invocation{Name: "SendReminder", Parameters: map[string]any{"invoice_id": "inv_1"}})
	b := AttemptKey(Invocation{Name: "SendReminder", Parameters: map[string]any{"invoice_id": "inv_1"}})
	c := AttemptKey(Invocation{Name: "SendReminder", Parameters: map[string]any{"invoice_id": "inv_2"}})
	if a != b {
		t.Fatalf("expected stable fingerprint, got %q and %q", a, b)
	}
	if a == c {
		t.Fatalf("expected distinct fingerprints for distinct parameters")
	}
}

func TestConsumer_NilGuards(t *testing.T) {
	var consumer *Consumer
	if consumer.Attempts("any") != 0 {
		t.Fatalf("expected zero attempts on nil consumer")
	}
	if err := consumer.Run(context.Background()); err == nil {
		t.Fatalf("expected nil consumer run to fail")
	}

	live := NewConsumer(&stubQueueDequeuer{err: errors.New("closed")}, RetryPolicy{}, nil)
	var unset context.Context
	if err := live.Run(unset); err == nil || err.Error() != "closed" {
		t.Fatalf("expected nil context to fall back and surface dequeue error, got %v", err)
	}
}

func TestConsumer_DeadLettersUnknownJobs(t *testing.T) {
	delivery := &stubQueueDelivery{msg: &job.ExecutionMessage{JobID: "Unknown"}}
	consumer := NewConsumer(&stubQueueDequeuer{deliveries: []queue.Delivery{delivery}}, RetryPolicy{}, nil)
	if err := consumer.ProcessNext(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if delivery.nackOpts.Disposition != queue.NackDispositionDeadLetter || delivery.acked {
		t.Fatalf("expected unknown job to be dead lettered, got %#v", delivery.nackOpts)
	}
}

func TestConsumer_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	dequeuer := &stubQueueDequeuer{onEmpty: cancel}
	consumer := NewConsumer(dequeuer, RetryPolicy{}, nil)
	if err := consumer.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestWorkerHookAdapterLogsEvents(t *testing.T) {
	logger := &recordingLogger{}
	adapter := NewWorkerHookAdapter(logger)

	adapter.OnRetry(context.Background(), worker.Event{
		Message:   ToExecutionMessage(Invocation{Name: "SendReminder", IdempotencyKey: "idem-sub"}),
		Attempt:   2,
		Delay:     5 * time.Second,
		Err:       errors.New("retry"),
		StartedAt: time.Now().UTC().Add(-time.Second),
		Duration:  250 * time.Millisecond,
	})

	if len(logger.entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(logger.entries))
	}
	entry := logger.entries[0]
	if entry.level != "warn" {
		t.Fatalf("expected warn level for retry, got %q", entry.level)
	}
	fields := map[string]any{}
	for i := 0; i+1 < len(entry.args); i += 2 {
		fields[entry.args[i].(string)] = entry.args[i+1]
	}
	if fields["name"] != "SendReminder" || fields["attempt"] != 2 || fields["delay_ms"] != int64(5000) {
		t.Fatalf("unexpected log fields %#v", fields)
	}
	if fields["error"] != "retry" || fields["idempotency_key"] != "idem-sub" {
		t.Fatalf("unexpected log fields %#v", fields)
	}
}

type stubQueueEnqueuer struct {
	last *job.ExecutionMessage
	err  error
	seq  int
}

func (s *stubQueueEnqueuer) Enqueue(_ context.Context, msg *job.ExecutionMessage) (queue.EnqueueReceipt, error) {
	if s.err != nil {
		return queue.EnqueueReceipt{}, s.err
	}
	s.last = msg
	s.seq++
	return queue.EnqueueReceipt{DispatchID: fmt.Sprintf("dispatch-%d", s.seq), EnqueuedAt: time.Now().UTC()}, nil
}

type stubQueueDequeuer struct {
	mu         sync.Mutex
	deliveries []queue.Delivery
	onEmpty    func()
	err        error
}

func (s *stubQueueDequeuer) Dequeue(ctx context.Context) (queue.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if len(s.deliveries) == 0 {
		if s.onEmpty != nil {
			s.onEmpty()
		}
		return nil, ctx.Err()
	}
	next := s.deliveries[0]
	s.deliveries = s.deliveries[1:]
	return next, nil
}

type stubQueueDelivery struct {
	msg      *job.ExecutionMessage
	acked    bool
	nackOpts queue.NackOptions
}

func (s *stubQueueDelivery) Message() *job.ExecutionMessage {
	return s.msg
}

func (s *stubQueueDelivery) Ack(context.Context) error {
	s.acked = true
	return nil
}

func (s *stubQueueDelivery) Nack(_ context.Context, opts queue.NackOptions) error {
	s.nackOpts = opts
	return nil
}

type countedDelivery struct {
	stubQueueDelivery
	attempts int
}

func (d *countedDelivery) Attempts() int { return d.attempts }

type logEntry struct {
	level string
	msg   string
	args  []any
}

type recordingLogger struct {
	entries []logEntry
}

func (l *recordingLogger) record(level string, msg string, args []any) {
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: append([]any(nil), args...)})
}

func (l *recordingLogger) Trace(msg string, args ...any) { l.record("trace", msg, args) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args) }

func (l *recordingLogger) WithContext(context.Context) glog.Logger { return l }

var (
	_ queue.Delivery = (*stubQueueDelivery)(nil)
	_ queue.Delivery = (*countedDelivery)(nil)
	_ queue.Enqueuer = (*stubQueueEnqueuer)(nil)
	_ queue.Dequeuer = (*stubQueueDequeuer)(nil)
)
