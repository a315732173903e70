// Package agent orchestrates the auto-responder: periodic intake (fetch,
// classify, enqueue) and periodic dispatch (drain, generate, send,
// acknowledge) over narrow collaborator interfaces.
package agent

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/mail-agent/internal/classify"
	"github.com/nhle/mail-agent/internal/logger"
	"github.com/nhle/mail-agent/internal/model"
	"github.com/nhle/mail-agent/internal/schedule"
	"github.com/nhle/mail-agent/internal/store"
)

// Per-tick collaborator timeouts. Hung network calls fail the tick and
// retry on the next one.
const (
	fetchTimeout    = 30 * time.Second
	generateTimeout = 60 * time.Second
	ackTimeout      = 30 * time.Second
)

// Mailbox is the mail-provider collaborator.
type Mailbox interface {
	FetchUnread(ctx context.Context) ([]model.Message, error)
	MarkHandled(ctx context.Context, id string) error
}

// Sender delivers outbound replies.
type Sender interface {
	Send(to, subject, body, inReplyTo string) error
}

// Generator drafts reply bodies.
type Generator interface {
	GenerateReply(ctx context.Context, body string) (string, error)
}

// Deps bundles the agent's collaborators.
type Deps struct {
	Mailbox    Mailbox
	Sender     Sender
	Generator  Generator
	Classifier *classify.Classifier
	Planner    *schedule.Planner
	Store      store.Store
}

// Agent runs the dual-cadence polling loop: intake on a long period,
// dispatch on a short one. Both activities share the dispatch queue,
// which serializes its own access; no other state is shared.
type Agent struct {
	cfg     model.AgentConfig
	deps    Deps
	queue   *schedule.Queue
	now     func() time.Time
	newID   func() string
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// Option customizes an Agent.
type Option func(*Agent)

// WithClock replaces the agent's time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Agent) { a.now = now }
}

// New creates an Agent. Call Restore before Start to reload persisted
// queue entries.
func New(cfg model.AgentConfig, deps Deps, opts ...Option) *Agent {
	a := &Agent{
		cfg:   cfg,
		deps:  deps,
		queue: schedule.NewQueue(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// QueueLen returns the number of pending entries, for status reporting.
func (a *Agent) QueueLen() int {
	return a.queue.Len()
}

// Restore reloads persisted pending entries into the in-memory queue.
// Scheduled times survive a restart unchanged.
func (a *Agent) Restore(ctx context.Context) error {
	entries, err := a.deps.Store.PendingEntries(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		a.queue.Enqueue(e)
	}
	if len(entries) > 0 {
		logger.Info("restored pending replies", "count", len(entries))
	}
	return nil
}

// Start launches the intake and dispatch goroutines. It is a no-op if
// the agent is already running.
func (a *Agent) Start() {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return
	}
	a.running = true
	a.stopCh = make(chan struct{})
	a.mu.Unlock()

	a.wg.Add(2)
	go a.intakeLoop()
	go a.dispatchLoop()
}

// Stop halts both loops and waits for in-flight activity to finish.
func (a *Agent) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	close(a.stopCh)
	a.running = false
	a.mu.Unlock()

	a.wg.Wait()
}

// Run starts the agent, blocks until ctx is cancelled, then stops it.
func (a *Agent) Run(ctx context.Context) {
	a.Start()
	<-ctx.Done()
	a.Stop()
}

// intakeLoop fetches and classifies unread mail on the intake cadence.
func (a *Agent) intakeLoop() {
	defer a.wg.Done()

	ticker := time.NewTicker(a.cfg.IntakeInterval())
	defer ticker.Stop()

	// Initial intake immediately on startup.
	a.runIntakeOnce()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			a.runIntakeOnce()
		}
	}
}

// dispatchLoop drains due entries on the dispatch cadence.
func (a *Agent) dispatchLoop() {
	defer a.wg.Done()

	ticker := time.NewTicker(a.cfg.DispatchInterval())
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			a.RunDispatch(context.Background())
		}
	}
}

func (a *Agent) runIntakeOnce() {
	if _, err := a.RunIntake(context.Background()); err != nil {
		logger.Error("intake failed, retrying next tick", "error", err)
	}
}

// RunIntake performs one intake pass: fetch unread messages, classify
// each, and enqueue accepted ones with a randomized send time. Returns
// the number of newly enqueued replies. A fetch failure fails the whole
// tick; per-message work never does.
func (a *Agent) RunIntake(ctx context.Context) (int, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	messages, err := a.deps.Mailbox.FetchUnread(fetchCtx)
	if err != nil {
		return 0, err
	}
	logger.Info("intake fetched unread messages", "count", len(messages))

	accepted := 0
	for _, msg := range messages {
		if a.intakeOne(ctx, msg) {
			accepted++
		}
	}

	if accepted > 0 {
		logger.Info("enqueued replies", "count", accepted)
	}
	return accepted, nil
}

// intakeOne classifies a single message and enqueues it if accepted.
func (a *Agent) intakeOne(ctx context.Context, msg model.Message) bool {
	sent, err := a.deps.Store.WasSent(ctx, msg.ID)
	if err != nil {
		logger.Error("sent-ledger lookup failed", "message_id", msg.ID, "error", err)
		return false
	}
	if sent {
		// Already replied; the earlier acknowledge must have failed.
		// Retry it so the message stops surfacing as unread.
		logger.Info("skipping already-answered message", "message_id", msg.ID, "from", msg.From)
		a.acknowledge(ctx, msg.ID)
		return false
	}

	decision := a.deps.Classifier.Classify(msg)
	if !decision.Accept {
		logger.Info("filtering message",
			"message_id", msg.ID, "from", msg.From, "reason", decision.Reason)
		if a.cfg.MarkFilteredRead {
			a.acknowledge(ctx, msg.ID)
		}
		return false
	}

	now := a.now()
	entry := schedule.Entry{
		ID:          a.newID(),
		ScheduledAt: a.deps.Planner.PlanSendTime(now),
		Message:     msg,
	}
	if !a.queue.Enqueue(entry) {
		logger.Debug("message already queued", "message_id", msg.ID)
		return false
	}

	logger.Info("accepted message",
		"message_id", msg.ID, "from", msg.From, "reason", decision.Reason,
		"scheduled_at", entry.ScheduledAt)

	if err := a.deps.Store.SavePending(ctx, entry); err != nil {
		// The in-memory queue still dispatches it; only restart
		// durability is lost.
		logger.Error("persisting pending entry failed", "entry_id", entry.ID, "error", err)
	}
	return true
}

// RunDispatch performs one dispatch pass: drain ready entries and, for
// each, generate a reply, send it, and acknowledge the original. A
// failure for one entry never blocks the rest. Returns the number of
// replies sent.
func (a *Agent) RunDispatch(ctx context.Context) int {
	now := a.now()
	ready := a.queue.DrainReady(now, a.deps.Planner.InWindow)
	if len(ready) == 0 {
		return 0
	}

	sent := 0
	for _, entry := range ready {
		if a.dispatchOne(ctx, entry) {
			sent++
		}
	}
	return sent
}

// dispatchOne sends the reply for a drained entry. Generation or send
// failures requeue the entry with its original scheduled time so it
// retries on a later tick.
func (a *Agent) dispatchOne(ctx context.Context, entry schedule.Entry) bool {
	msg := entry.Message

	// Intake runs on its own goroutine and can re-enqueue a message
	// while an earlier entry for it is still in flight here (drained
	// from the queue, no ledger row yet, still unread at the provider).
	// The ledger check makes the later duplicate entry a no-op.
	sent, err := a.deps.Store.WasSent(ctx, msg.ID)
	if err != nil {
		logger.Error("sent-ledger lookup failed, requeueing",
			"message_id", msg.ID, "error", err)
		a.requeue(entry)
		return false
	}
	if sent {
		logger.Info("dropping already-answered entry",
			"message_id", msg.ID, "entry_id", entry.ID)
		if err := a.deps.Store.DeletePending(ctx, entry.ID); err != nil {
			logger.Error("deleting stale pending entry failed",
				"entry_id", entry.ID, "error", err)
		}
		a.acknowledge(ctx, msg.ID)
		return false
	}

	genCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	draft, err := a.deps.Generator.GenerateReply(genCtx, msg.Body)
	cancel()
	if err != nil {
		logger.Error("reply generation failed, requeueing",
			"message_id", msg.ID, "error", err)
		a.requeue(entry)
		return false
	}

	subject := "Re: " + msg.Subject
	if err := a.deps.Sender.Send(msg.From, subject, draft, msg.RFCMessageID); err != nil {
		logger.Error("send failed, requeueing",
			"message_id", msg.ID, "to", msg.From, "error", err)
		a.requeue(entry)
		return false
	}

	sentAt := a.now()

	// Ledger first: once the reply is on the wire, the message must
	// never be sent again, even if the acknowledge below fails.
	if err := a.deps.Store.CompleteSend(ctx, entry, sentAt); err != nil {
		logger.Error("recording sent reply failed",
			"message_id", msg.ID, "error", err)
	}

	a.acknowledge(ctx, msg.ID)

	logger.Info("sent reply", "to", msg.From, "message_id", msg.ID, "sent_at", sentAt)
	return true
}

// requeue puts a failed entry back on the queue, logging if an intake
// pass re-added the same message in the meantime.
func (a *Agent) requeue(entry schedule.Entry) {
	if !a.queue.Requeue(entry) {
		logger.Warn("requeue skipped, message already queued", "message_id", entry.Message.ID)
	}
}

// acknowledge marks a message read, best effort. A failure here risks
// the provider re-surfacing the message as unread; the sent ledger makes
// that safe.
func (a *Agent) acknowledge(ctx context.Context, messageID string) {
	ackCtx, cancel := context.WithTimeout(ctx, ackTimeout)
	defer cancel()

	if err := a.deps.Mailbox.MarkHandled(ackCtx, messageID); err != nil {
		logger.Error("mark-handled failed", "message_id", messageID, "error", err)
	}
}
