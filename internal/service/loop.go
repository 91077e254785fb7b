package service

import (
	"context"
	"errors"
	"time"

	"cardputer_radio/internal/logger"
	"cardputer_radio/internal/models"
	"cardputer_radio/internal/radio"
	"cardputer_radio/internal/repository"

	"github.com/google/uuid"
)

// DefaultTick is the portal/transfer polling cadence.
const DefaultTick = 50 * time.Millisecond

const shutdownWriteTimeout = 2 * time.Second

// ErrLoopStopped is returned when a command is submitted after Run returned.
var ErrLoopStopped = errors.New("radio loop is not running")

// StatusPublisher pushes status changes to an external sink.
type StatusPublisher interface {
	PublishStatus(st models.ServiceStatus) error
}

type nopPublisher struct{}

func (nopPublisher) PublishStatus(models.ServiceStatus) error { return nil }

// LoopDeps are the collaborators of the main loop. Publisher and Log may be nil.
type LoopDeps struct {
	Driver    radio.Driver
	Portal    radio.Portal
	Transfer  radio.Transfer
	StateRepo repository.StateRepo
	EventRepo repository.EventRepo
	Publisher StatusPublisher
	Log       *logger.Logger
}

type command struct {
	fn    func(c *Coordinator)
	actor models.Actor
	done  chan struct{}
}

// Loop is the cooperative main loop. It owns the status record and the
// coordinator; everything that touches them runs on the Run goroutine.
// Portal and transfer work is ticked from here rather than from separate
// tasks, so one goroutine serializes all radio access.
type Loop struct {
	status models.ServiceStatus
	coord  *Coordinator

	stateRepo repository.StateRepo
	eventRepo repository.EventRepo
	pub       StatusPublisher
	log       *logger.Logger

	cmds chan command
	done chan struct{}

	// pubQ holds at most one pending status; a newer one replaces it.
	pubQ chan models.ServiceStatus

	// recordCtx scopes event writes made by the coordinator.
	recordCtx context.Context
	// actor is who issued the command currently running, if anyone.
	actor models.Actor

	last    models.ServiceStatus
	hasLast bool
}

func NewLoop(deps LoopDeps) *Loop {
	l := &Loop{
		stateRepo: deps.StateRepo,
		eventRepo: deps.EventRepo,
		pub:       deps.Publisher,
		log:       logger.OrNop(deps.Log).Named("loop"),
		cmds:      make(chan command),
		done:      make(chan struct{}),
		pubQ:      make(chan models.ServiceStatus, 1),
		recordCtx: context.Background(),
	}
	if l.pub == nil {
		l.pub = nopPublisher{}
	}
	l.coord = NewCoordinator(&l.status, deps.Driver, deps.Portal, deps.Transfer, l, deps.Log)
	return l
}

// Restore inspects the snapshot left by the previous run. The radio always
// boots powered off, so any mode recorded as active is reported as reset.
// Must be called before Run.
func (l *Loop) Restore(ctx context.Context) error {
	prev, err := l.stateRepo.Load(ctx)
	if err != nil {
		return err
	}
	if prev.AnyRunning() {
		l.log.Warnw("previous_session_reset",
			"fake_ap", prev.FakeAPRunning,
			"portal", prev.PortalRunning,
			"transfer", prev.TransferRunning,
			"updated_at", prev.UpdatedAt,
		)
		l.recordWith(ctx, models.EventReset, "", "Modes active at last shutdown were reset", map[string]any{
			"fake_ap_running":  prev.FakeAPRunning,
			"fake_ap_name":     prev.FakeAPName,
			"portal_running":   prev.PortalRunning,
			"portal_name":      prev.PortalName,
			"transfer_running": prev.TransferRunning,
		})
	}
	l.sync(ctx)
	return nil
}

// Run ticks at the given interval and executes submitted commands until ctx
// is canceled. On exit every mode is stopped. Run must be called once.
func (l *Loop) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = DefaultTick
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	defer close(l.done)

	pubDone := make(chan struct{})
	go l.publishLoop(pubDone)

	l.recordCtx = ctx
	for {
		select {
		case <-ctx.Done():
			l.shutdown(ctx, pubDone)
			return
		case cmd := <-l.cmds:
			l.actor = cmd.actor
			cmd.fn(l.coord)
			l.actor = models.Actor{}
			close(cmd.done)
			l.sync(ctx)
		case <-t.C:
			l.tick()
			l.sync(ctx)
		}
	}
}

func (l *Loop) tick() {
	l.coord.PortalTick()
	l.coord.TransferTick()
}

// Do runs fn on the loop goroutine and waits for it to finish. Events
// recorded by fn are attributed to the actor carried in ctx.
func (l *Loop) Do(ctx context.Context, fn func(c *Coordinator)) error {
	cmd := command{fn: fn, actor: ActorFrom(ctx), done: make(chan struct{})}
	select {
	case l.cmds <- cmd:
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-cmd.done
	return nil
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Record implements Recorder by appending to the event log.
func (l *Loop) Record(eventType, mode, description string, meta map[string]any) {
	l.recordWith(l.recordCtx, eventType, mode, description, meta)
}

func (l *Loop) recordWith(ctx context.Context, eventType, mode, description string, meta map[string]any) {
	ev := models.RadioEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        eventType,
		Mode:        mode,
		Description: description,
		Actor:       l.actor.Username,
	}
	if meta != nil {
		ev.Metadata = meta
	}
	if err := l.eventRepo.Append(ctx, ev); err != nil {
		l.log.Errorw("event_append_failed", "err", err, "type", eventType, "mode", mode)
	}
}

// sync persists and publishes the snapshot when it changed.
func (l *Loop) sync(ctx context.Context) {
	st := l.coord.Status()
	if l.hasLast && st == l.last {
		return
	}
	l.last, l.hasLast = st, true

	snap := models.StatusSnapshot{ServiceStatus: st, UpdatedAt: time.Now().UTC()}
	if err := l.stateRepo.Save(ctx, snap); err != nil {
		l.log.Errorw("status_save_failed", "err", err)
	}
	l.enqueuePublish(st)
}

// enqueuePublish never blocks: a status still waiting for the publisher is
// replaced by the newer one.
func (l *Loop) enqueuePublish(st models.ServiceStatus) {
	select {
	case l.pubQ <- st:
		return
	default:
	}
	select {
	case <-l.pubQ:
	default:
	}
	select {
	case l.pubQ <- st:
	default:
		l.log.Warnw("status_publish_dropped")
	}
}

func (l *Loop) publishLoop(done chan<- struct{}) {
	defer close(done)
	for st := range l.pubQ {
		if err := l.pub.PublishStatus(st); err != nil {
			l.log.Errorw("status_publish_failed", "err", err)
		}
	}
}

func (l *Loop) shutdown(parent context.Context, pubDone <-chan struct{}) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), shutdownWriteTimeout)
	defer cancel()

	l.recordCtx = ctx
	if l.coord.IsAnyRunning() {
		l.log.Infow("stopping_all_modes")
	}
	l.coord.StopAll()
	l.sync(ctx)

	close(l.pubQ)
	select {
	case <-pubDone:
	case <-ctx.Done():
		l.log.Warnw("status_publish_abandoned", "err", ctx.Err())
	}
}
