package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/chillmcp/server/internal/domain/office"
	"github.com/chillmcp/server/internal/domain/rules"
	"github.com/chillmcp/server/internal/events"
	"github.com/chillmcp/server/internal/platform/logger"
	"github.com/chillmcp/server/internal/platform/metrics"
)

const (
	actorEmployee     = "EMPLOYEE"
	actorStressTicker = "SYSTEM_STRESS"
	actorAlertTicker  = "SYSTEM_COOLDOWN"
)

// Options configure a Manager. The config layer rejects non-positive
// durations before they get here; as a second line the constructor coerces
// them to one second so a misassembled Manager can never busy-spin.
type Options struct {
	BossAlertness         int           // percent chance a break is noticed, clamped to [0,100]
	BossAlertnessCooldown time.Duration // period of the alert decay ticker
	StressInterval        time.Duration // period of the stress ticker
	MaxAlertDelay         time.Duration // stall served when the boss is fully alert
	Dice                  Dice          // nil means a time-seeded generator
}

// Manager owns the two office counters and everything that mutates them:
// the stress ticker, the alert decay ticker, and caller-invoked breaks.
// One mutex guards both counters; breaks read and write them as a single
// atomic unit, so the tickers take the same lock even though each touches
// only its own counter.
type Manager struct {
	mu sync.Mutex

	stressLevel    int
	bossAlertLevel int

	// Immutable after construction.
	bossAlertness  int
	cooldown       time.Duration
	stressInterval time.Duration
	maxAlertDelay  time.Duration
	dice           Dice

	// Lifecycle. Both timers are one-shot and re-arm themselves after each
	// firing, but only while running is still true; the check happens under
	// mu so a firing racing Shutdown can never re-arm afterwards.
	running     bool
	stressTimer *time.Timer
	decayTimer  *time.Timer

	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewManager constructs a manager with the counters at their defaults and
// both tickers armed. The returned manager is live until Shutdown.
func NewManager(opts Options, eventLog *events.EventLog, log *logger.Logger) *Manager {
	if opts.BossAlertnessCooldown <= 0 {
		opts.BossAlertnessCooldown = time.Second
	}
	if opts.StressInterval <= 0 {
		opts.StressInterval = time.Second
	}
	if opts.MaxAlertDelay < 0 {
		opts.MaxAlertDelay = 0
	}
	if opts.Dice == nil {
		opts.Dice = NewSeededDice(time.Now().UnixNano())
	}

	m := &Manager{
		stressLevel:    office.DefaultStressLevel,
		bossAlertLevel: office.DefaultBossAlertLevel,
		bossAlertness:  office.ClampBossAlertness(opts.BossAlertness),
		cooldown:       opts.BossAlertnessCooldown,
		stressInterval: opts.StressInterval,
		maxAlertDelay:  opts.MaxAlertDelay,
		dice:           opts.Dice,
		running:        true,
		eventLog:       eventLog,
		logger:         log,
	}

	m.stressTimer = time.AfterFunc(m.stressInterval, m.stressTick)
	m.decayTimer = time.AfterFunc(m.cooldown, m.decayTick)

	log.Info(fmt.Sprintf("State manager started (alertness=%d%%, cooldown=%v, stress interval=%v)",
		m.bossAlertness, m.cooldown, m.stressInterval))
	return m
}

// TakeBreak is the single externally callable mutator. It executes as one
// logical transaction under the mutex: serve the max-alert stall if the
// boss is fully alert, relieve stress by a random amount, roll for the
// boss noticing, and return the post-mutation snapshot.
//
// The stall is served while holding the mutex, so concurrent breaks (and
// the tickers) serialize behind the delayed caller. That contention is the
// point of the penalty.
func (m *Manager) TakeBreak() office.ChillState {
	start := time.Now()

	m.mu.Lock()
	delayed := m.bossAlertLevel >= office.MaxBossAlertLevel
	if delayed {
		time.Sleep(m.maxAlertDelay)
	}

	current := office.ChillState{StressLevel: m.stressLevel, BossAlertLevel: m.bossAlertLevel}
	outcome := rules.ApplyBreak(current, rules.BreakParams{
		StressRelief:  m.dice.Roll(100),
		AlertRoll:     m.dice.Roll(100),
		BossAlertness: m.bossAlertness,
	})
	m.stressLevel = outcome.State.StressLevel
	m.bossAlertLevel = outcome.State.BossAlertLevel
	m.mu.Unlock()

	metrics.Get().RecordBreak(time.Since(start), delayed)

	if delayed {
		m.emit(events.EventTypeAlertMaxDelay, actorEmployee, events.AlertMaxDelayPayload{
			DelaySeconds: m.maxAlertDelay.Seconds(),
		})
	}
	m.emit(events.EventTypeBreakTaken, actorEmployee, events.BreakTakenPayload{
		StressRelief:   current.StressLevel - outcome.State.StressLevel,
		StressLevel:    outcome.State.StressLevel,
		BossAlertLevel: outcome.State.BossAlertLevel,
		BossNoticed:    outcome.BossNoticed,
		Delayed:        delayed,
	})

	return outcome.State
}

// CurrentState returns a copy of the counters taken under the mutex.
func (m *Manager) CurrentState() office.ChillState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return office.ChillState{StressLevel: m.stressLevel, BossAlertLevel: m.bossAlertLevel}
}

// Shutdown stops both tickers. Idempotent; once it returns no further
// ticker-driven mutation happens. Breaks may still be taken afterwards:
// shutdown only stops the background drift.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	m.stressTimer.Stop()
	m.decayTimer.Stop()
	m.logger.Info("State manager shut down; background drift stopped.")
}

// stressTick fires once per stress interval: raise stress by one (clamped)
// and re-arm. A firing only ever adds one point; there is no catch-up for
// late firings.
func (m *Manager) stressTick() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}

	changed := m.stressLevel < office.MaxStressLevel
	m.stressLevel = rules.NextStress(m.stressLevel)
	level := m.stressLevel

	m.stressTimer = time.AfterFunc(m.stressInterval, m.stressTick)
	m.mu.Unlock()

	if changed {
		metrics.Get().RecordStressTick()
		m.emit(events.EventTypeStressTick, actorStressTicker, events.StressTickPayload{StressLevel: level})
	}
}

// decayTick fires once per cooldown: lower the boss alert by one (clamped)
// and re-arm.
func (m *Manager) decayTick() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}

	changed := m.bossAlertLevel > office.MinBossAlertLevel
	m.bossAlertLevel = rules.NextBossAlert(m.bossAlertLevel)
	level := m.bossAlertLevel

	m.decayTimer = time.AfterFunc(m.cooldown, m.decayTick)
	m.mu.Unlock()

	if changed {
		metrics.Get().RecordAlertDecay()
		m.emit(events.EventTypeAlertDecay, actorAlertTicker, events.AlertDecayPayload{BossAlertLevel: level})
	}
}

func (m *Manager) emit(eventType events.EventType, actor string, payload interface{}) {
	if m.eventLog == nil {
		return
	}
	m.eventLog.Append(events.OfficeEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      eventType,
		Actor:     actor,
		Payload:   payload,
	})
}
