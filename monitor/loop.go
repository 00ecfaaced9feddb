package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Polling interval bounds. The floor keeps an unauthenticated client
// comfortably inside the 60 requests/hour quota.
const (
	MinInterval = 10 * time.Second
	MaxInterval = 300 * time.Second
)

// ErrNotRunning is returned by operations that require an active loop.
var ErrNotRunning = errors.New("monitor is not running")

// ValidateInterval checks a refresh interval against the allowed bounds.
func ValidateInterval(d time.Duration) error {
	if d < MinInterval || d > MaxInterval {
		return fmt.Errorf("refresh interval %s out of range [%s, %s]", d, MinInterval, MaxInterval)
	}
	return nil
}

// LoopState is the poll loop lifecycle state.
type LoopState string

const (
	Idle    LoopState = "idle"
	Running LoopState = "running"
	Stopped LoopState = "stopped"
)

// StatusFetcher produces a snapshot for a ref. *Fetcher is the production
// implementation.
type StatusFetcher interface {
	Fetch(ctx context.Context, ref PullRequestRef) (*Status, error)
}

// Loop drives periodic status fetches for a single pull request. It owns
// the current ref and snapshot exclusively; at most one fetch is
// outstanding at any time, and a failed fetch never discards the last
// good snapshot.
//
// Loop is not safe for concurrent use; it is meant to be driven from a
// single goroutine (a ticker loop or a UI event loop).
type Loop struct {
	fetcher  StatusFetcher
	ref      PullRequestRef
	interval time.Duration
	state    LoopState
	snapshot *Status
	lastErr  error
	lastTick time.Time
	fetching bool
}

// NewLoop returns an idle loop using the given fetcher.
func NewLoop(fetcher StatusFetcher) *Loop {
	return &Loop{
		fetcher: fetcher,
		state:   Idle,
	}
}

// Start validates the URL and interval and moves the loop to Running.
// On any validation failure the loop keeps its previous state. Callers
// should follow a successful Start with an immediate Tick rather than
// waiting a full interval.
func (l *Loop) Start(rawURL string, interval time.Duration) error {
	ref, err := ParseURL(rawURL)
	if err != nil {
		return err
	}
	if err := ValidateInterval(interval); err != nil {
		return err
	}

	if ref != l.ref {
		// Watching a different pull request; the old snapshot does not
		// describe it.
		l.snapshot = nil
		l.lastErr = nil
	}
	l.ref = ref
	l.interval = interval
	l.state = Running
	return nil
}

// Stop moves the loop to Stopped. No fetch is interrupted; stopping only
// means no further ticks happen.
func (l *Loop) Stop() {
	if l.state == Running {
		l.state = Stopped
	}
}

// Tick performs one fetch attempt. On success the snapshot is replaced;
// on failure the previous snapshot is kept and the error recorded. The
// loop remains Running either way: transient errors do not stop
// monitoring, the next tick is the only retry.
func (l *Loop) Tick(ctx context.Context) {
	if l.state != Running || l.fetching {
		return
	}
	l.fetching = true
	defer func() { l.fetching = false }()

	l.lastTick = time.Now()
	status, err := l.fetcher.Fetch(ctx, l.ref)
	if err != nil {
		l.lastErr = err
		return
	}
	l.snapshot = status
	l.lastErr = nil
}

// Refresh performs an out-of-band fetch without touching the schedule.
// It reports false when ignored, either because the loop is not running
// or because a fetch is already outstanding.
func (l *Loop) Refresh(ctx context.Context) bool {
	if l.state != Running || l.fetching {
		return false
	}
	saved := l.lastTick
	l.Tick(ctx)
	l.lastTick = saved
	return true
}

// Clear empties the displayed snapshot. The loop state is unchanged.
func (l *Loop) Clear() {
	l.snapshot = nil
	l.lastErr = nil
}

// State returns the current lifecycle state.
func (l *Loop) State() LoopState {
	return l.state
}

// Ref returns the watched pull request.
func (l *Loop) Ref() PullRequestRef {
	return l.ref
}

// Snapshot returns the last successful snapshot (nil if none yet) and the
// error from the most recent failed fetch (nil after a success).
func (l *Loop) Snapshot() (*Status, error) {
	return l.snapshot, l.lastErr
}

// Run drives the loop until ctx is done: an immediate fetch, then one per
// interval. Results are logged, making it suitable for non-TTY use.
func (l *Loop) Run(ctx context.Context) error {
	if l.state != Running {
		return ErrNotRunning
	}

	log := logrus.WithField("pr", l.ref.String())
	log.WithField("interval", l.interval).Info("monitoring started")

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		l.Tick(ctx)
		l.logTick(log)

		select {
		case <-ctx.Done():
			l.Stop()
			log.Info("monitoring stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *Loop) logTick(log *logrus.Entry) {
	status, err := l.snapshot, l.lastErr
	if err != nil {
		log.WithError(err).Warn("fetch failed, keeping previous status")
		return
	}
	if status == nil {
		return
	}
	log.WithFields(logrus.Fields{
		"state":     status.State,
		"ci":        status.CIState,
		"review":    status.ReviewState,
		"mergeable": status.Mergeable,
	}).Info(status.Title)
}
