// Package session meters live consultations. Each running consultation is an
// actor goroutine owned by a Supervisor and stopped through its own context.
package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrAlreadyRunning     = errors.New("session already running")
	ErrInsufficientCredit = errors.New("insufficient consultation credit")
)

// Meter charges a customer one unit per elapsed tick and reports the units left.
type Meter interface {
	Charge(ctx context.Context, customerID string, units int) (remaining int64, err error)
}

// Session identifies a running consultation.
type Session struct {
	BookingID  string
	CustomerID string
	ProviderID string
	EndsAt     time.Time
}

// EndReason tells why an actor stopped.
type EndReason string

const (
	EndStopped         EndReason = "stopped"
	EndCreditExhausted EndReason = "credit_exhausted"
	EndTimeUp          EndReason = "time_up"
	EndMeterError      EndReason = "meter_error"
	EndShutdown        EndReason = "shutdown"
)

type actor struct {
	session Session
	cancel  context.CancelFunc
	stop    chan EndReason
	done    chan struct{}
}

// Supervisor owns the consultation actors.
type Supervisor struct {
	meter  Meter
	tick   time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*actor
	onEnd    func(Session, EndReason)
	wg       sync.WaitGroup
}

func NewSupervisor(meter Meter, tick time.Duration, logger *zap.Logger) *Supervisor {
	return &Supervisor{
		meter:    meter,
		tick:     tick,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*actor),
	}
}

// OnEnd registers a callback run after an actor stops.
func (s *Supervisor) OnEnd(fn func(Session, EndReason)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEnd = fn
}

// Start launches the actor for sess. The actor lives until Stop, Shutdown,
// cancellation of parent, credit exhaustion or sess.EndsAt.
func (s *Supervisor) Start(parent context.Context, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sess.BookingID]; ok {
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(parent)
	a := &actor{
		session: sess,
		cancel:  cancel,
		stop:    make(chan EndReason, 1),
		done:    make(chan struct{}),
	}
	s.sessions[sess.BookingID] = a

	s.wg.Add(1)
	go s.run(ctx, a)

	s.logger.Info("consultation session started",
		zap.String("bookingId", sess.BookingID),
		zap.String("customerId", sess.CustomerID),
		zap.Time("endsAt", sess.EndsAt),
	)
	return nil
}

// Stop ends the session for bookingID and waits for its actor to exit.
// It reports whether a session was running.
func (s *Supervisor) Stop(bookingID string) bool {
	s.mu.Lock()
	a, ok := s.sessions[bookingID]
	s.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case a.stop <- EndStopped:
	default:
	}
	a.cancel()
	<-a.done
	return true
}

// Active lists the booking ids with a running session.
func (s *Supervisor) Active() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Shutdown cancels every actor and waits for them, or for ctx.
func (s *Supervisor) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for _, a := range s.sessions {
		select {
		case a.stop <- EndShutdown:
		default:
		}
		a.cancel()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Supervisor) run(ctx context.Context, a *actor) {
	defer s.wg.Done()

	reason := s.loop(ctx, a)
	a.cancel()

	s.mu.Lock()
	delete(s.sessions, a.session.BookingID)
	onEnd := s.onEnd
	s.mu.Unlock()
	close(a.done)

	s.logger.Info("consultation session ended",
		zap.String("bookingId", a.session.BookingID),
		zap.String("reason", string(reason)),
	)
	if onEnd != nil {
		onEnd(a.session, reason)
	}
}

func (s *Supervisor) loop(ctx context.Context, a *actor) EndReason {
	if s.timeUp(a) {
		return EndTimeUp
	}
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			select {
			case r := <-a.stop:
				return r
			default:
				return EndShutdown
			}
		case <-ticker.C:
			// The tick that reaches the booked end is not billed.
			if s.timeUp(a) {
				return EndTimeUp
			}
			remaining, err := s.meter.Charge(ctx, a.session.CustomerID, 1)
			switch {
			case errors.Is(err, ErrInsufficientCredit):
				return EndCreditExhausted
			case err != nil:
				if ctx.Err() != nil {
					continue
				}
				s.logger.Error("consultation meter failed",
					zap.String("bookingId", a.session.BookingID), zap.Error(err))
				return EndMeterError
			case remaining <= 0:
				return EndCreditExhausted
			}
		}
	}
}

func (s *Supervisor) timeUp(a *actor) bool {
	return !a.session.EndsAt.IsZero() && !s.now().Before(a.session.EndsAt)
}
