package collector

import (
	"context"
	"errors"
	"time"

	"github.com/newthinker/elite/internal/core"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ResilienceOptions configures a Resilient provider.
// A zero RatePerSecond disables rate limiting; a zero CallTimeout leaves
// the caller's deadline alone.
type ResilienceOptions struct {
	RatePerSecond float64
	Burst         int
	MaxFailures   uint32
	Timeout       time.Duration
	CallTimeout   time.Duration
}

// callerAbort marks a failure caused by the caller's own context ending
type callerAbort struct {
	err error
}

func (e callerAbort) Error() string { return e.err.Error() }
func (e callerAbort) Unwrap() error { return e.err }

// Resilient decorates a provider with a rate limiter and a circuit breaker
type Resilient struct {
	inner       Provider
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
	callTimeout time.Duration
	logger      *zap.Logger
}

// NewResilient wraps p. Unknown-symbol and cancellation errors do not count
// as breaker failures.
func NewResilient(p Provider, opts ResilienceOptions, logger ...*zap.Logger) *Resilient {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}

	maxFailures := opts.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := &Resilient{inner: p, callTimeout: opts.CallTimeout, logger: l}
	if opts.RatePerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}

	r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        p.Name(),
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			var aborted callerAbort
			return err == nil ||
				errors.Is(err, core.ErrSymbolNotFound) ||
				errors.As(err, &aborted)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.Warn("provider circuit breaker state changed",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return r
}

func (r *Resilient) Name() string {
	return r.inner.Name()
}

func (r *Resilient) Supports(typ core.InstrumentType) bool {
	return r.inner.Supports(typ)
}

// State returns the breaker state
func (r *Resilient) State() gobreaker.State {
	return r.breaker.State()
}

func (r *Resilient) FetchSnapshot(ctx context.Context, symbol string, typ core.InstrumentType) (*core.Snapshot, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, core.WrapError(core.ErrRateLimited, err)
		}
	}

	res, err := r.breaker.Execute(func() (interface{}, error) {
		callCtx := ctx
		if r.callTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, r.callTimeout)
			defer cancel()
		}
		snap, err := r.inner.FetchSnapshot(callCtx, symbol, typ)
		if err != nil && ctx.Err() != nil {
			return nil, callerAbort{err: err}
		}
		return snap, err
	})
	if err != nil {
		var aborted callerAbort
		if errors.As(err, &aborted) {
			return nil, aborted.err
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, core.WrapError(core.ErrCircuitOpen, err)
		}
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return nil, core.WrapError(core.ErrCollectorTimeout, err)
		}
		return nil, err
	}
	return res.(*core.Snapshot), nil
}
