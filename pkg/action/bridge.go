// Package action runs user-triggered outbound calls and turns their outcome
// into a Result plus toast feedback. A key can only be in flight once, and a
// call that was cancelled before it finished never reports back.
package action

import (
	"context"
	"errors"
	"fmt"
	"sync"

	apperrors "hotelbox/pkg/errors"
	"hotelbox/pkg/logger"
)

const (
	PendingMessage   = "action already in progress"
	CancelledMessage = "action cancelled"
	GenericMessage   = "An unexpected error occurred. Please try again."
)

var (
	ErrPending   = errors.New(PendingMessage)
	ErrCancelled = errors.New(CancelledMessage)
)

type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func Ok(message string) Result {
	return Result{Success: true, Message: message}
}

func Fail(message string) Result {
	return Result{Success: false, Message: message}
}

// Func performs the outbound call. Expected failures are returned as a
// failed Result, anything else as an error.
type Func func(ctx context.Context) (Result, error)

// Call adapts an upstream call that answers with a message. An empty
// message on success is replaced by success.
func Call(fn func(ctx context.Context) (string, error), success string) Func {
	return func(ctx context.Context) (Result, error) {
		msg, err := fn(ctx)
		if err != nil {
			return Result{}, err
		}
		if msg == "" {
			msg = success
		}
		return Ok(msg), nil
	}
}

type Notifier interface {
	Success(message string)
	Error(message string)
}

type Option func(*runOptions)

type runOptions struct {
	fallback string
	silent   bool
}

// WithFallback sets the message used when the call errors or panics.
func WithFallback(message string) Option {
	return func(o *runOptions) { o.fallback = message }
}

// Silent suppresses notifier feedback for this run.
func Silent() Option {
	return func(o *runOptions) { o.silent = true }
}

type inflight struct {
	gen    uint64
	epoch  uint64
	cancel context.CancelFunc
}

type Bridge struct {
	mu          sync.Mutex
	pending     map[string]*inflight
	generations map[string]uint64
	epoch       uint64
	notifier    Notifier
	log         *logger.Logger
}

func NewBridge(notifier Notifier, log *logger.Logger) *Bridge {
	return &Bridge{
		pending:     make(map[string]*inflight),
		generations: make(map[string]uint64),
		notifier:    notifier,
		log:         log,
	}
}

func (b *Bridge) Run(ctx context.Context, key string, fn Func, opts ...Option) (Result, error) {
	return b.RunCommit(ctx, key, fn, nil, opts...)
}

// RunCommit is Run with a commit callback that sees the result before the
// notifier does. Neither runs for a stale call.
func (b *Bridge) RunCommit(ctx context.Context, key string, fn Func, commit func(Result), opts ...Option) (Result, error) {
	o := runOptions{fallback: GenericMessage}
	for _, opt := range opts {
		opt(&o)
	}

	call, callCtx, err := b.begin(ctx, key)
	if err != nil {
		return Fail(PendingMessage), err
	}

	res := b.invoke(callCtx, key, fn, o.fallback)

	if !b.finish(key, call) {
		b.log.Debug("discarding stale action result", "key", key, "success", res.Success)
		return Fail(CancelledMessage), ErrCancelled
	}

	if commit != nil {
		commit(res)
	}
	if !o.silent && b.notifier != nil {
		if res.Success {
			b.notifier.Success(res.Message)
		} else {
			b.notifier.Error(res.Message)
		}
	}
	return res, nil
}

func (b *Bridge) begin(ctx context.Context, key string) (*inflight, context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, busy := b.pending[key]; busy {
		return nil, nil, ErrPending
	}

	callCtx, cancel := context.WithCancel(ctx)
	b.generations[key]++
	call := &inflight{
		gen:    b.generations[key],
		epoch:  b.epoch,
		cancel: cancel,
	}
	b.pending[key] = call
	return call, callCtx, nil
}

// finish releases the key and reports whether the call is still current.
func (b *Bridge) finish(key string, call *inflight) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	call.cancel()
	if b.pending[key] == call {
		delete(b.pending, key)
	}
	return call.gen == b.generations[key] && call.epoch == b.epoch
}

func (b *Bridge) invoke(ctx context.Context, key string, fn Func, fallback string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("action panicked", "key", key, "panic", fmt.Sprint(r))
			res = Fail(fallback)
		}
	}()

	res, err := fn(ctx)
	if err != nil {
		b.log.Warn("action failed", "key", key, "error", err)
		return Fail(MessageFor(err, fallback))
	}
	return res
}

// MessageFor surfaces messages meant for users and hides everything else.
func MessageFor(err error, fallback string) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code != apperrors.CodeInternal && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

func (b *Bridge) Pending(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.pending[key]
	return ok
}

// Cancel aborts the in-flight call for key; its result will be discarded.
func (b *Bridge) Cancel(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.generations[key]++
	if call, ok := b.pending[key]; ok {
		call.cancel()
		delete(b.pending, key)
	}
}

func (b *Bridge) CancelAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.epoch++
	for key, call := range b.pending {
		call.cancel()
		delete(b.pending, key)
	}
}
