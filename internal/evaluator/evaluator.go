// Package evaluator decides, per use site, whether a value should be called
// with the named arguments on hand or passed through unchanged.
package evaluator

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/funvibe/evalkit/internal/callable"
	"github.com/funvibe/evalkit/internal/match"
	"github.com/funvibe/evalkit/internal/metrics"
	"github.com/funvibe/evalkit/internal/signature"
)

// Observer is told the outcome of each evaluation. metrics.Collector implements it.
type Observer interface {
	Evaluated(outcome string)
}

// Evaluator holds the signature side table and the match memo table.
// It is safe for concurrent use.
type Evaluator struct {
	signatures *signature.Extractor
	matcher    *match.Matcher
	log        *logrus.Entry
	observer   Observer
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithExtractor injects the signature extractor and its cache.
func WithExtractor(x *signature.Extractor) Option {
	return func(e *Evaluator) { e.signatures = x }
}

// WithMatcher injects the matcher and its cache.
func WithMatcher(m *match.Matcher) Option {
	return func(e *Evaluator) { e.matcher = m }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logrus.Logger) Option {
	return func(e *Evaluator) { e.log = l.WithField("component", "evaluator") }
}

// WithObserver reports evaluation outcomes to o.
func WithObserver(o Observer) Option {
	return func(e *Evaluator) { e.observer = o }
}

// New creates an Evaluator. Without options it gets default-sized caches.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{}
	for _, opt := range opts {
		opt(e)
	}
	if e.signatures == nil {
		e.signatures = signature.NewExtractor(nil)
	}
	if e.matcher == nil {
		e.matcher = match.New(nil)
	}
	if e.log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		e.log = logrus.NewEntry(discard)
	}
	return e
}

// Signatures returns the extractor in use.
func (e *Evaluator) Signatures() *signature.Extractor { return e.signatures }

// Matcher returns the matcher in use.
func (e *Evaluator) Matcher() *match.Matcher { return e.matcher }

// CallOption adjusts a single evaluation.
type CallOption func(*callSettings)

type callSettings struct {
	strict     bool
	matchEmpty bool
	caller     *string
}

// Strict turns an unresolved invocable into a *NoMatchError.
func Strict() CallOption {
	return func(s *callSettings) { s.strict = true }
}

// MatchEmpty controls whether a callee that declares nothing but a wildcard
// may match. Evaluate defaults to true.
func MatchEmpty(v bool) CallOption {
	return func(s *callSettings) { s.matchEmpty = v }
}

// CallerSignature supplies a precomputed caller encoding instead of deriving
// it from the argument names.
func CallerSignature(encoded string) CallOption {
	return func(s *callSettings) { s.caller = &encoded }
}

// Evaluate calls v with args when v is invocable and its signature matches
// the argument names; otherwise v comes back unchanged. In strict mode a
// non-matching invocable is an error instead. Errors returned by the callee
// are wrapped.
func (e *Evaluator) Evaluate(v any, args signature.Args, opts ...CallOption) (any, error) {
	s := callSettings{matchEmpty: true}
	for _, opt := range opts {
		opt(&s)
	}

	target, kind := unpackValue(v)
	switch kind {
	case InertConfig:
		e.observe(metrics.OutcomeInert)
		return v, nil
	case Opaque:
		e.observe(metrics.OutcomePassthrough)
		return v, nil
	}

	var caller string
	valid := true
	if s.caller != nil {
		caller = *s.caller
	} else {
		caller = signature.FromArgs(args)
		valid = len(args.Invalid()) == 0
	}

	callee, ok := e.signatures.Get(target)
	if ok && valid && e.matcher.Matches(caller, callee, s.matchEmpty) {
		result, err := callable.Call(target, args)
		if err != nil {
			e.observe(metrics.OutcomeFailed)
			return nil, fmt.Errorf("evaluating %s: %w", callable.Describe(target), err)
		}
		e.observe(metrics.OutcomeCalled)
		return result, nil
	}

	if !ok && e.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		e.log.WithField("callable", callable.Describe(target)).Debug("signature cannot be introspected")
	}

	if !s.strict {
		e.observe(metrics.OutcomePassthrough)
		return v, nil
	}

	e.observe(metrics.OutcomeNoMatch)
	err := newNoMatchError(target, callee, ok, args)
	e.log.WithFields(logrus.Fields{
		"callable":         err.Description,
		"caller_signature": caller,
		"callee_signature": callee,
		"introspectable":   ok,
	}).Debug("strict evaluation did not resolve")
	return nil, err
}

// EvaluateStrict is Evaluate with Strict forced on.
func (e *Evaluator) EvaluateStrict(v any, args signature.Args, opts ...CallOption) (any, error) {
	return e.Evaluate(v, args, append(opts, Strict())...)
}

// HasCatchAllKwargs reports whether v accepts arbitrary extra named arguments.
// Values without an introspectable signature report false.
func (e *Evaluator) HasCatchAllKwargs(v any) bool {
	enc, ok := e.signatures.Get(v)
	return ok && signature.HasCatchAll(enc)
}

// callerOptions precomputes the caller encoding for repeated evaluations.
// Invalid names leave it to Evaluate, which then refuses to match.
func callerOptions(args signature.Args) []CallOption {
	if len(args.Invalid()) > 0 {
		return nil
	}
	return []CallOption{CallerSignature(signature.FromArgs(args))}
}

func (e *Evaluator) observe(outcome string) {
	if e.observer != nil {
		e.observer.Evaluated(outcome)
	}
}
