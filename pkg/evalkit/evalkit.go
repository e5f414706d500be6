// Package evalkit is the public surface of the call-resolution engine: it
// decides, per use site, whether a value is called with the named arguments
// on hand or passed through, and rebuilds recorded call chains for errors.
package evalkit

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/funvibe/evalkit/internal/cache"
	"github.com/funvibe/evalkit/internal/callable"
	"github.com/funvibe/evalkit/internal/config"
	"github.com/funvibe/evalkit/internal/evaluator"
	"github.com/funvibe/evalkit/internal/match"
	"github.com/funvibe/evalkit/internal/metrics"
	"github.com/funvibe/evalkit/internal/namespace"
	"github.com/funvibe/evalkit/internal/signature"
	"github.com/funvibe/evalkit/internal/traceback"
)

type (
	Args            = signature.Args
	Descriptor      = signature.Descriptor
	Func            = callable.Func
	Invocable       = callable.Invocable
	Namespace       = namespace.Namespace
	Kind            = evaluator.Kind
	Value           = evaluator.Value
	NoMatchError    = evaluator.NoMatchError
	MemberAccessor  = evaluator.MemberAccessor
	Members         = evaluator.Members
	CallOption      = evaluator.CallOption
	Config          = config.Config
	Collector       = metrics.Collector
	Frame           = traceback.Frame
	FrameDescriptor = traceback.Descriptor
	Traceback       = traceback.Traceback
	SyntheticError  = traceback.Error
)

var (
	ErrNoMatch  = evaluator.ErrNoMatch
	ErrNoMember = evaluator.ErrNoMember
)

const (
	KindOpaque    = evaluator.Opaque
	KindInvocable = evaluator.Invocable
	KindInert     = evaluator.InertConfig
)

var (
	Strict          = evaluator.Strict
	MatchEmpty      = evaluator.MatchEmpty
	CallerSignature = evaluator.CallerSignature
	NewNamespace    = namespace.New
	NamespaceFrom   = namespace.FromMap
	Lambda          = callable.Lambda
	NewValue        = evaluator.NewValue
	Struct          = evaluator.Struct
	Classify        = evaluator.Classify
	LoadConfig      = config.LoadConfig
	FindConfig      = config.FindConfig
	DefaultConfig   = config.Default
)

// Engine bundles an Evaluator with the caches, logger and metrics built from
// a Config.
type Engine struct {
	*evaluator.Evaluator

	config  *config.Config
	logger  *logrus.Logger
	metrics *Collector
}

// New builds an Engine from the default configuration with logging discarded.
func New() *Engine {
	return NewFromConfig(config.Default(), nil)
}

// NewFromConfig builds an Engine from cfg. A nil writer discards log output.
func NewFromConfig(cfg *config.Config, logOut io.Writer) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if logOut == nil {
		logOut = io.Discard
	}

	collector := metrics.NewCollector(cfg.Metrics.Namespace)
	logger := cfg.Log.NewLogger(logOut)
	ttl := cfg.Cache.CacheTTL()

	signatures := cache.New[any, string](config.SignatureCacheName,
		cache.Options{Size: cfg.Cache.SignatureSize, TTL: ttl}, collector)
	matches := cache.New[string, bool](config.MatchCacheName,
		cache.Options{Size: cfg.Cache.MatchSize, TTL: ttl}, collector)

	ev := evaluator.New(
		evaluator.WithExtractor(signature.NewExtractor(signatures)),
		evaluator.WithMatcher(match.New(matches)),
		evaluator.WithLogger(logger),
		evaluator.WithObserver(collector),
	)
	logger.WithFields(logrus.Fields{
		"match_size":     cfg.Cache.MatchSize,
		"signature_size": cfg.Cache.SignatureSize,
		"ttl":            ttl,
	}).Debug("engine ready")

	return &Engine{Evaluator: ev, config: cfg, logger: logger, metrics: collector}
}

// Config returns the configuration the engine was built from.
func (e *Engine) Config() *config.Config { return e.config }

// Logger returns the engine's logger.
func (e *Engine) Logger() *logrus.Logger { return e.logger }

// Metrics returns the engine's Prometheus collector.
func (e *Engine) Metrics() *Collector { return e.metrics }

// GetSignature returns the cached signature encoding of v.
func (e *Engine) GetSignature(v any) (string, bool) { return e.Signatures().Get(v) }

// Matches reports whether caller's argument names satisfy callee.
func (e *Engine) Matches(caller, callee string, matchEmpty bool) bool {
	return e.Matcher().Matches(caller, callee, matchEmpty)
}

// NewSyntheticError rebuilds descs as a traceback attached to a new error.
func (e *Engine) NewSyntheticError(message string, descs []FrameDescriptor) *SyntheticError {
	err := traceback.NewError(message, descs)
	e.metrics.TracebackBuilt(len(descs))
	e.logger.WithFields(logrus.Fields{"id": err.ID, "frames": len(descs)}).Debug("synthetic traceback built")
	return err
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns the process-wide engine used by the package-level functions.
func Default() *Engine {
	defaultOnce.Do(func() { defaultEngine = New() })
	return defaultEngine
}

// Evaluate resolves v with the default engine.
func Evaluate(v any, args Args, opts ...CallOption) (any, error) {
	return Default().Evaluate(v, args, opts...)
}

// EvaluateStrict resolves v with the default engine in strict mode.
func EvaluateStrict(v any, args Args, opts ...CallOption) (any, error) {
	return Default().EvaluateStrict(v, args, opts...)
}

// EvaluateMember evaluates one member of obj with the default engine.
func EvaluateMember(obj MemberAccessor, key string, strict bool, args Args) error {
	return Default().EvaluateMember(obj, key, strict, args)
}

// EvaluateMembers strictly evaluates the dynamic members of obj.
func EvaluateMembers(obj Members, args Args) error {
	return Default().EvaluateMembers(obj, args)
}

// FindStaticItems tags the non-callable entries of ns.
func FindStaticItems(ns *Namespace) { Default().FindStaticItems(ns) }

// EvaluateAsNeeded resolves every non-ignored entry of ns.
func EvaluateAsNeeded(ns *Namespace, args Args, ignore ...string) (map[string]any, error) {
	return Default().EvaluateAsNeeded(ns, args, ignore...)
}

// HasCatchAllKwargs reports whether v accepts arbitrary named arguments.
func HasCatchAllKwargs(v any) bool { return Default().HasCatchAllKwargs(v) }

// GetSignature returns v's signature encoding from the default engine.
func GetSignature(v any) (string, bool) { return Default().GetSignature(v) }

// Matches consults the default engine's matcher.
func Matches(caller, callee string, matchEmpty bool) bool {
	return Default().Matches(caller, callee, matchEmpty)
}

// NewSyntheticError builds a synthetic error with the default engine.
func NewSyntheticError(message string, descs []FrameDescriptor) *SyntheticError {
	return Default().NewSyntheticError(message, descs)
}

// FormatTraceback writes tb in "Stack trace:" form.
func FormatTraceback(w io.Writer, tb *Traceback) error { return traceback.Format(w, tb) }

// ParseFrames decodes a YAML or JSON list of frame descriptors.
func ParseFrames(data []byte) ([]FrameDescriptor, error) { return traceback.ParseDescriptors(data) }
