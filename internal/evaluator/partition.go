package evaluator

import (
	"github.com/funvibe/evalkit/internal/metrics"
	"github.com/funvibe/evalkit/internal/namespace"
	"github.com/funvibe/evalkit/internal/signature"
)

// FindStaticItems tags the keys of ns whose current value classifies as
// Opaque. The tags are a snapshot; call again after changing ns.
func (e *Evaluator) FindStaticItems(ns *namespace.Namespace) {
	if ns.Len() == 0 {
		return
	}
	var static []string
	for _, it := range ns.Items() {
		if Classify(it.Value) == Opaque {
			static = append(static, it.Key)
		}
	}
	ns.SetStatic(static)
	e.log.WithField("static", len(static)).WithField("total", ns.Len()).Debug("tagged static items")
}

// EvaluateAsNeeded returns a plain map of ns's entries, skipping ignored
// keys. Static keys are copied as is; the rest go through EvaluateStrict.
// Skipping static keys only saves work, the result is the same.
func (e *Evaluator) EvaluateAsNeeded(ns *namespace.Namespace, args signature.Args, ignore ...string) (map[string]any, error) {
	skip := make(map[string]bool, len(ignore))
	for _, k := range ignore {
		skip[k] = true
	}

	opts := callerOptions(args)
	out := make(map[string]any, ns.Len())
	for _, it := range ns.Items() {
		if skip[it.Key] {
			continue
		}
		if ns.Static(it.Key) {
			e.observe(metrics.OutcomeStatic)
			out[it.Key] = it.Value
			continue
		}
		v, err := e.EvaluateStrict(it.Value, args, opts...)
		if err != nil {
			return nil, err
		}
		out[it.Key] = v
	}
	return out, nil
}
