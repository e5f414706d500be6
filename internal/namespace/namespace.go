// Package namespace provides the ordered key/value mapping evalkit evaluates.
//
// A Namespace that holds the call_target key is invocable: calling it calls
// the target with the namespace's other entries merged under the caller's
// arguments. Without call_target a namespace is inert configuration data.
package namespace

import (
	"fmt"
	"sort"
	"strings"

	"github.com/funvibe/evalkit/internal/callable"
	"github.com/funvibe/evalkit/internal/config"
)

// Item is one key/value pair.
type Item struct {
	Key   string
	Value any
}

// Namespace keeps keys in insertion order. It is not safe for concurrent mutation.
type Namespace struct {
	items  []Item
	index  map[string]int
	static map[string]bool
}

// New builds a namespace from alternating keys and values.
// It panics on an odd count or a non-string key.
func New(pairs ...any) *Namespace {
	if len(pairs)%2 != 0 {
		panic("namespace.New: odd number of arguments")
	}
	ns := &Namespace{index: make(map[string]int, len(pairs)/2)}
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("namespace.New: key %v is %T, not string", pairs[i], pairs[i]))
		}
		ns.Set(key, pairs[i+1])
	}
	return ns
}

// FromMap builds a namespace with keys in sorted order.
func FromMap(m map[string]any) *Namespace {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ns := &Namespace{index: make(map[string]int, len(m))}
	for _, k := range keys {
		ns.Set(k, m[k])
	}
	return ns
}

// Len returns the number of entries.
func (ns *Namespace) Len() int {
	if ns == nil {
		return 0
	}
	return len(ns.items)
}

// Get returns the value under key.
func (ns *Namespace) Get(key string) (any, bool) {
	if ns == nil {
		return nil, false
	}
	i, ok := ns.index[key]
	if !ok {
		return nil, false
	}
	return ns.items[i].Value, true
}

// Has reports whether key is present.
func (ns *Namespace) Has(key string) bool {
	_, ok := ns.Get(key)
	return ok
}

// Set stores value under key. New keys go to the end; existing keys keep their position.
func (ns *Namespace) Set(key string, value any) {
	if ns.index == nil {
		ns.index = make(map[string]int)
	}
	if i, ok := ns.index[key]; ok {
		ns.items[i].Value = value
		return
	}
	ns.index[key] = len(ns.items)
	ns.items = append(ns.items, Item{Key: key, Value: value})
}

// Delete removes key, keeping the order of the rest.
func (ns *Namespace) Delete(key string) {
	i, ok := ns.index[key]
	if !ok {
		return
	}
	ns.items = append(ns.items[:i], ns.items[i+1:]...)
	delete(ns.index, key)
	for j := i; j < len(ns.items); j++ {
		ns.index[ns.items[j].Key] = j
	}
	delete(ns.static, key)
}

// Keys returns the keys in order.
func (ns *Namespace) Keys() []string {
	if ns == nil {
		return nil
	}
	keys := make([]string, len(ns.items))
	for i, it := range ns.items {
		keys[i] = it.Key
	}
	return keys
}

// Items returns a copy of the entries in order.
func (ns *Namespace) Items() []Item {
	if ns == nil {
		return nil
	}
	return append([]Item(nil), ns.items...)
}

// Map returns the entries as a plain map.
func (ns *Namespace) Map() map[string]any {
	m := make(map[string]any, ns.Len())
	for _, it := range ns.Items() {
		m[it.Key] = it.Value
	}
	return m
}

// CallTarget implements signature.Wrapper.
func (ns *Namespace) CallTarget() (any, bool) {
	return ns.Get(config.CallTargetKey)
}

// Invoke calls the call target with the namespace's entries, minus
// call_target, overridden by args.
func (ns *Namespace) Invoke(args callable.Args) (any, error) {
	target, ok := ns.CallTarget()
	if !ok {
		return nil, fmt.Errorf("%w: namespace has no %s", callable.ErrNotCallable, config.CallTargetKey)
	}
	merged := make(callable.Args, ns.Len()+len(args))
	for _, it := range ns.items {
		if it.Key != config.CallTargetKey {
			merged[it.Key] = it.Value
		}
	}
	for k, v := range args {
		merged[k] = v
	}
	return callable.Call(target, merged)
}

// Static reports whether key was tagged static by SetStatic.
func (ns *Namespace) Static(key string) bool {
	return ns != nil && ns.static[key]
}

// SetStatic replaces the set of keys known never to need evaluation.
func (ns *Namespace) SetStatic(keys []string) {
	ns.static = make(map[string]bool, len(keys))
	for _, k := range keys {
		ns.static[k] = true
	}
}

// StaticKeys returns the tagged keys in namespace order.
func (ns *Namespace) StaticKeys() []string {
	var keys []string
	for _, it := range ns.Items() {
		if ns.static[it.Key] {
			keys = append(keys, it.Key)
		}
	}
	return keys
}

// Member returns the value under name, so a namespace can have its members evaluated.
func (ns *Namespace) Member(name string) (any, bool) { return ns.Get(name) }

// SetMember stores value under name.
func (ns *Namespace) SetMember(name string, value any) error {
	ns.Set(name, value)
	return nil
}

func (ns *Namespace) String() string {
	var sb strings.Builder
	sb.WriteString("Namespace(")
	for i, it := range ns.Items() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%v", it.Key, it.Value)
	}
	sb.WriteString(")")
	return sb.String()
}

// Items returns ns's entries in order; nil yields nil.
func Items(ns *Namespace) []Item { return ns.Items() }

// Keys returns ns's keys in order; nil yields nil.
func Keys(ns *Namespace) []string { return ns.Keys() }
