// Package match decides whether the argument names a caller has on hand
// satisfy a callee's signature encoding.
package match

import (
	"strings"

	"github.com/funvibe/evalkit/internal/cache"
	"github.com/funvibe/evalkit/internal/config"
	"github.com/funvibe/evalkit/internal/utils"
)

// Matcher memoizes Matches results. Results are a pure function of the key,
// so entries are never invalidated, only evicted.
type Matcher struct {
	cache *cache.Cache[string, bool]
}

// New uses c as the memo table. A nil c gets a default-sized cache.
func New(c *cache.Cache[string, bool]) *Matcher {
	if c == nil {
		c = cache.New[string, bool](config.MatchCacheName, cache.Options{Size: config.DefaultMatchCacheSize}, nil)
	}
	return &Matcher{cache: c}
}

// Cache exposes the memo table, mainly for stats.
func (m *Matcher) Cache() *cache.Cache[string, bool] { return m.cache }

// Matches reports whether a caller holding the names in caller (sorted,
// comma joined) can call a callee with the encoding "required|optional|*".
//
// A callee that declares nothing but takes a wildcard only matches when
// matchEmpty is set; otherwise every such catch-all would swallow every call.
func (m *Matcher) Matches(caller, callee string, matchEmpty bool) bool {
	key := Key(caller, callee, matchEmpty)
	if v, ok := m.cache.Get(key); ok {
		return v
	}

	result, ok := compute(caller, callee, matchEmpty)
	if !ok {
		return false
	}
	m.cache.Add(key, result)
	return result
}

// Key is the memo key for a (caller, callee, matchEmpty) triple.
func Key(caller, callee string, matchEmpty bool) string {
	flag := "0"
	if matchEmpty {
		flag = "1"
	}
	return caller + config.MatchKeySeparator + callee + config.MatchKeySeparator + flag
}

// compute is the uncached decision. ok is false for a malformed callee encoding.
func compute(caller, callee string, matchEmpty bool) (result bool, ok bool) {
	segments := strings.Split(callee, config.SegmentSeparator)
	if len(segments) != 3 {
		return false, false
	}

	have := toSet(caller)
	required := toSet(segments[0])
	optional := toSet(segments[1])
	wildcard := segments[2] == config.WildcardMarker

	if !matchEmpty && len(required) == 0 && len(optional) == 0 && wildcard {
		return false, true
	}

	for name := range required {
		if !have[name] {
			return false, true
		}
	}
	if wildcard {
		return true, true
	}
	for name := range have {
		if !required[name] && !optional[name] {
			return false, true
		}
	}
	return true, true
}

func toSet(s string) map[string]bool {
	names := utils.SplitNames(s, config.NameSeparator)
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
