// Package signature describes which named arguments an invocable accepts.
//
// A Descriptor splits parameter names into required and optional sets and
// records whether arbitrary extra names are accepted (the wildcard). Its
// string encoding, "required|optional|*", is what the matcher compares and
// caches:
//
//	f(a, b=1)          -> "a|b|"
//	f(x, y, **rest)    -> "x,y||*"
//	f(**rest)          -> "||*"
package signature

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/funvibe/evalkit/internal/config"
	"github.com/funvibe/evalkit/internal/utils"
)

// Args are the named arguments a caller has on hand.
type Args map[string]any

// Names returns the argument names, sorted.
func (a Args) Names() []string {
	names := make([]string, 0, len(a))
	for k := range a {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Invalid returns the names that cannot take part in an encoding, sorted.
// A name holding a separator would otherwise read as several names.
func (a Args) Invalid() []string {
	var bad []string
	for _, name := range a.Names() {
		if checkName(name) != nil {
			bad = append(bad, name)
		}
	}
	return bad
}

// FromArgs encodes the caller side of a match: sorted names joined by commas.
func FromArgs(args Args) string {
	if len(args) == 0 {
		return ""
	}
	return strings.Join(args.Names(), config.NameSeparator)
}

// Descriptor is the required/optional/wildcard decomposition of an invocable's parameters.
type Descriptor struct {
	Required []string
	Optional []string
	Wildcard bool
}

// ErrMalformed is returned by Parse for encodings that are not three segments
// or that list a name as both required and optional.
var ErrMalformed = errors.New("malformed signature")

// Signed is implemented by invocables that declare their parameters explicitly.
type Signed interface {
	Signature() Descriptor
}

// Encode renders "required|optional|wildcard" with each name set sorted.
func (d Descriptor) Encode() string {
	required := append([]string(nil), d.Required...)
	optional := append([]string(nil), d.Optional...)
	wildcard := ""
	if d.Wildcard {
		wildcard = config.WildcardMarker
	}
	return strings.Join([]string{
		utils.JoinSorted(required, config.NameSeparator),
		utils.JoinSorted(optional, config.NameSeparator),
		wildcard,
	}, config.SegmentSeparator)
}

func (d Descriptor) String() string { return d.Encode() }

// Empty reports whether the descriptor names no parameters at all.
func (d Descriptor) Empty() bool {
	return len(d.Required) == 0 && len(d.Optional) == 0
}

// Accepts reports whether name is a declared parameter or absorbed by the wildcard.
func (d Descriptor) Accepts(name string) bool {
	if d.Wildcard {
		return true
	}
	return contains(d.Required, name) || contains(d.Optional, name)
}

// Validate checks that no name is both required and optional, and that names
// contain no separator characters.
func (d Descriptor) Validate() error {
	seen := make(map[string]bool, len(d.Required))
	for _, name := range d.Required {
		if err := checkName(name); err != nil {
			return err
		}
		seen[name] = true
	}
	for _, name := range d.Optional {
		if err := checkName(name); err != nil {
			return err
		}
		if seen[name] {
			return fmt.Errorf("%w: %q is both required and optional", ErrMalformed, name)
		}
	}
	return nil
}

// Parse decodes an encoding produced by Encode.
func Parse(s string) (Descriptor, error) {
	parts := strings.Split(s, config.SegmentSeparator)
	if len(parts) != 3 {
		return Descriptor{}, fmt.Errorf("%w: %q has %d segments, want 3", ErrMalformed, s, len(parts))
	}
	if parts[2] != "" && parts[2] != config.WildcardMarker {
		return Descriptor{}, fmt.Errorf("%w: %q has wildcard marker %q", ErrMalformed, s, parts[2])
	}
	d := Descriptor{
		Required: utils.SplitNames(parts[0], config.NameSeparator),
		Optional: utils.SplitNames(parts[1], config.NameSeparator),
		Wildcard: parts[2] == config.WildcardMarker,
	}
	if err := d.Validate(); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// HasCatchAll reports whether an encoding ends with the wildcard marker.
func HasCatchAll(encoded string) bool {
	return strings.HasSuffix(encoded, config.CatchAllSuffix)
}

func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, config.SegmentSeparator+config.NameSeparator+config.MatchKeySeparator) {
		return fmt.Errorf("%w: invalid parameter name %q", ErrMalformed, name)
	}
	return nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
