package evaluator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/funvibe/evalkit/internal/callable"
	"github.com/funvibe/evalkit/internal/config"
	"github.com/funvibe/evalkit/internal/signature"
)

// ErrNoMatch is matched by errors.Is for every *NoMatchError.
var ErrNoMatch = errors.New("no matching signature")

// NoMatchError reports an invocable that strict evaluation could not resolve.
type NoMatchError struct {
	// Description names the invocable, or its definition site for closures.
	Description string
	// Signature is the callee encoding; empty when it could not be introspected.
	Signature string
	// Args are the argument names on offer, sorted.
	Args []string
	// Missing are required parameters not among Args.
	Missing []string
	// Unexpected are Args the callee does not declare.
	Unexpected []string
	// Suggestions maps an unexpected name to the closest declared parameter.
	Suggestions map[string]string
	// Invalid are Args holding separator characters; they never match.
	Invalid []string
}

func (e *NoMatchError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Evaluating %s didn't resolve it into a value but strict mode was active, "+
		"the signature doesn't match the given parameters. We had these arguments: %s",
		e.Description, strings.Join(e.Args, ", "))

	var notes []string
	if e.Signature == "" {
		notes = append(notes, "parameters cannot be introspected")
	}
	for _, name := range e.Invalid {
		notes = append(notes, fmt.Sprintf("invalid argument name %q", name))
	}
	if len(e.Missing) > 0 {
		notes = append(notes, "missing: "+strings.Join(e.Missing, ", "))
	}
	for _, name := range e.Unexpected {
		note := "unexpected: " + name
		if s, ok := e.Suggestions[name]; ok {
			note += ", did you mean " + s + "?"
		}
		notes = append(notes, note)
	}
	if len(notes) > 0 {
		sb.WriteString(" (" + strings.Join(notes, "; ") + ")")
	}
	return sb.String()
}

// Is makes errors.Is(err, ErrNoMatch) hold.
func (e *NoMatchError) Is(target error) bool { return target == ErrNoMatch }

func newNoMatchError(target any, encoded string, introspectable bool, args signature.Args) *NoMatchError {
	err := &NoMatchError{
		Description: callable.Describe(target),
		Args:        args.Names(),
		Invalid:     args.Invalid(),
	}
	if !introspectable {
		return err
	}
	err.Signature = encoded

	d, perr := signature.Parse(encoded)
	if perr != nil {
		return err
	}
	for _, name := range d.Required {
		if _, ok := args[name]; !ok {
			err.Missing = append(err.Missing, name)
		}
	}
	sort.Strings(err.Missing)

	declared := append(append([]string(nil), d.Required...), d.Optional...)
	for _, name := range err.Args {
		if d.Accepts(name) || contains(err.Invalid, name) {
			continue
		}
		err.Unexpected = append(err.Unexpected, name)
		if s, ok := closest(name, declared); ok {
			if err.Suggestions == nil {
				err.Suggestions = make(map[string]string)
			}
			err.Suggestions[name] = s
		}
	}
	return err
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// closest returns the declared name within SuggestionDistance edits of name.
// Ties go to the alphabetically first candidate.
func closest(name string, declared []string) (string, bool) {
	best, bestDist := "", config.SuggestionDistance+1
	sorted := append([]string(nil), declared...)
	sort.Strings(sorted)
	for _, cand := range sorted {
		if d := levenshtein.ComputeDistance(name, cand); d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best, best != ""
}
