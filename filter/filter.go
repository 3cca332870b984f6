// Package filter narrows the set of stalled torrents qracee acts on using
// expr-lang boolean expressions, for example:
//
//	Category == "tv" && !hasTag("manual")
//	Tracker contains "example.org" && minutesSince(AddedOn) < 15
//
// The expr builtins (lower, upper, len, ...) and string operators
// (contains, startsWith, endsWith, matches) are available as usual.
package filter

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/qracee/qbittorrent"
)

// Filter is a compiled candidate filter. It is safe for concurrent use.
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile compiles an expression that must evaluate to a boolean.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(newEnv(qbittorrent.TorrentSummary{}, time.Time{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     err.Error(),
			Err:        err,
		}
	}

	return &Filter{
		expression: expression,
		program:    program,
	}, nil
}

// Expression returns the source expression
func (f *Filter) Expression() string {
	return f.expression
}

// Match reports whether the torrent satisfies the filter at time now.
func (f *Filter) Match(torrent qbittorrent.TorrentSummary, now time.Time) (bool, error) {
	out, err := expr.Run(f.program, newEnv(torrent, now))
	if err != nil {
		return false, &EvaluationError{Expression: f.expression, Torrent: torrent.Name, Err: err}
	}

	matched, ok := out.(bool)
	if !ok {
		return false, &EvaluationError{
			Expression: f.expression,
			Torrent:    torrent.Name,
			Err:        fmt.Errorf("expected bool result, got %T", out),
		}
	}

	return matched, nil
}

// newEnv exposes the torrent fields and helper functions to expressions.
func newEnv(t qbittorrent.TorrentSummary, now time.Time) map[string]any {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}

	return map[string]any{
		// Torrent data
		"Name":     t.Name,
		"Hash":     t.Hash,
		"State":    t.State,
		"Category": t.Category,
		"Tags":     tags,
		"Tracker":  t.Tracker,
		"Size":     t.Size,
		"Progress": t.Progress,
		"AddedOn":  t.AddedOn,
		"Now":      now,

		// Tag helpers
		"hasTag": func(tag string) bool {
			return slices.ContainsFunc(tags, func(s string) bool {
				return strings.EqualFold(s, tag)
			})
		},

		// Date helpers
		"minutesSince": func(ts time.Time) int {
			return int(now.Sub(ts).Minutes())
		},
	}
}
