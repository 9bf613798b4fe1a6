package lang

import (
	"iter"
	"log/slog"
	"maps"
	"slices"

	"github.com/sahilm/fuzzy"
)

// suggest returns the candidate closest to name, or "" when nothing is
// close. Candidates that contain name as a fuzzy subsequence win; failing
// that, the best candidate that is itself a subsequence of name is used,
// which catches a misspelling with extra characters.
func suggest(name string, candidates iter.Seq[string]) string {
	if name == "" {
		return ""
	}

	list := slices.Sorted(candidates)
	if len(list) == 0 {
		return ""
	}

	if m := fuzzy.Find(name, list); len(m) > 0 {
		return m[0].Str
	}

	var (
		best  string
		score int
	)

	for _, c := range list {
		if len(c) < 2 {
			continue
		}

		if m := fuzzy.Find(c, []string{name}); len(m) > 0 {
			if best == "" || m[0].Score > score {
				best, score = c, m[0].Score
			}
		}
	}

	return best
}

// withHint attaches a "did you mean" hint to err when a candidate exists.
func withHint(err *Error, name string, candidates iter.Seq[string]) *Error {
	if hint := suggest(name, candidates); hint != "" && hint != name {
		return err.With(slog.String("hint", "did you mean "+hint+"?"))
	}

	return err
}

func functionNames() iter.Seq[string] { return maps.Keys(functions) }

func constantNames() iter.Seq[string] { return maps.Keys(constants) }
