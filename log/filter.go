package log

import (
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/logchan/pkg"
)

// filter is a compiled routing expression.
type filter struct {
	source  string
	program *vm.Program
}

// filterEnv returns the variables visible to a routing expression.
//
//   - level:   level name, e.g. "ERROR"
//   - rank:    level rank, 0 (DEBUG) to 4 (CRITICAL)
//   - message: record message
//   - data:    record data as a map
//   - levels:  map of level name to rank
func filterEnv(r Record) map[string]any {
	levels := make(map[string]any, len(levelTable))
	for l := range Levels() {
		levels[l.String()] = int(l)
	}

	data := r.Data.Map()

	return map[string]any{
		"level":   r.Level.String(),
		"rank":    int(r.Level),
		"message": r.Message,
		"data":    data,
		"levels":  levels,
	}
}

// compileFilter compiles source into a boolean program.
func compileFilter(source string) (*filter, error) {
	program, err := expr.Compile(source,
		expr.Env(filterEnv(Record{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, pkg.ErrInvalidFilter.
			With(slog.String("source", source)).
			Wrap(err)
	}

	return &filter{source: source, program: program}, nil
}

// match evaluates the filter against r.
func (f *filter) match(r Record) (bool, error) {
	out, err := expr.Run(f.program, filterEnv(r))
	if err != nil {
		return false, pkg.ErrInvalidFilter.
			With(slog.String("source", f.source)).
			Wrap(err)
	}

	ok, _ := out.(bool)

	return ok, nil
}
