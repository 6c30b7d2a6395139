package log

import (
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/logchan/pkg"
)

// Level is the severity of a log record. Levels are totally ordered by their
// integer value, which is their rank.
type Level int8

const (
	LevelDebug    Level = iota // DEBUG
	LevelInfo                  // INFO
	LevelWarning               // WARNING
	LevelError                 // ERROR
	LevelCritical              // CRITICAL
)

// DefaultLevel is the default minimum level of a [Channel].
const DefaultLevel = LevelInfo

// levelInfo holds the fixed per-level presentation and routing defaults.
type levelInfo struct {
	name  string
	emoji string
	color string
	slack bool
	slog  slog.Level
}

var levelTable = [...]levelInfo{
	LevelDebug:    {"DEBUG", "🔍", "#9e9e9e", false, slog.LevelDebug},
	LevelInfo:     {"INFO", "ℹ️", "#2196f3", false, slog.LevelInfo},
	LevelWarning:  {"WARNING", "⚠️", "#ffc107", true, slog.LevelWarn},
	LevelError:    {"ERROR", "❌", "#f44336", true, slog.LevelError},
	LevelCritical: {"CRITICAL", "🚨", "#8b0000", true, slog.LevelError + 4},
}

// levelAlias maps accepted alternate spellings to their level.
var levelAlias = map[string]Level{
	"WARN":  LevelWarning,
	"FATAL": LevelCritical,
}

// Levels returns an iterator over all levels in ascending rank.
func Levels() iter.Seq[Level] {
	return func(yield func(Level) bool) {
		for l := range Level(len(levelTable)) {
			if !yield(l) {
				return
			}
		}
	}
}

// LevelNames returns the names of all levels in ascending rank.
func LevelNames() []string {
	names := make([]string, 0, len(levelTable))
	for l := range Levels() {
		names = append(names, l.String())
	}

	return names
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool { return l >= 0 && int(l) < len(levelTable) }

// AtLeast reports whether a record at level l passes the gate of a channel
// whose minimum level is floor.
func (l Level) AtLeast(floor Level) bool { return l >= floor }

// clamp moves out-of-range levels onto the nearest defined level.
func (l Level) clamp() Level {
	switch {
	case l < LevelDebug:
		return LevelDebug
	case l > LevelCritical:
		return LevelCritical
	default:
		return l
	}
}

func (l Level) info() levelInfo { return levelTable[l.clamp()] }

// String returns the upper-case level name.
func (l Level) String() string {
	if !l.Valid() {
		return "LEVEL(" + strconv.Itoa(int(l)) + ")"
	}

	return l.info().name
}

// Emoji returns the emoji shown next to the level in Slack.
func (l Level) Emoji() string { return l.info().emoji }

// Color returns the hex accent color of the level.
func (l Level) Color() string { return l.info().color }

// SlackByDefault reports whether records at l are relayed to Slack when no
// override or channel routing says otherwise.
func (l Level) SlackByDefault() bool { return l.info().slack }

// Slog returns the closest [slog.Level]. CRITICAL maps above
// [slog.LevelError].
func (l Level) Slog() slog.Level { return l.info().slog }

// MarshalText implements [encoding.TextMarshaler].
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, pkg.ErrInvalidLevel.With(slog.Int("level", int(l)))
	}

	return []byte(l.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler] using [ParseLevel].
func (l *Level) UnmarshalText(text []byte) error {
	v, err := ParseLevel(string(text))
	if err != nil {
		return err
	}

	*l = v

	return nil
}

// ParseLevel parses a level name. Matching is case-insensitive, surrounding
// whitespace is ignored, and "WARN" and "FATAL" are accepted as aliases of
// WARNING and CRITICAL.
//
// Unknown names return an error wrapping [pkg.ErrInvalidLevel] that names the
// closest valid level, if any.
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))

	for l := range Levels() {
		if l.String() == name {
			return l, nil
		}
	}

	if l, ok := levelAlias[name]; ok {
		return l, nil
	}

	err := pkg.ErrInvalidLevel.
		With(slog.String("level", s)).
		With(slog.String("valid", strings.Join(LevelNames(), ",")))

	if hint := suggestLevel(name); hint != "" {
		return DefaultLevel, err.
			With(slog.String("suggest", hint)).
			Wrap(fmt.Errorf("%q: did you mean %s?", s, hint))
	}

	return DefaultLevel, err.Wrap(fmt.Errorf("%q", s))
}

// suggestLevel returns the best fuzzy match for name among level names and
// aliases, or "" if nothing matches.
func suggestLevel(name string) string {
	if name == "" {
		return ""
	}

	candidates := append(LevelNames(), slices.Sorted(maps.Keys(levelAlias))...)

	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 {
		return ""
	}

	best := matches[0].Str
	if l, ok := levelAlias[best]; ok {
		return l.String()
	}

	return best
}
