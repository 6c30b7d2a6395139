package log

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// consoleSink mirrors file lines to a writer, styling the level tag with the
// level color.
type consoleSink struct {
	w    io.Writer
	tags [len(levelTable)]string
}

func newConsoleSink(w io.Writer) *consoleSink {
	r := lipgloss.NewRenderer(w)
	s := &consoleSink{w: w}

	for l := range Levels() {
		tag := "[" + l.String() + "]"
		s.tags[l] = r.NewStyle().
			Foreground(lipgloss.Color(l.Color())).
			Bold(l >= LevelError).
			Render(tag)
	}

	return s
}

// write writes line for a record at level, replacing its first level tag
// with the styled one.
func (s *consoleSink) write(level Level, line string) error {
	level = level.clamp()
	line = strings.Replace(line, "["+level.String()+"]", s.tags[level], 1)

	_, err := io.WriteString(s.w, line+"\n")

	return err
}
