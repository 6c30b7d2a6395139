package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/logchan/log"
)

// Config prints the effective channel configuration. Webhook URLs are
// redacted.
type Config struct {
	Format string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})." short:"f"`
}

// Run executes the config command.
func (c *Config) Run(ctx context.Context) error {
	set := settings(kongContextFrom(ctx))
	w := stdout(ctx)

	switch c.Format {
	case "json":
		return writeJSON(w, set)
	case "yaml":
		return writeYAML(w, set)
	default:
		return writeTable(w, set)
	}
}

func writeJSON(w io.Writer, set []setting) error {
	var obj log.Object
	for _, s := range set {
		obj = obj.Set(s.name, log.ValueOf(s.display()))
	}

	if _, err := fmt.Fprintln(w, obj.Indent()); err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	return nil
}

func writeYAML(w io.Writer, set []setting) error {
	doc := make(yaml.MapSlice, 0, len(set))
	for _, s := range set {
		doc = append(doc, yaml.MapItem{Key: s.name, Value: s.display()})
	}

	b, err := yaml.Marshal(doc)
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	if _, err := w.Write(b); err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	return nil
}

func writeTable(w io.Writer, set []setting) error {
	r := lipgloss.NewRenderer(w)
	head := r.NewStyle().Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(set))
	for _, s := range set {
		rows = append(rows, []string{s.name, fmt.Sprint(s.display()), s.env})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Faint(true)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return head
			}

			return cell
		}).
		Headers("FLAG", "VALUE", "ENV").
		Rows(rows...)

	_, err := fmt.Fprintln(w, t.Render())

	return err
}
