//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// version is the semantic version of the logchan module embedded at build
// time.
//
//go:embed VERSION
var version string

// Version returns the embedded semantic version without surrounding
// whitespace. The CLI prints it for --version.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command and module identifier used across the
	// project. For example, it appears in help text and default config paths.
	Name = "logchan"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "Leveled file logging with Slack relay"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// String returns the author as "Name <Email>".
func (a AuthorInfo) String() string {
	if a.Email == "" {
		return a.Name
	}

	return a.Name + " <" + a.Email + ">"
}

// Author lists the primary author(s) of the project, shown by --version.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
