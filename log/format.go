package log

import (
	"strings"
	"time"
)

// Record is a single log call.
type Record struct {
	Time    time.Time
	Level   Level
	Message string
	Data    Object
}

// SlackPayload is the JSON body posted to a Slack incoming webhook.
type SlackPayload struct {
	Channel     string            `json:"channel,omitempty"`
	Username    string            `json:"username,omitempty"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	IconURL     string            `json:"icon_url,omitempty"`
	Attachments []SlackAttachment `json:"attachments"`
}

// SlackAttachment is a legacy Slack message attachment with an accent color.
type SlackAttachment struct {
	Color    string       `json:"color"`
	Fallback string       `json:"fallback"`
	Fields   []SlackField `json:"fields"`
}

// SlackField is a titled field of a [SlackAttachment].
type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Slack field titles.
const (
	slackTitleTime = "Timestamp"
	slackTitleData = "Extra Data"
)

// Formatter renders records for the file and Slack sinks.
type Formatter struct {
	fileTime  FormatTime
	slackTime FormatTime
	channel   string
	username  string
	icon      string
}

// newFormatter returns the formatter described by c.
func newFormatter(c config) Formatter {
	return Formatter{
		fileTime:  makeFormatTimeFunc(c.timeLayout),
		slackTime: makeFormatTimeFunc(SlackTimeLayout),
		channel:   c.channel,
		username:  c.username,
		icon:      c.icon,
	}
}

// FileLine renders r as "<timestamp> [<LEVEL>] <message>", followed on the
// next lines by the record data as indented JSON when there is any. The line
// has no trailing newline.
func (f Formatter) FileLine(r Record) string {
	var sb strings.Builder

	if f.fileTime != nil {
		if ts := f.fileTime(r.Time); ts != "" {
			sb.WriteString(ts)
			sb.WriteByte(' ')
		}
	}

	sb.WriteByte('[')
	sb.WriteString(r.Level.String())
	sb.WriteString("] ")
	sb.WriteString(r.Message)

	if len(r.Data) > 0 {
		sb.WriteByte('\n')
		sb.WriteString(r.Data.Indent())
	}

	return sb.String()
}

// SlackPayload renders r as a Slack message: a header field with the level
// emoji and name holding the message, a timestamp field, and the record data
// as a code block when there is any. The attachment color is the level color.
func (f Formatter) SlackPayload(r Record) SlackPayload {
	header := r.Level.Emoji() + " " + r.Level.String()

	ts := r.Time.Format(SlackTimeLayout)
	if f.slackTime != nil {
		ts = f.slackTime(r.Time)
	}

	fields := []SlackField{
		{Title: header, Value: r.Message},
		{Title: slackTitleTime, Value: ts, Short: true},
	}

	if len(r.Data) > 0 {
		fields = append(fields, SlackField{
			Title: slackTitleData,
			Value: "```\n" + r.Data.Indent() + "\n```",
		})
	}

	p := SlackPayload{
		Channel:  f.channel,
		Username: f.username,
		Attachments: []SlackAttachment{{
			Color:    r.Level.Color(),
			Fallback: header + ": " + r.Message,
			Fields:   fields,
		}},
	}

	switch {
	case f.icon == "":
	case strings.HasPrefix(f.icon, ":") && strings.HasSuffix(f.icon, ":"):
		p.IconEmoji = f.icon
	default:
		p.IconURL = f.icon
	}

	return p
}
