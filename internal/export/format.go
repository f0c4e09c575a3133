package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// Formatter writes a conversation in one output format.
type Formatter interface {
	Format(c Conversation, w io.Writer) error
	Extension() string
}

func Formats() []string { return []string{"md", "json", "yaml", "html"} }

func NewFormatter(format string) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "md", "markdown":
		return markdownFormatter{}, nil
	case "json":
		return jsonFormatter{}, nil
	case "yaml", "yml":
		return yamlFormatter{}, nil
	case "html":
		return htmlFormatter{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}, nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, format, strings.Join(Formats(), ", "))
	}
}

type markdownFormatter struct{}

func (markdownFormatter) Format(c Conversation, w io.Writer) error {
	_, err := io.WriteString(w, BuildConversationMarkdown(c, time.Now().UTC()))
	return err
}

func (markdownFormatter) Extension() string { return "md" }

type jsonFormatter struct{}

func (jsonFormatter) Format(c Conversation, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

func (jsonFormatter) Extension() string { return "json" }

type yamlFormatter struct{}

func (yamlFormatter) Format(c Conversation, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()
	return enc.Encode(c)
}

func (yamlFormatter) Extension() string { return "yaml" }

type htmlFormatter struct {
	md goldmark.Markdown
}

func (f htmlFormatter) Format(c Conversation, w io.Writer) error {
	var body bytes.Buffer
	if err := f.md.Convert([]byte(BuildConversationMarkdown(c, time.Now().UTC())), &body); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Study session %s</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(c.ID), body.String())
	return err
}

func (htmlFormatter) Extension() string { return "html" }
