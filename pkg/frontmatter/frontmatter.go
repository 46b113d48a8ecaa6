// Package frontmatter serializes notes to markdown documents with a YAML
// metadata block, and parses them back. Used by the export and import
// commands.
package frontmatter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var frontmatterPattern = regexp.MustCompile(`(?s)^---\n(.*?)\n---\n(.*)`)

const timestampLayout = "2006-01-02 15:04:05"

// Frontmatter is the structured metadata at the beginning of an exported
// note. Category is the slash-joined path of category names from the root,
// resolved to ids on import.
type Frontmatter struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Category    string `yaml:"category,omitempty"`
	ContentType string `yaml:"content_type,omitempty"`
	Created     string `yaml:"created"`
	Modified    string `yaml:"modified"`
}

// Parse extracts the frontmatter block from content. A document with no
// block yields a nil Frontmatter and the content unchanged.
func Parse(content string) (*Frontmatter, string, error) {
	matches := frontmatterPattern.FindStringSubmatch(content)
	if len(matches) != 3 {
		return nil, content, nil
	}

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(matches[1]), &fm); err != nil {
		return nil, content, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	return &fm, matches[2], nil
}

// Build renders the YAML block. Fields appear in a fixed order so exports
// diff cleanly.
func Build(fm *Frontmatter) string {
	var sb strings.Builder

	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("id: %s\n", fm.ID))
	sb.WriteString(fmt.Sprintf("title: %s\n", quoteIfNeeded(fm.Title)))
	if fm.Category != "" {
		sb.WriteString(fmt.Sprintf("category: %s\n", quoteIfNeeded(fm.Category)))
	}
	if fm.ContentType != "" {
		sb.WriteString(fmt.Sprintf("content_type: %s\n", fm.ContentType))
	}
	sb.WriteString(fmt.Sprintf("created: %s\n", fm.Created))
	sb.WriteString(fmt.Sprintf("modified: %s\n", fm.Modified))
	sb.WriteString("---")

	return sb.String()
}

// BuildContent combines the frontmatter block and body into one document.
func BuildContent(fm *Frontmatter, body string) string {
	block := Build(fm)
	if !strings.HasPrefix(body, "\n") {
		return block + "\n\n" + body
	}
	return block + "\n" + body
}

// FormatTimestamp renders a time in the frontmatter timestamp format.
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// ParseTimestamp parses a frontmatter timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, ",:[]{}\"'#") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
