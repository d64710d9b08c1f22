package markdown

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// DefaultOrder is assigned to documents that do not declare an explicit
// sort position, pushing them behind every ordered sibling.
const DefaultOrder = 999

// ParseFrontMatter extracts metadata and markdown body content from the
// provided source bytes. It returns the structured metadata, the body without
// delimiters, and any error encountered. Documents without a frontmatter
// block parse cleanly with zero-value metadata.
func ParseFrontMatter(source []byte) (interfaces.Metadata, []byte, error) {
	var env metadataEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &env)
	if err != nil {
		return interfaces.Metadata{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToMetadata(env), body, nil
}

// BuildDocument assembles an interfaces.Document from the supplied source
// path, URL path, raw content, and modification time. The title falls back to
// the first H1 in the body, then to a humanized form of the final path
// segment.
func BuildDocument(sourcePath, urlPath string, source []byte, modified time.Time) (*interfaces.Document, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	if meta.Title == "" {
		if h1 := ExtractH1(body); h1 != "" {
			meta.Title = h1
		} else {
			segments := strings.Split(strings.Trim(urlPath, "/"), "/")
			meta.Title = HumanizeFilename(segments[len(segments)-1])
		}
	}

	sum := sha256.Sum256(source)

	return &interfaces.Document{
		Path:         urlPath,
		SourcePath:   sourcePath,
		Metadata:     meta,
		Body:         body,
		LastModified: modified,
		Checksum:     sum[:],
	}, nil
}

type metadataEnvelope struct {
	Title       string         `yaml:"title"`
	Slug        string         `yaml:"slug"`
	Order       *int           `yaml:"order"`
	Description string         `yaml:"description"`
	Tags        []string       `yaml:"tags"`
	Hidden      bool           `yaml:"hidden"`
	Custom      map[string]any `yaml:",inline"`
}

func envelopeToMetadata(env metadataEnvelope) interfaces.Metadata {
	order := DefaultOrder
	if env.Order != nil {
		order = *env.Order
	}

	return interfaces.Metadata{
		Title:       strings.TrimSpace(env.Title),
		Slug:        strings.TrimSpace(env.Slug),
		Order:       order,
		Description: strings.TrimSpace(env.Description),
		Tags:        append([]string(nil), env.Tags...),
		Hidden:      env.Hidden,
		Custom:      cloneMap(env.Custom),
	}
}

var h1Pattern = regexp.MustCompile(`(?m)^#\s+(.+)$`)
var numericPrefixPattern = regexp.MustCompile(`^\d+[-_]`)

// ExtractH1 returns the text of the first level-one ATX heading in the body,
// or the empty string when none exists.
func ExtractH1(body []byte) string {
	match := h1Pattern.FindSubmatch(body)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(string(match[1]))
}

// HumanizeFilename turns a file stem such as "01-getting_started" into
// "Getting Started". Numeric ordering prefixes are stripped so they can drive
// sorting without leaking into titles.
func HumanizeFilename(name string) string {
	name = numericPrefixPattern.ReplaceAllString(name, "")
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
