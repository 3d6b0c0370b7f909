package article

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s, collapses every run of non-alphanumeric characters
// into a single hyphen and trims hyphens from both ends.
// Slugify(Slugify(s)) == Slugify(s).
func Slugify(s string) string {
	s = nonAlnum.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

// SlugFor returns Slugify(topic), or a deterministic "topic-<hash>" slug when
// the topic has no ASCII letters or digits (e.g. Devanagari trends).
func SlugFor(topic string) string {
	if s := Slugify(topic); s != "" {
		return s
	}
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(topic))
	return "topic-" + strings.ReplaceAll(id.String(), "-", "")[:12]
}
