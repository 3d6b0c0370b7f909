package generator

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/trendpress/trendpress/internal/article"
)

var (
	leadingFence  = regexp.MustCompile("^```(?i:json)?[ \t]*\r?\n?")
	trailingFence = regexp.MustCompile("\r?\n?```$")
)

// StripCodeFence removes a Markdown code fence (optionally tagged json)
// wrapped around s.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

var errNotObject = errors.New("model response is not a JSON object")

// ParseArticle decodes the model output into an article. The output must be
// a single JSON object; field values are coerced leniently: scalars become
// their text, a string media becomes one item, a non-object meta is ignored.
// Keys the model must not control (id, topic, createdAt) are never read.
func ParseArticle(raw string) (*article.Article, error) {
	text := StripCodeFence(raw)
	if text == "" {
		return nil, errors.New("empty model response")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, errNotObject
		}
		return nil, err
	}
	if fields == nil {
		// literal null
		return nil, errNotObject
	}
	return &article.Article{
		Title:   valueText(fields["title"]),
		Slug:    valueText(fields["slug"]),
		Meta:    metaField(fields["meta"]),
		Content: valueText(fields["content"]),
		Media:   mediaField(fields["media"]),
	}, nil
}

// valueText renders a JSON value as text. Strings are returned unquoted,
// null and missing values as "", anything else as compact JSON.
func valueText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return ""
	}
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func metaField(raw json.RawMessage) article.Meta {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return article.Meta{}
	}
	return article.Meta{
		Title:       valueText(m["title"]),
		Description: valueText(m["description"]),
	}
}

func mediaField(raw json.RawMessage) []string {
	media := []string{}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		items = []json.RawMessage{raw}
	}
	for _, item := range items {
		if s := valueText(item); s != "" {
			media = append(media, s)
		}
	}
	return media
}
