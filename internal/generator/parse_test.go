package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendpress/trendpress/internal/article"
)

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("Cricket World Cup")
	assert.Equal(t, p, BuildPrompt("Cricket World Cup"))
	assert.Contains(t, p, `blog article on: "Cricket World Cup"`)
	for _, field := range []string{`"title"`, `"slug"`, `"meta"`, `"description"`, `"content"`, `"media"`} {
		assert.Contains(t, p, field)
	}
	assert.NotContains(t, p, "{{TOPIC}}")
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"upper tag and padding", "  ```JSON\r\n{\"a\":1}\r\n```  \n", `{"a":1}`},
		{"single line", "```json {\"a\":1}```", `{"a":1}`},
		{"fence inside content kept", "{\"c\":\"use ```code```\"}", "{\"c\":\"use ```code```\"}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripCodeFence(tc.in))
		})
	}
}

const validArticle = `{
  "title": "Cricket World Cup",
  "slug": "cricket-world-cup-2024",
  "meta": {"title": "Cricket World Cup 2024", "description": "Everything about the tournament"},
  "content": "<h1>Cricket World Cup</h1><p>...</p>",
  "media": ["<a href=\"https://www.icc-cricket.com\">ICC</a>"]
}`

func TestParseArticle(t *testing.T) {
	a, err := ParseArticle("```json\n" + validArticle + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "Cricket World Cup", a.Title)
	assert.Equal(t, "cricket-world-cup-2024", a.Slug)
	assert.Equal(t, "Everything about the tournament", a.Meta.Description)
	assert.Len(t, a.Media, 1)
}

func TestParseArticle_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"```json\n```",
		"```json\n{\"title\": \"Topic X\", \"slug\": }\n```",
		"Sure! Here is your article: " + validArticle,
		`["not", "an", "object"]`,
	} {
		_, err := ParseArticle(raw)
		assert.Error(t, err, "expected parse failure for %q", raw)
	}
}

func TestParseArticle_NotAnObject(t *testing.T) {
	for _, raw := range []string{
		"null",
		"```json\nnull\n```",
		"[]",
		`"str"`,
		"42",
		"true",
	} {
		a, err := ParseArticle(raw)
		assert.Nil(t, a, raw)
		assert.ErrorIs(t, err, errNotObject, raw)
	}
}

func TestParseArticle_Coercion(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want article.Article
	}{
		{
			name: "string media becomes one item",
			in:   `{"title":"T","media":"<a href=\"https://x.test\">x</a>"}`,
			want: article.Article{Title: "T", Media: []string{`<a href="https://x.test">x</a>`}},
		},
		{
			name: "numeric slug",
			in:   `{"title":"T","slug":2024}`,
			want: article.Article{Title: "T", Slug: "2024", Media: []string{}},
		},
		{
			name: "float and bool scalars",
			in:   `{"title":true,"slug":1.50}`,
			want: article.Article{Title: "true", Slug: "1.50", Media: []string{}},
		},
		{
			name: "string meta ignored",
			in:   `{"title":"T","meta":"just a description"}`,
			want: article.Article{Title: "T", Media: []string{}},
		},
		{
			name: "array meta ignored",
			in:   `{"title":"T","meta":["a","b"]}`,
			want: article.Article{Title: "T", Media: []string{}},
		},
		{
			name: "meta scalars stringified",
			in:   `{"title":"T","meta":{"title":7,"description":null}}`,
			want: article.Article{Title: "T", Meta: article.Meta{Title: "7"}, Media: []string{}},
		},
		{
			name: "object content kept as json text",
			in:   `{"title":"T","content":{ "h1": "x" }}`,
			want: article.Article{Title: "T", Content: `{"h1":"x"}`, Media: []string{}},
		},
		{
			name: "null media",
			in:   `{"title":"T","media":null}`,
			want: article.Article{Title: "T", Media: []string{}},
		},
		{
			name: "mixed media array drops empties",
			in:   `{"title":"T","media":["a",1,null,""]}`,
			want: article.Article{Title: "T", Media: []string{"a", "1"}},
		},
		{
			name: "empty object",
			in:   `{}`,
			want: article.Article{Media: []string{}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := ParseArticle(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, *a)
		})
	}
}

func TestParseArticle_IgnoresServerFields(t *testing.T) {
	a, err := ParseArticle(strings.Replace(validArticle, `"title"`, `"topic": "injected", "title"`, 1))
	require.NoError(t, err)
	assert.Empty(t, a.Topic)
}
