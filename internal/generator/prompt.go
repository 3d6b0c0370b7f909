package generator

import "strings"

const promptTemplate = `Write a detailed SEO-friendly blog article on: "{{TOPIC}}".
Structure it with:
- A title that is exactly the topic name provided above
- A slug (kebab-case)
- Meta title and description
- H1-H3 headings
- Suggested media links
- Rich content
- media should contain an array of <a> tags linking to related websites.

Return only JSON like:
{
  "title": "",
  "slug": "",
  "meta": {
    "title": "",
    "description": ""
  },
  "content": "",
  "media": [""]
}`

// BuildPrompt embeds topic into the article prompt. The result depends only on topic.
func BuildPrompt(topic string) string {
	return strings.ReplaceAll(promptTemplate, "{{TOPIC}}", topic)
}
