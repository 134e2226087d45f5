package content

import (
	"fmt"
	"strings"

	"github.com/russross/blackfriday/v2"
)

// markdownExtensions are the blackfriday extensions used for post bodies.
// AutoHeadingIDs gives every heading an anchor that Headings can link to.
const markdownExtensions = blackfriday.CommonExtensions | blackfriday.Footnotes | blackfriday.AutoHeadingIDs

// renderMarkdown converts a Markdown body to HTML. MDX component tags are
// passed through as raw HTML.
func renderMarkdown(body []byte) []byte {
	return blackfriday.Run(body, blackfriday.WithExtensions(markdownExtensions))
}

// Heading is an entry in a post's table of contents.
type Heading struct {
	Level int    // 2 or 3
	ID    string // anchor of the rendered heading
	Text  string // plain heading text
}

// Section is a level 2 heading with the level 3 headings below it.
type Section struct {
	Heading
	Subheadings []Heading
}

// Headings returns the level 2 and 3 headings of a Markdown body, with the
// same IDs the HTML renderer assigns to them.
func Headings(body string) []Heading {
	root := blackfriday.New(blackfriday.WithExtensions(markdownExtensions)).Parse([]byte(body))
	var (
		result []Heading
		ids    = make(map[string]int)
	)
	root.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if !entering || node.Type != blackfriday.Heading {
			return blackfriday.GoToNext
		}
		id := uniqueHeadingID(ids, node.HeadingID)
		if node.Level == 2 || node.Level == 3 {
			result = append(result, Heading{
				Level: node.Level,
				ID:    id,
				Text:  headingText(node),
			})
		}
		return blackfriday.SkipChildren
	})
	return result
}

// uniqueHeadingID mirrors how the blackfriday HTML renderer avoids duplicate IDs.
func uniqueHeadingID(ids map[string]int, id string) string {
	if id == "" {
		return ""
	}
	for count, found := ids[id]; found; count, found = ids[id] {
		tmp := fmt.Sprintf("%s-%d", id, count+1)
		if _, tmpFound := ids[tmp]; !tmpFound {
			ids[id] = count + 1
			id = tmp
		} else {
			id = id + "-1"
		}
	}
	if _, found := ids[id]; !found {
		ids[id] = 0
	}
	return id
}

// headingText concatenates the literal text below a heading node.
func headingText(heading *blackfriday.Node) string {
	var sb strings.Builder
	heading.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if entering && (node.Type == blackfriday.Text || node.Type == blackfriday.Code) {
			sb.Write(node.Literal)
		}
		return blackfriday.GoToNext
	})
	return strings.TrimSpace(sb.String())
}

// GroupHeadings nests level 3 headings below the preceding level 2 heading.
// Level 3 headings before the first level 2 heading are dropped.
func GroupHeadings(headings []Heading) []Section {
	var sections []Section
	for _, h := range headings {
		switch {
		case h.Level == 2:
			sections = append(sections, Section{Heading: h})
		case h.Level == 3 && len(sections) > 0:
			last := &sections[len(sections)-1]
			last.Subheadings = append(last.Subheadings, h)
		}
	}
	return sections
}
