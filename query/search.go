package query

import (
	"math"
	"regexp"
	"strings"

	"github.com/ancientlore/quill/content"
)

// Search returns the posts matching any word of q. The title, excerpt, and tags
// are searched without regard to case; the post body is not. Posts matching in
// the title come first. An empty or blank q is not a search and returns nil.
func Search(posts []content.Post, q string) []content.Post {
	terms := strings.Fields(strings.ToLower(q))
	if len(terms) == 0 {
		return nil
	}
	var inTitle, other []content.Post
	for i := range posts {
		p := &posts[i]
		text := strings.ToLower(p.Title + " " + p.Excerpt + " " + strings.Join(p.Tags, " "))
		if !containsAnyTerm(text, terms) {
			continue
		}
		if containsAnyTerm(strings.ToLower(p.Title), terms) {
			inTitle = append(inTitle, *p)
		} else {
			other = append(other, *p)
		}
	}
	if len(inTitle)+len(other) == 0 {
		return []content.Post{}
	}
	return append(inTitle, other...)
}

func containsAnyTerm(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// DefaultWordsPerMinute is the reading speed used by ReadingTime.
const DefaultWordsPerMinute = 200

var (
	reCodeFence  = regexp.MustCompile("(?s)```.*?```")
	reInlineCode = regexp.MustCompile("`[^`]+`")
	reHTMLTag    = regexp.MustCompile(`<[^>]*>`)
	reLink       = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
)

// ReadingTime estimates the minutes needed to read a Markdown body at wpm words
// per minute. Code and markup are not counted, links count as their label, and
// the result is at least one minute.
func ReadingTime(body string, wpm int) int {
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}
	s := reCodeFence.ReplaceAllString(body, "")
	s = reInlineCode.ReplaceAllString(s, "")
	s = reHTMLTag.ReplaceAllString(s, "")
	s = reLink.ReplaceAllString(s, "$1")
	words := len(strings.Fields(s))
	minutes := int(math.Ceil(float64(words) / float64(wpm)))
	if minutes < 1 {
		return 1
	}
	return minutes
}
