package seo

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Status is the tri-state verdict of a single rule check
type Status string

const (
	StatusGood    Status = "good"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Rule identifiers, in display order. Every evaluation emits exactly one item
// per rule, even when a precondition (an empty keyword) makes it trivially fail.
const (
	RuleKeyword        = "keyword"
	RuleTitleLength    = "title-length"
	RuleKeywordTitle   = "keyword-title"
	RuleDescLength     = "desc-length"
	RuleKeywordDesc    = "keyword-desc"
	RuleContentLength  = "content-length"
	RuleKeywordContent = "keyword-content"
)

const (
	titleMin   = 30
	titleMax   = 60
	descMin    = 120
	descMax    = 160
	wordsMin   = 100
	wordsGood  = 300
	totalRules = 7
)

// Input holds the four strings inspected by Evaluate. Content may include
// markup; tags are stripped before word counting.
type Input struct {
	FocusKeyword    string `json:"focus_keyword"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	Content         string `json:"content"`
}

// Item is one rule verdict.
type Item struct {
	ID      string `json:"id"`
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// Result is the outcome of a full evaluation.
type Result struct {
	Score int    `json:"score"`
	Items []Item `json:"items"`
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripTags removes markup tags from content.
func StripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// WordCount counts whitespace-separated words after stripping markup,
// ignoring empty tokens from consecutive whitespace.
func WordCount(content string) int {
	return len(strings.Fields(StripTags(content)))
}

// Evaluate runs the 7 SEO rules over the input and returns the score plus the
// ordered findings. It is pure: same input, same output, no side effects.
// score = round(100 * good / 7).
func Evaluate(in Input) Result {
	keyword := strings.ToLower(strings.TrimSpace(in.FocusKeyword))
	items := make([]Item, 0, totalRules)

	// 1. Focus keyword present
	if keyword == "" {
		items = append(items, Item{RuleKeyword, StatusError, "focus keyword is not set"})
	} else {
		items = append(items, Item{RuleKeyword, StatusGood, "focus keyword is set"})
	}

	// 2. Meta title length. Lengths are rune counts, not bytes: Georgian text
	// is 3 bytes per character and would otherwise blow past the limits.
	titleLen := utf8.RuneCountInString(in.MetaTitle)
	switch {
	case titleLen == 0:
		items = append(items, Item{RuleTitleLength, StatusError, "meta title is not set"})
	case titleLen < titleMin:
		items = append(items, Item{RuleTitleLength, StatusWarning,
			fmt.Sprintf("meta title is too short (%d/%d characters)", titleLen, titleMax)})
	case titleLen > titleMax:
		items = append(items, Item{RuleTitleLength, StatusWarning,
			fmt.Sprintf("meta title is too long (%d/%d characters)", titleLen, titleMax)})
	default:
		items = append(items, Item{RuleTitleLength, StatusGood,
			fmt.Sprintf("meta title length is optimal (%d/%d characters)", titleLen, titleMax)})
	}

	// 3. Keyword in title. An empty keyword disqualifies the rule outright so
	// the score denominator stays at 7.
	if keyword != "" && strings.Contains(strings.ToLower(in.MetaTitle), keyword) {
		items = append(items, Item{RuleKeywordTitle, StatusGood, "focus keyword appears in the meta title"})
	} else {
		items = append(items, Item{RuleKeywordTitle, StatusError, "focus keyword is missing from the meta title"})
	}

	// 4. Meta description length (rune count, as above)
	descLen := utf8.RuneCountInString(in.MetaDescription)
	switch {
	case descLen == 0:
		items = append(items, Item{RuleDescLength, StatusError, "meta description is not set"})
	case descLen < descMin:
		items = append(items, Item{RuleDescLength, StatusWarning,
			fmt.Sprintf("meta description is too short (%d/%d characters)", descLen, descMax)})
	case descLen > descMax:
		items = append(items, Item{RuleDescLength, StatusWarning,
			fmt.Sprintf("meta description is too long (%d/%d characters)", descLen, descMax)})
	default:
		items = append(items, Item{RuleDescLength, StatusGood,
			fmt.Sprintf("meta description length is optimal (%d/%d characters)", descLen, descMax)})
	}

	// 5. Keyword in description. Absence here is a softer penalty than in the
	// title or content.
	if keyword != "" && strings.Contains(strings.ToLower(in.MetaDescription), keyword) {
		items = append(items, Item{RuleKeywordDesc, StatusGood, "focus keyword appears in the meta description"})
	} else {
		items = append(items, Item{RuleKeywordDesc, StatusWarning, "focus keyword is missing from the meta description"})
	}

	// 6. Content length (markup stripped before counting)
	words := WordCount(in.Content)
	switch {
	case words < wordsMin:
		items = append(items, Item{RuleContentLength, StatusError,
			fmt.Sprintf("content is too short (%d words, minimum %d)", words, wordsGood)})
	case words < wordsGood:
		items = append(items, Item{RuleContentLength, StatusWarning,
			fmt.Sprintf("content is short (%d words, %d+ recommended)", words, wordsGood)})
	default:
		items = append(items, Item{RuleContentLength, StatusGood,
			fmt.Sprintf("content length is good (%d words)", words)})
	}

	// 7. Keyword in content
	if keyword != "" && strings.Contains(strings.ToLower(StripTags(in.Content)), keyword) {
		items = append(items, Item{RuleKeywordContent, StatusGood, "focus keyword appears in the content"})
	} else {
		items = append(items, Item{RuleKeywordContent, StatusError, "focus keyword is missing from the content"})
	}

	good := 0
	for _, it := range items {
		if it.Status == StatusGood {
			good++
		}
	}

	return Result{
		Score: int(math.Round(100 * float64(good) / totalRules)),
		Items: items,
	}
}

// EstimateReadTime returns the estimated reading time in minutes for the given
// content, assuming ~200 words per minute, never less than 1 for non-empty text.
func EstimateReadTime(content string) int {
	words := WordCount(content)
	if words == 0 {
		return 0
	}
	minutes := (words + 199) / 200
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
