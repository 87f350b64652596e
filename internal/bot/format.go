package bot

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vadiminshakov/chartbot/internal/domain"
)

const (
	calendarBaseURL     = "https://calendar.google.com/calendar/render?action=TEMPLATE"
	calendarTimeLayout  = "20060102T150405"
	calendarSummaryRune = 200
	reportSeparator     = "──────────────────────────────"
)

// SplitMessage cuts HTML text into chunks of at most max runes. Cuts avoid
// tags, entities and open elements when such a position exists. Joining the
// chunks gives back text exactly.
func SplitMessage(text string, max int) []string {
	if text == "" {
		return nil
	}
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return []string{text}
	}

	var chunks []string
	for utf8.RuneCountInString(text) > max {
		end := cutPoint(text, max)
		chunks = append(chunks, text[:end])
		text = text[end:]
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

// cutPoint returns the byte offset of the last safe cut within the first max
// runes of text, or the offset of rune max when there is none. text must be
// longer than max runes.
func cutPoint(text string, max int) int {
	var (
		safe, n, depth, tagStart int
		inTag, inEntity          bool
	)
	hard := len(text)

	for i, r := range text {
		if inEntity && r != ';' && !isEntityRune(r) {
			inEntity = false
		}
		boundary := i > 0 && !inTag && !inEntity && depth == 0
		if n == max {
			if boundary {
				return i
			}
			hard = i
			break
		}
		if boundary {
			safe = i
		}

		switch {
		case inTag:
			if r == '>' {
				inTag = false
				depth = tagDepth(text[tagStart:i+1], depth)
			}
		case inEntity:
			if r == ';' {
				inEntity = false
			}
		case r == '<':
			inTag, tagStart = true, i
		case r == '&':
			inEntity = true
		}
		n++
	}

	if safe > 0 {
		return safe
	}
	return hard
}

func tagDepth(tag string, depth int) int {
	switch {
	case strings.HasPrefix(tag, "</"):
		return max(depth-1, 0)
	case strings.HasSuffix(tag, "/>"):
		return depth
	default:
		return depth + 1
	}
}

func isEntityRune(r rune) bool {
	return r == '#' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}

// CalendarLink builds a Google Calendar event template for the recommendation.
// The event lasts one hour starting at the target time.
func CalendarLink(coinName string, rec domain.Recommendation) string {
	price := strconv.FormatFloat(rec.TargetPrice, 'f', -1, 64)
	title := fmt.Sprintf("%s %s at $%s", rec.Action.Upper(), coinName, price)
	details := fmt.Sprintf("AI Trading Recommendation\n\nAction: %s\nTarget Price: $%s\n\nAnalysis Summary: %s...",
		rec.Action.Upper(), price, truncateRunes(rec.Analysis, calendarSummaryRune))

	start := rec.TargetTime.Format(calendarTimeLayout)
	end := rec.TargetTime.Add(time.Hour).Format(calendarTimeLayout)

	var sb strings.Builder
	sb.WriteString(calendarBaseURL)
	sb.WriteString("&text=")
	sb.WriteString(escape(title))
	sb.WriteString("&dates=")
	sb.WriteString(start + "/" + end)
	sb.WriteString("&details=")
	sb.WriteString(escape(details))
	sb.WriteString("&sf=true&output=xml")
	return sb.String()
}

// escape percent-encodes s, spaces as %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for range n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i]
}
