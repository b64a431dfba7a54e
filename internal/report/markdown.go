package report

import (
	"regexp"
	"strings"
)

type blockKind int

const (
	blockParagraph blockKind = iota
	blockHeading
	blockBullet
)

// block is one rendered line of the analysis.
type block struct {
	kind  blockKind
	level int
	spans []span
}

// span is a run of inline text, bold when it was wrapped in **.
type span struct {
	text string
	bold bool
}

var (
	reHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet  = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
	reInline  = strings.NewReplacer("**", "", "__", "", "`", "")
)

// parseBlocks splits the model's markdown-ish reply into headings, bullets
// and paragraphs. Blank lines and horizontal rules are dropped.
func parseBlocks(analysis string) []block {
	var out []block
	for _, line := range strings.Split(analysis, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "---" {
			continue
		}
		switch {
		case reHeading.MatchString(line):
			m := reHeading.FindStringSubmatch(line)
			out = append(out, block{kind: blockHeading, level: len(m[1]), spans: []span{{text: reInline.Replace(m[2]), bold: true}}})
		case reBullet.MatchString(line):
			m := reBullet.FindStringSubmatch(line)
			out = append(out, block{kind: blockBullet, spans: inlineSpans(m[1])})
		default:
			out = append(out, block{kind: blockParagraph, spans: inlineSpans(line)})
		}
	}
	return out
}

// inlineSpans splits text on **bold** markers and strips the remaining
// inline markup.
func inlineSpans(text string) []span {
	var out []span
	last := 0
	for _, loc := range reBold.FindAllStringSubmatchIndex(text, -1) {
		if plain := reInline.Replace(text[last:loc[0]]); plain != "" {
			out = append(out, span{text: plain})
		}
		out = append(out, span{text: reInline.Replace(text[loc[2]:loc[3]]), bold: true})
		last = loc[1]
	}
	if plain := reInline.Replace(text[last:]); plain != "" {
		out = append(out, span{text: plain})
	}
	return out
}

func (b block) plain() string {
	var sb strings.Builder
	for _, s := range b.spans {
		sb.WriteString(s.text)
	}
	return sb.String()
}

func headingSize(level int) float64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 14
	default:
		return 13
	}
}
