package analysis

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

func (a *implAnalyzer) Refine(ctx context.Context, raw string) Refinement {
	if strings.TrimSpace(raw) == "" {
		return Refinement{Text: raw}
	}

	a.logger.Info(ctx, "Refining transcript with %s (%d chars)", a.client.Name(), len(raw))
	text, err := a.client.Chat(ctx, fmt.Sprintf(a.prompts.refine, raw))
	if err != nil {
		a.logger.Warn(ctx, "Refinement failed, keeping raw transcript: %v", err)
		return Refinement{Text: raw}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Refinement{Text: raw}
	}
	return Refinement{Text: text, Refined: true}
}

func (a *implAnalyzer) Compare(ctx context.Context, transcript, minutes string) (string, error) {
	a.logger.Info(ctx, "Comparing transcript (%d chars) with minutes (%d chars) using %s",
		len(transcript), len(minutes), a.client.Name())

	report, err := a.client.Chat(ctx, fmt.Sprintf(a.prompts.compare, transcript, minutes))
	if err != nil {
		return "", fmt.Errorf("compare: %w", err)
	}
	return report, nil
}

// FailureNotice is the analysis text shown when the comparison could not run.
func FailureNotice(language, clientName string, err error) string {
	return fmt.Sprintf(promptsFor(language).failure, clientName, err)
}

var (
	reConclusion = regexp.MustCompile(`(?i)conclusi[oó]n`)
	reFidelity   = regexp.MustCompile(`(?i)fidelidad|fidelity`)
	rePercent    = regexp.MustCompile(`(\d{1,3}(?:[.,]\d+)?)\s*%`)
)

// ParseFidelity extracts the estimated fidelity percentage from a report. The
// first percentage after the last conclusion heading wins. Without one, the
// last mention of fidelity is the anchor, and failing that the last
// percentage in the report. ok is false when no value in [0,100] is found.
func ParseFidelity(report string) (float64, bool) {
	for _, re := range []*regexp.Regexp{reConclusion, reFidelity} {
		loc := re.FindAllStringIndex(report, -1)
		if len(loc) == 0 {
			continue
		}
		if m := rePercent.FindStringSubmatch(report[loc[len(loc)-1][0]:]); m != nil {
			return parsePercent(m[1])
		}
	}

	matches := rePercent.FindAllStringSubmatch(report, -1)
	if len(matches) == 0 {
		return 0, false
	}
	return parsePercent(matches[len(matches)-1][1])
}

func parsePercent(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || v < 0 || v > 100 {
		return 0, false
	}
	return v, true
}
