package ingest

import (
	"strconv"
	"strings"
)

// Common problem statement column names, tried before any heuristic.
var knownProblemHeaders = []string{
	"problem statement", "problem description", "description",
	"statement", "problem", "challenge", "project",
}

// Keywords whose presence in cell text marks a column as a likely problem
// statement column.
var contentIndicators = []string{
	"implement", "create", "develop", "build", "design",
	"requirement", "feature", "functionality",
}

var techStackKeywords = []string{
	"technology", "tech stack", "technical", "skills", "requirements",
}

const sniffSampleSize = 5

// columnStrategy locates a column of interest in a table. Strategies report
// "no match" instead of failing so callers can chain them.
type columnStrategy interface {
	Name() string
	Locate(t *Table) (string, bool)
}

// problemColumn resolves the problem statement column by trying each
// strategy in priority order: exact header match, content keyword
// heuristic, longest average text.
func problemColumn(t *Table) (string, bool) {
	strategies := []columnStrategy{
		exactHeaderStrategy{},
		contentHeuristicStrategy{},
		longestTextStrategy{},
	}

	for _, strategy := range strategies {
		if col, ok := strategy.Locate(t); ok {
			return col, true
		}
	}
	return "", false
}

// techStackColumn finds the column holding required technologies by header
// keyword containment. Missing column is not an error: required skills
// default to empty.
func techStackColumn(t *Table) (string, bool) {
	for _, header := range t.Headers {
		lower := strings.ToLower(header)
		for _, keyword := range techStackKeywords {
			if strings.Contains(lower, keyword) {
				return header, true
			}
		}
	}
	return "", false
}

type exactHeaderStrategy struct{}

func (exactHeaderStrategy) Name() string { return "exact_header" }

func (exactHeaderStrategy) Locate(t *Table) (string, bool) {
	for _, header := range t.Headers {
		lower := strings.ToLower(strings.TrimSpace(header))
		for _, known := range knownProblemHeaders {
			if lower == known {
				return header, true
			}
		}
	}
	return "", false
}

// contentHeuristicStrategy scores every text column by cell length and
// occurrences of content indicator keywords. A column only qualifies when
// at least one indicator was seen; pure length falls through to the next
// strategy.
type contentHeuristicStrategy struct{}

func (contentHeuristicStrategy) Name() string { return "content_heuristic" }

func (contentHeuristicStrategy) Locate(t *Table) (string, bool) {
	best := ""
	bestScore := 0.0

	for _, header := range t.Headers {
		sample := sampleColumn(t, header)
		if len(sample) == 0 || columnNumeric(sample) {
			continue
		}

		score := 0.0
		indicators := 0
		for _, text := range sample {
			score += float64(len(text)) / 100
			lower := strings.ToLower(text)
			for _, indicator := range contentIndicators {
				if strings.Contains(lower, indicator) {
					indicators++
					score += 2
				}
			}
		}

		if indicators > 0 && score > bestScore {
			bestScore = score
			best = header
		}
	}

	return best, best != ""
}

// longestTextStrategy is the last resort: the text column with the longest
// average cell wins.
type longestTextStrategy struct{}

func (longestTextStrategy) Name() string { return "longest_text" }

func (longestTextStrategy) Locate(t *Table) (string, bool) {
	best := ""
	bestAvg := 0.0

	for _, header := range t.Headers {
		sample := sampleColumn(t, header)
		if len(sample) == 0 || columnNumeric(sample) {
			continue
		}

		total := 0
		for _, text := range sample {
			total += len(text)
		}
		avg := float64(total) / float64(len(sample))
		if avg > bestAvg {
			bestAvg = avg
			best = header
		}
	}

	return best, best != ""
}

// sampleColumn returns up to sniffSampleSize non-empty values of a column.
func sampleColumn(t *Table, header string) []string {
	sample := make([]string, 0, sniffSampleSize)
	for _, row := range t.Rows {
		value := strings.TrimSpace(row[header])
		if value == "" {
			continue
		}
		sample = append(sample, value)
		if len(sample) == sniffSampleSize {
			break
		}
	}
	return sample
}

// columnNumeric reports whether every sampled value parses as a number.
// Numeric columns are never problem statement candidates.
func columnNumeric(sample []string) bool {
	for _, value := range sample {
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return false
		}
	}
	return len(sample) > 0
}
