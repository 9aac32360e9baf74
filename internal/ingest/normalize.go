package ingest

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/teamfit/teamfit/internal/problem"
)

var (
	// ErrNoProblemColumn is returned when no column of the table can be
	// identified as holding problem statements.
	ErrNoProblemColumn = errors.New("could not identify problem statement column")
	// ErrNoValidProblems is returned when the table was readable but every
	// row was skipped as empty or invalid.
	ErrNoValidProblems = errors.New("no valid problem statements found")
)

const maxTitleLength = 100

// Normalizer turns raw spreadsheet tables into canonical problem records.
type Normalizer struct {
	logger *zap.Logger
}

func NewNormalizer(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger}
}

// auxiliaryFields are optional structured columns recognized by header.
// They enrich a record beyond the sniffed description and tech stack.
type auxiliaryFields struct {
	Title                  string `mapstructure:"problem title"`
	Category               string `mapstructure:"domain"`
	DifficultyLevel        string `mapstructure:"level"`
	EstimatedDurationWeeks int    `mapstructure:"estimated duration weeks"`
	MinTeamSize            int    `mapstructure:"min team size"`
	MaxTeamSize            int    `mapstructure:"max team size"`
}

// Extract produces problem records from a raw table. Rows with an empty or
// placeholder problem cell are skipped, not failed; a row-level extraction
// problem never aborts the batch.
func (n *Normalizer) Extract(table *Table, sourceFile string) (*problem.Problems, error) {
	if table == nil || len(table.Headers) == 0 {
		return nil, ErrNoProblemColumn
	}

	problemCol, ok := problemColumn(table)
	if !ok {
		return nil, ErrNoProblemColumn
	}

	techCol, hasTech := techStackColumn(table)

	n.logger.Debug("identified spreadsheet columns",
		zap.String("problem_column", problemCol),
		zap.String("tech_stack_column", techCol),
	)

	problems := &problem.Problems{}
	for idx, row := range table.Rows {
		text := strings.TrimSpace(row[problemCol])
		if !validProblemText(text) {
			continue
		}

		record := &problem.Problem{
			ID:              uuid.NewString(),
			Description:     text,
			DifficultyLevel: problem.DefaultDifficulty,
			SourceFile:      sourceFile,
		}

		if hasTech {
			record.RequiredSkills = SplitSkills(row[techCol])
		}

		aux, err := decodeAuxiliary(row)
		if err != nil {
			n.logger.Warn("skipping structured fields for row",
				zap.Int("row", idx),
				zap.Error(err),
			)
			aux = auxiliaryFields{}
		}

		record.Title = strings.TrimSpace(aux.Title)
		if record.Title == "" {
			record.Title = GenerateTitle(text)
		}
		record.Category = strings.TrimSpace(aux.Category)
		if level := strings.TrimSpace(aux.DifficultyLevel); level != "" {
			record.DifficultyLevel = level
		}
		record.EstimatedDurationWeeks = aux.EstimatedDurationWeeks
		record.MinTeamSize = aux.MinTeamSize
		record.MaxTeamSize = aux.MaxTeamSize

		problems.Items = append(problems.Items, record)
	}

	if problems.Len() == 0 {
		return nil, ErrNoValidProblems
	}

	return problems, nil
}

// validProblemText rejects empty cells and the textual placeholders
// spreadsheet exports tend to leave behind.
func validProblemText(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "nan", "none":
		return false
	}
	return true
}

var skillSeparators = strings.NewReplacer(" and ", ",", "&", ",", ";", ",")

// SplitSkills tokenizes a tech stack cell. Tokens keep their insertion
// order and duplicates are preserved; deduplication happens only at
// comparison time (see problem.Problem.SkillSet).
func SplitSkills(cell string) []string {
	if !validProblemText(cell) {
		return nil
	}

	parts := strings.Split(skillSeparators.Replace(cell), ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			skills = append(skills, part)
		}
	}
	return skills
}

// GenerateTitle derives a title from the first sentence of the
// description, truncating to maxTitleLength characters with an ellipsis.
func GenerateTitle(description string) string {
	first, _, _ := strings.Cut(description, ".")
	title := strings.TrimSpace(first)

	runes := []rune(title)
	if len(runes) <= maxTitleLength {
		return title
	}
	return string(runes[:maxTitleLength-3]) + "..."
}

// decodeAuxiliary maps recognized optional columns of a row into typed
// fields, coercing numeric cells from their string form.
func decodeAuxiliary(row Row) (auxiliaryFields, error) {
	var aux auxiliaryFields

	input := make(map[string]any, len(row))
	for header, value := range row {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if key, ok := auxiliaryKey(header); ok {
			input[key] = strings.TrimSuffix(value, ".0")
		}
	}

	cfg := &mapstructure.DecoderConfig{
		Result:           &aux,
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return aux, err
	}
	if err := decoder.Decode(input); err != nil {
		return aux, err
	}
	return aux, nil
}

// auxiliaryKey normalizes a raw header to the canonical mapstructure key
// for an optional structured column.
func auxiliaryKey(header string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(header))
	switch {
	case lower == "problem title" || lower == "title":
		return "problem title", true
	case lower == "domain" || lower == "category":
		return "domain", true
	case lower == "level" || strings.Contains(lower, "difficulty"):
		return "level", true
	case strings.Contains(lower, "duration"):
		return "estimated duration weeks", true
	case strings.Contains(lower, "min team"):
		return "min team size", true
	case strings.Contains(lower, "max team"):
		return "max team size", true
	}
	return "", false
}
