package scoring

import (
	"math"
	"regexp"
	"strings"

	"github.com/teamfit/teamfit/internal/problem"
	"github.com/teamfit/teamfit/internal/team"
)

// TextRelevance scores cosine similarity between each problem description
// and the team profile text under a TF-IDF model fitted over the current
// candidate batch. The vocabulary is local to one ranking call: build a
// fresh TextRelevance per call and discard it afterwards.
type TextRelevance struct {
	scores map[string]float64
}

// NewTextRelevance fits the vectorizer over all candidate descriptions
// plus the team profile text and memoizes per-problem similarities.
func NewTextRelevance(problems *problem.Problems, t *team.Profile) *TextRelevance {
	relevance := &TextRelevance{scores: make(map[string]float64, problems.Len())}

	docs := make([]string, 0, problems.Len()+1)
	for _, p := range problems.Items {
		docs = append(docs, p.Description)
	}
	docs = append(docs, t.ProfileText())

	v := fitVectorizer(docs)
	if len(v.vocabulary) == 0 {
		// All terms filtered out: similarity is defined as 0 everywhere.
		return relevance
	}

	profileVec := v.transform(docs[len(docs)-1])
	for i, p := range problems.Items {
		relevance.scores[p.ID] = Clamp01(dot(v.transform(docs[i]), profileVec))
	}

	return relevance
}

func (r *TextRelevance) Name() string { return DimensionTextRelevance }

func (r *TextRelevance) Score(p *problem.Problem, _ *team.Profile) float64 {
	return r.scores[p.ID]
}

var tokenPattern = regexp.MustCompile(`[a-z0-9]+(?:-[a-z0-9]+)*`)

// stopwords excluded from the vocabulary. A small english list is enough
// here: the corpus is short project briefs.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "of": true,
	"to": true, "in": true, "on": true, "for": true, "with": true, "by": true,
	"as": true, "at": true, "is": true, "are": true, "be": true, "that": true,
	"this": true, "it": true, "from": true, "will": true, "can": true,
	"should": true, "using": true,
}

func tokenize(text string) []string {
	parts := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(parts))
	for _, token := range parts {
		if len(token) <= 1 || stopwords[token] {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// vectorizer is a smoothed TF-IDF model over one document batch.
type vectorizer struct {
	vocabulary map[string]int
	idf        []float64
}

func fitVectorizer(docs []string) *vectorizer {
	v := &vectorizer{vocabulary: make(map[string]int)}

	documentFrequency := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, token := range tokenize(doc) {
			if _, ok := v.vocabulary[token]; !ok {
				v.vocabulary[token] = len(v.vocabulary)
			}
			if !seen[token] {
				seen[token] = true
				documentFrequency[token]++
			}
		}
	}

	n := float64(len(docs))
	v.idf = make([]float64, len(v.vocabulary))
	for token, index := range v.vocabulary {
		v.idf[index] = math.Log((1+n)/(1+float64(documentFrequency[token]))) + 1
	}

	return v
}

// transform produces the l2-normalized TF-IDF vector of a document.
func (v *vectorizer) transform(doc string) []float64 {
	vec := make([]float64, len(v.vocabulary))
	for _, token := range tokenize(doc) {
		if index, ok := v.vocabulary[token]; ok {
			vec[index] += v.idf[index]
		}
	}

	norm := 0.0
	for _, value := range vec {
		norm += value * value
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// dot of two equally sized normalized vectors is their cosine similarity.
func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// CosineSimilarity compares two raw vectors, clamped to [0,1] for scoring.
// Mismatched or empty vectors score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return Clamp01(dotProduct / (math.Sqrt(normA) * math.Sqrt(normB)))
}
