package service

import (
	"math"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Scorer computes VADER compound polarity scores.
type Scorer interface {
	// ScoreParagraphs tokenizes each paragraph into sentences and returns
	// the mean compound score rounded to four decimals. Whitespace-only
	// input yields nil.
	ScoreParagraphs(paragraphs []string) []*float64
	// ScoreSentences treats each input as a single sentence.
	ScoreSentences(texts []string) []float64
}

// NewScorer creates a new VADER scorer with the English sentence tokenizer.
func NewScorer() (Scorer, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, err
	}
	return &scorer{
		analyzer:  govader.NewSentimentIntensityAnalyzer(),
		tokenizer: tokenizer,
	}, nil
}

type scorer struct {
	analyzer  *govader.SentimentIntensityAnalyzer
	tokenizer *sentences.DefaultSentenceTokenizer
}

func (s *scorer) ScoreParagraphs(paragraphs []string) []*float64 {
	results := make([]*float64, len(paragraphs))
	for i, paragraph := range paragraphs {
		var parts []string
		for _, sentence := range s.tokenizer.Tokenize(paragraph) {
			if text := strings.TrimSpace(sentence.Text); text != "" {
				parts = append(parts, text)
			}
		}
		if len(parts) == 0 {
			continue
		}

		sum := 0.0
		for _, part := range parts {
			sum += s.analyzer.PolarityScores(part).Compound
		}
		score := round4(sum / float64(len(parts)))
		results[i] = &score
	}
	return results
}

func (s *scorer) ScoreSentences(texts []string) []float64 {
	results := make([]float64, len(texts))
	for i, text := range texts {
		results[i] = s.analyzer.PolarityScores(text).Compound
	}
	return results
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
