package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScorer_ScoreParagraphs(t *testing.T) {
	s, err := NewScorer()
	require.NoError(t, err)

	paragraphs := []string{
		"I love Bitcoin. It is a great investment and makes me happy.",
		"This coin is a terrible scam and I hate it.",
		"",
		"   \n\t  ",
	}
	scores := s.ScoreParagraphs(paragraphs)
	require.Len(t, scores, len(paragraphs))

	require.NotNil(t, scores[0])
	assert.Greater(t, *scores[0], 0.0)
	assert.LessOrEqual(t, *scores[0], 1.0)

	require.NotNil(t, scores[1])
	assert.Less(t, *scores[1], 0.0)
	assert.GreaterOrEqual(t, *scores[1], -1.0)

	// blank paragraphs yield no score
	assert.Nil(t, scores[2])
	assert.Nil(t, scores[3])

	// rounded to four decimals
	for _, p := range scores[:2] {
		scaled := *p * 10000
		assert.InDelta(t, math.Round(scaled), scaled, 1e-6)
	}
}

func TestScorer_ScoreSentences(t *testing.T) {
	s, err := NewScorer()
	require.NoError(t, err)

	scores := s.ScoreSentences([]string{"I love this", "I hate this", ""})
	require.Len(t, scores, 3)
	assert.Greater(t, scores[0], 0.0)
	assert.Less(t, scores[1], 0.0)
	assert.Zero(t, scores[2])
}
