package evaluation

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	"story-server/shared/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomEvaluator_ScoresInRange(t *testing.T) {
	e := NewRandomEvaluator(rand.NewPCG(1, 2))
	ctx := context.Background()

	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		eval, err := e.Evaluate(ctx, "The dragon woke up.")
		require.NoError(t, err)
		for _, s := range []int{eval.Relevance, eval.Grammar, eval.Creativity} {
			assert.GreaterOrEqual(t, s, 5)
			assert.LessOrEqual(t, s, 8)
			seen[s] = true
		}
		assert.Equal(t, eval.Sum(), eval.TotalScore)
		assert.NotEmpty(t, eval.Feedback)
		assert.NoError(t, eval.Validate())
	}
	// На 1500 бросках должны выпасть все значения диапазона
	assert.Len(t, seen, 4)
}

func TestRandomEvaluator_GlobalSource(t *testing.T) {
	eval, err := NewRandomEvaluator(nil).Evaluate(context.Background(), "text")
	require.NoError(t, err)
	assert.NoError(t, eval.Validate())
}

func TestRandomEvaluator_EmptyText(t *testing.T) {
	e := NewRandomEvaluator(nil)
	_, err := e.Evaluate(context.Background(), "   \n")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRandomEvaluator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRandomEvaluator(nil).Evaluate(ctx, "text")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildFeedback(t *testing.T) {
	low := &models.Evaluation{Relevance: 5, Grammar: 6, Creativity: 6}
	assert.Equal(t, "Keep up the good work!", buildFeedback("Keep up the good work!", low))

	high := &models.Evaluation{Relevance: 7, Grammar: 8, Creativity: 7}
	fb := buildFeedback("Well done on this part!", high)
	assert.True(t, strings.HasPrefix(fb, "Well done on this part!"))
	assert.Contains(t, fb, "fits well with the story")
	assert.Contains(t, fb, "clear and well-structured")
	assert.Contains(t, fb, "creative and original")
}
