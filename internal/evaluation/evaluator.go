package evaluation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"story-server/shared/models"
)

// Evaluator scores a piece of contribution text.
type Evaluator interface {
	Evaluate(ctx context.Context, text string) (*models.Evaluation, error)
}

const (
	// Границы случайной оценки по каждому критерию, включительно.
	minRandomScore = 5
	maxRandomScore = 8
	// С этого значения в отзыв добавляется похвала по критерию.
	praiseThreshold = 7
)

var feedbackTemplates = []string{
	"Your contribution shows promise!",
	"Great work on this contribution!",
	"Interesting addition to the story!",
	"Keep up the good work!",
	"Nice contribution to the narrative!",
	"Well done on this part!",
	"This adds value to the story!",
	"Good job on this contribution!",
}

// RandomEvaluator is a placeholder scorer: every sub-score is drawn uniformly
// from [5,8] and the feedback is assembled from fixed phrases.
type RandomEvaluator struct {
	mu  sync.Mutex
	rng *rand.Rand // nil - глобальный источник
}

var _ Evaluator = (*RandomEvaluator)(nil)

// NewRandomEvaluator creates a RandomEvaluator. A nil src uses the global generator.
func NewRandomEvaluator(src rand.Source) *RandomEvaluator {
	e := &RandomEvaluator{}
	if src != nil {
		e.rng = rand.New(src)
	}
	return e
}

func (e *RandomEvaluator) Evaluate(ctx context.Context, text string) (*models.Evaluation, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: contribution text is required", models.ErrValidation)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	eval := &models.Evaluation{
		Relevance:  e.score(),
		Grammar:    e.score(),
		Creativity: e.score(),
	}
	template := feedbackTemplates[e.intN(len(feedbackTemplates))]
	e.mu.Unlock()

	eval.TotalScore = eval.Sum()
	eval.Feedback = buildFeedback(template, eval)
	return eval, nil
}

func (e *RandomEvaluator) score() int {
	return minRandomScore + e.intN(maxRandomScore-minRandomScore+1)
}

func (e *RandomEvaluator) intN(n int) int {
	if e.rng == nil {
		return rand.IntN(n)
	}
	return e.rng.IntN(n)
}

func buildFeedback(template string, eval *models.Evaluation) string {
	var b strings.Builder
	b.WriteString(template)
	if eval.Relevance >= praiseThreshold {
		b.WriteString(" The content fits well with the story.")
	}
	if eval.Grammar >= praiseThreshold {
		b.WriteString(" The writing is clear and well-structured.")
	}
	if eval.Creativity >= praiseThreshold {
		b.WriteString(" Very creative and original ideas!")
	}
	return b.String()
}
