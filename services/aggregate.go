package services

import "conference-review-api/models"

// recommendationPriority breaks ties between equally frequent recommendations:
// accept wins over revision, revision over reject.
var recommendationPriority = []string{
	models.RecommendationAccept,
	models.RecommendationRevision,
	models.RecommendationReject,
}

// RecommendationCounts tallies evaluations per recommendation.
type RecommendationCounts struct {
	Accept   int `json:"accept"`
	Reject   int `json:"reject"`
	Revision int `json:"revision"`
}

func (c RecommendationCounts) get(recommendation string) int {
	switch recommendation {
	case models.RecommendationAccept:
		return c.Accept
	case models.RecommendationReject:
		return c.Reject
	case models.RecommendationRevision:
		return c.Revision
	}
	return 0
}

// CountRecommendations counts accept, reject and revision across evaluations.
func CountRecommendations(evaluations []models.Evaluation) RecommendationCounts {
	var counts RecommendationCounts
	for _, e := range evaluations {
		switch e.Recommendation {
		case models.RecommendationAccept:
			counts.Accept++
		case models.RecommendationReject:
			counts.Reject++
		case models.RecommendationRevision:
			counts.Revision++
		}
	}
	return counts
}

// AverageScore is the arithmetic mean of the overall scores, nil without evaluations.
func AverageScore(evaluations []models.Evaluation) *float64 {
	if len(evaluations) == 0 {
		return nil
	}
	var sum float64
	for _, e := range evaluations {
		sum += e.Score
	}
	avg := sum / float64(len(evaluations))
	return &avg
}

// MajorityRecommendation returns the most frequent recommendation, nil without evaluations.
// Ties resolve by recommendationPriority.
func MajorityRecommendation(evaluations []models.Evaluation) *string {
	counts := CountRecommendations(evaluations)
	best, bestCount := "", 0
	for _, r := range recommendationPriority {
		if n := counts.get(r); n > bestCount {
			best, bestCount = r, n
		}
	}
	if bestCount == 0 {
		return nil
	}
	return &best
}

// averageOptional averages the non-nil values picked from each evaluation, nil when none are set.
func averageOptional(evaluations []models.Evaluation, pick func(models.Evaluation) *int) *float64 {
	var sum, n int
	for _, e := range evaluations {
		if v := pick(e); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := float64(sum) / float64(n)
	return &avg
}

// EvaluationStatistics is the derived aggregate of a submission's evaluations.
type EvaluationStatistics struct {
	TotalEvaluations   int      `json:"total_evaluations"`
	AverageScore       *float64 `json:"average_score"`
	AverageRelevance   *float64 `json:"average_relevance"`
	AverageQuality     *float64 `json:"average_quality"`
	AverageOriginality *float64 `json:"average_originality"`
}

// Statistics computes counts and averages; sub-score averages ignore evaluations without that sub-score.
func Statistics(evaluations []models.Evaluation) EvaluationStatistics {
	return EvaluationStatistics{
		TotalEvaluations: len(evaluations),
		AverageScore:     AverageScore(evaluations),
		AverageRelevance: averageOptional(evaluations, func(e models.Evaluation) *int {
			return e.RelevanceScore
		}),
		AverageQuality: averageOptional(evaluations, func(e models.Evaluation) *int {
			return e.QualityScore
		}),
		AverageOriginality: averageOptional(evaluations, func(e models.Evaluation) *int {
			return e.OriginalityScore
		}),
	}
}
