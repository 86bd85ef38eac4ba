package models

import "time"

// Evaluation recommendations
const (
	RecommendationAccept   = "accept"
	RecommendationReject   = "reject"
	RecommendationRevision = "revision"
)

// Evaluation is one committee member's scored judgment of a submission.
// (submission_id, evaluator_id) is unique.
type Evaluation struct {
	EvaluationID     uint      `gorm:"primaryKey;column:evaluation_id" json:"evaluation_id"`
	SubmissionID     uint      `gorm:"column:submission_id;uniqueIndex:idx_evaluation_submission_evaluator" json:"submission_id"`
	EvaluatorID      uint      `gorm:"column:evaluator_id;uniqueIndex:idx_evaluation_submission_evaluator;index" json:"evaluator_id"`
	Score            float64   `gorm:"column:score" json:"score"`
	RelevanceScore   *int      `gorm:"column:relevance_score" json:"relevance_score"`
	QualityScore     *int      `gorm:"column:quality_score" json:"quality_score"`
	OriginalityScore *int      `gorm:"column:originality_score" json:"originality_score"`
	Comments         *string   `gorm:"column:comments;type:text" json:"comments"`
	Recommendation   string    `gorm:"column:recommendation;size:20" json:"recommendation"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at" json:"updated_at"`

	Evaluator  *User       `gorm:"foreignKey:EvaluatorID;references:UserID" json:"evaluator,omitempty"`
	Submission *Submission `gorm:"foreignKey:SubmissionID;references:SubmissionID" json:"submission,omitempty"`
}

// TableName specifies the table name for Evaluation.
func (Evaluation) TableName() string {
	return "evaluations"
}
