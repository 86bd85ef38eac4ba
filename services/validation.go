package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"conference-review-api/utils"

	"github.com/go-playground/validator/v10"
)

// validate checks the `validate` tags of workflow inputs. Field names come from the json tags
// so error keys match the request body.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CoAuthorInput is a co-author listed when a submission is created.
type CoAuthorInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Email       string  `json:"email" validate:"required,email,max=255"`
	Institution *string `json:"institution" validate:"omitempty,max=255"`
}

// SubmissionInput carries the fields of a new submission.
type SubmissionInput struct {
	EventID   uint            `json:"event_id" validate:"required"`
	Title     string          `json:"title" validate:"required,max=255"`
	Abstract  string          `json:"abstract" validate:"required,max=5000"`
	Keywords  []string        `json:"keywords" validate:"required,min=1,dive,required,max=50"`
	Type      string          `json:"type" validate:"required,oneof=oral poster display-panel"`
	CoAuthors []CoAuthorInput `json:"co_authors" validate:"omitempty,max=10,dive"`
}

// SubmissionUpdate is a partial content update; nil fields are left unchanged.
type SubmissionUpdate struct {
	Title    *string   `json:"title" validate:"omitempty,min=1,max=255"`
	Abstract *string   `json:"abstract" validate:"omitempty,min=1,max=5000"`
	Keywords *[]string `json:"keywords" validate:"omitempty,min=1,dive,required,max=50"`
	Type     *string   `json:"type" validate:"omitempty,oneof=oral poster display-panel"`
}

func (u SubmissionUpdate) empty() bool {
	return u.Title == nil && u.Abstract == nil && u.Keywords == nil && u.Type == nil
}

// EvaluationInput carries a new evaluation. Score and Recommendation are required.
type EvaluationInput struct {
	Score            *float64 `json:"score" validate:"required,min=0,max=10"`
	RelevanceScore   *int     `json:"relevance_score" validate:"omitempty,min=1,max=5"`
	QualityScore     *int     `json:"quality_score" validate:"omitempty,min=1,max=5"`
	OriginalityScore *int     `json:"originality_score" validate:"omitempty,min=1,max=5"`
	Comments         *string  `json:"comments" validate:"omitempty,max=2000"`
	Recommendation   string   `json:"recommendation" validate:"required,oneof=accept reject revision"`
}

// EvaluationUpdate is a partial update of an evaluation; nil fields are left unchanged.
type EvaluationUpdate struct {
	Score            *float64 `json:"score" validate:"omitempty,min=0,max=10"`
	RelevanceScore   *int     `json:"relevance_score" validate:"omitempty,min=1,max=5"`
	QualityScore     *int     `json:"quality_score" validate:"omitempty,min=1,max=5"`
	OriginalityScore *int     `json:"originality_score" validate:"omitempty,min=1,max=5"`
	Comments         *string  `json:"comments" validate:"omitempty,max=2000"`
	Recommendation   *string  `json:"recommendation" validate:"omitempty,oneof=accept reject revision"`
}

func (u EvaluationUpdate) empty() bool {
	return u.Score == nil && u.RelevanceScore == nil && u.QualityScore == nil &&
		u.OriginalityScore == nil && u.Comments == nil && u.Recommendation == nil
}

// CommitteeMemberInput adds a user to an event's scientific committee.
type CommitteeMemberInput struct {
	UserID          uint   `json:"user_id" validate:"required"`
	RoleInCommittee string `json:"role_in_committee" validate:"required,max=100"`
}

// CommitteeRoleUpdate changes a committee member's role.
type CommitteeRoleUpdate struct {
	RoleInCommittee string `json:"role_in_committee" validate:"required,max=100"`
}

type statusChange struct {
	Status string `json:"status" validate:"required,oneof=pending under_review accepted rejected revision"`
}

// checkStruct runs the tag rules of s and records each failure under its json path,
// e.g. "co_authors.0.email".
func checkStruct(errs ValidationErrors, s interface{}) {
	err := validate.Struct(s)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add("input", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		errs.Add(fieldPath(fe), fieldMessage(fe))
	}
}

func fieldPath(fe validator.FieldError) string {
	path := fe.Namespace()
	if i := strings.Index(path, "."); i >= 0 {
		path = path[i+1:]
	}
	return strings.NewReplacer("[", ".", "]", "").Replace(path)
}

// fieldLabel names the failing field in messages; slice elements use the singular.
func fieldLabel(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.Index(name, "["); i >= 0 {
		name = strings.TrimSuffix(name[:i], "s")
	}
	return name
}

func fieldMessage(fe validator.FieldError) string {
	label := fieldLabel(fe)
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return label + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min", "max":
		return boundMessage(label, fe)
	}
	return label + " is invalid"
}

func boundMessage(label string, fe validator.FieldError) string {
	atLeast := fe.Tag() == "min"
	switch fe.Kind() {
	case reflect.String:
		if atLeast && fe.Param() == "1" {
			return label + " is required"
		}
		if atLeast {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s may not exceed %s characters", label, fe.Param())
	case reflect.Slice, reflect.Array, reflect.Map:
		if atLeast {
			return fmt.Sprintf("at least %s %s required", fe.Param(), label)
		}
		return fmt.Sprintf("at most %s %s allowed", fe.Param(), label)
	}
	if atLeast {
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	}
	return fmt.Sprintf("%s may not exceed %s", label, fe.Param())
}

// checkKeywordCount enforces the configured keyword limit, which tags cannot express.
func checkKeywordCount(errs ValidationErrors, keywords []string, maxKeywords int) {
	if len(keywords) > maxKeywords {
		errs.Add("keywords", fmt.Sprintf("at most %d keywords allowed", maxKeywords))
	}
}

func (in *SubmissionInput) normalize() {
	in.Title = utils.SanitizeInput(in.Title)
	in.Abstract = utils.SanitizeInput(in.Abstract)
	in.Keywords = utils.SanitizeList(in.Keywords)
	in.Type = strings.ToLower(utils.SanitizeInput(in.Type))
	for i := range in.CoAuthors {
		in.CoAuthors[i].Name = utils.SanitizeInput(in.CoAuthors[i].Name)
		in.CoAuthors[i].Email = strings.ToLower(utils.SanitizeInput(in.CoAuthors[i].Email))
		in.CoAuthors[i].Institution = optionalText(in.CoAuthors[i].Institution)
	}
}

func validateSubmissionInput(in SubmissionInput, maxKeywords int) error {
	errs := ValidationErrors{}
	checkStruct(errs, in)
	checkKeywordCount(errs, in.Keywords, maxKeywords)
	return errs.Err()
}

func (u *SubmissionUpdate) normalize() {
	if u.Title != nil {
		v := utils.SanitizeInput(*u.Title)
		u.Title = &v
	}
	if u.Abstract != nil {
		v := utils.SanitizeInput(*u.Abstract)
		u.Abstract = &v
	}
	if u.Keywords != nil {
		v := utils.SanitizeList(*u.Keywords)
		u.Keywords = &v
	}
	if u.Type != nil {
		v := strings.ToLower(utils.SanitizeInput(*u.Type))
		u.Type = &v
	}
}

func validateSubmissionUpdate(u SubmissionUpdate, maxKeywords int) error {
	errs := ValidationErrors{}
	checkStruct(errs, u)
	if u.Keywords != nil {
		if len(*u.Keywords) == 0 {
			errs.Add("keywords", "at least 1 keyword required")
		}
		checkKeywordCount(errs, *u.Keywords, maxKeywords)
	}
	return errs.Err()
}

func validateEvaluationInput(in EvaluationInput) error {
	errs := ValidationErrors{}
	checkStruct(errs, in)
	return errs.Err()
}

func validateEvaluationUpdate(u EvaluationUpdate) error {
	errs := ValidationErrors{}
	checkStruct(errs, u)
	return errs.Err()
}

func validateStatusChange(c statusChange) error {
	errs := ValidationErrors{}
	checkStruct(errs, c)
	return errs.Err()
}

func validateCommitteeMember(in CommitteeMemberInput) error {
	errs := ValidationErrors{}
	checkStruct(errs, in)
	return errs.Err()
}

func validateCommitteeRole(in CommitteeRoleUpdate) error {
	errs := ValidationErrors{}
	checkStruct(errs, in)
	return errs.Err()
}

// optionalText trims s and maps blank text to nil.
func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := utils.SanitizeInput(*s)
	if v == "" {
		return nil
	}
	return &v
}
