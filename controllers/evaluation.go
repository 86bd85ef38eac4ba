package controllers

import (
	"net/http"

	"conference-review-api/services"

	"github.com/gin-gonic/gin"
)

func evaluationService() *services.EvaluationService {
	return services.NewEvaluationService(reviewDeps)
}

// POST /api/v1/submissions/:id/evaluate
func EvaluateSubmission(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.EvaluationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	evaluation, err := evaluationService().Evaluate(c.Request.Context(), id, uid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Evaluation submitted successfully",
		"data":    evaluation,
	})
}

// PUT /api/v1/evaluations/:id
func UpdateEvaluation(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.EvaluationUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	evaluation, err := evaluationService().Update(c.Request.Context(), id, uid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Evaluation updated successfully",
		"data":    evaluation,
	})
}

// GET /api/v1/submissions/:id/evaluations
func GetSubmissionEvaluations(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := evaluationService().ListForSubmission(c.Request.Context(), id, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// GET /api/v1/submissions/:id/report
func GetEvaluationReport(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	report, err := evaluationService().GenerateReport(c.Request.Context(), id, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": report})
}

// GET /api/v1/evaluations/mine?page=1&per_page=15
func GetMyEvaluations(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	result, err := evaluationService().ListMine(c.Request.Context(), uid, pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}
