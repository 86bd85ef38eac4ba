package controllers

import (
	"net/http"

	"conference-review-api/services"

	"github.com/gin-gonic/gin"
)

type AssignEvaluatorRequest struct {
	EvaluatorID uint `json:"evaluator_id" binding:"required"`
}

func assignmentService() *services.AssignmentService {
	return services.NewAssignmentService(reviewDeps)
}

// POST /api/v1/submissions/:id/assign
func AssignEvaluator(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignEvaluatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	assignment, err := assignmentService().Assign(c.Request.Context(), id, req.EvaluatorID, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Evaluator assigned successfully",
		"data":    assignment,
	})
}

// GET /api/v1/events/:id/assignments
func GetEventAssignments(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	assignments, err := assignmentService().ListForEvent(c.Request.Context(), eventID, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": assignments})
}

// GET /api/v1/assignments/mine
func GetMyAssignments(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	assignments, err := assignmentService().ListMine(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": assignments})
}

// DELETE /api/v1/assignments/:id
func RemoveAssignment(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := assignmentService().Remove(c.Request.Context(), id, uid); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Assignment removed successfully"})
}
