package controllers

import (
	"net/http"

	"conference-review-api/services"

	"github.com/gin-gonic/gin"
)

type UpdateStatusRequest struct {
	Status        string  `json:"status" binding:"required"`
	AdminComments *string `json:"admin_comments"`
}

func submissionService() *services.SubmissionService {
	return services.NewSubmissionService(reviewDeps)
}

// POST /api/v1/submissions
func CreateSubmission(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.SubmissionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	submission, err := submissionService().Create(c.Request.Context(), uid, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Submission created successfully",
		"data":    submission,
	})
}

// GET /api/v1/submissions/mine?page=1&per_page=10
func GetMySubmissions(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	result, err := submissionService().ListMine(c.Request.Context(), uid, pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// GET /api/v1/submissions/:id
func GetSubmission(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := submissionService().Get(c.Request.Context(), id, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": detail})
}

// PUT /api/v1/submissions/:id
func UpdateSubmission(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.SubmissionUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	submission, err := submissionService().UpdateContent(c.Request.Context(), id, uid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Submission updated successfully",
		"data":    submission,
	})
}

// PUT /api/v1/submissions/:id/status
func UpdateSubmissionStatus(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	submission, err := submissionService().UpdateStatus(c.Request.Context(), id, uid, req.Status, req.AdminComments)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Submission status updated successfully",
		"data":    submission,
	})
}

// DELETE /api/v1/submissions/:id
func DeleteSubmission(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := submissionService().Delete(c.Request.Context(), id, uid); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Submission deleted successfully"})
}

// POST /api/v1/submissions/:id/file (multipart field "file")
func UploadSubmissionFile(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, err)
		return
	}
	defer f.Close()

	submission, err := submissionService().AttachFile(c.Request.Context(), id, uid, fh.Filename, fh.Size, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "File uploaded successfully",
		"data":    submission,
	})
}

// DELETE /api/v1/submissions/:id/file
func DeleteSubmissionFile(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := submissionService().RemoveFile(c.Request.Context(), id, uid); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "File removed successfully"})
}

// GET /api/v1/submissions/:id/history
func GetSubmissionHistory(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	history, err := submissionService().StatusHistory(c.Request.Context(), id, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": history})
}

// GET /api/v1/events/:id/submissions?status=pending&type=oral&page=1&per_page=15
func GetEventSubmissions(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	filter := services.SubmissionFilter{Status: c.Query("status"), Type: c.Query("type")}
	result, err := submissionService().ListForEvent(c.Request.Context(), eventID, uid, filter, pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}
