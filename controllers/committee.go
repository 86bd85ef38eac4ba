package controllers

import (
	"net/http"

	"conference-review-api/services"

	"github.com/gin-gonic/gin"
)

// GET /api/v1/events/:id/committee
func GetEventCommittee(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	members, err := services.NewCommitteeService(reviewDeps).ListForEvent(c.Request.Context(), eventID, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": members})
}

// GET /api/v1/committees/mine
func GetMyCommittees(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	memberships, err := services.NewCommitteeService(reviewDeps).ListMine(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": memberships})
}

// POST /api/v1/events/:id/committee
func AddCommitteeMember(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CommitteeMemberInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	member, err := services.NewCommitteeService(reviewDeps).Add(c.Request.Context(), eventID, uid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Committee member added successfully",
		"data":    member,
	})
}

// PUT /api/v1/committees/:id
func UpdateCommitteeMember(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CommitteeRoleUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	member, err := services.NewCommitteeService(reviewDeps).UpdateRole(c.Request.Context(), id, uid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Committee member updated successfully",
		"data":    member,
	})
}

// DELETE /api/v1/committees/:id
func RemoveCommitteeMember(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := services.NewCommitteeService(reviewDeps).Remove(c.Request.Context(), id, uid); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Committee member removed successfully"})
}
