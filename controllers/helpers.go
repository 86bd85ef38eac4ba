package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"conference-review-api/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var reviewDeps services.Dependencies

// UseDependencies sets the collaborators handed to the review services. Zero fields fall
// back to the database-backed defaults.
func UseDependencies(deps services.Dependencies) {
	reviewDeps = deps
}

func getCurrentUserID(c *gin.Context) (uint, bool) {
	if v, ok := c.Get("userID"); ok {
		switch t := v.(type) {
		case uint:
			return t, t > 0
		case int:
			return uint(t), t > 0
		case float64:
			return uint(t), t > 0
		}
	}
	return 0, false
}

// currentUser responds 401 and returns false when the caller is not authenticated.
func currentUser(c *gin.Context) (uint, bool) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
	}
	return uid, ok
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func parseIntOrDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func pageFromQuery(c *gin.Context) services.Page {
	return services.Page{
		Page:  parseIntOrDefault(c.Query("page"), 1),
		Limit: parseIntOrDefault(c.Query("per_page"), 0),
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
}

// respondError maps workflow errors to their status code; anything else is a 500.
func respondError(c *gin.Context, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		body := gin.H{
			"success": false,
			"error":   svcErr.Message,
			"code":    svcErr.Code,
		}
		if len(svcErr.Fields) > 0 {
			body["errors"] = svcErr.Fields
		}
		c.JSON(svcErr.HTTPStatus(), body)
		return
	}

	logrus.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
	}).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
}
