package monitor

import (
	"bytes"
	"crypto/subtle"
	"io"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// maxLogTail is how much of the end of the log file /logs returns.
const maxLogTail = 256 << 10

var startedAt = time.Now()

// RegisterStatusRoute exposes uptime and database reachability for the process monitor.
func RegisterStatusRoute(router *gin.Engine, db *gorm.DB) {
	router.GET("/monitor/status", func(c *gin.Context) {
		dbStatus := "ok"
		if sqlDB, err := db.DB(); err != nil {
			dbStatus = err.Error()
		} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			dbStatus = err.Error()
		}

		status := http.StatusOK
		if dbStatus != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"status":     dbStatus,
			"started_at": startedAt.UTC().Format(time.RFC3339),
			"uptime":     time.Since(startedAt).Round(time.Second).String(),
			"goroutines": runtime.NumGoroutine(),
			"go_version": runtime.Version(),
		})
	})
}

// RegisterLogsRoute serves the tail of the backend log file to holders of token.
// An empty token leaves the route unregistered.
func RegisterLogsRoute(router *gin.Engine, logPath, token string) {
	if token == "" {
		return
	}
	router.GET("/logs", func(c *gin.Context) {
		if subtle.ConstantTimeCompare([]byte(c.Query("token")), []byte(token)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		logData, err := readTail(logPath, maxLogTail)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to read log"})
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", logData)
	})
}

func readTail(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	offset := info.Size() - limit
	if offset <= 0 {
		return io.ReadAll(f)
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	// start on a whole line
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		data = data[i+1:]
	}
	return data, nil
}
