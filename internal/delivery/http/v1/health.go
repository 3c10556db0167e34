package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const apiVersion = "1.0.0"

func (h *handlerImpl) HandleHealth(c *gin.Context) {
	database := "connected"
	if _, err := h.tasks.CountTasksByStatus(c); err != nil {
		database = "unavailable"
	}

	googleAPIs := "not_configured"
	if h.mail.Ready() {
		googleAPIs = "ready"
	}

	respondSuccess(c, http.StatusOK, "API is healthy", gin.H{
		"status":      "healthy",
		"version":     apiVersion,
		"database":    database,
		"google_apis": googleAPIs,
	})
}

// HandleServerTime reports the server's local and UTC clocks so clients
// can align due date input with what the scheduler will compare against.
func (h *handlerImpl) HandleServerTime(c *gin.Context) {
	now := time.Now()
	zone, offsetSeconds := now.Zone()

	respondSuccess(c, http.StatusOK, "System time information", gin.H{
		"system_local_time": now.Format("2006-01-02 15:04:05"),
		"server_utc_time":   now.UTC().Format("2006-01-02 15:04:05"),
		"timestamp_iso":     now.Format("2006-01-02T15:04:05"),
		"timestamp_unix":    now.Unix(),
		"timezone_name":     zone,
		"timezone_offset":   offsetSeconds / 3600,
		"date_only":         now.Format("2006-01-02"),
		"time_only":         now.Format("15:04:05"),
	})
}
