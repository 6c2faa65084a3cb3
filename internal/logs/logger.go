package logs

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	mu     sync.Mutex
	logger = log.New(os.Stdout, "", 0)
)

// SetOutput redirige les logs (utile pour les tests).
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

func LogJSON(level, message string, fields map[string]interface{}) {
	logEntry := map[string]interface{}{
		"severity": level, // "DEBUG", "INFO", "WARN", "ERROR" & "FATAL"
		"message":  message,
		"time":     time.Now().Format(time.RFC3339),
	}
	for k, v := range fields {
		logEntry[k] = v
	}
	jsonLog, _ := json.Marshal(logEntry)

	mu.Lock()
	defer mu.Unlock()
	logger.Println(string(jsonLog))
}

// RequestLogger remplace le logger texte de gin par une ligne JSON par requête.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := "INFO"
		switch {
		case status >= 500:
			level = "ERROR"
		case status >= 400:
			level = "WARN"
		}

		fields := map[string]interface{}{
			"method":  c.Request.Method,
			"route":   c.FullPath(),
			"path":    c.Request.URL.Path,
			"status":  status,
			"latency": time.Since(start).String(),
		}
		if userID := c.GetString("user_id"); userID != "" {
			fields["userID"] = userID
		}
		if len(c.Errors) > 0 {
			fields["error"] = c.Errors.String()
		}
		LogJSON(level, "request", fields)
	}
}
