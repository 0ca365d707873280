// internal/middleware/logging.go

package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// LogMiddleware is an HTTP middleware that logs incoming requests using
// Logrus: method, path, remote and duration.
func LogMiddleware(logger *logrus.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path
			method := r.Method

			next.ServeHTTP(w, r)

			logger.WithFields(logrus.Fields{
				"method":   method,
				"path":     path,
				"duration": time.Since(start),
				"remote":   r.RemoteAddr,
			}).Info("HTTP Request")
		})
	}
}

// LogWebSocketConnect logs an accepted WebSocket upgrade with the
// negotiated subprotocol.
func LogWebSocketConnect(logger *logrus.Logger, remoteAddr, subprotocol string) {
	logger.WithFields(logrus.Fields{
		"remote":      remoteAddr,
		"subprotocol": subprotocol,
	}).Info("WebSocket connected")
}

// LogWebSocketDisconnect logs the end of a WebSocket session: the room
// the connection was seated in (empty if it never joined one) and the
// read error that ended it when there was one.
func LogWebSocketDisconnect(logger *logrus.Logger, remoteAddr, roomID string, err error) {
	fields := logrus.Fields{
		"remote": remoteAddr,
	}
	if roomID != "" {
		fields["room"] = roomID
	}
	if err != nil {
		fields["error"] = err
	}
	logger.WithFields(fields).Info("WebSocket disconnected")
}
