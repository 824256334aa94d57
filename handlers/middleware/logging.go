// Package middleware provides HTTP middleware shared by all routes.
package middleware

import (
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/sirupsen/logrus"
)

// LoggingHandler logs one structured line per request: method, path,
// status, response size and duration in milliseconds.
func LoggingHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(h, rw, r)

		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.RequestURI,
			"remote":   r.RemoteAddr,
			"status":   m.Code,
			"size":     m.Written,
			"duration": float64(m.Duration.Microseconds()) / float64(1000),
		}).Info("HTTP request")
	})
}
