package remote

import (
	"log/slog"
	"net/http"
	"time"
)

// LoggingTransport logs every round trip at debug level, failures at warn.
type LoggingTransport struct {
	Base   http.RoundTripper
	Logger *slog.Logger
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	res, err := t.Base.RoundTrip(req)
	if err != nil {
		t.Logger.Warn("request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"error", err,
			"duration", time.Since(start),
		)
		return nil, err
	}
	t.Logger.Debug("request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", res.StatusCode,
		"duration", time.Since(start),
	)
	return res, nil
}
