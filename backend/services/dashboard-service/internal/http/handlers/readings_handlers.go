package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"voltboard/backend/services/dashboard-service/internal/models"
)

// ReadingsFeed is the feed surface the REST handlers expose.
type ReadingsFeed interface {
	Snapshot(ctx context.Context) (models.Table, error)
	Delta(ctx context.Context, watermark *time.Time) (models.Table, error)
}

// readingsResponse carries a table plus the watermark a client should use for
// its next delta request. The watermark is null when the table is empty and
// no input watermark was supplied.
type readingsResponse struct {
	Rows      models.Table `json:"rows"`
	Watermark *time.Time   `json:"watermark"`
}

// NewSnapshotHandler returns GET /api/readings/snapshot handler.
func NewSnapshotHandler(feed ReadingsFeed, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, err := feed.Snapshot(r.Context())
		if err != nil {
			logger.Error("snapshot fetch failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, "failed to fetch snapshot")
			return
		}
		writeJSON(w, http.StatusOK, responseFor(table, nil))
	}
}

// NewDeltaHandler returns GET /api/readings/delta handler. The `after` query
// parameter is the watermark, RFC 3339. A missing watermark yields an empty
// table rather than the full history; a malformed one is a client error.
func NewDeltaHandler(feed ReadingsFeed, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var watermark *time.Time
		if raw := strings.TrimSpace(r.URL.Query().Get("after")); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "after must be an RFC 3339 timestamp")
				return
			}
			watermark = &parsed
		}

		table, err := feed.Delta(r.Context(), watermark)
		if err != nil {
			logger.Error("delta fetch failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, "failed to fetch delta")
			return
		}
		writeJSON(w, http.StatusOK, responseFor(table, watermark))
	}
}

func responseFor(table models.Table, fallback *time.Time) readingsResponse {
	if table == nil {
		table = models.Table{}
	}
	watermark := fallback
	if last, ok := table.LastTimestamp(); ok {
		watermark = &last
	}
	return readingsResponse{Rows: table, Watermark: watermark}
}
