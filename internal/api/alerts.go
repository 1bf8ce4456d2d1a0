package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Tasneem-netcode/TechSprint-App/internal/stream"
	"github.com/gin-gonic/gin"
)

const keepAliveInterval = 25 * time.Second

// alertStream pushes matching alert events to the client as server-sent
// events until the request context ends.
func (h *Handler) alertStream(c *gin.Context) {
	filter := stream.Filter{
		City:     c.Query("city"),
		Industry: c.Query("industry"),
	}
	if s := c.Query("min_score"); s != "" {
		score, err := strconv.Atoi(s)
		if err != nil || score < 0 || score > 100 {
			fail(c, http.StatusBadRequest, "min_score must be an integer between 0 and 100")
			return
		}
		filter.MinScore = score
	}

	id, events := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(id)

	slog.Info("alert stream opened", "subscriber_id", id, "city", filter.City, "industry", filter.Industry)
	defer slog.Info("alert stream closed", "subscriber_id", id)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case e, open := <-events:
			if !open {
				return
			}
			if !filter.Match(e) {
				continue
			}
			c.SSEvent("alert", e)
			c.Writer.Flush()
		case <-keepAlive.C:
			c.SSEvent("ping", "")
			c.Writer.Flush()
		}
	}
}
