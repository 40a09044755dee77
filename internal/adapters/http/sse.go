package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/akarpov/roulette/internal/domain"
)

// events streams a client's outbound channel as server-sent events. The
// stream never ends on its own; when the channel stays idle past the
// keep-alive window a comment line goes out so proxies keep the connection
// open. The loop's lifetime is tied to the request context, so a dropped
// connection releases the blocked reader.
func (h *Handlers) events(c *gin.Context) {
	id := domain.ClientID(c.Query("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing id"})
		return
	}
	q, err := h.Service.Subscribe(id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	log.Info().Str("module", "adapters.http").Str("client", string(id)).Msg("event stream opened")
	defer log.Info().Str("module", "adapters.http").Str("client", string(id)).Msg("event stream closed")

	// Opening status event so the client treats the stream as live.
	if err := writeSSE(c.Writer, domain.NewStatusEvent("Connected to event stream.")); err != nil {
		return
	}

	ctx := c.Request.Context()
	for {
		ev, ok := q.Poll(ctx, h.Config.KeepAlive)
		if !ok {
			if ctx.Err() != nil || q.Closed() {
				return
			}
			if _, err := fmt.Fprint(c.Writer, ": keep-alive\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
			continue
		}
		if err := writeSSE(c.Writer, ev); err != nil {
			return
		}
	}
}

func writeSSE(w gin.ResponseWriter, ev domain.Event) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, ev.Data); err != nil {
		return err
	}
	w.Flush()
	return nil
}
