// Package ws frames a client's event stream over a websocket, for clients
// that prefer it to the SSE endpoint. The socket is server-to-client only;
// inbound frames are drained solely to detect the close.
package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/akarpov/roulette/internal/app"
	"github.com/akarpov/roulette/internal/domain"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Controller struct {
	Service   *app.Service
	KeepAlive time.Duration
}

func (ctl *Controller) Handle(c *gin.Context) {
	id := domain.ClientID(c.Query("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing id"})
		return
	}
	q, err := ctl.Service.Subscribe(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Msg("ws upgrade")
		return
	}
	defer conn.Close()

	log.Info().Str("module", "adapters.ws").Str("client", string(id)).Msg("event stream opened")

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	go readLoop(cancel, conn)

	ctl.writePump(ctx, id, q, conn)
}

func (ctl *Controller) writePump(ctx context.Context, id domain.ClientID, q *app.Queue, conn *websocket.Conn) {
	defer log.Info().Str("module", "adapters.ws").Str("client", string(id)).Msg("event stream closed")

	if err := writeEvent(conn, domain.NewStatusEvent("Connected to event stream.")); err != nil {
		return
	}

	for {
		ev, ok := q.Poll(ctx, ctl.KeepAlive)
		if !ok {
			if ctx.Err() != nil || q.Closed() {
				return
			}
			deadline := time.Now().Add(writeWait)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				log.Warn().Err(err).Str("module", "adapters.ws").Msg("ping failed")
				return
			}
			continue
		}
		if err := writeEvent(conn, ev); err != nil {
			log.Warn().Err(err).Str("module", "adapters.ws").Msg("write failed")
			return
		}
	}
}

func writeEvent(conn *websocket.Conn, ev domain.Event) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(ev)
}

// readLoop drains inbound frames so control messages are processed and the
// write side learns about a closed connection.
func readLoop(cancel context.CancelFunc, conn *websocket.Conn) {
	defer cancel()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
