package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"seatmap-backend/internal/partition"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Seat maps are public; viewers connect from any origin.
	CheckOrigin: func(*http.Request) bool { return true },
}

// LiveSeats handles the GET /ws upgrade request. The accepted connection
// receives the current snapshot immediately and a fresh snapshot after every
// successful booking on its flight, until either side closes.
func (h *Handler) LiveSeats(c *gin.Context) {
	p, ok := h.partition(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		log.Printf("flight %s: websocket upgrade failed: %v", p.FlightID, err)
		return
	}

	go serveSubscriber(p, conn)
}

// serveSubscriber pumps snapshots from the partition to one websocket. It
// unsubscribes and closes the connection whichever side terminates first;
// a closed connection never rejoins as the same subscriber.
func serveSubscriber(p *partition.Partition, conn *websocket.Conn) {
	ch, err := p.Subscribe(context.Background())
	if err != nil {
		log.Printf("flight %s: subscribe failed: %v", p.FlightID, err)
		conn.Close()
		return
	}
	defer func() {
		p.Unsubscribe(ch)
		conn.Close()
	}()

	// Inbound frames are discarded; the read loop exists to observe the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case payload, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
