package v1

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/adambalon/vcm-overlay/overlay"
	"github.com/adambalon/vcm-overlay/state"
	"github.com/gorilla/websocket"
	"github.com/shimmeringbee/logwrap"
)

var wsUpgrader = websocket.Upgrader{}

type websocketController struct {
	eventbus state.EventSubscriber
	display  displaySnapshotter
	logger   logwrap.Logger
}

const WebsocketConnectionEventBufferSize = 16

type websocketMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// mapEvent converts bus events into the wire envelope the page consumes.
// Events without a wire representation report false.
func mapEvent(e any) (websocketMessage, bool) {
	switch event := e.(type) {
	case overlay.DisplayUpdatedEvent:
		return websocketMessage{Type: "display", Payload: event.Current}, true
	case overlay.AttachedEvent:
		return websocketMessage{Type: "attached", Payload: event}, true
	case overlay.DetachedEvent:
		return websocketMessage{Type: "detached", Payload: event}, true
	case overlay.SearchingEvent:
		return websocketMessage{Type: "searching", Payload: event}, true
	case SubmissionEvent:
		return websocketMessage{Type: "submission", Payload: event}, true
	default:
		return websocketMessage{}, false
	}
}

func (c *websocketController) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer conn.Close()

	c.handleConnection(conn)
}

func (c *websocketController) handleConnection(conn *websocket.Conn) {
	eventsCh := make(chan any, WebsocketConnectionEventBufferSize)
	shutdownCh := make(chan struct{}, 1)

	c.eventbus.Subscribe(eventsCh)

	defer func() {
		c.eventbus.Unsubscribe(eventsCh)
		shutdownCh <- struct{}{}
		close(shutdownCh)
	}()

	go c.serviceOutgoing(conn, eventsCh, shutdownCh)
	c.serviceIncoming(conn)
}

func (c *websocketController) serviceOutgoing(conn *websocket.Conn, ch chan any, shutCh <-chan struct{}) {
	// The current display state first, so late joiners render immediately.
	initial := websocketMessage{Type: "display", Payload: c.display.Snapshot()}
	if !c.send(conn, initial) {
		return
	}

	for {
		select {
		case event := <-ch:
			message, ok := mapEvent(event)
			if !ok {
				continue
			}

			if !c.send(conn, message) {
				return
			}
		case <-shutCh:
			return
		}
	}
}

func (c *websocketController) send(conn *websocket.Conn, message websocketMessage) bool {
	data, err := json.Marshal(message)
	if err != nil {
		c.logger.LogError(context.Background(), "Failed to marshal message to websocket.", logwrap.Err(err))
		return false
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.logger.LogError(context.Background(), "Failed to send message to websocket.", logwrap.Err(err))
		return false
	}

	return true
}

func (c *websocketController) serviceIncoming(conn *websocket.Conn) {
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if _, ok := err.(*websocket.CloseError); ok {
				c.logger.LogDebug(context.Background(), "Websocket closed.", logwrap.Err(err))
				return
			}

			c.logger.LogError(context.Background(), "Failed to read message from websocket.", logwrap.Err(err))
			return
		}
	}
}
