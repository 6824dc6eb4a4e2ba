package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fosdem/glcaps/lib/glctx"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(req *http.Request) bool {
		return true
	},
}

// CapsEvent is pushed to every websocket client when the registry's
// current context changes. Report is nil when the slot was cleared.
type CapsEvent struct {
	Event  string      `json:"event"`
	Report *CapsReport `json:"report"`
}

func (a *Api) handleWebsocket(w http.ResponseWriter, req *http.Request) {
	ws, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		http.Error(w, fmt.Sprintf("couldn't make websocket: %s", err), 400)
		return
	}
	defer func(ws *websocket.Conn) {
		err := ws.Close()
		if err != nil {
			log.Printf("could not close websocket: %s\n", err.Error())
		}
	}(ws)

	a.wsMu.Lock()
	a.wsClients[ws] = true
	a.wsMu.Unlock()

	// the websocket is push-only; reads just detect the client
	// going away
	for {
		_, _, err := ws.ReadMessage()
		if err != nil {
			a.wsMu.Lock()
			delete(a.wsClients, ws)
			a.wsMu.Unlock()
			break
		}
	}
}

func (a *Api) broadcastCurrentChanged(ctx *glctx.Context) {
	event := CapsEvent{Event: "current-changed"}
	if ctx != nil {
		event.Report = reportFor(ctx)
	}
	packet, err := json.Marshal(event)
	if err != nil {
		return
	}

	a.wsMu.Lock()
	defer a.wsMu.Unlock()
	for ws := range a.wsClients {
		err = ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err != nil {
			log.Printf("could not set write deadline: %s\n", err.Error())
			continue
		}
		if err := ws.WriteMessage(websocket.TextMessage, packet); err != nil {
			delete(a.wsClients, ws)
		}
	}
}
