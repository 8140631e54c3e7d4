package host

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/dhframe/pkg/render"
)

// Client messages.
const (
	msgRerun = "rerun"
	msgEnd   = "end"
)

// message is a server reply on the WebSocket.
type message struct {
	Type    string `json:"type"`
	HTML    string `json:"html,omitempty"`
	Rerun   uint64 `json:"rerun,omitempty"`
	Message string `json:"message,omitempty"`
}

// serveWebSocket reruns the page on every "rerun" message and sends the new
// body back.
func (h *Host) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		http.Error(w, "missing session cookie", http.StatusBadRequest)
		return
	}
	id := c.Value

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.httpMetrics.RecordWebSocketError("upgrade")
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	for {
		conn.SetReadDeadline(time.Now().Add(h.config.ReadTimeout))

		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				h.httpMetrics.RecordWebSocketError("read")
				h.logger.Error("read error", "session_id", id, "error", err)
			}
			return
		}

		var reply message
		switch string(msg) {
		case msgRerun:
			reply = h.rerunMessage(r, id)
		case msgEnd:
			h.sessions.Remove(id)
			h.logger.Debug("session ended", "session_id", id)
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
			return
		default:
			reply = message{Type: "error", Message: "unknown message: " + string(msg)}
		}

		if err := ctx.Err(); err != nil {
			return
		}
		if err := conn.WriteJSON(reply); err != nil {
			h.httpMetrics.RecordWebSocketError("write")
			h.logger.Debug("write error", "session_id", id, "error", err)
			return
		}
	}
}

func (h *Host) rerunMessage(r *http.Request, id string) message {
	sc, page, err := h.rerunSession(r.Context(), id)
	if err != nil {
		return message{Type: "error", Message: err.Error()}
	}

	html, err := render.String(page)
	if err != nil {
		return message{Type: "error", Message: err.Error()}
	}
	return message{Type: "render", HTML: html, Rerun: sc.Reruns()}
}

// clientScript connects the page to /ws and swaps the body on every render
// reply. Call dhframeRerun() to rerun the page.
const clientScript = `(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  ws.onmessage = function (e) {
    var m = JSON.parse(e.data);
    if (m.type === "render") {
      document.getElementById("page").innerHTML = m.html;
    } else if (m.type === "error") {
      console.error("dhframe:", m.message);
    }
  };
  window.dhframeRerun = function () {
    if (ws.readyState === WebSocket.OPEN) {
      ws.send("rerun");
    }
  };
})();`
