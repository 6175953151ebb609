package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"salarypredict/ml"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
	wsMaxMessage = 8 << 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// formMessage is sent by the page on every widget change ("preview") and on
// submit ("predict").
type formMessage struct {
	Type  string      `json:"type"`
	Input ml.RawInput `json:"input"`
}

type formReply struct {
	Type    string      `json:"type"`
	Preview *ml.Preview `json:"preview,omitempty"`
	Result  *ml.Result  `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// handleFormSocket keeps the input table in sync with the form. Messages are
// handled one at a time, in arrival order.
func (h *Handler) handleFormSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	requestID := GetRequestID(r.Context())
	logger := h.logger.With(zap.String("request_id", requestID))

	conn.SetReadLimit(wsMaxMessage)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go pingLoop(conn, done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}

		reply := h.handleFormMessage(r, data)
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(reply); err != nil {
			logger.Warn("websocket write error", zap.Error(err))
			return
		}
	}
}

func (h *Handler) handleFormMessage(r *http.Request, data []byte) formReply {
	var msg formMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return formReply{Type: "error", Error: "invalid message: " + err.Error()}
	}
	switch msg.Type {
	case "preview":
		preview, err := h.predictor.Preview(msg.Input)
		if err != nil {
			return formReply{Type: "error", Error: err.Error()}
		}
		return formReply{Type: "preview", Preview: &preview}
	case "predict":
		result := h.predictor.Run(r.Context(), msg.Input)
		return formReply{Type: "result", Result: &result}
	default:
		return formReply{Type: "error", Error: "unknown message type " + msg.Type}
	}
}

func pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
