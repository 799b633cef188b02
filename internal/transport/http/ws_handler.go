package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"hunger-insights/internal/app"
)

type WSHandler struct {
	service  *app.QuizService
	bankID   string
	log      *zap.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler serves quiz runs over websockets. defaultBank is used when the
// client does not name one.
func NewWSHandler(service *app.QuizService, defaultBank string, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		bankID:  defaultBank,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	Option *int `json:"option"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request, starts a run and drives it from client messages.
// Every accepted message is answered with the run's current state.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	bankID := r.URL.Query().Get("bank")
	if bankID == "" {
		bankID = h.bankID
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	run, err := h.service.Start(ctx, bankID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.End(ctx, run.ID)
	log := h.log.With(zap.String("run", run.ID), zap.String("bank", bankID))
	log.Debug("quiz run started")

	send := make(chan outboundMessage, 16)
	writerDone := make(chan struct{})

	// Single writer; gorilla connections do not support concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Warn("ws write error", zap.Error(err))
				return
			}
		}
	}()

	send <- state(run)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		next, err := h.handle(r, run.ID, inbound)
		if err != nil {
			send <- outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}}
			continue
		}
		send <- state(next)
	}

	close(send)
	<-writerDone
	log.Debug("quiz run closed")
}

func (h *WSHandler) handle(r *http.Request, runID string, msg inboundMessage) (app.Run, error) {
	ctx := r.Context()
	switch msg.Type {
	case "select":
		var payload selectPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Option == nil {
			return app.Run{}, errInvalidPayload
		}
		return h.service.Select(ctx, runID, *payload.Option)
	case "submit":
		return h.service.Submit(ctx, runID)
	case "next":
		return h.service.Advance(ctx, runID)
	case "retake":
		return h.service.Retake(ctx, runID)
	case "state":
		return h.service.Get(ctx, runID)
	default:
		return app.Run{}, errUnsupportedType
	}
}

func state(run app.Run) outboundMessage {
	return outboundMessage{Type: "state", Payload: app.View(run)}
}
