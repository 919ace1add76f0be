package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"jfk-emergence-service/internal/app"
	"jfk-emergence-service/internal/domain"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WSHandler struct {
	service      *app.AssessmentService
	defaultScale string
	log          *zap.Logger
	upgrader     websocket.Upgrader
}

func NewWSHandler(service *app.AssessmentService, defaultScale string, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		service:      service,
		defaultScale: defaultScale,
		log:          log,
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
	ItemID string `json:"itemId"`
	Value  *int   `json:"value"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

var errUnsupported = errors.New("unsupported message type")

// ServeWS upgrades HTTP requests to websockets and drives one assessment
// session per connection. The session is closed when the socket goes away.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	scaleID := r.URL.Query().Get("scale")
	if scaleID == "" {
		scaleID = h.defaultScale
	}
	log := h.log.With(zap.String("session", sessionID))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	view, err := h.service.Open(ctx, sessionID, scaleID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.Close(context.Background(), sessionID)

	out := newOutbox(16)
	var timers []*time.Timer

	go out.run(func(msg outboundMessage[any]) error {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warn("ws write error", zap.Error(err))
			return err
		}
		return nil
	})
	go func() {
		// reads stop once writes stop
		<-out.writerDone
		_ = conn.Close()
	}()

	out.emit(outboundMessage[any]{Type: "view", Payload: view})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		view, intent, err := h.dispatch(ctx, sessionID, inbound)
		alive := true
		if err != nil && !errors.Is(err, domain.ErrIncomplete) {
			alive = out.emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		}
		if alive && view.SessionID != "" {
			alive = out.emit(outboundMessage[any]{Type: "view", Payload: view})
		}
		if !alive {
			break
		}
		if intent != nil {
			focus := *intent
			timers = append(timers, time.AfterFunc(focus.Delay, func() {
				// the view may be gone by the time the delay elapses
				out.emit(outboundMessage[any]{Type: "focus", Payload: focus})
			}))
		}
	}

	out.close()
	for _, t := range timers {
		t.Stop()
	}
	<-out.writerDone
}

// outbox funnels messages from the reader and focus timers to a single
// writer goroutine.
type outbox struct {
	send         chan outboundMessage[any]
	closeSignals chan struct{}
	writerDone   chan struct{}
	closeOnce    sync.Once
}

func newOutbox(size int) *outbox {
	return &outbox{
		send:         make(chan outboundMessage[any], size),
		closeSignals: make(chan struct{}),
		writerDone:   make(chan struct{}),
	}
}

// run writes queued messages until the outbox is closed or write fails.
func (o *outbox) run(write func(outboundMessage[any]) error) {
	defer close(o.writerDone)
	for {
		select {
		case msg := <-o.send:
			if err := write(msg); err != nil {
				return
			}
		case <-o.closeSignals:
			return
		}
	}
}

// emit queues msg and reports false once the outbox is closed or the
// writer has stopped.
func (o *outbox) emit(msg outboundMessage[any]) bool {
	select {
	case <-o.closeSignals:
		return false
	case <-o.writerDone:
		return false
	default:
	}
	select {
	case o.send <- msg:
		return true
	case <-o.closeSignals:
		return false
	case <-o.writerDone:
		return false
	}
}

func (o *outbox) close() {
	o.closeOnce.Do(func() { close(o.closeSignals) })
}

func (h *WSHandler) dispatch(ctx context.Context, sessionID string, inbound inboundMessage) (app.View, *app.FocusIntent, error) {
	switch inbound.Type {
	case "start":
		view, err := h.service.Start(ctx, sessionID)
		return view, nil, err
	case "select":
		var payload selectPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return app.View{}, nil, errors.New("invalid select payload")
		}
		return h.service.Select(ctx, sessionID, payload.ItemID, payload.Value)
	case "submit":
		view, err := h.service.Submit(ctx, sessionID)
		return view, nil, err
	case "back":
		view, err := h.service.Back(ctx, sessionID)
		return view, nil, err
	case "save":
		view, err := h.service.Save(ctx, sessionID)
		return view, nil, err
	default:
		return app.View{}, nil, errUnsupported
	}
}
