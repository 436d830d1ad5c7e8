package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"isit-trivia/internal/app"
	"isit-trivia/internal/domain"
)

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewWSHandler(service *app.GameService, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startCustomPayload struct {
	Categories []string `json:"categories"`
	Scoring    string   `json:"scoring"`
}

type answerPayload struct {
	Categories []string `json:"categories"`
}

type answerResult struct {
	Item         string            `json:"item"`
	Correct      bool              `json:"correct"`
	Selected     []string          `json:"selected"`
	Acceptable   []string          `json:"acceptable"`
	Missed       []string          `json:"missed"`
	Descriptions map[string]string `json:"descriptions"`
	Score        int               `json:"score"`
}

type finishedPayload struct {
	Snapshot app.Snapshot          `json:"snapshot"`
	History  []domain.AnswerRecord `json:"history"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and runs one player's game over the connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		http.Error(w, "missing playerId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	log := h.logger.With(zap.String("player", playerID))

	joined, err := h.service.Join(ctx, playerID)
	if err != nil {
		log.Error("join failed", zap.Error(err))
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.Leave(context.Background(), playerID)

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	// Single writer; gorilla connections do not support concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "joined", Payload: joined}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		for _, msg := range h.dispatch(ctx, playerID, inbound) {
			send <- msg
		}
	}

	close(send)
	<-writerDone
}

// dispatch handles one inbound message and returns the replies in order.
func (h *WSHandler) dispatch(ctx context.Context, playerID string, inbound inboundMessage) []outboundMessage[any] {
	switch inbound.Type {
	case "startCustom":
		var payload startCustomPayload
		if len(inbound.Payload) > 0 {
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				return errorReply("invalid startCustom payload")
			}
		}
		var scoring domain.ScoringMode
		if payload.Scoring != "" {
			mode, err := domain.ParseScoringMode(payload.Scoring)
			if err != nil {
				return errorReply(err.Error())
			}
			scoring = mode
		}
		snap, err := h.service.StartCustom(ctx, playerID, payload.Categories, scoring)
		if err != nil {
			return errorReply(err.Error())
		}
		return h.progressReply(ctx, playerID, snap)

	case "startDaily":
		snap, err := h.service.StartDaily(ctx, playerID)
		if err != nil {
			h.logger.Error("start daily failed", zap.String("player", playerID), zap.Error(err))
			return errorReply(err.Error())
		}
		return h.progressReply(ctx, playerID, snap)

	case "question":
		snap, err := h.service.Current(ctx, playerID)
		if err != nil {
			return errorReply(err.Error())
		}
		return h.progressReply(ctx, playerID, snap)

	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorReply("invalid answer payload")
		}
		outcome, err := h.service.Answer(ctx, playerID, payload.Categories)
		if err != nil {
			if !errors.Is(err, domain.ErrNoActiveGame) && !errors.Is(err, domain.ErrGameFinished) {
				h.logger.Error("answer failed", zap.String("player", playerID), zap.Error(err))
			}
			return errorReply(err.Error())
		}
		result := outboundMessage[any]{Type: "answerResult", Payload: answerResult{
			Item:         outcome.Record.Item.Name,
			Correct:      outcome.Record.WasCorrect,
			Selected:     outcome.Record.Selected,
			Acceptable:   outcome.Record.Acceptable,
			Missed:       outcome.Record.MissedFalsePositives,
			Descriptions: outcome.Descriptions,
			Score:        outcome.Snapshot.Score,
		}}
		return append([]outboundMessage[any]{result}, h.progressReply(ctx, playerID, outcome.Snapshot)...)

	default:
		return errorReply("unsupported message type")
	}
}

// progressReply sends the next question, or the results once the game is over.
func (h *WSHandler) progressReply(ctx context.Context, playerID string, snap app.Snapshot) []outboundMessage[any] {
	if snap.Phase == domain.PhaseInProgress {
		return []outboundMessage[any]{{Type: "question", Payload: snap}}
	}
	if snap.Phase != domain.PhaseFinished {
		return errorReply(domain.ErrNoActiveGame.Error())
	}
	history, err := h.service.History(ctx, playerID)
	if err != nil {
		return errorReply(err.Error())
	}
	return []outboundMessage[any]{{Type: "finished", Payload: finishedPayload{Snapshot: snap, History: history}}}
}

func errorReply(message string) []outboundMessage[any] {
	return []outboundMessage[any]{{Type: "error", Payload: errorPayload{Message: message}}}
}
