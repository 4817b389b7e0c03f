package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"bias-assessment-service/internal/app"
	"bias-assessment-service/internal/assessment"
	"bias-assessment-service/internal/domain"
	"bias-assessment-service/internal/metrics"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSHandler walks one respondent through the questions in order and submits
// the completed answer set.
type WSHandler struct {
	service  *app.AssessmentService
	logger   *zap.Logger
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.AssessmentService, logger *zap.Logger, m *metrics.Metrics) *WSHandler {
	return &WSHandler{
		service: service,
		logger:  logger,
		metrics: m,
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

type answerPayload struct {
	OptionIndex *int `json:"optionIndex"`
}

type startedPayload struct {
	SessionID string `json:"sessionId"`
	Total     int    `json:"total"`
}

type questionPayload struct {
	Index    int                   `json:"index"`
	Total    int                   `json:"total"`
	Question domain.PublicQuestion `json:"question"`
}

type resultPayload struct {
	Summary domain.ResultSummary `json:"summary"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs the guided flow. The partial answer
// set lives only in this goroutine; nothing is stored until the last answer.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := r.URL.Query().Get("sessionId")
	if strings.TrimSpace(sessionID) == "" {
		sessionID = h.service.NewSessionID()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	questions, err := h.service.PublicQuestions(ctx)
	if err != nil {
		h.logger.Error("ws load questions", zap.Error(err))
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "assessment unavailable"}})
		return
	}
	total := len(questions)

	out := newOutbox(16, func(msg outboundMessage[any]) error { return conn.WriteJSON(msg) }, func(err error) {
		h.logger.Debug("ws write error", zap.Error(err))
	})
	defer out.close()

	sendQuestion := func(i int) bool {
		return out.push("question", questionPayload{Index: i, Total: total, Question: questions[i]})
	}
	sendError := func(msg string) bool {
		return out.push("error", errorPayload{Message: msg})
	}

	if !out.push("started", startedPayload{SessionID: sessionID, Total: total}) || !sendQuestion(0) {
		return
	}

	answers := make(domain.AnswerSet, 0, total)
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.OptionIndex == nil {
				if !sendError("invalid answer payload") {
					return
				}
				continue
			}
			current := questions[len(answers)]
			if *payload.OptionIndex < 0 || *payload.OptionIndex >= len(current.Options) {
				if !sendError("optionIndex out of range") {
					return
				}
				continue
			}
			answers = append(answers, *payload.OptionIndex)
			if len(answers) < total {
				if !sendQuestion(len(answers)) {
					return
				}
				continue
			}

			saved, err := h.service.Submit(ctx, app.Submission{SessionID: sessionID, Answers: answers})
			if err != nil {
				h.logger.Error("ws submit failed", zap.String("session_id", sessionID), zap.Error(err))
				sendError("could not save result")
				return
			}
			summary := assessment.Summarize(saved)
			h.metrics.ObserveSubmission(summary.Interpretation.VisualTier)
			out.push("result", resultPayload{Summary: summary})
			return
		case "previous":
			if len(answers) > 0 {
				answers = answers[:len(answers)-1]
			}
			if !sendQuestion(len(answers)) {
				return
			}
		default:
			if !sendError("unsupported message type") {
				return
			}
		}
	}
}

// outbox serializes writes to one connection through a single writer
// goroutine. push never blocks once that writer has stopped.
type outbox struct {
	ch   chan outboundMessage[any]
	done chan struct{}
}

func newOutbox(size int, write func(outboundMessage[any]) error, onErr func(error)) *outbox {
	o := &outbox{
		ch:   make(chan outboundMessage[any], size),
		done: make(chan struct{}),
	}
	go func() {
		defer close(o.done)
		for msg := range o.ch {
			if err := write(msg); err != nil {
				onErr(err)
				return
			}
		}
	}()
	return o
}

// push queues a message and reports false when the writer is gone.
func (o *outbox) push(typ string, payload any) bool {
	select {
	case <-o.done:
		return false
	default:
	}
	select {
	case o.ch <- outboundMessage[any]{Type: typ, Payload: payload}:
		return true
	case <-o.done:
		return false
	}
}

// close flushes queued messages and waits for the writer.
func (o *outbox) close() {
	close(o.ch)
	<-o.done
}
