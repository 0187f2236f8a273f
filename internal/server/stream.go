package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matzehuels/siteplan/pkg/errors"
)

const (
	// optionsWait is how long a stream client has to send its options.
	optionsWait = 10 * time.Second

	writeWait = 10 * time.Second

	// progressBuffer holds progress frames awaiting the writer. Frames are
	// dropped when it is full so the runs never wait on the client.
	progressBuffer = 64
)

// streamMessage is a frame sent to stream clients.
type streamMessage struct {
	Type     string            `json:"type"`
	Run      int               `json:"run"`
	Fraction float64           `json:"fraction,omitempty"`
	Result   *optimizeResponse `json:"result,omitempty"`
	Error    *errorDetail      `json:"error,omitempty"`
}

// handleStream runs an optimization over a websocket. The client sends one
// options message, then receives progress frames followed by exactly one
// result or error frame, after which the server closes the connection.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(s.cfg.MaxBodyBytes)

	_ = conn.SetReadDeadline(time.Now().Add(optionsWait))
	_, data, err := conn.ReadMessage()
	if err != nil {
		s.logger.Debug("stream closed before options", "err", err)
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	opts, err := s.decodeOptions(data)
	if err != nil {
		s.sendStreamError(conn, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	// The client has nothing more to say; a read error means it went away.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	progress := make(chan streamMessage, progressBuffer)
	opts.Progress = func(run int, fraction float64) {
		select {
		case progress <- streamMessage{Type: "progress", Run: run, Fraction: fraction}:
		default:
		}
	}

	type outcome struct {
		resp optimizeResponse
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := s.runner.Execute(ctx, opts)
		if err != nil {
			done <- outcome{err: err}
			return
		}
		resp, err := newOptimizeResponse(res)
		done <- outcome{resp: resp, err: err}
	}()

	for {
		select {
		case msg := <-progress:
			if err := writeFrame(conn, msg); err != nil {
				cancel()
				<-done
				return
			}
		case out := <-done:
			s.drain(conn, progress)
			if out.err != nil {
				s.sendStreamError(conn, r, out.err)
				return
			}
			_ = writeFrame(conn, streamMessage{Type: "result", Result: &out.resp})
			closeNormal(conn)
			return
		}
	}
}

// drain flushes progress frames queued before the runs finished.
func (s *Server) drain(conn *websocket.Conn, progress <-chan streamMessage) {
	for {
		select {
		case msg := <-progress:
			if err := writeFrame(conn, msg); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (s *Server) sendStreamError(conn *websocket.Conn, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if statusFor(code) >= http.StatusInternalServerError {
		s.logger.Error("stream failed", "err", err, "request_id", RequestIDFrom(r.Context()))
	}
	_ = writeFrame(conn, streamMessage{Type: "error", Error: &errorDetail{
		Code:      code,
		Message:   errors.UserMessage(err),
		RequestID: RequestIDFrom(r.Context()),
	}})
	closeNormal(conn)
}

func writeFrame(conn *websocket.Conn, msg streamMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func closeNormal(conn *websocket.Conn) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}
