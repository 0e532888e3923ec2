package server

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"pkt.systems/mdfancy"
	"pkt.systems/mdfancy/internal/debounce"
)

type liveMessage struct {
	Output string            `json:"output"`
	Stats  mdfancy.TextStats `json:"stats"`
	Large  bool              `json:"large"`
	Error  string            `json:"error,omitempty"`
}

// handleLive converts each text frame once the client pauses for
// LiveDelay. Frames arriving during the pause replace the pending text.
func (s *Server) handleLive(c *gin.Context) {
	name, conv, ok := s.converter(c.Query("theme"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown theme " + c.Query("theme")})
		return
	}
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBodyBytes)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var writeMu sync.Mutex
	d := debounce.New(s.cfg.LiveDelay)
	defer d.Stop()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				s.logger.Debug("websocket read ended", "error", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		text := string(data)
		d.Trigger(func() {
			msg := s.liveReply(ctx, name, conv, text)
			writeMu.Lock()
			defer writeMu.Unlock()
			if err := conn.WriteJSON(msg); err != nil {
				s.logger.Debug("websocket write failed", "error", err)
			}
		})
	}
}

func (s *Server) liveReply(ctx context.Context, theme string, conv *mdfancy.Converter, text string) liveMessage {
	if len(text) > mdfancy.MaxInputBytes {
		return liveMessage{Error: mdfancy.ErrInputTooLarge.Error()}
	}
	if err := mdfancy.ValidateInput([]byte(text)); err != nil {
		return liveMessage{Error: err.Error()}
	}
	out, _ := s.convert(ctx, theme, conv, text)
	return liveMessage{
		Output: out,
		Stats:  mdfancy.Stats(out),
		Large:  mdfancy.IsLargeInput(text),
	}
}
