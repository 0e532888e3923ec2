// Package server exposes conversion over HTTP and WebSocket.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"pkt.systems/mdfancy"
	"pkt.systems/mdfancy/internal/cache"
	"pkt.systems/version"
)

const (
	// DefaultLiveDelay is how long the live endpoint waits for typing to
	// pause before converting.
	DefaultLiveDelay = 500 * time.Millisecond

	defaultShutdownTimeout = 10 * time.Second
	previewWidth           = 60
	maxBodyBytes           = 4 * mdfancy.MaxInputBytes
)

// Config configures a Server.
type Config struct {
	Addr             string
	Logger           *slog.Logger
	Cache            cache.Cache
	LiveDelay        time.Duration
	ShutdownTimeout  time.Duration
	StripFrontMatter bool
}

// Server converts documents for HTTP and WebSocket clients.
type Server struct {
	cfg        Config
	logger     *slog.Logger
	converters map[string]*mdfancy.Converter
	engine     *gin.Engine
	upgrader   websocket.Upgrader
}

// New builds a Server with one converter per built-in theme.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.LiveDelay <= 0 {
		cfg.LiveDelay = DefaultLiveDelay
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	s := &Server{
		cfg:        cfg,
		logger:     cfg.Logger,
		converters: make(map[string]*mdfancy.Converter),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	for _, name := range mdfancy.AvailableThemes() {
		theme, _ := mdfancy.ThemeByName(name)
		s.converters[name] = mdfancy.NewConverter(
			mdfancy.WithTheme(theme),
			mdfancy.WithLogger(cfg.Logger),
			mdfancy.WithFrontMatter(cfg.StripFrontMatter),
		)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(cfg.Logger))
	engine.GET("/healthz", s.handleHealth)
	v1 := engine.Group("/v1")
	v1.GET("/styles", s.handleStyles)
	v1.GET("/themes", s.handleThemes)
	v1.POST("/convert", s.handleConvert)
	v1.POST("/style", s.handleStyle)
	v1.GET("/live", s.handleLive)
	s.engine = engine
	return s
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

type convertRequest struct {
	Text  string `json:"text"`
	Theme string `json:"theme"`
}

type convertResponse struct {
	Output string            `json:"output"`
	Theme  string            `json:"theme"`
	Stats  mdfancy.TextStats `json:"stats"`
	Large  bool              `json:"large"`
	Cached bool              `json:"cached"`
}

type styleRequest struct {
	Text  string `json:"text"`
	Style string `json:"style"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"module":  version.Module(),
		"version": version.Current(),
	})
}

func (s *Server) handleStyles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"styles": mdfancy.Styles()})
}

func (s *Server) handleThemes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"themes":  mdfancy.AvailableThemes(),
		"default": mdfancy.DefaultTheme().Name(),
	})
}

func (s *Server) handleConvert(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	var req convertRequest
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		text, err := readUpload(c)
		if err != nil {
			abortError(c, err)
			return
		}
		req = convertRequest{Text: text, Theme: c.PostForm("theme")}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, err)
		return
	}
	if len(req.Text) > mdfancy.MaxInputBytes {
		abortError(c, mdfancy.ErrInputTooLarge)
		return
	}
	if err := mdfancy.ValidateInput([]byte(req.Text)); err != nil {
		abortError(c, err)
		return
	}
	name, conv, ok := s.converter(req.Theme)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown theme " + req.Theme})
		return
	}
	out, cached := s.convert(c.Request.Context(), name, conv, req.Text)
	c.JSON(http.StatusOK, convertResponse{
		Output: out,
		Theme:  name,
		Stats:  mdfancy.Stats(out),
		Large:  mdfancy.IsLargeInput(req.Text),
		Cached: cached,
	})
}

func (s *Server) handleStyle(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	var req styleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, err)
		return
	}
	style, ok := mdfancy.ParseStyle(req.Style)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown style " + req.Style})
		return
	}
	out := mdfancy.StyleText(req.Text, style)
	c.JSON(http.StatusOK, gin.H{"output": out, "style": style, "stats": mdfancy.Stats(out)})
}

func readUpload(c *gin.Context) (string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", err
	}
	if err := mdfancy.ValidateFile(fh.Filename, fh.Header.Get("Content-Type"), fh.Size); err != nil {
		return "", err
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	src, err := io.ReadAll(io.LimitReader(f, mdfancy.MaxInputBytes+1))
	if err != nil {
		return "", err
	}
	return string(src), nil
}

func (s *Server) converter(theme string) (string, *mdfancy.Converter, bool) {
	t, ok := mdfancy.ThemeByName(theme)
	if !ok {
		return "", nil, false
	}
	conv, ok := s.converters[t.Name()]
	return t.Name(), conv, ok
}

// convert runs conv over text, consulting the cache first. A faulted
// conversion yields the fallback message and is not cached.
func (s *Server) convert(ctx context.Context, theme string, conv *mdfancy.Converter, text string) (string, bool) {
	var key string
	if s.cfg.Cache != nil {
		key = cache.Key(theme, text)
		out, ok, err := s.cfg.Cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("cache get failed", "error", err)
		} else if ok {
			return out, true
		}
	}
	out, err := conv.Convert(text)
	if err != nil {
		s.logger.Error("conversion failed", "theme", theme, "error", err)
		return mdfancy.FallbackMessage, false
	}
	s.logger.Debug("converted", "theme", theme, "chars", len(text), "preview", mdfancy.Truncate(out, previewWidth))
	if s.cfg.Cache != nil {
		if err := s.cfg.Cache.Set(ctx, key, out); err != nil {
			s.logger.Warn("cache set failed", "error", err)
		}
	}
	return out, false
}

func abortError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, mdfancy.ErrInputTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, mdfancy.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusBadRequest
	}
}
