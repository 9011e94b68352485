package devserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/callbell/internal/api"
	"github.com/colonyops/callbell/internal/audio"
	"github.com/colonyops/callbell/internal/core/settings"
)

// Server exposes a Backend over HTTP.
type Server struct {
	backend *Backend
	logger  zerolog.Logger
	sound   []byte
}

func NewServer(backend *Backend, logger zerolog.Logger) *Server {
	return &Server{
		backend: backend,
		logger:  logger,
		// An 880Hz chime so the primary sound is audibly distinct from the
		// client's 440Hz fallback tone.
		sound: audio.SineWAV(880, 400*time.Millisecond, audio.ToneSampleRate, 0.8),
	}
}

func (s *Server) Routes() http.Handler {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger(), s.csrfMiddleware())

	engine.GET("/", s.handleIndex)
	engine.GET("/healthz", s.handleHealthz)
	engine.GET(api.PathSound, s.handleSound)

	engine.GET(api.PathNotifications, s.handleNotifications)
	engine.GET(api.PathSettings, s.handleSettings)
	engine.POST(api.PathSettingsSave, s.handleSaveSettings)

	engine.GET(api.PathCalls, s.handleCalls)
	engine.POST(api.PathCallAdd, s.handleAddCall)
	engine.POST(api.PathCallNoAnswer, s.callAction(s.backend.NoAnswer))
	engine.POST(api.PathCallPostpone, s.callAction(s.backend.Postpone))
	engine.POST(api.PathCallComplete, s.callAction(s.backend.Complete))

	engine.GET(api.PathTracking, s.handleTracking)

	return engine
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("dev backend listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

// csrfMiddleware issues a token cookie on safe requests that lack one and
// requires the X-CSRFToken header to match the cookie on every other
// request.
func (s *Server) csrfMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(api.CSRFCookie)

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
			if cookie == "" {
				c.SetSameSite(http.SameSiteLaxMode)
				c.SetCookie(api.CSRFCookie, uuid.NewString(), int((365 * 24 * time.Hour).Seconds()), "/", "", false, false)
			}
			c.Next()
			return
		}

		if cookie == "" || c.GetHeader(api.CSRFHeader) != cookie {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status": "error", "message": "CSRF verification failed"})
			return
		}
		c.Next()
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	c.String(http.StatusOK, "callbell dev backend")
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSound(c *gin.Context) {
	c.Data(http.StatusOK, "audio/wav", s.sound)
}

func (s *Server) handleNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": s.backend.DueNotifications()})
}

func (s *Server) handleSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.backend.Settings())
}

func (s *Server) handleSaveSettings(c *gin.Context) {
	cur := s.backend.Settings()

	next := settings.Settings{
		SoundEnabled: c.PostForm("sound_enabled") == "true",
		Volume:       cur.Volume,
		DarkTheme:    c.PostForm("dark_theme") == "true",
	}
	if raw, ok := c.GetPostForm("volume"); ok {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 || v > settings.MaxVolume {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid volume"})
			return
		}
		next.Volume = v
	}

	s.backend.SetSettings(next)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleCalls(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"calls": s.backend.Calls()})
}

func (s *Server) handleAddCall(c *gin.Context) {
	comment := c.PostForm("comment")
	phone := c.PostForm("phone")
	if comment == "" || phone == "" {
		c.String(http.StatusBadRequest, "comment and phone are required")
		return
	}

	var next time.Time
	if raw := c.PostForm("next_attempt"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02T15:04", raw, s.backend.loc)
		if err != nil {
			c.String(http.StatusBadRequest, "invalid next_attempt: %v", err)
			return
		}
		next = t
	}

	id := s.backend.AddCall(comment, phone, c.DefaultPostForm("call_type", CallTypeNoAnswer), next)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "id": id})
}

func (s *Server) handleTracking(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tracking": s.backend.Tracking()})
}

func (s *Server) callAction(fn func(id int) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.PostForm("id"))
		if err != nil {
			c.String(http.StatusBadRequest, "invalid id")
			return
		}

		if err := fn(id); err != nil {
			if errors.Is(err, ErrNotFound) {
				c.String(http.StatusNotFound, "call %d not found", id)
				return
			}
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
