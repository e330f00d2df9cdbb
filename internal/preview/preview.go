// Package preview serves the visible frame and the data status over HTTP so
// the panel can be watched from a browser.
package preview

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"log/slog"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/hako/durafmt"
	"golang.org/x/image/draw"

	"github.com/fkcurrie/f1-led-golang/internal/cache"
	"github.com/fkcurrie/f1-led-golang/internal/rotation"
	"github.com/fkcurrie/f1-led-golang/internal/types"
)

const maxScale = 32

// FrameSource provides the visible frame
type FrameSource interface {
	Front() *image.RGBA
}

// StatusSource provides the cache state
type StatusSource interface {
	Status() cache.UpdateStatus
	Snapshot() *types.Snapshot
	LastRefresh() time.Time
	NextRefresh() time.Time
	Interval() time.Duration
}

// StateSource provides the rotation state
type StateSource interface {
	State() rotation.State
}

// Status is the body of GET /status
type Status struct {
	Status        string    `json:"status"`
	Rotation      string    `json:"rotation,omitempty"`
	LastRefresh   time.Time `json:"last_refresh"`
	NextRefresh   time.Time `json:"next_refresh"`
	NextRefreshIn string    `json:"next_refresh_in"`
	Interval      string    `json:"interval"`
	Season        int       `json:"season,omitempty"`
	Round         int       `json:"round,omitempty"`
	Drivers       int       `json:"drivers"`
	Constructors  int       `json:"constructors"`
	Qualifying    bool      `json:"qualifying"`
	NextRace      string    `json:"next_race,omitempty"`
}

// Server is the preview HTTP server
type Server struct {
	app      *fiber.App
	frames   FrameSource
	cache    StatusSource
	rotation StateSource
	scale    int
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Server
type Option func(*Server)

// WithScale sets the default upscaling factor of /frame.png
func WithScale(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.scale = min(n, maxScale)
		}
	}
}

// WithRotation adds the rotation state to /status
func WithRotation(r StateSource) Option {
	return func(s *Server) { s.rotation = r }
}

// WithClock sets the clock used for the time until the next refresh
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates the server and its routes
func New(frames FrameSource, status StatusSource, opts ...Option) *Server {
	s := &Server{
		frames: frames,
		cache:  status,
		scale:  8,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
	})
	s.app.Get("/", s.index)
	s.app.Get("/frame.png", s.frame)
	s.app.Get("/status", s.status)
	return s
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown is called
func (s *Server) Listen(addr string) error {
	s.logger.Info("preview server listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

const indexHTML = `<!DOCTYPE html>
<html><head><title>F1 LED</title>
<style>body{background:#111;color:#ccc;font-family:monospace}img{image-rendering:pixelated}</style>
</head><body>
<img id="frame" src="/frame.png">
<pre id="status"></pre>
<script>
setInterval(function () {
  document.getElementById("frame").src = "/frame.png?t=" + Date.now();
  fetch("/status").then(r => r.json()).then(s => {
    document.getElementById("status").textContent = JSON.stringify(s, null, 2);
  });
}, 1000);
</script>
</body></html>
`

func (s *Server) index(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString(indexHTML)
}

func (s *Server) frame(c *fiber.Ctx) error {
	scale := c.QueryInt("scale", s.scale)
	if scale < 1 || scale > maxScale {
		return c.Status(fiber.StatusBadRequest).SendString("scale must be between 1 and " + strconv.Itoa(maxScale))
	}

	src := s.frames.Front()
	if src == nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString("No frame available")
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		s.logger.Warn("encode preview frame", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to encode image")
	}
	c.Set("Content-Type", "image/png")
	c.Set("Cache-Control", "no-store")
	return c.Send(buf.Bytes())
}

func (s *Server) status(c *fiber.Ctx) error {
	st := Status{
		Status:      s.cache.Status().String(),
		LastRefresh: s.cache.LastRefresh(),
		NextRefresh: s.cache.NextRefresh(),
		Interval:    durafmt.Parse(s.cache.Interval()).String(),
	}
	if s.rotation != nil {
		st.Rotation = s.rotation.State().String()
	}
	if !st.NextRefresh.IsZero() {
		left := st.NextRefresh.Sub(s.now())
		if left < 0 {
			left = 0
		}
		st.NextRefreshIn = durafmt.Parse(left.Truncate(time.Second)).LimitFirstN(2).String()
	}
	if snap := s.cache.Snapshot(); snap != nil {
		st.Season = snap.Season
		st.Round = snap.Round
		st.Drivers = len(snap.Drivers)
		st.Constructors = len(snap.Constructors)
		st.Qualifying = snap.Qualifying != nil
		if snap.NextRace != nil {
			st.NextRace = snap.NextRace.Name
		}
	}
	return c.JSON(st)
}
