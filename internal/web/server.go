package web

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"modguard/internal/logging"
	"modguard/internal/watchdog"
)

// Server is a tiny keep-alive HTTP surface. Hosting platforms ping it to
// decide whether the process is alive; it exposes no mutations.
type Server struct {
	addr      string
	startedAt time.Time
	dog       *watchdog.Watchdog
	srv       *fasthttp.Server
}

func NewServer(addr string, dog *watchdog.Watchdog) *Server {
	return &Server{addr: addr, startedAt: time.Now(), dog: dog}
}

type healthResponse struct {
	Status        string          `json:"status"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	Components    map[string]bool `json:"components"`
}

func (s *Server) handler(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/":
		ctx.SetContentType("text/plain; charset=utf-8")
		fmt.Fprint(ctx, "Bot is alive!")
	case "/health":
		components := map[string]bool{}
		status := "ok"
		if s.dog != nil {
			components = s.dog.GetStatus()
			for _, healthy := range components {
				if !healthy {
					status = "degraded"
				}
			}
		}
		body, err := json.Marshal(healthResponse{
			Status:        status,
			UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
			Components:    components,
		})
		if err != nil {
			ctx.SetStatusCode(fasthttp.StatusInternalServerError)
			return
		}
		ctx.SetContentType("application/json")
		ctx.SetBody(body)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}
}

// Start serves in the background. A failed listen is logged, not fatal; the
// bot works without the keep-alive surface.
func (s *Server) Start() {
	s.srv = &fasthttp.Server{
		Handler:      s.handler,
		Name:         "modguard",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	go func() {
		logging.Info("Web server listening on %s", s.addr)
		if err := s.srv.ListenAndServe(s.addr); err != nil {
			logging.Error("Web server stopped: %v", err)
		}
	}()
}

func (s *Server) Stop() error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown()
}
