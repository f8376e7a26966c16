// Package server is the HTTP delivery endpoint. Every response carries the
// CORS headers and a JSON content type; method misuse is the only non-200.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/abelbrown/courtside/internal/fallback"
	"github.com/abelbrown/courtside/internal/feeds"
	"github.com/abelbrown/courtside/internal/logging"
	"github.com/abelbrown/courtside/internal/otel"
)

// Route paths.
const (
	PathNews    = "/api/news"
	PathRefresh = "/api/refresh"
	PathEvents  = "/api/events"
	PathHealth  = "/healthz"
	PathMetrics = "/metrics"
)

// Response messages and notes.
const (
	MsgRefreshed        = "News data refreshed successfully"
	MsgMethodNotAllowed = "Method not allowed"
	NoteFallback        = "Using fallback data due to error"
)

// Runner produces the merged item list. *coord.Pipeline implements it.
type Runner interface {
	Run(ctx context.Context) []feeds.Item
}

// Options configures a Server.
type Options struct {
	Runner  Runner
	Sink    otel.Sink        // nil discards events
	Logger  *log.Logger      // nil discards request logs
	Ring    *otel.RingBuffer // nil disables /api/events
	Metrics http.Handler     // nil disables /metrics
	Now     func() time.Time
}

// Server serves the news contract over echo.
type Server struct {
	e      *echo.Echo
	runner Runner
	sink   otel.Sink
	logger *log.Logger
	ring   *otel.RingBuffer
	now    func() time.Time
}

// New creates a Server and registers its routes.
func New(opts Options) *Server {
	s := &Server{
		e:      echo.New(),
		runner: opts.Runner,
		sink:   otel.OrDiscard(opts.Sink),
		logger: opts.Logger,
		ring:   opts.Ring,
		now:    opts.Now,
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}

	e := s.e
	e.HideBanner = true
	e.HidePort = true

	e.Use(s.requestLogger())
	e.Use(middleware.Recover())
	e.Use(cors)

	e.Any(PathNews, s.handleNews, s.fallbackOnError)
	e.Any(PathRefresh, s.handleNews, s.fallbackOnError)

	e.GET(PathHealth, s.handleHealth)
	if s.ring != nil {
		e.GET(PathEvents, s.handleEvents)
	}
	if opts.Metrics != nil {
		e.GET(PathMetrics, echo.WrapHandler(opts.Metrics))
	}
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.e
}

// Start listens on addr until Shutdown. http.ErrServerClosed is not an error.
func (s *Server) Start(addr string) error {
	otel.Info(s.sink, otel.KindStartup, "server", "listening on "+addr)
	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	otel.Info(s.sink, otel.KindShutdown, "server", "shutting down")
	return s.e.Shutdown(ctx)
}

func (s *Server) timestamp() string {
	return feeds.CaptureTime(s.now()).Format(feeds.TimestampLayout)
}

func (s *Server) handleNews(c echo.Context) error {
	method := c.Request().Method
	switch method {
	case http.MethodOptions:
		return c.NoContent(http.StatusOK)
	case http.MethodGet, http.MethodPost:
	default:
		return c.JSON(http.StatusMethodNotAllowed, errorResponse{
			Success: false,
			Message: MsgMethodNotAllowed,
		})
	}

	items := s.runner.Run(c.Request().Context())
	if items == nil {
		items = []feeds.Item{}
	}

	if method == http.MethodPost {
		return c.JSON(http.StatusOK, refreshResponse{
			Success: true,
			Message: MsgRefreshed,
			Count:   len(items),
			Data:    items,
		})
	}
	return c.JSON(http.StatusOK, newsResponse{
		Success:   true,
		Data:      items,
		Timestamp: s.timestamp(),
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleEvents serves recent observability events. Query: limit (default
// 100), kind (prefix filter, e.g. "adapter.").
func (s *Server) handleEvents(c echo.Context) error {
	limit := 100
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, errorResponse{Success: false, Message: "invalid limit"})
		}
		limit = n
	}
	events := s.ring.Recent(limit, c.QueryParam("kind"))
	if events == nil {
		events = []otel.Event{}
	}
	return c.JSON(http.StatusOK, eventsResponse{Success: true, Count: len(events), Data: events})
}

// fallbackOnError turns a handler error or panic into the fallback
// response. The client always gets data.
func (s *Server) fallbackOnError(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = s.serveFallback(c, fmt.Errorf("panic: %v", r))
			}
		}()
		if herr := next(c); herr != nil {
			return s.serveFallback(c, herr)
		}
		return nil
	}
}

func (s *Server) serveFallback(c echo.Context, cause error) error {
	s.sink.Emit(otel.Event{
		Level: otel.LevelError,
		Kind:  otel.KindHTTPFallback,
		Comp:  "server",
		Err:   cause.Error(),
		Extra: map[string]any{"uri": c.Request().RequestURI},
	})
	if c.Response().Committed {
		return nil
	}
	return c.JSON(http.StatusOK, fallbackResponse{
		Success:   true,
		Data:      fallback.Bundle(s.now()),
		Timestamp: s.timestamp(),
		Note:      NoteFallback,
	})
}

// cors sets the cross-origin and content-type headers on every response.
func cors(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set(echo.HeaderAccessControlAllowOrigin, "*")
		h.Set(echo.HeaderAccessControlAllowHeaders, "Content-Type")
		h.Set(echo.HeaderAccessControlAllowMethods, "GET, POST, OPTIONS")
		h.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		return next(c)
	}
}

// requestLogger logs each request and emits an http.request event.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				s.logger.Info("request completed", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			} else {
				s.logger.Error("request failed", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "err", v.Error)
			}
			s.sink.Emit(otel.Event{
				Level:  otel.LevelDebug,
				Kind:   otel.KindHTTPRequest,
				Comp:   "server",
				Status: v.Status,
				Dur:    v.Latency,
				Extra:  map[string]any{"method": v.Method, "uri": v.URI},
			})
			return nil
		},
	})
}
