// Package server exposes the festival companion REST API and the websocket
// push endpoint.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/moment-festival/momentd/internal/festival"
	"github.com/moment-festival/momentd/internal/logging"
	"github.com/moment-festival/momentd/internal/push"
	"github.com/moment-festival/momentd/internal/storage"
	"github.com/moment-festival/momentd/internal/toast"
)

// Surface is the notification sink used by handlers to announce outcomes.
// *toast.Surface satisfies it.
type Surface interface {
	Show(kind toast.Kind, text string, opts ...toast.Option) string
}

// Server wires the store, the toast surface and the push hub into an HTTP
// handler.
type Server struct {
	store    storage.Store
	surface  Surface
	hub      *push.Hub
	upgrader websocket.Upgrader
}

// New creates a Server. hub may be nil when the push endpoint is not needed
// (tests mostly).
func New(store storage.Store, surface Surface, hub *push.Hub) *Server {
	return &Server{
		store:   store,
		surface: surface,
		hub:     hub,
		upgrader: websocket.Upgrader{
			// The companion app connects from mobile webviews with
			// arbitrary origins, mirroring the permissive CORS policy.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(), corsMiddleware())

	engine.GET("/healthz", s.handleHealthz)

	api := engine.Group("/api")
	api.GET("/festivals", s.handleListFestivals)
	api.GET("/festivals/:id", s.handleGetFestival)
	api.GET("/dj-profile", s.handleDJProfile)
	api.POST("/ticket-reservation", s.handleCreateReservation)
	api.GET("/nft-moments", s.handleListMoments)
	api.GET("/ws", s.handleWebsocket)

	return engine
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListFestivals(c *gin.Context) {
	festivals, err := s.store.ListFestivals(c.Request.Context())
	if err != nil {
		s.internalError(c, "list festivals", err)
		return
	}
	if festivals == nil {
		festivals = []festival.Festival{}
	}
	c.JSON(http.StatusOK, festivals)
}

func (s *Server) handleGetFestival(c *gin.Context) {
	f, err := s.store.GetFestival(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Festival not found"})
		return
	}
	if err != nil {
		s.internalError(c, "get festival", err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *Server) handleDJProfile(c *gin.Context) {
	p, err := s.store.GetDJProfile(c.Request.Context())
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "DJ Profile not found"})
		return
	}
	if err != nil {
		s.internalError(c, "get dj profile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleCreateReservation(c *gin.Context) {
	var req festival.ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	ctx := c.Request.Context()
	f, err := s.store.GetFestival(ctx, req.FestivalID)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Festival not found"})
		return
	}
	if err != nil {
		s.internalError(c, "validate festival", err)
		return
	}

	reservation := festival.NewReservation(req)
	if err := s.store.CreateReservation(ctx, reservation); err != nil {
		s.internalError(c, "create reservation", err)
		return
	}

	logging.Info("reservation created",
		"reservation_id", reservation.ID,
		"festival_id", reservation.FestivalID,
		"ticket_type", reservation.TicketType.String(),
		"quantity", reservation.Quantity,
		"email", reservation.Email)
	if s.surface != nil {
		s.surface.Show(toast.KindSuccess,
			fmt.Sprintf("Reservation confirmed for %s (%d x %s)", f.Name, reservation.Quantity, reservation.TicketType))
	}

	c.JSON(http.StatusOK, reservation)
}

func (s *Server) handleListMoments(c *gin.Context) {
	moments, err := s.store.ListMoments(c.Request.Context())
	if err != nil {
		s.internalError(c, "list moments", err)
		return
	}
	if moments == nil {
		moments = []festival.NFTMoment{}
	}
	c.JSON(http.StatusOK, moments)
}

func (s *Server) handleWebsocket(c *gin.Context) {
	if s.hub == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "push not enabled"})
		return
	}
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Warn("websocket upgrade failed", "error", err)
		return
	}
	s.hub.HandleConn(conn)
}

func (s *Server) internalError(c *gin.Context, op string, err error) {
	logging.Error("request failed", "op", op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
}

// requestLogger mirrors request outcomes into the structured logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logging.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status())
	}
}

// corsMiddleware allows all origins, mirroring the original backend.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
