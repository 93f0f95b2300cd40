package server

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"go-upwork-opener/internal/messages"
)

// Transport is what the HTTP surface delivers requests to.
type Transport interface {
	PageURL() string
	Extract(ctx context.Context, req messages.ExtractRequest) (messages.ExtractResponse, error)
	Open(ctx context.Context, req messages.OpenRequest) (messages.OpenResponse, error)
}

type extractHTMLRequest struct {
	PageURL       string   `json:"pageUrl" binding:"required"`
	HTML          string   `json:"html"`
	MaxAgeMinutes *float64 `json:"maxAgeMinutes"`
}

type Server struct {
	transport Transport
	limiter   *rate.Limiter
	//tabs are never created by two requests at once
	openMu sync.Mutex
}

// New builds the server. openPerMinute <= 0 disables throttling of /v1/open.
func New(transport Transport, openPerMinute int) *Server {
	limit := rate.Inf
	if openPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(openPerMinute))
	}
	return &Server{
		transport: transport,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", s.health)
	v1 := r.Group("/v1")
	{
		v1.POST("/extract", s.extract)
		v1.POST("/extract-html", s.extractHTML)
		v1.POST("/open", s.throttle(), s.open)
	}
	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"page":   s.transport.PageURL(),
	})
}

func (s *Server) extract(c *gin.Context) {
	var req messages.ExtractRequest
	//an empty body means no age filter
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
	}

	resp, err := s.transport.Extract(c.Request.Context(), req)
	if err != nil {
		log.Printf("⚠️ Extract failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) extractHTML(c *gin.Context) {
	var req extractHTMLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	page := messages.StaticPage{PageURL: req.PageURL, Content: req.HTML}
	resp, err := messages.HandleExtract(c.Request.Context(), page, messages.ExtractRequest{MaxAgeMinutes: req.MaxAgeMinutes})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) open(c *gin.Context) {
	var req messages.OpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	s.openMu.Lock()
	defer s.openMu.Unlock()

	resp, err := s.transport.Open(c.Request.Context(), req)
	if err != nil {
		log.Printf("⚠️ Open failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) throttle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": "too many open requests, slow down"})
			return
		}
		c.Next()
	}
}
