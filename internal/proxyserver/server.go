// Package proxyserver is the aggregation daemon's HTTP surface: it polls
// the configured sources on demand and serves their stats and query feeds
// as one JSON API, keeping source credentials out of every response. The
// package also ships the matching client so the TUI can run through a
// daemon instead of polling sources itself.
package proxyserver

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/surajverma/pi-dash/internal/model"
	"github.com/surajverma/pi-dash/internal/pihole"
)

// Provider is the snapshot source the API serves from.
type Provider interface {
	model.SnapshotProvider
	Order() []string
}

// Config carries the daemon-side settings the API exposes and serves from.
type Config struct {
	Addr            string
	Instances       []model.Instance
	RefreshInterval time.Duration
	ShowQueries     bool
	LogCapacity     int
}

// Server serves the dashboard API over HTTP.
type Server struct {
	cfg       Config
	provider  Provider
	server    *http.Server
	listener  net.Listener
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates the API server; Start binds and serves it.
func NewServer(cfg Config, provider Provider) *Server {
	if cfg.Addr == "" {
		cfg.Addr = model.DefaultListenAddr
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = model.DefaultRefreshInterval
	}
	if cfg.LogCapacity <= 0 {
		cfg.LogCapacity = model.DefaultLogCapacity
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:      cfg,
		provider: provider,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins serving HTTP requests on the configured address.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.router(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Addr reports the bound address, useful when the config asked for :0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.cfg.Addr
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealth)
	r.GET("/api/init", s.handleInit)
	r.GET("/api/data", s.handleData)
	r.GET("/api/queries", s.handleQueries)
	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"uptime":  time.Since(s.startTime).String(),
		"sources": len(s.provider.Order()),
	})
}

// handleInit serves the dashboard bootstrap payload: the public slice of the
// configuration plus a first data snapshot, so a client needs one round trip
// to paint.
func (s *Server) handleInit(c *gin.Context) {
	snap, err := s.provider.Poll(c.Request.Context(), model.PollOpts{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"config": s.publicConfig(),
		"data":   statsPayload(snap),
	})
}

func (s *Server) handleData(c *gin.Context) {
	includeQueries := strings.EqualFold(c.DefaultQuery("include_queries", "false"), "true")
	length := queryLength(c)

	snap, err := s.provider.Poll(c.Request.Context(), model.PollOpts{
		IncludeQueries: includeQueries,
		QueryLength:    length,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	payload := gin.H{"stats": statsPayload(snap)}
	if includeQueries {
		payload["queries"] = queriesPayload(snap)
	}
	c.JSON(http.StatusOK, payload)
}

func (s *Server) handleQueries(c *gin.Context) {
	snap, err := s.provider.Poll(c.Request.Context(), model.PollOpts{
		IncludeQueries: true,
		QueryLength:    queryLength(c),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, queriesPayload(snap))
}

// publicConfig is what clients may learn about the configuration: names,
// display settings, and the address only when the instance opted into a
// click-through link. Passwords never leave the daemon.
func (s *Server) publicConfig() gin.H {
	instances := make([]gin.H, 0, len(s.cfg.Instances))
	for _, inst := range s.cfg.Instances {
		if !inst.Enabled {
			continue
		}
		item := gin.H{"name": inst.Name, "enabled": inst.Enabled, "link": inst.Link}
		if inst.Link {
			item["address"] = inst.Address
		}
		instances = append(instances, item)
	}
	return gin.H{
		"refresh_interval":   s.cfg.RefreshInterval.Milliseconds(),
		"piholes":            instances,
		"show_queries":       s.cfg.ShowQueries,
		"query_log_capacity": s.cfg.LogCapacity,
	}
}

func statsPayload(snap model.Snapshot) gin.H {
	out := gin.H{}
	for name, res := range snap.Results {
		if res.Err != nil {
			out[name] = gin.H{"error": res.Err.Error()}
			continue
		}
		out[name] = res.Summary
	}
	return out
}

func queriesPayload(snap model.Snapshot) map[string][]wireEvent {
	out := make(map[string][]wireEvent, len(snap.Results))
	for name, res := range snap.Results {
		if res.Err != nil {
			out[name] = []wireEvent{}
			continue
		}
		events := make([]wireEvent, 0, len(res.Events))
		for _, ev := range res.Events {
			events = append(events, toWire(ev))
		}
		out[name] = events
	}
	return out
}

func queryLength(c *gin.Context) int {
	length := model.DefaultQueryLength
	if raw := c.Query("length"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			length = n
		}
	}
	return pihole.ClampLength(length)
}
