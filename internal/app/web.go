// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/relabs-tech/compass/internal/config"
	"github.com/relabs-tech/compass/internal/display"
	"github.com/relabs-tech/compass/internal/heading"
	"github.com/relabs-tech/compass/internal/logging"
)

const wsWriteTimeout = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// headingView is the JSON sent to browsers: the report plus what the
// compass face should show.
type headingView struct {
	heading.Report
	Indicator display.Indicator `json:"indicator"`
}

type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) send(v headingView) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

type webServer struct {
	log      *zap.SugaredLogger
	dialSize int

	mu       sync.RWMutex
	last     headingView
	haveLast bool

	clientsMu sync.Mutex
	clients   map[*wsClient]struct{}
}

func newWebServer(dialSize int, logger *zap.SugaredLogger) *webServer {
	return &webServer{
		log:      logger,
		dialSize: dialSize,
		clients:  make(map[*wsClient]struct{}),
	}
}

// update stores r and pushes it to every websocket client.
func (s *webServer) update(r heading.Report) {
	view := headingView{Report: r, Indicator: display.NewIndicator(r.Heading)}

	s.mu.Lock()
	s.last = view
	s.haveLast = true
	s.mu.Unlock()

	s.clientsMu.Lock()
	clients := make([]*wsClient, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.clientsMu.Unlock()

	for _, c := range clients {
		if err := c.send(view); err != nil {
			s.log.Debugw("dropping websocket client", "error", err)
			s.removeClient(c)
		}
	}
}

func (s *webServer) latest() (headingView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.haveLast
}

func (s *webServer) removeClient(c *wsClient) {
	s.clientsMu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	s.clientsMu.Unlock()
	if ok {
		c.conn.Close()
	}
}

func (s *webServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/heading", s.handleHeading)
	mux.HandleFunc("/api/heading.png", s.handleDial)
	mux.HandleFunc("/ws/heading", s.handleWS)
	mux.Handle("/", http.FileServer(http.Dir("web")))
	return mux
}

func (s *webServer) handleHeading(w http.ResponseWriter, r *http.Request) {
	view, ok := s.latest()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(view); err != nil {
		s.log.Warnw("json encode error", "error", err)
	}
}

// handleDial renders the compass face. Before the first heading it shows
// an unrotated arrow with a placeholder label.
func (s *webServer) handleDial(w http.ResponseWriter, r *http.Request) {
	view, ok := s.latest()
	ind := view.Indicator
	if !ok {
		ind = display.Indicator{Label: "--° North"}
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := display.EncodePNG(w, display.Render(ind, s.dialSize)); err != nil {
		s.log.Warnw("dial render error", "error", err)
	}
}

func (s *webServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnw("websocket upgrade error", "error", err)
		return
	}

	c := &wsClient{conn: conn}
	s.clientsMu.Lock()
	s.clients[c] = struct{}{}
	s.clientsMu.Unlock()
	s.log.Debugw("websocket client connected", "remote", r.RemoteAddr)

	if view, ok := s.latest(); ok {
		if err := c.send(view); err != nil {
			s.removeClient(c)
			return
		}
	}

	// Clients only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.removeClient(c)
			return
		}
	}
}

// RunWeb subscribes to the heading topic and serves the latest heading as
// JSON, as a rendered dial and as a websocket stream.
func RunWeb(cfg *config.Config) error {
	logger := logging.New("web")
	srv := newWebServer(cfg.DialSize, logger)

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDWeb, logger, nil)
	if err != nil {
		return err
	}
	defer client.Disconnect(disconnectQuiesceMs)

	err = subscribe(client, cfg.TopicHeading, func(_ mqtt.Client, msg mqtt.Message) {
		var r heading.Report
		if err := json.Unmarshal(msg.Payload(), &r); err != nil {
			logger.Warnw("MQTT payload unmarshal error", "error", err)
			return
		}
		srv.update(r)
	})
	if err != nil {
		return err
	}
	logger.Infow("subscribed to heading topic", "topic", cfg.TopicHeading)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	logger.Infow("web server listening", "addr", addr)
	return http.ListenAndServe(addr, srv.routes())
}
