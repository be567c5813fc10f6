package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/skip2/go-qrcode"

	"github.com/wricardo/kalambury/game/protocol"
	"github.com/wricardo/kalambury/game/service"
	"github.com/wricardo/kalambury/game/session"
	"github.com/wricardo/kalambury/transport/rest"
	"github.com/wricardo/kalambury/transport/websocket"
)

const (
	defaultQRSize = 320
	maxQRSize     = 1024
)

// Server represents the viewer API server
type Server struct {
	client    service.GameClient
	hub       *websocket.Hub
	router    *mux.Router
	publicURL string
}

// NewServer creates a new viewer API server
func NewServer(client service.GameClient, hub *websocket.Hub) *Server {
	s := &Server{
		client: client,
		hub:    hub,
		router: mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// SetPublicURL sets the URL encoded in the share QR code. Without it the
// request's host is used.
func (s *Server) SetPublicURL(url string) {
	s.publicURL = strings.TrimSuffix(url, "/")
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Login page actions
	api.HandleFunc("/login", s.handleLogin).Methods("POST")
	api.HandleFunc("/logout", s.handleLogout).Methods("POST")

	// Game state
	api.HandleFunc("/state", s.handleGetState).Methods("GET")
	api.HandleFunc("/canvas", s.handleGetCanvas).Methods("GET")

	// Chat channel
	api.HandleFunc("/chat", s.handleChat).Methods("POST")
	api.HandleFunc("/clear", s.handleClear).Methods("POST")

	// Drawing
	api.HandleFunc("/pointer", s.handlePointer).Methods("POST")
	api.HandleFunc("/stroke", s.handleStroke).Methods("POST")
	api.HandleFunc("/color", s.handleColor).Methods("POST")
	api.HandleFunc("/resize", s.handleResize).Methods("POST")

	// Sharing
	api.HandleFunc("/qr", s.handleQR).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Pages
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/", s.handleLoginPage).Methods("GET")
	s.router.HandleFunc("/"+string(service.RouteLogin), s.handleLoginPage).Methods("GET")
	s.router.HandleFunc("/"+string(service.RouteGame), s.handleGamePage).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps client errors to HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotLoggedIn):
		return http.StatusUnauthorized
	case errors.Is(err, rest.ErrLoginFailed), errors.Is(err, rest.ErrNullToken):
		return http.StatusUnauthorized
	case errors.Is(err, rest.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidColor),
		errors.Is(err, service.ErrTooFewPoints):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoDrawingRights):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotConnected), errors.Is(err, service.ErrAlreadyStarted):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Page Handlers

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	servePage(w, loginPage)
}

// handleGamePage sends viewers back to the entry page until a login succeeds
func (s *Server) handleGamePage(w http.ResponseWriter, r *http.Request) {
	if s.client.Route() != service.RouteGame {
		http.Redirect(w, r, "/"+string(service.RouteLogin), http.StatusFound)
		return
	}
	servePage(w, gamePage)
}

// Login Handlers

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.client.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	// Landing on the game page opens both channels
	if err := s.client.Start(r.Context()); err != nil && !errors.Is(err, service.ErrAlreadyStarted) {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.client.Logout(); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"route": string(service.RouteLogin)})
}

// State Handlers

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.client.State())
}

func (s *Server) handleGetCanvas(w http.ResponseWriter, r *http.Request) {
	sess := s.client.Session()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"size":     sess.CanvasSize(),
		"segments": sess.Segments(),
	})
}

// Chat Handlers

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.client.SendChat(req.Text); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.client.ClearCanvas(); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// Drawing Handlers

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string  `json:"action"`
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	at := protocol.Cartesian{X: req.X, Y: req.Y}
	switch req.Action {
	case "down":
		s.client.PointerDown(at)
		respondJSON(w, http.StatusOK, &service.StrokeResult{})
	case "move":
		respondJSON(w, http.StatusOK, s.client.PointerMove(at))
	case "up":
		s.client.PointerUp()
		respondJSON(w, http.StatusOK, &service.StrokeResult{})
	case "leave":
		s.client.PointerLeave()
		respondJSON(w, http.StatusOK, &service.StrokeResult{})
	default:
		respondError(w, http.StatusBadRequest, "Invalid action. Must be down, move, up, or leave")
	}
}

func (s *Server) handleStroke(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Points []protocol.Cartesian `json:"points"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.client.DrawStroke(req.Points)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// handleColor sets the color directly, or picks it from the hue strip and
// shade block given as fractions of each widget. An action drags over the
// shade block in block pixels, the way /api/pointer drags over the canvas.
func (s *Server) handleColor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Color  *string  `json:"color"`
		Hue    *float64 `json:"hue"`
		White  *float64 `json:"white"`
		Black  *float64 `json:"black"`
		Action string   `json:"action"`
		X      float64  `json:"x"`
		Y      float64  `json:"y"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var color string
	switch {
	case req.Action != "":
		switch req.Action {
		case "down":
			color = s.client.ShadeDown(req.X, req.Y)
		case "move":
			color = s.client.ShadeMove(req.X, req.Y)
		case "up":
			s.client.ShadeUp()
			color = s.client.State().Color
		default:
			respondError(w, http.StatusBadRequest, "Invalid action. Must be down, move, or up")
			return
		}

	case req.Color != nil:
		if err := s.client.SetColor(*req.Color); err != nil {
			respondError(w, statusFor(err), err.Error())
			return
		}
		color = strings.TrimSpace(*req.Color)

	case req.Hue != nil:
		color = s.client.PickHue(*req.Hue * session.DefaultStripHeight)
		if req.White != nil || req.Black != nil {
			white, black := 0.0, 0.0
			if req.White != nil {
				white = *req.White
			}
			if req.Black != nil {
				black = *req.Black
			}
			color = s.client.PickShade((1-white)*session.DefaultBlockSize, black*session.DefaultBlockSize)
		}

	default:
		respondError(w, http.StatusBadRequest, "one of color, hue or action is required")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"color": color})
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContainerWidth float64 `json:"container_width"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	size, err := s.client.Resize(req.ContainerWidth)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"size": size})
}

// Sharing Handlers

// handleQR renders a PNG QR code pointing at the game page
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	size := defaultQRSize
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxQRSize {
			respondError(w, http.StatusBadRequest, "Invalid size parameter")
			return
		}
		size = n
	}

	base := s.publicURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + r.Host
	}

	png, err := qrcode.Encode(base+"/"+string(service.RouteGame), qrcode.Medium, size)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"connected": s.client.State().Connected,
	})
}
