package rpc

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"decentraspace/core"
	"decentraspace/observability/metrics"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeServerError    = -32000
	codeUnauthorized   = -32001
	codeRateLimited    = -32020

	codeAlreadyRegistered = -32050
	codeNotRegistered     = -32051
	codeInvalidInput      = -32052
	codeNotFound          = -32053
	codeOwnerOnly         = -32054
	codeRoomNotLive       = -32055
	codeSelfTip           = -32056
	codeTransferFailed    = -32057
)

// TokenEnv names the environment variable holding the RPC bearer token.
const TokenEnv = "DSPACE_RPC_TOKEN"

// Server exposes the ledger over JSON-RPC 2.0.
type Server struct {
	ledger *core.Ledger
	log    *slog.Logger

	authToken string

	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	rateLimit rate.Limit
	rateBurst int
}

// ServerOption customises a Server at construction time.
type ServerOption func(*Server)

// WithLogger routes server logs through logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.log = logger
		}
	}
}

// WithRateLimit overrides the per-source mutation rate limit.
func WithRateLimit(perSecond float64, burst int) ServerOption {
	return func(s *Server) {
		if perSecond > 0 {
			s.rateLimit = rate.Limit(perSecond)
		}
		if burst > 0 {
			s.rateBurst = burst
		}
	}
}

// NewServer wires a JSON-RPC server around the ledger. The bearer token is
// read from DSPACE_RPC_TOKEN; when unset, mutating methods are open, which
// is only acceptable for local development.
func NewServer(ledger *core.Ledger, opts ...ServerOption) *Server {
	s := &Server{
		ledger:    ledger,
		log:       slog.Default(),
		authToken: strings.TrimSpace(os.Getenv(TokenEnv)),
		limiters:  make(map[string]*rate.Limiter),
		rateLimit: rate.Limit(5),
		rateBurst: 10,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router assembles the HTTP surface: JSON-RPC on /, prometheus exposition
// on /metrics, liveness on /healthz.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Post("/", s.handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// Start serves the router on addr until the listener fails.
func (s *Server) Start(addr string) error {
	if s.authToken == "" {
		s.log.Warn("RPC auth token not configured; mutating methods are unauthenticated", "env", TokenEnv)
	}
	s.log.Info("starting JSON-RPC server", "addr", addr)
	return http.ListenAndServe(addr, s.Router())
}

// RPCRequest is a JSON-RPC 2.0 request envelope.
type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      int               `json:"id"`
}

// RPCResponse is a JSON-RPC 2.0 response envelope.
type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

// RPCError carries the failure kind back to the caller.
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

// requireAuth enforces the bearer token on mutating methods when one is
// configured.
func (s *Server) requireAuth(r *http.Request) *RPCError {
	if s.authToken == "" {
		return nil
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return &RPCError{Code: codeUnauthorized, Message: "missing bearer token"}
	}
	provided := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if subtle.ConstantTimeCompare([]byte(provided), []byte(s.authToken)) != 1 {
		return &RPCError{Code: codeUnauthorized, Message: "invalid bearer token"}
	}
	return nil
}

func (s *Server) limiterFor(source string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	limiter, ok := s.limiters[source]
	if !ok {
		limiter = rate.NewLimiter(s.rateLimit, s.rateBurst)
		s.limiters[source] = limiter
	}
	return limiter
}

func sourceOf(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// handle is the main request handler that routes to specific handlers.
func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	defer func() {
		_ = reader.Close()
	}()

	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(reader)
	if err != nil {
		status := http.StatusBadRequest
		message := "failed to read request body"
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
			message = fmt.Sprintf("request body exceeds %d bytes", maxRequestBytes)
		}
		writeError(w, status, nil, codeInvalidRequest, message, err.Error())
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeError(w, http.StatusBadRequest, nil, codeInvalidRequest, "request body required", nil)
		return
	}

	req := &RPCRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload", err.Error())
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported jsonrpc version", req.JSONRPC)
		return
	}
	if strings.TrimSpace(req.Method) == "" {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "method required", nil)
		return
	}

	if mutatingMethods[req.Method] {
		if authErr := s.requireAuth(r); authErr != nil {
			metrics.RPC().ObserveRequest(req.Method, "unauthorized")
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		if !s.limiterFor(sourceOf(r)).Allow() {
			metrics.RPC().ObserveRequest(req.Method, "rate_limited")
			writeError(w, http.StatusTooManyRequests, req.ID, codeRateLimited, "rate limit exceeded", nil)
			return
		}
	}

	s.dispatch(w, req)
}

var mutatingMethods = map[string]bool{
	"creator_register": true,
	"creator_update":   true,
	"content_upload":   true,
	"content_view":     true,
	"room_create":      true,
	"room_setStatus":   true,
	"room_join":        true,
	"room_leave":       true,
	"tip_creator":      true,
	"tip_content":      true,
	"tip_room":         true,
}

func (s *Server) dispatch(w http.ResponseWriter, req *RPCRequest) {
	switch req.Method {
	case "creator_register":
		s.handleCreatorRegister(w, req)
	case "creator_update":
		s.handleCreatorUpdate(w, req)
	case "creator_get":
		s.handleCreatorGet(w, req)
	case "creator_isRegistered":
		s.handleCreatorIsRegistered(w, req)
	case "creator_featured":
		s.handleCreatorFeatured(w, req)
	case "content_upload":
		s.handleContentUpload(w, req)
	case "content_view":
		s.handleContentView(w, req)
	case "content_get":
		s.handleContentGet(w, req)
	case "content_latest":
		s.handleContentLatest(w, req)
	case "content_byCreator":
		s.handleContentByCreator(w, req)
	case "room_create":
		s.handleRoomCreate(w, req)
	case "room_setStatus":
		s.handleRoomSetStatus(w, req)
	case "room_join":
		s.handleRoomJoin(w, req)
	case "room_leave":
		s.handleRoomLeave(w, req)
	case "room_get":
		s.handleRoomGet(w, req)
	case "room_active":
		s.handleRoomActive(w, req)
	case "room_byCreator":
		s.handleRoomByCreator(w, req)
	case "tip_creator":
		s.handleTipCreator(w, req)
	case "tip_content":
		s.handleTipContent(w, req)
	case "tip_room":
		s.handleTipRoom(w, req)
	case "space_getPlatformStats":
		s.handlePlatformStats(w, req)
	case "space_getBalance":
		s.handleGetBalance(w, req)
	default:
		metrics.RPC().ObserveRequest(req.Method, "not_found")
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, "method not found", req.Method)
	}
}
