package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sagarc03/camfs"
	camfshttp "github.com/sagarc03/camfs/http"
)

// DefaultPort is the port the file server listens on when none is configured.
const DefaultPort = 81

// Messages stored in the error slot.
const (
	MsgConnectFailed     = "Cannot connect to WiFi as client"
	MsgAccessPointFailed = "Cannot start WiFi access point"
	MsgListenFailed      = "Cannot start file server"
)

// Config configures a Session.
type Config struct {
	Port        int
	MaxNumFiles int
	Backlog     int
	CORS        camfshttp.CORSConfig
	Logger      *slog.Logger
}

// ListenFunc opens the listener for the file server.
type ListenFunc func(network, address string) (net.Listener, error)

type Option func(*Session)

// WithListen replaces net.Listen.
func WithListen(fn ListenFunc) Option {
	return func(s *Session) {
		s.listen = fn
	}
}

// WithConnector replaces the connector built from the session's network.
func WithConnector(c *camfs.Connector) Option {
	return func(s *Session) {
		s.connector = c
	}
}

// Session owns the WiFi link and the file server for one device. Connect
// once, then call Handle repeatedly; each call serves at most one request.
//
// A Session is meant to be driven from a single goroutine. Only the
// listener's connection goroutines run concurrently, and they never touch
// session state.
type Session struct {
	config     Config
	network    camfs.Network
	connector  *camfs.Connector
	handler    *camfshttp.Handler
	dispatcher *camfshttp.Dispatcher
	listen     ListenFunc

	mode         camfs.Mode
	errorMessage string

	mu  sync.Mutex
	srv *http.Server
	ln  net.Listener
}

// New creates a session serving store. Port and MaxNumFiles fall back to
// DefaultPort and camfs.DefaultMaxNumFiles when not positive.
func New(cfg Config, network camfs.Network, store camfs.FileStore, opts ...Option) *Session {
	if cfg.Port <= 0 {
		cfg.Port = DefaultPort
	}
	if cfg.MaxNumFiles <= 0 {
		cfg.MaxNumFiles = camfs.DefaultMaxNumFiles
	}

	handler := camfshttp.NewHandler(&camfshttp.HandlerConfig{
		MaxNumFiles: cfg.MaxNumFiles,
		CORS:        cfg.CORS,
		Logger:      cfg.Logger,
	}, camfs.NewCatalog(store))

	s := &Session{
		config:     cfg,
		network:    network,
		handler:    handler,
		dispatcher: camfshttp.NewDispatcher(handler.Router(), cfg.Backlog),
		listen:     net.Listen,
		mode:       camfs.ModeClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.connector == nil {
		s.connector = camfs.NewConnector(network)
	}
	return s
}

// ConnectAsClient joins an existing network and starts the file server. It
// waits up to timeout for the link; a non-positive timeout means
// camfs.DefaultConnectTimeout. On failure the error message is set and
// false is returned.
func (s *Session) ConnectAsClient(ctx context.Context, creds camfs.Credentials, timeout time.Duration, opts ...camfs.ConnectOption) bool {
	s.errorMessage = ""
	s.mode = camfs.ModeClient

	if timeout <= 0 {
		timeout = camfs.DefaultConnectTimeout
	}

	if err := s.connector.Connect(ctx, creds, timeout, opts...); err != nil {
		slog.Warn("wifi connect failed", "ssid", creds.SSID, "timeout", timeout, "err", err)
		s.errorMessage = MsgConnectFailed
		return false
	}

	slog.Info("wifi connected", "ssid", creds.SSID, "ip", s.network.LocalIP())
	return s.Begin()
}

// BeginAccessPoint creates a network named creds.SSID and starts the file
// server on it.
func (s *Session) BeginAccessPoint(ctx context.Context, creds camfs.Credentials) bool {
	s.errorMessage = ""
	s.mode = camfs.ModeAccessPoint

	if err := s.connector.StartAccessPoint(ctx, creds); err != nil {
		slog.Warn("access point failed", "ssid", creds.SSID, "err", err)
		s.errorMessage = MsgAccessPointFailed
		return false
	}

	slog.Info("access point started", "ssid", creds.SSID, "ip", s.network.APIP())
	return s.Begin()
}

// Begin starts listening. Calling it again once listening is a no-op.
func (s *Session) Begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return true
	}

	addr := ":" + strconv.Itoa(s.config.Port)
	ln, err := s.listen("tcp", addr)
	if err != nil {
		slog.Error("listen failed", "addr", addr, "err", err)
		s.errorMessage = MsgListenFailed
		return false
	}

	srv := &http.Server{
		Handler:           s.dispatcher,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.srv = srv
	s.ln = ln

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
		}
	}()

	slog.Info("file server started", "addr", ln.Addr().String())
	return true
}

// Handle serves at most one pending request on the calling goroutine and
// reports whether it did.
func (s *Session) Handle() bool {
	return s.dispatcher.HandleClient()
}

// Serve handles requests until ctx is done or the session is shut down.
func (s *Session) Serve(ctx context.Context) error {
	return s.dispatcher.Serve(ctx)
}

// Shutdown stops accepting requests and closes the listener.
func (s *Session) Shutdown(ctx context.Context) error {
	_ = s.dispatcher.Close()

	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// SetMaxNumFiles changes how many files the index lists.
func (s *Session) SetMaxNumFiles(n int) {
	s.handler.SetMaxNumFiles(n)
}

func (s *Session) Mode() camfs.Mode {
	return s.mode
}

// ErrorMessage returns the message left by the last failed operation, or ""
// if it succeeded.
func (s *Session) ErrorMessage() string {
	return s.errorMessage
}

// Listening reports whether Begin has succeeded.
func (s *Session) Listening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ln != nil
}

// Addr returns the listener address, or nil before Begin.
func (s *Session) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Port returns the bound port once listening, otherwise the configured one.
func (s *Session) Port() int {
	if addr, ok := s.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return s.config.Port
}

// WelcomeMessage describes where the file server can be reached.
func (s *Session) WelcomeMessage() string {
	var ip net.IP
	if s.mode == camfs.ModeAccessPoint {
		ip = s.network.APIP()
	} else {
		ip = s.network.LocalIP()
	}
	if ip == nil {
		ip = net.IPv4zero
	}
	return fmt.Sprintf("FileServer listening at http://%s:%d", ip, s.Port())
}
