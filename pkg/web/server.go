package web

import (
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/homeweb-protocol/homeweb-go/pkg/log"
)

// ServerConfig holds configuration for the HTTP dispatcher server.
type ServerConfig struct {
	// Port to listen on. 0 selects an ephemeral port.
	Port int

	// Logger receives registration and request events. Nil disables logging.
	Logger log.Logger
}

// Server is the default Dispatcher implementation, backed by net/http.
// Paths are matched exactly: a registration for /root/device0 is not
// invoked for /root/device0/anything.
type Server struct {
	mu       sync.Mutex
	mux      *http.ServeMux
	server   *http.Server
	listener net.Listener
	logger   log.Logger
	port     int
	paths    map[string]bool
}

// NewServer creates a new dispatcher server with the given configuration.
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NoopLogger{}
	}
	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		port:   cfg.Port,
		paths:  make(map[string]bool),
	}
	s.server = &http.Server{Handler: s.mux}
	return s
}

// Register binds h to path. Invalid registrations (empty path, relative
// path, nil handler) and duplicates are silently ignored; the first
// registration for a path wins.
func (s *Server) Register(path string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h == nil || path == "" || path[0] != '/' {
		return
	}
	if s.paths[path] {
		return
	}
	s.paths[path] = true

	if !s.handle(path, h) {
		delete(s.paths, path)
		return
	}

	ev := log.NewEvent(log.CategoryRegistration)
	ev.Path = path
	s.logger.Log(ev)
}

// handle binds h to path on the mux. ServeMux parses registrations as
// patterns and rejects malformed ones (unbalanced braces, embedded
// spaces) with a panic; that is absorbed here and reported as false so
// a bad path is dropped like any other invalid registration.
func (s *Server) handle(path string, h Handler) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	s.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		// ServeMux routes subtree requests to the "/" pattern; the
		// dispatcher contract is exact matching only.
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		ctx := NewContext(w, r)
		h(ctx)

		ev := log.NewEvent(log.CategoryRequest)
		ev.Path = path
		ev.Status = ctx.Status()
		ev.RemoteAddr = r.RemoteAddr
		ev.Detail = r.Method
		s.logger.Log(ev)
	})
	return true
}

// Start begins listening and serving in a background goroutine.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	go func() {
		// ErrServerClosed after Close is the normal shutdown path
		_ = s.server.Serve(ln)
	}()
	return nil
}

// Port returns the port the server is listening on. Before Start is
// called this is the configured port (0 for ephemeral).
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
			return addr.Port
		}
	}
	return s.port
}

// Handler returns the underlying http.Handler, useful for tests and for
// mounting the dispatcher inside a larger server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Close stops the server. In-flight requests are aborted.
func (s *Server) Close() error {
	return s.server.Close()
}

// Compile-time interface satisfaction check.
var _ Dispatcher = (*Server)(nil)
