package web

import (
	"net/http"
	"net/url"
)

// Handler is a synchronous request callback registered with a Dispatcher.
type Handler func(*Context)

// Dispatcher accepts absolute path registrations and routes inbound
// requests to the matching callback. It is the collaborator a node tree
// registers itself with; a root container holds exactly one Dispatcher
// handle for the rest of the process once attached.
type Dispatcher interface {
	// Register binds h to path. Path is an absolute string beginning
	// with '/'. The callback is invoked synchronously whenever an
	// inbound request's path matches exactly.
	Register(path string, h Handler)

	// Port returns the local TCP port the dispatcher serves on,
	// or 0 if not serving.
	Port() int
}

// Context is the opaque per-request handle passed to callbacks.
// A Context is valid only for the duration of the callback and must
// not be retained.
type Context struct {
	w      http.ResponseWriter
	r      *http.Request
	status int
}

// NewContext wraps an http request/response pair.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{w: w, r: r}
}

// Send writes the response with the given status and content type.
// Only the first Send per request takes effect; later calls are ignored.
func (c *Context) Send(status int, contentType string, body []byte) {
	if c.status != 0 {
		return
	}
	c.status = status
	c.w.Header().Set("Content-Type", contentType)
	c.w.WriteHeader(status)
	_, _ = c.w.Write(body)
}

// Path returns the request path.
func (c *Context) Path() string {
	return c.r.URL.Path
}

// Method returns the request method.
func (c *Context) Method() string {
	return c.r.Method
}

// Query returns the first value of the named query parameter.
func (c *Context) Query(key string) string {
	return c.r.URL.Query().Get(key)
}

// QueryValues returns all query parameters.
func (c *Context) QueryValues() url.Values {
	return c.r.URL.Query()
}

// RemoteAddr returns the peer address (IP:port).
func (c *Context) RemoteAddr() string {
	return c.r.RemoteAddr
}

// Status returns the status sent for this request, or 0 if nothing
// has been sent yet.
func (c *Context) Status() int {
	return c.status
}
