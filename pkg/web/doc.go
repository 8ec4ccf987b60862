// Package web defines the request dispatcher contract consumed by the
// node tree, and a default net/http-backed implementation.
//
// The tree only depends on the two-method Dispatcher interface: register
// a callback under an absolute path, and report the serving port. Any
// HTTP server can satisfy it; Server is a ready-made implementation with
// exact path matching and structured request logging.
package web
