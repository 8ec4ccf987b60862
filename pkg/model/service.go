package model

import (
	"github.com/homeweb-protocol/homeweb-go/pkg/web"
)

// Service is a leaf node bound to exactly one request callback. It has
// no children. Service implementations either set a handler from the
// parent device, or wrap Service in their own type and install a
// concrete class identity for lookup.
type Service struct {
	Object

	handler web.Handler
}

// NewService creates a service with the given target. A blank target is
// assigned "service<N>" when the service is added to a device.
func NewService(target string) *Service {
	s := &Service{
		handler: func(*web.Context) {},
	}
	s.bind(s)
	s.SetTarget(target)
	s.SetDisplayName("Service")
	s.SetTypeIdentity(ServiceTypeURN)
	s.SetClassType(ServiceClass)
	return s
}

// SetHandler binds the request callback. A nil handler restores the no-op.
func (s *Service) SetHandler(h web.Handler) {
	if h == nil {
		h = func(*web.Context) {}
	}
	s.handler = h
}

// HandleRequest invokes the bound callback.
func (s *Service) HandleRequest(ctx *web.Context) {
	s.handler(ctx)
}

// Setup registers HandleRequest at this service's path. Called by the
// containing device during tree setup, or immediately on insertion when
// the tree is already attached.
func (s *Service) Setup(d web.Dispatcher) {
	d.Register(s.Path(), s.HandleRequest)
}
