package model

import (
	"fmt"
	"net"
	"strings"

	"github.com/homeweb-protocol/homeweb-go/pkg/rtti"
)

// Bounded string capacities, in usable characters.
const (
	// TargetSize bounds a node's relative path segment.
	TargetSize = 31
	// NameSize bounds a node's display name.
	NameSize = 31
)

// Default type identity strings. The grammar is
// urn:<domain>:<device|service>:<type>:<version>, colon-delimited.
const (
	ServiceTypeURN = "urn:homeweb-protocol-org:service:Basic:1.0.0"
	DeviceTypeURN  = "urn:homeweb-protocol-org:device:Basic:1.0.0"
	RootTypeURN    = "urn:homeweb-protocol-org:device:RootDevice:1.0.0"
)

// Class identities for the built-in node classes. Concrete subtypes
// declare their own with rtti.Subtype and install them via SetClassType.
var (
	ObjectClass     = rtti.New()
	ServiceClass    = rtti.Subtype(ObjectClass)
	DeviceClass     = rtti.Subtype(ObjectClass)
	RootDeviceClass = rtti.Subtype(DeviceClass)
)

// Role is the capability a node resolves to within the tree.
type Role uint8

const (
	// RoleNone is the absence of a resolved role.
	RoleNone Role = 0
	// RoleService marks a leaf node bound to one request callback.
	RoleService Role = 1
	// RoleDevice marks a composite node holding services.
	RoleDevice Role = 2
	// RoleRoot marks the top-level container owning the dispatcher handle.
	RoleRoot Role = 3
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleService:
		return "SERVICE"
	case RoleDevice:
		return "DEVICE"
	case RoleRoot:
		return "ROOT"
	default:
		return "NONE"
	}
}

// Node is implemented by every member of the tree.
type Node interface {
	Target() string
	DisplayName() string
	Role() Role
	Path() string
}

// Object is the addressable base embedded by Service and Device. It
// owns the bounded target and display name, the parent back-reference,
// and the type identity. Objects are referenced, never copied: the tree
// holds non-owning pointers to caller-managed instances.
type Object struct {
	target      string
	displayName string
	typeURN     string
	class       *rtti.ClassType
	parent      *Object

	// owner is the enclosing Service, Device or RootDevice; it resolves
	// the role of a node reached through a bare *Object parent link.
	owner Node
}

// bind ties the base to its enclosing node. Called once by constructors.
func (o *Object) bind(owner Node) {
	o.owner = owner
}

// SetTarget sets the relative path segment for this node. A single
// leading '/' is stripped; anything beyond TargetSize characters is
// truncated. Targets must be set before the root is attached for the
// registered paths to include them.
func (o *Object) SetTarget(target string) {
	target = strings.TrimPrefix(target, "/")
	if len(target) > TargetSize {
		target = target[:TargetSize]
	}
	o.target = target
}

// SetDisplayName sets the display name, truncating at NameSize.
func (o *Object) SetDisplayName(name string) {
	if len(name) > NameSize {
		name = name[:NameSize]
	}
	o.displayName = name
}

// Target returns the relative path segment.
func (o *Object) Target() string {
	return o.target
}

// DisplayName returns the display name.
func (o *Object) DisplayName() string {
	return o.displayName
}

// Parent returns the base of the containing node, or nil before
// insertion and for the root.
func (o *Object) Parent() *Object {
	return o.parent
}

// HasParent reports whether this node has been inserted into a composite.
func (o *Object) HasParent() bool {
	return o.parent != nil
}

// setParent records the containing node. The parent reference is set
// exactly once and never cleared or reassigned.
func (o *Object) setParent(p *Object) {
	if o.parent == nil {
		o.parent = p
	}
}

// Role resolves the capability of this node: service, device, root
// container, or none for an unbound base.
func (o *Object) Role() Role {
	switch o.owner.(type) {
	case *RootDevice:
		return RoleRoot
	case *Device:
		return RoleDevice
	case *Service:
		return RoleService
	}
	return RoleNone
}

// AsService resolves this node's service role, or nil.
func (o *Object) AsService() *Service {
	if s, ok := o.owner.(*Service); ok {
		return s
	}
	return nil
}

// AsDevice resolves this node's device role, or nil. A root container
// resolves to its embedded device.
func (o *Object) AsDevice() *Device {
	switch n := o.owner.(type) {
	case *RootDevice:
		return &n.Device
	case *Device:
		return n
	}
	return nil
}

// AsRoot resolves this node's root-container role, or nil.
func (o *Object) AsRoot() *RootDevice {
	if r, ok := o.owner.(*RootDevice); ok {
		return r
	}
	return nil
}

// Root walks to the topmost ancestor and resolves its root-container
// role. Returns nil if this node is not (yet) under a root container.
func (o *Object) Root() *RootDevice {
	top := o
	for top.parent != nil {
		top = top.parent
	}
	return top.AsRoot()
}

// Path returns the absolute path of this node: /rootTarget,
// /rootTarget/deviceTarget, or /rootTarget/deviceTarget/serviceTarget.
// Depth is inferred structurally: a node without a parent is the root;
// a node whose parent has a parent is a service under a device.
// Path is pure - two calls against the same tree state are identical.
func (o *Object) Path() string {
	p := o.parent
	if p == nil {
		return "/" + o.target
	}
	if p.parent != nil {
		return "/" + p.parent.target + "/" + p.target + "/" + o.target
	}
	return "/" + p.target + "/" + o.target
}

// HandlerPath returns Path with handlerName appended as a final segment.
// Useful for registering auxiliary callbacks under a node's subtree.
func (o *Object) HandlerPath(handlerName string) string {
	return o.Path() + "/" + handlerName
}

// Location returns the absolute URL of this node on interface address
// ifc, chaining the root location and each ancestor's target. Without a
// root-container ancestor the result is just the path.
func (o *Object) Location(ifc net.IP) string {
	if r := o.AsRoot(); r != nil {
		return fmt.Sprintf("http://%s:%d/%s", ifc, r.ServerPort(), o.target)
	}
	if o.parent == nil {
		return "/" + o.target
	}
	return o.parent.Location(ifc) + "/" + o.target
}

// SetTypeIdentity installs a concrete type identity string. The string
// must follow the urn:<domain>:<device|service>:<type>:<version> grammar
// for the token accessors below to be meaningful.
func (o *Object) SetTypeIdentity(urn string) {
	o.typeURN = urn
}

// TypeIdentity returns the type identity string.
func (o *Object) TypeIdentity() string {
	return o.typeURN
}

// IsType reports whether this node's type identity equals urn exactly.
func (o *Object) IsType(urn string) bool {
	return o.typeURN == urn
}

// token returns the i'th colon-delimited token of the type identity,
// or "" when out of range.
func (o *Object) token(i int) string {
	parts := strings.Split(o.typeURN, ":")
	if i < 0 || i >= len(parts) {
		return ""
	}
	return parts[i]
}

// Domain returns the domain token of the type identity (token 1).
func (o *Object) Domain() string {
	return o.token(1)
}

// Kind returns the device/service type token of the type identity (token 3).
func (o *Object) Kind() string {
	return o.token(3)
}

// Version returns the version token of the type identity (token 4).
func (o *Object) Version() string {
	return o.token(4)
}

// SetClassType installs a concrete class identity. The class should be
// declared with rtti.Subtype from ServiceClass, DeviceClass or
// RootDeviceClass so the built-in role checks keep holding.
func (o *Object) SetClassType(t *rtti.ClassType) {
	if t != nil {
		o.class = t
	}
}

// ClassType returns this node's class identity.
func (o *Object) ClassType() *rtti.ClassType {
	return o.class
}

// IsClassType reports whether this node is usable as class t, walking
// the declared parent chain.
func (o *Object) IsClassType(t *rtti.ClassType) bool {
	return o.class.IsA(t)
}
