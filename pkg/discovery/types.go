package discovery

import (
	"errors"
	"fmt"
	"net"

	"github.com/homeweb-protocol/homeweb-go/pkg/model"
)

// Service type and domain for HomeWeb announcements.
const (
	ServiceType = "_homeweb._tcp"
	Domain      = "local."

	// MaxInstanceNameLen bounds the mDNS instance name.
	MaxInstanceNameLen = 63
)

// Discovery errors.
var (
	ErrMissingRequired = errors.New("missing required TXT field")
	ErrInvalidUUID     = errors.New("invalid device identifier")
	ErrNotAnnounceable = errors.New("root is not attached to a dispatcher")
)

// Info describes one announced root device.
type Info struct {
	// InstanceName is the mDNS instance name. Defaults to
	// "HomeWeb-<first uuid group>" when empty.
	InstanceName string

	// UUID is the root's device identifier.
	UUID string

	// TypeURN is the root's type identity string.
	TypeURN string

	// Location is the absolute URL of the root page.
	Location string

	// DisplayName is the root's display name (optional).
	DisplayName string

	// Port is the TCP port the dispatcher serves on.
	Port int
}

// instanceName returns the effective mDNS instance name, bounded to
// MaxInstanceNameLen.
func (i *Info) instanceName() string {
	name := i.InstanceName
	if name == "" {
		group := i.UUID
		if len(group) >= 8 {
			group = group[:8]
		}
		name = fmt.Sprintf("HomeWeb-%s", group)
	}
	if len(name) > MaxInstanceNameLen {
		name = name[:MaxInstanceNameLen]
	}
	return name
}

// RootInfo builds announcement info for an attached root on interface
// address ifc. Returns ErrNotAnnounceable when the root has no live
// dispatcher yet, since its location would have no usable port.
func RootInfo(root *model.RootDevice, ifc net.IP) (*Info, error) {
	if !root.Attached() {
		return nil, ErrNotAnnounceable
	}
	return &Info{
		UUID:        root.UUID(),
		TypeURN:     root.TypeIdentity(),
		Location:    root.Location(ifc),
		DisplayName: root.DisplayName(),
		Port:        root.ServerPort(),
	}, nil
}
