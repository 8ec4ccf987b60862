package model

import (
	"fmt"
	"net"
	"net/http"

	"github.com/homeweb-protocol/homeweb-go/pkg/rtti"
	"github.com/homeweb-protocol/homeweb-go/pkg/web"
)

// MaxDevices is the fixed device capacity of a root container.
const MaxDevices = 8

// RootDisplayHandler overrides the root's aggregate page render.
type RootDisplayHandler func(*RootDevice, *web.Context)

// RootDevice is the unique top-level container: a Device that can hold
// up to MaxDevices embedded devices and owns the live dispatcher handle.
// One RootDevice is meant to exist per running process, composed once at
// start-up. There is no teardown.
//
// A root is Unattached from construction until the first Setup call
// hands it a dispatcher, and Attached from then on. The transition is
// one-directional: there is no detach. While attached, every insertion
// into the tree registers the new node immediately.
type RootDevice struct {
	Device

	devices    [MaxDevices]*Device
	numDevices int

	dispatcher web.Dispatcher

	rootDisplayHandler RootDisplayHandler
}

// NewRootDevice creates a root container. A blank target defaults to
// "root". A fresh identifier is generated; SetUUID replaces it.
func NewRootDevice(target string) *RootDevice {
	r := &RootDevice{}
	r.bind(r)
	if target == "" {
		target = "root"
	}
	r.SetTarget(target)
	r.SetDisplayName("Root Device")
	r.SetTypeIdentity(RootTypeURN)
	r.SetClassType(RootDeviceClass)
	r.uuid = GenerateUUID()

	// The root's own page lists its embedded devices; the aggregate
	// page collects every device's summary fragment.
	r.SetContentFormatter(r.formatContent)
	r.SetRootContentFormatter(r.formatRootContent)
	return r
}

// Attached reports whether the root holds a live dispatcher handle.
func (r *RootDevice) Attached() bool {
	return r.dispatcher != nil
}

// Dispatcher returns the live dispatcher handle, or nil when unattached.
func (r *RootDevice) Dispatcher() web.Dispatcher {
	return r.dispatcher
}

// ServerPort returns the dispatcher's port, or 0 when unattached.
func (r *RootDevice) ServerPort() int {
	if r.dispatcher == nil {
		return 0
	}
	return r.dispatcher.Port()
}

// NumDevices returns the number of embedded devices.
func (r *RootDevice) NumDevices() int {
	return r.numDevices
}

// DeviceAt returns the i'th embedded device in insertion order, or nil
// when i is out of range.
func (r *RootDevice) DeviceAt(i int) *Device {
	if i < 0 || i >= r.numDevices {
		return nil
	}
	return r.devices[i]
}

// Devices returns the embedded devices in insertion order.
func (r *RootDevice) Devices() []*Device {
	result := make([]*Device, r.numDevices)
	copy(result, r.devices[:r.numDevices])
	return result
}

// AddDevice adds the next device. A nil device or a full root is a
// silent no-op: the count does not change and the device is dropped.
// A blank target is assigned "device<N>" from the insertion index, and
// a fresh identifier is generated when the device has none. If the root
// is already attached, the device and its services are registered
// immediately (late binding).
func (r *RootDevice) AddDevice(dvc *Device) {
	if dvc == nil || r.numDevices >= MaxDevices {
		return
	}
	if dvc.Target() == "" {
		dvc.SetTarget(fmt.Sprintf("device%d", r.numDevices))
	}
	if dvc.uuid == "" {
		dvc.uuid = GenerateUUID()
	}
	r.devices[r.numDevices] = dvc
	r.numDevices++
	dvc.setParent(&r.Object)

	if r.Attached() {
		dvc.Setup(r.dispatcher)
	}
}

// Setup attaches the root to the dispatcher and registers the whole
// tree: the root's own page and services, the stylesheet, the aggregate
// page at /, then every embedded device depth-first in insertion order.
// The first call is the one-time attach event; the stored handle is
// never replaced.
func (r *RootDevice) Setup(d web.Dispatcher) {
	if r.dispatcher == nil {
		r.dispatcher = d
	}
	r.Device.Setup(d)
	d.Register("/styles.css", r.Styles)
	d.Register("/", r.DisplayRoot)
	for i := 0; i < r.numDevices; i++ {
		r.devices[i].Setup(d)
	}
}

// SetRootDisplayHandler installs an alternative aggregate page render.
func (r *RootDevice) SetRootDisplayHandler(h RootDisplayHandler) {
	r.rootDisplayHandler = h
}

// DisplayRoot responds with the aggregate page: header, every embedded
// device's summary fragment, a "This Device" button for the root's own
// page, footer.
func (r *RootDevice) DisplayRoot(ctx *web.Context) {
	if r.rootDisplayHandler != nil {
		r.rootDisplayHandler(r, ctx)
		return
	}
	buf := make([]byte, DisplaySize)
	pos := FormatHeader(buf, r.DisplayName())
	pos = r.FormatRootContent(buf, pos)
	pos = FormatTail(buf, pos)
	ctx.Send(http.StatusOK, "text/html", buf[:pos])
}

// Styles responds with the stylesheet for the whole tree.
func (r *RootDevice) Styles(ctx *web.Context) {
	ctx.Send(http.StatusOK, "text/css", []byte(StylesCSS))
}

// formatContent renders the root's own page content: one navigation
// button per embedded device.
func (r *RootDevice) formatContent(buf []byte, pos int) int {
	for i := 0; i < r.numDevices && pos < len(buf); i++ {
		d := r.devices[i]
		pos = AppendButton(buf, pos, d.Path(), d.DisplayName())
	}
	return pos
}

// formatRootContent renders the aggregate page content: every embedded
// device's summary fragment, then a "This Device" button.
func (r *RootDevice) formatRootContent(buf []byte, pos int) int {
	for i := 0; i < r.numDevices && pos < len(buf); i++ {
		pos = r.devices[i].FormatRootContent(buf, pos)
	}
	return AppendButton(buf, pos, r.Path(), "This Device")
}

// GetDeviceByClass returns this root if it is usable as class t,
// otherwise the first embedded device that is, in insertion order.
// Returns nil when nothing matches; a miss is not an error.
func (r *RootDevice) GetDeviceByClass(t *rtti.ClassType) *Device {
	if r.IsClassType(t) {
		return &r.Device
	}
	for i := 0; i < r.numDevices; i++ {
		if r.devices[i].IsClassType(t) {
			return r.devices[i]
		}
	}
	return nil
}

// GetDeviceByUUID returns this root if u equals its identifier,
// otherwise the first embedded device with that identifier. Returns nil
// when nothing matches.
func (r *RootDevice) GetDeviceByUUID(u string) *Device {
	if r.IsDevice(u) {
		return &r.Device
	}
	for i := 0; i < r.numDevices; i++ {
		if r.devices[i].IsDevice(u) {
			return r.devices[i]
		}
	}
	return nil
}

// DoDevice forwards one unit of work to every embedded device,
// depth-first in insertion order. This is the single point where
// background work for the whole tree is driven per external tick.
func (r *RootDevice) DoDevice() {
	for i := 0; i < r.numDevices; i++ {
		r.devices[i].DoDevice()
	}
}

// RootLocation returns the bare root URL for interface address ifc.
func (r *RootDevice) RootLocation(ifc net.IP) string {
	return fmt.Sprintf("http://%s:%d/", ifc, r.ServerPort())
}
