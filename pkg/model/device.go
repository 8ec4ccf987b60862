package model

import (
	"fmt"
	"net/http"

	"github.com/homeweb-protocol/homeweb-go/pkg/web"
)

// MaxServices is the fixed service capacity of a device.
const MaxServices = 8

// DisplayHandler overrides a device's own page render.
type DisplayHandler func(*Device, *web.Context)

// ContentFormatter appends a content fragment to buf at pos following
// the render buffer protocol, returning the advanced position.
type ContentFormatter func(buf []byte, pos int) int

// Device is a composite node holding up to MaxServices services. It
// renders itself in two modes: a full page of its own, and a summary
// fragment shown on the root page. Behavior is customized by setting
// formatter and work callbacks rather than by subclassing.
//
// Devices are composed from a single control thread; AddService is not
// safe for concurrent use.
type Device struct {
	Object

	services    [MaxServices]*Service
	numServices int

	uuid string

	displayHandler DisplayHandler
	contentFn      ContentFormatter
	rootContentFn  ContentFormatter
	workFn         func()
}

// NewDevice creates a device with the given target. A blank target is
// assigned "device<N>" when the device is added to a root.
func NewDevice(target string) *Device {
	d := &Device{}
	d.bind(d)
	d.SetTarget(target)
	d.SetDisplayName("Device")
	d.SetTypeIdentity(DeviceTypeURN)
	d.SetClassType(DeviceClass)
	return d
}

// UUID returns the device identifier, or "" if none has been assigned.
// The root assigns a fresh identifier on insertion when absent.
func (d *Device) UUID() string {
	return d.uuid
}

// SetUUID sets the identifier if u satisfies the identifier grammar.
// Returns false and leaves the identifier unchanged otherwise.
func (d *Device) SetUUID(u string) bool {
	if !IsValidUUID(u) {
		return false
	}
	d.uuid = u
	return true
}

// IsDevice reports whether u equals this device's identifier.
func (d *Device) IsDevice(u string) bool {
	return u == d.uuid
}

// NumServices returns the number of contained services.
func (d *Device) NumServices() int {
	return d.numServices
}

// ServiceAt returns the i'th service in insertion order, or nil when i
// is out of range.
func (d *Device) ServiceAt(i int) *Service {
	if i < 0 || i >= d.numServices {
		return nil
	}
	return d.services[i]
}

// Services returns the contained services in insertion order.
func (d *Device) Services() []*Service {
	result := make([]*Service, d.numServices)
	copy(result, d.services[:d.numServices])
	return result
}

// AddService adds the next service. A nil service or a full device is a
// silent no-op: the count does not change and the service is dropped.
// A blank target is assigned "service<N>" from the insertion index.
// If the tree is already attached to a live dispatcher, the service is
// registered immediately (late binding).
func (d *Device) AddService(svc *Service) {
	if svc == nil || d.numServices >= MaxServices {
		return
	}
	if svc.Target() == "" {
		svc.SetTarget(fmt.Sprintf("service%d", d.numServices))
	}
	d.services[d.numServices] = svc
	d.numServices++
	svc.setParent(&d.Object)

	if r := d.Root(); r != nil && r.Attached() {
		svc.Setup(r.Dispatcher())
	}
}

// SetDisplayHandler installs an alternative page render, registered at
// this device's path in place of the default Display assembly.
func (d *Device) SetDisplayHandler(h DisplayHandler) {
	d.displayHandler = h
}

// SetContentFormatter installs the device-specific content hook used by
// the default page assembly.
func (d *Device) SetContentFormatter(f ContentFormatter) {
	d.contentFn = f
}

// SetRootContentFormatter overrides the summary fragment shown for this
// device on the root page.
func (d *Device) SetRootContentFormatter(f ContentFormatter) {
	d.rootContentFn = f
}

// SetWorkHandler installs the unit of work driven by DoDevice each tick.
func (d *Device) SetWorkHandler(f func()) {
	d.workFn = f
}

// DoDevice performs one bounded unit of work. Default is a no-op.
func (d *Device) DoDevice() {
	if d.workFn != nil {
		d.workFn()
	}
}

// FormatContent appends this device's own content fragment. The default
// returns pos unchanged; devices install their fragment with
// SetContentFormatter.
func (d *Device) FormatContent(buf []byte, pos int) int {
	if d.contentFn != nil {
		return d.contentFn(buf, pos)
	}
	return pos
}

// FormatRootContent appends the summary fragment shown when an ancestor
// displays this device. The default is a single navigation button
// pointing at this device's own page.
func (d *Device) FormatRootContent(buf []byte, pos int) int {
	if d.rootContentFn != nil {
		return d.rootContentFn(buf, pos)
	}
	return AppendButton(buf, pos, d.Path(), d.DisplayName())
}

// Display responds with the HTML page for this device: header with the
// display name, device content, footer. An installed DisplayHandler
// takes over the whole render. The render buffer is fresh per call and
// never retained.
func (d *Device) Display(ctx *web.Context) {
	if d.displayHandler != nil {
		d.displayHandler(d, ctx)
		return
	}
	buf := make([]byte, DisplaySize)
	pos := FormatHeader(buf, d.DisplayName())
	pos = d.FormatContent(buf, pos)
	pos = FormatTail(buf, pos)
	ctx.Send(http.StatusOK, "text/html", buf[:pos])
}

// Setup registers this device's page at its path, then sets up every
// contained service in insertion order. All targets must be set before
// the root's Setup for the registered paths to match.
func (d *Device) Setup(disp web.Dispatcher) {
	disp.Register(d.Path(), d.Display)
	for i := 0; i < d.numServices; i++ {
		d.services[i].Setup(disp)
	}
}
