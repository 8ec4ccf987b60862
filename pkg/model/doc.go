// Package model implements the HomeWeb node tree.
//
// # Tree Hierarchy
//
// HomeWeb models a small, fixed-depth tree of addressable nodes:
//
//	RootDevice > Device > Service
//
// A RootDevice is the unique top-level container. It holds up to
// MaxDevices embedded Devices and owns the live dispatcher handle.
// A Device is a composite node holding up to MaxServices Services and
// rendering an HTML page for itself. A Service is a leaf bound to
// exactly one request callback.
//
//	RootDevice (/root)
//	├── Device (/root/device0)
//	│   ├── Service (/root/device0/service0)
//	│   └── Service (/root/device0/service1)
//	└── Device (/root/device1)
//	    └── Service (/root/device1/service0)
//
// Services may also hang directly off the root, giving paths of the
// form /root/service0.
//
// # Composition and Late Binding
//
// Callers construct nodes once, compose the tree, and attach the root
// to a dispatcher with Setup. Nodes live for the rest of the process;
// there is no removal. Insertions into an already-attached
// tree register the new node with the dispatcher immediately, so the
// tree keeps working while it grows.
//
// # Resource Model
//
// The tree never grows beyond its fixed capacities: child slots are
// fixed arrays, name and target strings are truncated to their bounds,
// and render buffers are written through a (buf, pos) -> pos protocol
// that truncates rather than overflows. Failure modes are absorbed
// locally: nil or over-capacity insertions are silent no-ops and
// lookup misses return nil. The one boolean failure surface is SetUUID.
//
// All tree mutation must happen from a single control thread; see the
// package-level notes on Object, Device and RootDevice.
package model
