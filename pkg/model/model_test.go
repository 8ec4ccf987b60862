package model

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/homeweb-protocol/homeweb-go/pkg/rtti"
	"github.com/homeweb-protocol/homeweb-go/pkg/web"
)

// newTestDeviceClass declares a fresh concrete device class, the way an
// application declares one per device implementation.
func newTestDeviceClass() *rtti.ClassType {
	return rtti.Subtype(DeviceClass)
}

// stubDispatcher records registrations and can replay requests against
// them, standing in for a live server.
type stubDispatcher struct {
	handlers map[string]web.Handler
	order    []string
	port     int
}

func newStubDispatcher() *stubDispatcher {
	return &stubDispatcher{handlers: make(map[string]web.Handler), port: 8080}
}

func (s *stubDispatcher) Register(path string, h web.Handler) {
	if _, dup := s.handlers[path]; dup {
		return
	}
	s.handlers[path] = h
	s.order = append(s.order, path)
}

func (s *stubDispatcher) Port() int { return s.port }

func (s *stubDispatcher) request(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	h, ok := s.handlers[path]
	if !ok {
		t.Fatalf("no handler registered for %s (have %v)", path, s.order)
	}
	w := httptest.NewRecorder()
	h(web.NewContext(w, httptest.NewRequest(http.MethodGet, path, nil)))
	return w
}

func TestDefaultTargetAssignment(t *testing.T) {
	t.Run("Services", func(t *testing.T) {
		dev := NewDevice("dev")
		for i := 0; i < 3; i++ {
			dev.AddService(NewService(""))
		}
		for i := 0; i < 3; i++ {
			want := fmt.Sprintf("service%d", i)
			if got := dev.ServiceAt(i).Target(); got != want {
				t.Errorf("service %d target = %q, want %q", i, got, want)
			}
		}
	})

	t.Run("Devices", func(t *testing.T) {
		root := NewRootDevice("root")
		for i := 0; i < 3; i++ {
			root.AddDevice(NewDevice(""))
		}
		for i := 0; i < 3; i++ {
			want := fmt.Sprintf("device%d", i)
			if got := root.DeviceAt(i).Target(); got != want {
				t.Errorf("device %d target = %q, want %q", i, got, want)
			}
		}
	})

	t.Run("ExplicitTargetKept", func(t *testing.T) {
		root := NewRootDevice("root")
		dev := NewDevice("thermostat")
		root.AddDevice(dev)
		if dev.Target() != "thermostat" {
			t.Errorf("target = %q, want thermostat", dev.Target())
		}
	})
}

func TestPath(t *testing.T) {
	root := NewRootDevice("root")
	dev := NewDevice("dev")
	svc := NewService("svc")
	dev.AddService(svc)
	root.AddDevice(dev)

	t.Run("ThreeLevels", func(t *testing.T) {
		if got := svc.Path(); got != "/root/dev/svc" {
			t.Errorf("service path = %q, want /root/dev/svc", got)
		}
	})

	t.Run("TwoLevels", func(t *testing.T) {
		if got := dev.Path(); got != "/root/dev" {
			t.Errorf("device path = %q, want /root/dev", got)
		}
	})

	t.Run("Root", func(t *testing.T) {
		if got := root.Path(); got != "/root" {
			t.Errorf("root path = %q, want /root", got)
		}
	})

	t.Run("ServiceUnderRoot", func(t *testing.T) {
		direct := NewService("direct")
		root.AddService(direct)
		if got := direct.Path(); got != "/root/direct" {
			t.Errorf("direct service path = %q, want /root/direct", got)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		first := svc.Path()
		second := svc.Path()
		if first != second {
			t.Errorf("paths differ: %q then %q", first, second)
		}
	})
}

func TestUUIDValidation(t *testing.T) {
	const valid = "b2234c12-417f-4e3c-b5d6-4d418143e85d"

	t.Run("Accepts", func(t *testing.T) {
		if !IsValidUUID(valid) {
			t.Errorf("expected %q to be valid", valid)
		}
	})

	t.Run("RejectsNoHyphens", func(t *testing.T) {
		if IsValidUUID(strings.ReplaceAll(valid, "-", "")) {
			t.Error("expected hyphen-less string to be rejected")
		}
	})

	t.Run("RejectsWrongLength", func(t *testing.T) {
		if IsValidUUID(valid + "0") {
			t.Error("expected 37-char string to be rejected")
		}
		if IsValidUUID(valid[:35]) {
			t.Error("expected 35-char string to be rejected")
		}
	})

	t.Run("RejectsNonHex", func(t *testing.T) {
		mutated := "g" + valid[1:]
		if IsValidUUID(mutated) {
			t.Errorf("expected %q to be rejected", mutated)
		}
	})

	t.Run("SetUUIDRejectsAndKeeps", func(t *testing.T) {
		dev := NewDevice("dev")
		if dev.SetUUID("not-a-uuid") {
			t.Error("expected SetUUID to report failure")
		}
		if dev.UUID() != "" {
			t.Errorf("uuid = %q, want empty after rejected set", dev.UUID())
		}
		if !dev.SetUUID(valid) {
			t.Error("expected SetUUID to accept a valid identifier")
		}
		if dev.UUID() != valid {
			t.Errorf("uuid = %q, want %q", dev.UUID(), valid)
		}
	})

	t.Run("Generated", func(t *testing.T) {
		if u := GenerateUUID(); !IsValidUUID(u) {
			t.Errorf("generated identifier %q is not valid", u)
		}
	})
}

func TestCapacityExceededIsNoOp(t *testing.T) {
	t.Run("NinthService", func(t *testing.T) {
		dev := NewDevice("dev")
		for i := 0; i < MaxServices; i++ {
			dev.AddService(NewService(""))
		}
		ninth := NewService("ninth")
		dev.AddService(ninth)

		if dev.NumServices() != MaxServices {
			t.Errorf("count = %d, want %d", dev.NumServices(), MaxServices)
		}
		for _, svc := range dev.Services() {
			if svc == ninth {
				t.Error("ninth service was retained")
			}
		}
		if ninth.HasParent() {
			t.Error("ninth service got a parent")
		}
	})

	t.Run("NinthDevice", func(t *testing.T) {
		root := NewRootDevice("root")
		for i := 0; i < MaxDevices; i++ {
			root.AddDevice(NewDevice(""))
		}
		ninth := NewDevice("ninth")
		root.AddDevice(ninth)

		if root.NumDevices() != MaxDevices {
			t.Errorf("count = %d, want %d", root.NumDevices(), MaxDevices)
		}
		if ninth.HasParent() {
			t.Error("ninth device got a parent")
		}
	})

	t.Run("NilIgnored", func(t *testing.T) {
		dev := NewDevice("dev")
		dev.AddService(nil)
		if dev.NumServices() != 0 {
			t.Errorf("count = %d, want 0", dev.NumServices())
		}

		root := NewRootDevice("root")
		root.AddDevice(nil)
		if root.NumDevices() != 0 {
			t.Errorf("count = %d, want 0", root.NumDevices())
		}
	})
}

func TestIndexLookupOutOfRange(t *testing.T) {
	dev := NewDevice("dev")
	dev.AddService(NewService("svc"))

	if dev.ServiceAt(-1) != nil {
		t.Error("expected nil for negative index")
	}
	if dev.ServiceAt(1) != nil {
		t.Error("expected nil past count")
	}

	root := NewRootDevice("root")
	if root.DeviceAt(0) != nil {
		t.Error("expected nil on empty root")
	}
}

func TestRoles(t *testing.T) {
	root := NewRootDevice("root")
	dev := NewDevice("dev")
	svc := NewService("svc")
	dev.AddService(svc)
	root.AddDevice(dev)

	if got := root.Role(); got != RoleRoot {
		t.Errorf("root role = %v, want ROOT", got)
	}
	if got := dev.Role(); got != RoleDevice {
		t.Errorf("device role = %v, want DEVICE", got)
	}
	if got := svc.Role(); got != RoleService {
		t.Errorf("service role = %v, want SERVICE", got)
	}

	t.Run("RoleResolution", func(t *testing.T) {
		if root.AsDevice() == nil {
			t.Error("root should resolve to its device role")
		}
		if root.AsService() != nil {
			t.Error("root should not resolve to a service role")
		}
		if dev.AsRoot() != nil {
			t.Error("plain device should not resolve to a root role")
		}
		if svc.AsService() != svc {
			t.Error("service should resolve to itself")
		}
	})

	t.Run("RootResolution", func(t *testing.T) {
		if svc.Root() != root {
			t.Error("service did not resolve its root container")
		}
		orphan := NewDevice("orphan")
		if orphan.Root() != nil {
			t.Error("orphan device resolved a root")
		}

		// A device tree without a root container on top resolves no root.
		holder := NewDevice("holder")
		leaf := NewService("leaf")
		holder.AddService(leaf)
		if leaf.Root() != nil {
			t.Error("service under a rootless device resolved a root")
		}
	})
}

func TestGetDevice(t *testing.T) {
	root := NewRootDevice("root")
	a := NewDevice("a")
	b := NewDevice("b")
	root.AddDevice(a)
	root.AddDevice(b)

	t.Run("ByClassChild", func(t *testing.T) {
		// B gets a concrete subtype; lookup by it resolves B.
		bClass := newTestDeviceClass()
		b.SetClassType(bClass)

		got := root.GetDeviceByClass(bClass)
		if got != b {
			t.Errorf("GetDeviceByClass = %v, want b", got)
		}
	})

	t.Run("ByClassRootPriority", func(t *testing.T) {
		// Everything is a DeviceClass; the root matches first.
		got := root.GetDeviceByClass(DeviceClass)
		if got != &root.Device {
			t.Error("expected root to take priority for DeviceClass")
		}
	})

	t.Run("ByClassMiss", func(t *testing.T) {
		if got := root.GetDeviceByClass(newTestDeviceClass()); got != nil {
			t.Errorf("expected nil on miss, got %v", got)
		}
	})

	t.Run("ByUUID", func(t *testing.T) {
		if got := root.GetDeviceByUUID(b.UUID()); got != b {
			t.Error("lookup by uuid did not resolve b")
		}
		if got := root.GetDeviceByUUID(root.UUID()); got != &root.Device {
			t.Error("lookup by root uuid did not resolve root")
		}
		if got := root.GetDeviceByUUID("00000000-0000-0000-0000-000000000000"); got != nil {
			t.Error("expected nil for unknown uuid")
		}
	})
}

func TestSetupRegistersTree(t *testing.T) {
	root := NewRootDevice("root")
	dev := NewDevice("dev")
	svc := NewService("svc")
	dev.AddService(svc)
	root.AddDevice(dev)

	disp := newStubDispatcher()
	root.Setup(disp)

	if !root.Attached() {
		t.Fatal("root not attached after Setup")
	}
	if root.ServerPort() != 8080 {
		t.Errorf("server port = %d, want 8080", root.ServerPort())
	}

	for _, path := range []string{"/root", "/styles.css", "/", "/root/dev", "/root/dev/svc"} {
		if _, ok := disp.handlers[path]; !ok {
			t.Errorf("path %s not registered (have %v)", path, disp.order)
		}
	}

	t.Run("RootPageLinksDevices", func(t *testing.T) {
		w := disp.request(t, "/root")
		body := w.Body.String()
		if !strings.Contains(body, `href="/root/dev"`) {
			t.Errorf("root page missing device link: %s", body)
		}
	})

	t.Run("AggregatePage", func(t *testing.T) {
		w := disp.request(t, "/")
		body := w.Body.String()
		if !strings.Contains(body, `href="/root/dev"`) {
			t.Errorf("aggregate page missing device summary: %s", body)
		}
		if !strings.Contains(body, "This Device") {
			t.Errorf("aggregate page missing This Device button: %s", body)
		}
	})

	t.Run("ServiceHandlerInvoked", func(t *testing.T) {
		calls := 0
		svc.SetHandler(func(ctx *web.Context) {
			calls++
			ctx.Send(http.StatusOK, "text/plain", []byte("ok"))
		})
		w := disp.request(t, "/root/dev/svc")
		if calls != 1 {
			t.Errorf("handler calls = %d, want 1", calls)
		}
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})
}

func TestLateBinding(t *testing.T) {
	t.Run("DeviceAfterAttach", func(t *testing.T) {
		root := NewRootDevice("root")
		disp := newStubDispatcher()
		root.Setup(disp)

		dev := NewDevice("late")
		renders := 0
		dev.SetDisplayHandler(func(d *Device, ctx *web.Context) {
			renders++
			ctx.Send(http.StatusOK, "text/html", []byte("late page"))
		})
		root.AddDevice(dev)

		disp.request(t, "/root/late")
		if renders != 1 {
			t.Errorf("render callback invoked %d times, want exactly 1", renders)
		}
	})

	t.Run("ServiceAfterAttach", func(t *testing.T) {
		root := NewRootDevice("root")
		dev := NewDevice("dev")
		root.AddDevice(dev)

		disp := newStubDispatcher()
		root.Setup(disp)

		svc := NewService("late")
		calls := 0
		svc.SetHandler(func(ctx *web.Context) {
			calls++
			ctx.Send(http.StatusOK, "text/plain", []byte("ok"))
		})
		dev.AddService(svc)

		disp.request(t, "/root/dev/late")
		if calls != 1 {
			t.Errorf("handler invoked %d times, want exactly 1", calls)
		}
	})

	t.Run("BeforeAttachNoRegistration", func(t *testing.T) {
		root := NewRootDevice("root")
		dev := NewDevice("dev")
		root.AddDevice(dev)
		if root.Attached() {
			t.Error("root attached before Setup")
		}
		if root.ServerPort() != 0 {
			t.Errorf("unattached port = %d, want 0", root.ServerPort())
		}
	})
}

func TestDisplayAssembly(t *testing.T) {
	root := NewRootDevice("root")
	dev := NewDevice("dev")
	dev.SetDisplayName("Living Room")
	dev.SetContentFormatter(func(buf []byte, pos int) int {
		return AppendString(buf, pos, "<p>21.5 C</p>")
	})
	root.AddDevice(dev)

	disp := newStubDispatcher()
	root.Setup(disp)

	w := disp.request(t, "/root/dev")
	body := w.Body.String()

	if !strings.Contains(body, "Living Room") {
		t.Errorf("page missing display name: %s", body)
	}
	if !strings.Contains(body, "<p>21.5 C</p>") {
		t.Errorf("page missing device content: %s", body)
	}
	if !strings.HasPrefix(body, "<!DOCTYPE html>") {
		t.Errorf("page missing header: %s", body)
	}
	if !strings.HasSuffix(body, "</body></html>") {
		t.Errorf("page missing footer: %s", body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html" {
		t.Errorf("content type = %q, want text/html", ct)
	}
}

func TestDoDevice(t *testing.T) {
	root := NewRootDevice("root")
	var order []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		dev := NewDevice(name)
		dev.SetWorkHandler(func() { order = append(order, name) })
		root.AddDevice(dev)
	}

	root.DoDevice()
	root.DoDevice()

	want := []string{"a", "b", "c", "a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("work invocations = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("work order = %v, want %v", order, want)
		}
	}
}

func TestTypeIdentityTokens(t *testing.T) {
	dev := NewDevice("dev")
	dev.SetTypeIdentity("urn:acme-com:device:Thermostat:2.1.0")

	if got := dev.Domain(); got != "acme-com" {
		t.Errorf("domain = %q, want acme-com", got)
	}
	if got := dev.Kind(); got != "Thermostat" {
		t.Errorf("kind = %q, want Thermostat", got)
	}
	if got := dev.Version(); got != "2.1.0" {
		t.Errorf("version = %q, want 2.1.0", got)
	}
	if !dev.IsType("urn:acme-com:device:Thermostat:2.1.0") {
		t.Error("IsType failed for exact identity")
	}

	t.Run("Defaults", func(t *testing.T) {
		svc := NewService("svc")
		if got := svc.Kind(); got != "Basic" {
			t.Errorf("service kind = %q, want Basic", got)
		}
		root := NewRootDevice("root")
		if got := root.Kind(); got != "RootDevice" {
			t.Errorf("root kind = %q, want RootDevice", got)
		}
	})
}

func TestTargetBounds(t *testing.T) {
	t.Run("LeadingSlashStripped", func(t *testing.T) {
		dev := NewDevice("/dev")
		if dev.Target() != "dev" {
			t.Errorf("target = %q, want dev", dev.Target())
		}
	})

	t.Run("Truncated", func(t *testing.T) {
		long := strings.Repeat("x", 50)
		dev := NewDevice(long)
		if len(dev.Target()) != TargetSize {
			t.Errorf("target length = %d, want %d", len(dev.Target()), TargetSize)
		}
	})

	t.Run("DisplayNameTruncated", func(t *testing.T) {
		dev := NewDevice("dev")
		dev.SetDisplayName(strings.Repeat("n", 50))
		if len(dev.DisplayName()) != NameSize {
			t.Errorf("name length = %d, want %d", len(dev.DisplayName()), NameSize)
		}
	})
}

func TestParentSetOnce(t *testing.T) {
	first := NewDevice("first")
	second := NewDevice("second")
	svc := NewService("svc")

	first.AddService(svc)
	second.AddService(svc) // composition mistake; parent must not move

	if svc.Parent() != &first.Object {
		t.Error("parent was reassigned")
	}
}
