package rtti

import "testing"

func TestIdentityAssignment(t *testing.T) {
	a := New()
	b := New()

	if a.ID() == 0 {
		t.Error("expected non-zero identity")
	}
	if a.ID() == b.ID() {
		t.Errorf("expected distinct identities, both got %d", a.ID())
	}
}

func TestIsASelf(t *testing.T) {
	a := New()
	if !a.IsA(a) {
		t.Error("expected IsA(self) = true")
	}
}

func TestIsAChain(t *testing.T) {
	object := New()
	device := Subtype(object)
	root := Subtype(device)
	service := Subtype(object)

	t.Run("DirectParent", func(t *testing.T) {
		if !device.IsA(object) {
			t.Error("expected device.IsA(object) = true")
		}
	})

	t.Run("Grandparent", func(t *testing.T) {
		if !root.IsA(object) {
			t.Error("expected root.IsA(object) = true")
		}
		if !root.IsA(device) {
			t.Error("expected root.IsA(device) = true")
		}
	})

	t.Run("NotDownward", func(t *testing.T) {
		if object.IsA(device) {
			t.Error("expected object.IsA(device) = false")
		}
		if device.IsA(root) {
			t.Error("expected device.IsA(root) = false")
		}
	})

	t.Run("Siblings", func(t *testing.T) {
		if service.IsA(device) {
			t.Error("expected service.IsA(device) = false")
		}
		if device.IsA(service) {
			t.Error("expected device.IsA(service) = false")
		}
	})
}

func TestIsANil(t *testing.T) {
	a := New()
	if a.IsA(nil) {
		t.Error("expected IsA(nil) = false")
	}

	var unset *ClassType
	if unset.IsA(a) {
		t.Error("expected nil receiver IsA = false")
	}
}
