package session

import "testing"

func TestNew_DerivesNamesFromID(t *testing.T) {
	names := New("abc123")

	if names.ID != "abc123" {
		t.Errorf("ID = %q, want abc123", names.ID)
	}
	if names.ShmName != "/waylayer-abc123" {
		t.Errorf("ShmName = %q, want /waylayer-abc123", names.ShmName)
	}
	if names.LockSem != "/waylayer-abc123-lock" {
		t.Errorf("LockSem = %q, want /waylayer-abc123-lock", names.LockSem)
	}
	if names.ReadySem != "/waylayer-abc123-ready" {
		t.Errorf("ReadySem = %q, want /waylayer-abc123-ready", names.ReadySem)
	}
	if names.SocketPath != "/tmp/abc123.sock" {
		t.Errorf("SocketPath = %q, want /tmp/abc123.sock", names.SocketPath)
	}
}

func TestNew_EmptyIDGeneratesUUID(t *testing.T) {
	a := New("")
	b := New("")

	if a.ID == "" {
		t.Fatal("New(\"\") left ID empty")
	}
	if a.ID == b.ID {
		t.Error("two empty-id calls produced the same generated id")
	}
	if a.ShmName != "/waylayer-"+a.ID {
		t.Errorf("ShmName %q does not match generated ID %q", a.ShmName, a.ID)
	}
}
