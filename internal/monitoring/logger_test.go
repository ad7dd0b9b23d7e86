package monitoring

import "testing"

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = format
	})
	Logf("pointer update failed")
	if got != "pointer update failed" {
		t.Errorf("custom logger saw %q", got)
	}

	// nil installs a no-op, never a nil function.
	SetLogger(nil)
	if Logf == nil {
		t.Fatal("Logf is nil after SetLogger(nil)")
	}
	Logf("must not panic")
}

func TestDefaultLogger(t *testing.T) {
	if Logf == nil {
		t.Fatal("package default Logf is nil")
	}
	Logf("startup: %s", "ok")
}
