package repo

import (
	"strings"
	"testing"
	"time"
)

func TestUserIdentity_FromRepoConfig(t *testing.T) {
	// Isolate from the developer's real global config.
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	if _, err := r.UserIdentity(); err == nil {
		t.Fatal("UserIdentity without config succeeded, want error")
	}

	if err := r.SetUser("Ada Lovelace", "ada@example.com"); err != nil {
		t.Fatalf("SetUser: %v", err)
	}
	got, err := r.UserIdentity()
	if err != nil {
		t.Fatalf("UserIdentity: %v", err)
	}
	if got != "Ada Lovelace <ada@example.com>" {
		t.Errorf("identity = %q, want %q", got, "Ada Lovelace <ada@example.com>")
	}
}

func TestFormatSignature(t *testing.T) {
	utc := time.Unix(1700000000, 0).UTC()
	got := FormatSignature("Ada Lovelace <ada@example.com>", utc)
	want := "Ada Lovelace <ada@example.com> 1700000000 +0000"
	if got != want {
		t.Errorf("signature = %q, want %q", got, want)
	}

	east := time.Unix(1700000000, 0).In(time.FixedZone("IST", 5*3600+30*60))
	if sig := FormatSignature("x <x@y>", east); !strings.HasSuffix(sig, "+0530") {
		t.Errorf("signature = %q, want +0530 offset", sig)
	}

	west := time.Unix(1700000000, 0).In(time.FixedZone("EST", -5*3600))
	if sig := FormatSignature("x <x@y>", west); !strings.HasSuffix(sig, "-0500") {
		t.Errorf("signature = %q, want -0500 offset", sig)
	}
}
