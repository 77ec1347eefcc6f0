package checkpoint

import (
	"testing"

	"github.com/gptmaas/autodev-agents/internal/state"
)

func TestCheckVersion(t *testing.T) {
	sess := state.New("s1", "req", "/tmp/s1", false, false)
	if err := CheckVersion(sess); err != nil {
		t.Fatalf("expected current version to pass, got %v", err)
	}
	sess.Version = "999"
	if err := CheckVersion(sess); err == nil {
		t.Fatal("expected mismatched version to fail")
	}
}
