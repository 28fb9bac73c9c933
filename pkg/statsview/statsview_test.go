//go:build !statsview

package statsview

import (
	"testing"

	"github.com/retroenv/retrogolib/log"
)

func TestStubLaunch(t *testing.T) {
	if Available() {
		t.Fatal("Available: expected false without the statsview build tag")
	}
	Launch(log.NewTestLogger(t))
}
