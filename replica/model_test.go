package replica

import (
	"testing"
	"time"
)

func TestDefaultNode(t *testing.T) {
	n := DefaultNode()
	if n.ID != "vsa03" || n.Role != RoleCold {
		t.Fatalf("DefaultNode = %+v", n)
	}
	if n.LagMillis() != 60000 {
		t.Fatalf("LagMillis = %d, want 60000", n.LagMillis())
	}
	if err := n.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestNodeValidate(t *testing.T) {
	cases := []Node{
		{ID: "", Role: RoleCold},
		{ID: "n", Role: "hot"},
		{ID: "n", Role: RoleWarm, Lag: -time.Second},
	}
	for _, n := range cases {
		if err := n.Validate(); err == nil {
			t.Fatalf("Validate(%+v) succeeded, want error", n)
		}
	}
}
