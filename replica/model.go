package replica

import (
	"fmt"
	"time"
)

// Role is the position of a node within the chain.
type Role string

const (
	// RolePrimary accepts writes first.
	RolePrimary Role = "primary"
	// RoleWarm follows the primary closely.
	RoleWarm Role = "warm"
	// RoleCold sits at the end of the chain and receives writes last.
	RoleCold Role = "cold"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePrimary, RoleWarm, RoleCold:
		return true
	}
	return false
}

const (
	// DefaultNodeID identifies this node when nothing else is configured.
	DefaultNodeID = "vsa03"

	// DefaultLag is the staleness advertised by a cold node.
	DefaultLag = 60 * time.Second
)

// Node captures the advertised identity of the local node.
type Node struct {
	// ID is reported verbatim in every response body.
	ID string

	// Role is the advertised chain position.
	Role Role

	// Lag is a configured value, not a measurement.
	Lag time.Duration
}

// DefaultNode returns the cold end-of-chain node.
func DefaultNode() Node {
	return Node{ID: DefaultNodeID, Role: RoleCold, Lag: DefaultLag}
}

// LagMillis returns Lag in whole milliseconds.
func (n Node) LagMillis() int64 { return n.Lag.Milliseconds() }

// Validate checks that the node can be advertised.
func (n Node) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("replica: node id must be set")
	}
	if !n.Role.Valid() {
		return fmt.Errorf("replica: unknown role %q", n.Role)
	}
	if n.Lag < 0 {
		return fmt.Errorf("replica: negative lag %s", n.Lag)
	}
	return nil
}
