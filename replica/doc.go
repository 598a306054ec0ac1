// Package replica describes where this node sits in a replication chain:
// its identifier, its role and the staleness it advertises. The values are
// static metadata reported by the health endpoint; this package performs no
// replication and never contacts other nodes.
package replica
