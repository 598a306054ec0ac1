// Package engine provides helpers for working with the modernc.org/sqlite
// driver in this module: building DSNs with connection pragmas, probing that
// the driver is usable, opening file-backed databases and classifying driver
// errors. It intentionally keeps a thin surface so other packages can share
// the same driver instance.
package engine
