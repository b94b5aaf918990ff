// Package sysquery acquires raw pool-tag buffers from the kernel and turns
// them into snapshots.
//
// The Querier interface isolates the single privileged syscall so everything
// above it stays testable off-platform: the Windows implementation calls
// NtQuerySystemInformation with the SystemPoolTagInformation class, and every
// other platform gets a querier that fails with ErrQueryUnsupported.
//
// Collector wraps a Querier with a pooled scratch buffer and converts query
// failures into empty snapshots, which is what lets a long monitoring run
// survive transient acquisition errors.
package sysquery
