package sysquery

// Querier fetches the raw pool-tag information buffer from the kernel.
//
// Implementations fill buf from the start and return the number of valid
// bytes. They must not retain buf after returning.
type Querier interface {
	Query(buf []byte) (int, error)
}
