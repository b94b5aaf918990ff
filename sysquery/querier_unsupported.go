//go:build !windows

package sysquery

import "github.com/arloliu/pooltrack/errs"

type unsupportedQuerier struct{}

// NewSystemQuerier returns a Querier that always fails, because only the
// Windows kernel exposes pool-tag information. Keeping the constructor on
// every platform lets the rest of the module build and test anywhere.
func NewSystemQuerier() Querier {
	return unsupportedQuerier{}
}

func (unsupportedQuerier) Query(buf []byte) (int, error) {
	return 0, errs.ErrQueryUnsupported
}
