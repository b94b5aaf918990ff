//go:build windows

package sysquery

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/arloliu/pooltrack/errs"
)

// systemPoolTagInformation is the SYSTEM_INFORMATION_CLASS value for
// SystemPoolTagInformation. x/sys/windows does not define this class.
const systemPoolTagInformation = 22

type kernelQuerier struct{}

// NewSystemQuerier returns the Querier backed by NtQuerySystemInformation.
func NewSystemQuerier() Querier {
	return kernelQuerier{}
}

// Query asks the kernel for the pool-tag information buffer.
//
// The kernel rejects undersized buffers with STATUS_INFO_LENGTH_MISMATCH
// rather than truncating, so a failed call writes nothing usable and is
// surfaced as an error.
func (kernelQuerier) Query(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, errs.ErrEmptyQueryBuffer
	}

	var retLen uint32
	err := windows.NtQuerySystemInformation(
		systemPoolTagInformation,
		unsafe.Pointer(&buf[0]),
		uint32(len(buf)), //nolint: gosec
		&retLen,
	)
	if err != nil {
		return 0, fmt.Errorf("NtQuerySystemInformation: %w", err)
	}

	n := int(retLen)
	if n > len(buf) {
		n = len(buf)
	}

	return n, nil
}
