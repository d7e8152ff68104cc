package fatvfs

import (
	"errors"

	"github.com/oschettler/load81-picocalc/fat9p/internal/blockdev"
	"github.com/oschettler/load81-picocalc/fat9p/proto9p"
)

// ErrBadName is returned by Join when a path element is empty, contains
// "/", or is ".".
var ErrBadName = errors.New("fatvfs: invalid path component")

// ErrBadOffset is returned by DirStream.ReadAt when offset is not the
// stream's current position (0 before the first read, the end of the
// previous read after that), per spec §4.6.7: directory reads
// are sequential-only, there is no seeking within a directory stream.
var ErrBadOffset = errors.New("fatvfs: non-sequential directory read")

// Ename translates an error from this package or from a blockdev.Device
// into one of the server's fixed Rerror strings (spec §4.3). Device
// implementations must restrict themselves to the blockdev sentinel
// errors; anything else is reported as the generic "io error", which is
// also what a Lock timeout produces.
func Ename(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBadName):
		return proto9p.EnameInvalid
	case errors.Is(err, ErrBadOffset):
		return proto9p.EnameInvalid
	case errors.Is(err, blockdev.ErrNotFound):
		return proto9p.EnameNotFound
	case errors.Is(err, blockdev.ErrPermission):
		return proto9p.EnamePermission
	case errors.Is(err, blockdev.ErrExists):
		return proto9p.EnameExists
	case errors.Is(err, blockdev.ErrNoSpace):
		return proto9p.EnameNoSpace
	case errors.Is(err, blockdev.ErrNotDir):
		return proto9p.EnameNotDir
	case errors.Is(err, blockdev.ErrIsDir):
		return proto9p.EnameIsDir
	case errors.Is(err, blockdev.ErrInvalid):
		return proto9p.EnameInvalid
	case errors.Is(err, blockdev.ErrTimeout):
		return proto9p.EnameIO
	default:
		return proto9p.EnameIO
	}
}
