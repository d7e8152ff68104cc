package proto9p

import "fmt"

// A Qid is the server's identifier for a filesystem object: two
// objects in the same tree are the same object if and only if their
// Qids are equal. Its wire layout is type[1] version[4] path[8].
type Qid [QidLen]byte

// NewQid builds a Qid from its three logical fields.
func NewQid(qtype uint8, version uint32, path uint64) Qid {
	var q Qid
	q[0] = qtype
	putUint32(q[1:5], version)
	putUint64(q[5:13], path)
	return q
}

// Type returns the QTDIR/QTAPPEND/QTFILE bits of the Qid.
func (q Qid) Type() uint8 { return q[0] }

// Version changes whenever the underlying object is modified. This
// backend derives it from the FAT32 directory entry's modification
// timestamp.
func (q Qid) Version() uint32 { return guint32(q[1:5]) }

// Path uniquely identifies an object for the lifetime of the volume.
// This backend synthesizes it as (starting_cluster<<32)|dirent_offset.
func (q Qid) Path() uint64 { return guint64(q[5:13]) }

// IsDir reports whether the Qid identifies a directory.
func (q Qid) IsDir() bool { return q[0]&QTDIR != 0 }

func (q Qid) String() string {
	return fmt.Sprintf("{type=%#x version=%d path=%#x}", q.Type(), q.Version(), q.Path())
}

// QidPath packs a FAT32 starting cluster and directory-entry byte
// offset into the 64-bit path field required by §3 of the spec: two
// distinct filesystem objects must never share a path, and a
// (cluster, offset) pair is unique across the volume as long as
// directory entries aren't relocated without changing one of the two.
func QidPath(startCluster uint32, direntOffset uint32) uint64 {
	return uint64(startCluster)<<32 | uint64(direntOffset)
}
