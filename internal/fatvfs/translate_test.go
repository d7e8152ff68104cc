package fatvfs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oschettler/load81-picocalc/fat9p/internal/blockdev"
	"github.com/oschettler/load81-picocalc/fat9p/proto9p"
)

func TestQidFromAttrDirectory(t *testing.T) {
	attr := blockdev.Attr{IsDir: true, StartCluster: 5, DirentOffset: 64, ModTime: time.Unix(1000, 0)}
	q := QidFromAttr(attr)
	assert.True(t, q.IsDir())
	assert.Equal(t, proto9p.QidPath(5, 64), q.Path())
	assert.Equal(t, uint32(1000), q.Version())
}

func TestQidFromAttrFile(t *testing.T) {
	attr := blockdev.Attr{StartCluster: 2, DirentOffset: 32}
	q := QidFromAttr(attr)
	assert.False(t, q.IsDir())
}

func TestStatFromAttrDirectoryHasZeroLength(t *testing.T) {
	attr := blockdev.Attr{IsDir: true, Size: 4096}
	st := StatFromAttr("/dir", attr)
	assert.Equal(t, uint64(0), st.Length)
	assert.Equal(t, "dir", st.Name)
	assert.NotEqual(t, uint32(0), st.Mode&proto9p.DMDIR)
}

func TestStatFromAttrRootNameIsEmpty(t *testing.T) {
	st := StatFromAttr("/", blockdev.Attr{IsDir: true})
	assert.Equal(t, "", st.Name)
}

func TestStatFromAttrUsesNoneIdentity(t *testing.T) {
	st := StatFromAttr("/f", blockdev.Attr{})
	assert.Equal(t, "none", st.Uid)
	assert.Equal(t, "none", st.Gid)
	assert.Equal(t, "none", st.Muid)
	assert.Equal(t, proto9p.NoUID, st.NUid)
	assert.Equal(t, "", st.Extension)
}

func TestStatFromAttrReadOnlyClearsWriteBits(t *testing.T) {
	st := StatFromAttr("/f", blockdev.Attr{ReadOnly: true})
	assert.Equal(t, uint32(0444), st.Mode&0777)
}

func TestStatFromAttrFallsBackToMtimeForAtime(t *testing.T) {
	mtime := time.Unix(2000, 0)
	st := StatFromAttr("/f", blockdev.Attr{ModTime: mtime, HasAccess: false})
	assert.Equal(t, uint32(2000), st.Atime)
}
