package fat9p

import "github.com/oschettler/load81-picocalc/fat9p/internal/fatvfs"

// vfsEname translates an error surfaced by the FS mapper into one of
// the fixed Rerror strings handlers send to clients.
func vfsEname(err error) string {
	return fatvfs.Ename(err)
}
