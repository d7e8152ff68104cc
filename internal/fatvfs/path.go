// Package fatvfs is the FS Mapper (component C3 of the spec): it turns
// 9P path-walking, stat, and directory-read semantics into calls
// against a blockdev.Locked, and translates the results back into
// QIDs, 9P2000.u stat records, and the server's fixed error strings.
package fatvfs

import (
	"strings"
)

// Join normalizes base (an already-canonical absolute path) with a
// sequence of single-component names, per spec §4.3:
//
//   - a name containing "/" or equal to "" is rejected
//   - "." is rejected (it is not a valid wire path element; a no-op
//     walk is expressed by sending zero names, not a "." name)
//   - ".." pops the last element of the path so far; popping past the
//     root yields the root
//
// The result is always absolute, with no redundant separators.
func Join(base string, names ...string) (string, error) {
	elems := split(base)
	for _, name := range names {
		if name == "" || strings.ContainsRune(name, '/') {
			return "", ErrBadName
		}
		if name == "." {
			return "", ErrBadName
		}
		if name == ".." {
			if len(elems) > 0 {
				elems = elems[:len(elems)-1]
			}
			continue
		}
		elems = append(elems, name)
	}
	return join(elems), nil
}

// JoinStep is like Join but resolves exactly one name, returning the
// resulting path. It is a plain call to Join, so base is split and
// re-joined on every call.
func JoinStep(base, name string) (string, error) {
	return Join(base, name)
}

func split(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func join(elems []string) string {
	if len(elems) == 0 {
		return "/"
	}
	return "/" + strings.Join(elems, "/")
}

// Base returns the final path component of an absolute path, or the
// empty string for the root — the name a root Qid reports per spec
// §4.3.
func Base(p string) string {
	elems := split(p)
	if len(elems) == 0 {
		return ""
	}
	return elems[len(elems)-1]
}

// Parent returns the path of p's containing directory. Parent("/") is
// "/".
func Parent(p string) string {
	elems := split(p)
	if len(elems) == 0 {
		return "/"
	}
	return join(elems[:len(elems)-1])
}

// TrimPrefix reports whether p lies at or under dir, returning the
// remainder of p past dir (possibly empty) if so. Used to re-root fids
// whose path was nested under a directory that has just been renamed.
func TrimPrefix(p, dir string) (rest string, ok bool) {
	if dir == "/" {
		return strings.TrimPrefix(p, "/"), p != ""
	}
	if p == dir {
		return "", true
	}
	if strings.HasPrefix(p, dir+"/") {
		return strings.TrimPrefix(p, dir), true
	}
	return "", false
}
