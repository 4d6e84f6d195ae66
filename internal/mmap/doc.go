// Package mmap maps fingerprint files read-only into memory.
//
// Binary fingerprint files are decoded straight from the mapping, so a
// large library is never copied through a read buffer first:
//
//	m, err := mmap.Open("library.bfp")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	store, err := fpfile.Decode(bytes.NewReader(m.Bytes()))
//
// Unix uses mmap(2) and madvise(2). Windows uses CreateFileMapping and
// MapViewOfFile; Advise is a no-op there.
//
// Close is idempotent. Slices returned by Bytes must not be used after
// Close returns.
package mmap
