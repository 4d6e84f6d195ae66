package fpfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/hupe1980/butina/fingerprint"
)

// Library is a fingerprint store with optional external compound IDs.
// IDs[i] names the fingerprint at compound index i.
type Library struct {
	Store *fingerprint.Store
	IDs   []string
}

// NewLibrary pairs a store with its IDs. ids may be nil.
func NewLibrary(store *fingerprint.Store, ids []string) (*Library, error) {
	if ids != nil && len(ids) != store.Len() {
		return nil, fmt.Errorf("%w: %d ids for %d fingerprints", ErrIDCount, len(ids), store.Len())
	}
	return &Library{Store: store, IDs: ids}, nil
}

// Len returns the number of fingerprints.
func (l *Library) Len() int {
	return l.Store.Len()
}

// ID returns the external ID of index i, or its decimal index when the
// library carries no IDs.
func (l *Library) ID(i int) string {
	if l.IDs == nil {
		return strconv.Itoa(i)
	}
	return l.IDs[i]
}

// Read decodes a library in either format, chosen by the leading magic.
func Read(r io.Reader) (*Library, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(magic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if bytes.Equal(head, magic[:]) {
		return Decode(br)
	}
	return ReadFPS(br)
}
