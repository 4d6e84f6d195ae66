package fpfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/butina/fingerprint"
	"github.com/hupe1980/butina/internal/conv"
	"github.com/hupe1980/butina/internal/hash"
)

var magic = [4]byte{'B', 'F', 'P', '1'}

const (
	formatVersion = 1
	headerSize    = 4 + 2 + 1 + 1 + 4 + 8 + 8 + 4
	flagIDs       = 1 << 0
)

// EncodeOptions configures Encode.
type EncodeOptions struct {
	// Compression is the block codec. Default CompressionZSTD.
	Compression Compression

	// BlockSize is the uncompressed size of each block. Default 256 KiB,
	// capped at 16 MiB.
	BlockSize int
}

// DefaultEncodeOptions contains the default binary encoding configuration.
var DefaultEncodeOptions = EncodeOptions{
	Compression: CompressionZSTD,
	BlockSize:   defaultBlockSize,
}

type header struct {
	version     uint16
	compression Compression
	flags       uint8
	numBits     uint32
	count       uint64
	rawSize     uint64
	checksum    uint32
}

func (h header) marshal() []byte {
	buf := make([]byte, headerSize)
	copy(buf[0:4], magic[:])
	binary.LittleEndian.PutUint16(buf[4:], h.version)
	buf[6] = byte(h.compression)
	buf[7] = h.flags
	binary.LittleEndian.PutUint32(buf[8:], h.numBits)
	binary.LittleEndian.PutUint64(buf[12:], h.count)
	binary.LittleEndian.PutUint64(buf[20:], h.rawSize)
	binary.LittleEndian.PutUint32(buf[28:], h.checksum)
	return buf
}

func unmarshalHeader(buf []byte) (header, error) {
	if !bytes.Equal(buf[0:4], magic[:]) {
		return header{}, ErrBadMagic
	}
	h := header{
		version:     binary.LittleEndian.Uint16(buf[4:]),
		compression: Compression(buf[6]),
		flags:       buf[7],
		numBits:     binary.LittleEndian.Uint32(buf[8:]),
		count:       binary.LittleEndian.Uint64(buf[12:]),
		rawSize:     binary.LittleEndian.Uint64(buf[20:]),
		checksum:    binary.LittleEndian.Uint32(buf[28:]),
	}
	if h.version != formatVersion {
		return header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.version)
	}
	if !h.compression.valid() {
		return header{}, fmt.Errorf("%w: %d", ErrUnknownCompression, h.compression)
	}
	return h, nil
}

// Encode writes lib in the binary format.
func Encode(w io.Writer, lib *Library, optFns ...func(*EncodeOptions)) error {
	opts := DefaultEncodeOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if !opts.Compression.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownCompression, opts.Compression)
	}

	numBits, err := conv.IntToUint32(lib.Store.NumBits())
	if err != nil {
		return err
	}

	payload := encodePayload(lib)

	h := header{
		version:     formatVersion,
		compression: opts.Compression,
		numBits:     numBits,
		count:       uint64(lib.Len()),
		rawSize:     uint64(len(payload)),
		checksum:    hash.CRC32C(payload),
	}
	if lib.IDs != nil {
		h.flags |= flagIDs
	}

	if _, err := w.Write(h.marshal()); err != nil {
		return err
	}

	bw := newBlockWriter(w, opts.Compression, opts.BlockSize)
	if _, err := bw.Write(payload); err != nil {
		return err
	}
	return bw.flush()
}

func encodePayload(lib *Library) []byte {
	wordsPer := fingerprint.WordsFor(lib.Store.NumBits())
	payload := make([]byte, 0, lib.Len()*wordsPer*8)

	for _, fp := range lib.Store.All() {
		for _, word := range fp.UnsafeWords() {
			payload = binary.LittleEndian.AppendUint64(payload, word)
		}
	}
	if lib.IDs != nil {
		for _, id := range lib.IDs {
			payload = binary.AppendUvarint(payload, uint64(len(id)))
			payload = append(payload, id...)
		}
	}

	return payload
}

// Decode reads a binary library from r.
func Decode(r io.Reader) (*Library, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrCorrupt, err)
	}
	h, err := unmarshalHeader(buf)
	if err != nil {
		return nil, err
	}

	nbits, err := conv.Uint32ToInt(h.numBits)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	count, err := conv.Uint64ToInt(h.count)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if count > 0 && nbits <= 0 {
		return nil, fmt.Errorf("%w: %d fingerprints of 0 bits", ErrCorrupt, count)
	}
	wordsPer := fingerprint.WordsFor(nbits)
	if wordsPer > 0 && h.count > h.rawSize/uint64(wordsPer*8) {
		return nil, fmt.Errorf("%w: payload of %d bytes cannot hold %d fingerprints", ErrCorrupt, h.rawSize, count)
	}

	payload, err := readBlocks(r, h.rawSize, h.compression)
	if err != nil {
		return nil, err
	}
	if sum := hash.CRC32C(payload); sum != h.checksum {
		return nil, fmt.Errorf("%w: got %08x, want %08x", ErrChecksum, sum, h.checksum)
	}

	fps := make([]*fingerprint.Fingerprint, count)
	words := make([]uint64, wordsPer)
	for i := range fps {
		for k := range words {
			words[k] = binary.LittleEndian.Uint64(payload)
			payload = payload[8:]
		}
		fp, err := fingerprint.FromWords(words, nbits)
		if err != nil {
			return nil, fmt.Errorf("%w: fingerprint %d: %w", ErrCorrupt, i, err)
		}
		fps[i] = fp
	}

	var ids []string
	if h.flags&flagIDs != 0 {
		ids = make([]string, count)
		for i := range ids {
			u, k := binary.Uvarint(payload)
			if k <= 0 || uint64(len(payload)-k) < u {
				return nil, fmt.Errorf("%w: id %d", ErrCorrupt, i)
			}
			n, err := conv.Uint64ToInt(u)
			if err != nil {
				return nil, fmt.Errorf("%w: id %d: %w", ErrCorrupt, i, err)
			}
			ids[i] = string(payload[k : k+n])
			payload = payload[k+n:]
		}
	}
	if len(payload) != 0 {
		return nil, fmt.Errorf("%w: %d trailing payload bytes", ErrCorrupt, len(payload))
	}

	store, err := fingerprint.NewStore(fps)
	if err != nil {
		return nil, err
	}
	return NewLibrary(store, ids)
}
