package fpfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block codec of the binary format.
type Compression uint8

const (
	// CompressionNone stores blocks raw.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio for sparse fingerprints).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Unknown(%d)", c)
	}
}

// ParseCompression parses "none", "lz4" or "zstd" (case-insensitive).
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCompression, s)
	}
}

func (c Compression) valid() bool {
	return c <= CompressionZSTD
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

const (
	blockHeaderSize  = 8
	defaultBlockSize = 256 * 1024

	// maxBlockSize bounds the raw size of a single block on both encode and
	// decode.
	maxBlockSize = 16 << 20
)

// packBlock compresses data. A nil result means store raw.
func packBlock(data []byte, c Compression) ([]byte, error) {
	var packed []byte
	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		packed = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		packed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, nil
	}

	// Keep blocks raw unless compression saves at least 10%.
	if len(packed) == 0 || float64(len(packed)) > float64(len(data))*0.9 {
		return nil, nil
	}
	return packed, nil
}

func unpackBlock(packed []byte, rawLen int, c Compression) ([]byte, error) {
	out := make([]byte, rawLen)
	switch c {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(packed, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		out = out[:n]
	case CompressionZSTD:
		dec := getZstdDecoder()
		decoded, err := dec.DecodeAll(packed, out[:0])
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		out = decoded
	default:
		return nil, fmt.Errorf("%w: packed block with codec %s", ErrCorrupt, c)
	}
	if len(out) != rawLen {
		return nil, fmt.Errorf("%w: block size %d, want %d", ErrCorrupt, len(out), rawLen)
	}
	return out, nil
}

// blockWriter buffers payload bytes and emits framed blocks.
type blockWriter struct {
	w           io.Writer
	compression Compression
	blockSize   int
	buf         []byte
}

func newBlockWriter(w io.Writer, c Compression, blockSize int) *blockWriter {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	blockSize = min(blockSize, maxBlockSize)
	return &blockWriter{
		w:           w,
		compression: c,
		blockSize:   blockSize,
		buf:         make([]byte, 0, blockSize),
	}
}

func (b *blockWriter) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		n := min(len(p), b.blockSize-len(b.buf))
		b.buf = append(b.buf, p[:n]...)
		total += n
		p = p[n:]
		if len(b.buf) == b.blockSize {
			if err := b.flush(); err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

func (b *blockWriter) flush() error {
	if len(b.buf) == 0 {
		return nil
	}

	packed, err := packBlock(b.buf, b.compression)
	if err != nil {
		return err
	}

	body := b.buf
	var hdr [blockHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(len(b.buf)))
	if packed != nil {
		binary.LittleEndian.PutUint32(hdr[4:], uint32(len(packed)))
		body = packed
	}

	if _, err := b.w.Write(hdr[:]); err != nil {
		return err
	}
	if _, err := b.w.Write(body); err != nil {
		return err
	}
	b.buf = b.buf[:0]
	return nil
}

// readBlocks decodes framed blocks from r until rawSize bytes are produced.
func readBlocks(r io.Reader, rawSize uint64, c Compression) ([]byte, error) {
	out := make([]byte, 0, min(rawSize, defaultBlockSize*4))
	var hdr [blockHeaderSize]byte

	for uint64(len(out)) < rawSize {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("%w: block header: %w", ErrCorrupt, err)
		}
		raw32 := binary.LittleEndian.Uint32(hdr[0:])
		packed32 := binary.LittleEndian.Uint32(hdr[4:])
		if raw32 == 0 || raw32 > maxBlockSize || uint64(len(out))+uint64(raw32) > rawSize {
			return nil, fmt.Errorf("%w: block of %d bytes exceeds payload", ErrCorrupt, raw32)
		}
		// Encoders store a block raw unless packing shrinks it.
		if packed32 >= raw32 {
			return nil, fmt.Errorf("%w: packed block of %d bytes for %d raw", ErrCorrupt, packed32, raw32)
		}
		rawLen, packedLen := int(raw32), int(packed32)

		if packedLen == 0 {
			start := len(out)
			out = append(out, make([]byte, rawLen)...)
			if _, err := io.ReadFull(r, out[start:]); err != nil {
				return nil, fmt.Errorf("%w: block data: %w", ErrCorrupt, err)
			}
			continue
		}

		packed := make([]byte, packedLen)
		if _, err := io.ReadFull(r, packed); err != nil {
			return nil, fmt.Errorf("%w: block data: %w", ErrCorrupt, err)
		}
		block, err := unpackBlock(packed, rawLen, c)
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
	}

	return out, nil
}
