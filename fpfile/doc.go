// Package fpfile reads and writes fingerprint libraries.
//
// Two formats are supported.
//
// # FPS text
//
// The line-oriented chemfp format. Header lines start with '#'; the only
// one interpreted is num_bits. Each record is the hex fingerprint, a tab,
// and the compound ID:
//
//	#FPS1
//	#num_bits=2048
//	0a00...ff	CHEMBL25
//
// # Binary
//
// A compact, checksummed container for large libraries:
//
//	magic    [4]byte  "BFP1"
//	version  uint16
//	codec    uint8    Compression
//	flags    uint8    bit 0: IDs present
//	numBits  uint32
//	count    uint64
//	rawSize  uint64   uncompressed payload size
//	checksum uint32   CRC32C of the uncompressed payload
//	blocks   ...      [rawLen uint32][packedLen uint32][data]
//
// All integers are little-endian. The payload is every fingerprint's words
// followed, when flagged, by uvarint-prefixed IDs. Blocks whose packed
// length is zero are stored raw.
//
// Read sniffs the magic and dispatches to the matching decoder.
package fpfile
