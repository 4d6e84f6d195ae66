// Package hash provides the checksum used by the binary fingerprint format.
//
// Payload integrity uses CRC32-Castagnoli, which Go's hash/crc32 computes
// with SSE4.2 or the ARM CRC extension when available:
//
//	checksum := hash.CRC32C(payload)
//
//	h := hash.NewCRC32C()
//	h.Write(block1)
//	h.Write(block2)
//	checksum := h.Sum32()
package hash
