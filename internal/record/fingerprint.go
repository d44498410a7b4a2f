package record

import (
	"encoding/binary"

	"github.com/klauspost/crc32"
)

// Fingerprint computes the Path Index bucket key for an ip sequence: a
// CRC-32 (Koopman table, polynomial 0xEDB88320 — the IEEE variant) over the
// raw bytes of the live ip prefix. Two byte-equal ip buffers always produce
// equal fingerprints (P4); an empty buffer is legal and produces the CRC of
// the empty string.
//
// uintptr has no fixed width across platforms, so each entry is packed as
// 8 bytes, little-endian, rather than reinterpreted via unsafe — this keeps
// the fingerprint deterministic independent of GOARCH's native pointer
// size.
func Fingerprint(ips []uintptr) uint32 {
	if len(ips) == 0 {
		return crc32.ChecksumIEEE(nil)
	}

	buf := make([]byte, len(ips)*8)
	for i, ip := range ips {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(ip))
	}
	return crc32.ChecksumIEEE(buf)
}
