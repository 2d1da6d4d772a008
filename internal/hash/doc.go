// Package hash provides the checksum used by chunk files.
//
// Every page payload of a chunk file carries a CRC32-Castagnoli (CRC32C)
// checksum in the footer; readers verify it before handing pages to the
// filter. CRC32C is hardware accelerated on x86 (SSE4.2) and ARM64 (CRC
// extension).
//
// For one-shot checksums:
//
//	checksum := hash.CRC32C(data)
//
// For streaming checksums:
//
//	h := hash.NewCRC32C()
//	h.Write(page)
//	h.Write(invertedIndex)
//	checksum := h.Sum32()
package hash
