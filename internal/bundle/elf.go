package bundle

import (
	"encoding/binary"
	"fmt"
	"io"
)

// AppImage type markers at e_ident[8:11]. Type 1 bundles carry an ISO
// image, type 2 a squashfs image; both use the same offset scheme.
var (
	elfMagic      = []byte{0x7f, 'E', 'L', 'F'}
	appImageType1 = []byte{'A', 'I', 0x01}
	appImageType2 = []byte{'A', 'I', 0x02}
)

// payloadOffset validates the ELF stub and returns the file offset where
// the appended filesystem image begins. The image starts where the ELF
// ends: past the further of the section header table and the program
// header table. debug/elf hides the raw table offsets, so the header is
// decoded by hand.
func payloadOffset(r io.ReaderAt) (int64, error) {
	ident := make([]byte, 16)
	if _, err := r.ReadAt(ident, 0); err != nil {
		return 0, fmt.Errorf("reading ELF ident: %w", err)
	}

	for i, b := range elfMagic {
		if ident[i] != b {
			return 0, fmt.Errorf("no ELF magic")
		}
	}
	if !matchMarker(ident[8:11]) {
		return 0, fmt.Errorf("no AppImage marker")
	}

	var order binary.ByteOrder
	switch ident[5] {
	case 1:
		order = binary.LittleEndian
	case 2:
		order = binary.BigEndian
	default:
		return 0, fmt.Errorf("bad ELF data encoding %d", ident[5])
	}

	switch ident[4] {
	case 1: // ELFCLASS32
		hdr := make([]byte, 52)
		if _, err := r.ReadAt(hdr, 0); err != nil {
			return 0, fmt.Errorf("reading ELF32 header: %w", err)
		}
		phoff := int64(order.Uint32(hdr[28:]))
		shoff := int64(order.Uint32(hdr[32:]))
		phentsize := int64(order.Uint16(hdr[42:]))
		phnum := int64(order.Uint16(hdr[44:]))
		shentsize := int64(order.Uint16(hdr[46:]))
		shnum := int64(order.Uint16(hdr[48:]))
		return elfEnd(52, phoff, phentsize, phnum, shoff, shentsize, shnum), nil
	case 2: // ELFCLASS64
		hdr := make([]byte, 64)
		if _, err := r.ReadAt(hdr, 0); err != nil {
			return 0, fmt.Errorf("reading ELF64 header: %w", err)
		}
		phoff := int64(order.Uint64(hdr[32:]))
		shoff := int64(order.Uint64(hdr[40:]))
		phentsize := int64(order.Uint16(hdr[54:]))
		phnum := int64(order.Uint16(hdr[56:]))
		shentsize := int64(order.Uint16(hdr[58:]))
		shnum := int64(order.Uint16(hdr[60:]))
		return elfEnd(64, phoff, phentsize, phnum, shoff, shentsize, shnum), nil
	default:
		return 0, fmt.Errorf("bad ELF class %d", ident[4])
	}
}

func matchMarker(b []byte) bool {
	for _, marker := range [][]byte{appImageType1, appImageType2} {
		if b[0] == marker[0] && b[1] == marker[1] && b[2] == marker[2] {
			return true
		}
	}
	return false
}

func elfEnd(hdrSize, phoff, phentsize, phnum, shoff, shentsize, shnum int64) int64 {
	end := hdrSize
	if pe := phoff + phentsize*phnum; pe > end {
		end = pe
	}
	if se := shoff + shentsize*shnum; se > end {
		end = se
	}
	return end
}
