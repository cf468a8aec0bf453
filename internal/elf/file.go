// Package elf decodes the ELF container format: file header, section
// header table, section payloads, and symbol tables. It is a read-only
// structural parser; it does not link, relocate, or disassemble.
package elf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/siegetechnologies/execfmt/internal/object"
)

// Malformed-container errors. Truncation and seek failures are
// propagated from the underlying stream instead.
var (
	ErrBadMagic      = errors.New("invalid magic number")
	ErrBadClass      = errors.New("invalid class")
	ErrBadEndianness = errors.New("invalid endianness")
)

// File is a fully parsed ELF file. It owns every byte it exposes, so
// the source stream may be closed or reused once Parse returns, and a
// File is safe for concurrent readers.
type File struct {
	Hdr      FileHeader
	hdrs     []SectionHeader
	sections map[string]*object.Section
	symbols  map[string]uint64
}

var _ object.Object = (*File)(nil)

// Parse decodes an ELF file from r. The stream must be seekable and is
// read starting at offset 0; its position after Parse returns is
// unspecified. Parse either returns a complete File or an error, never
// a partial result.
func Parse(r io.ReadSeeker) (*File, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to header: %w", err)
	}

	var ident [EI_NIDENT]byte
	if _, err := io.ReadFull(r, ident[:]); err != nil {
		return nil, fmt.Errorf("read identification: %w", err)
	}
	if !bytes.Equal(ident[0:4], ELFMag[:]) {
		return nil, ErrBadMagic
	}

	hdr := FileHeader{
		Class:      Class(ident[EI_CLASS]),
		Data:       Data(ident[EI_DATA]),
		OSABI:      OSABI(ident[EI_OSABI]),
		ABIVersion: ident[EI_ABIVERSION],
	}
	if hdr.Class != ELFCLASS32 && hdr.Class != ELFCLASS64 {
		return nil, ErrBadClass
	}

	etype, err := readUint16(hdr.Data, r)
	if err != nil {
		return nil, fmt.Errorf("read type: %w", err)
	}
	machine, err := readUint16(hdr.Data, r)
	if err != nil {
		return nil, fmt.Errorf("read machine: %w", err)
	}
	version, err := readUint32(hdr.Data, r)
	if err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	hdr.Type = Type(etype)
	hdr.Machine = Machine(machine)
	hdr.Version = Version(version)

	// Entry and the two table offsets are the only class-dependent
	// header fields; everything after them is fixed-width again.
	if hdr.Entry, err = readWord(hdr.Class, hdr.Data, r); err != nil {
		return nil, fmt.Errorf("read entry point: %w", err)
	}
	if hdr.Phoff, err = readWord(hdr.Class, hdr.Data, r); err != nil {
		return nil, fmt.Errorf("read program header offset: %w", err)
	}
	if hdr.Shoff, err = readWord(hdr.Class, hdr.Data, r); err != nil {
		return nil, fmt.Errorf("read section header offset: %w", err)
	}

	if hdr.Flags, err = readUint32(hdr.Data, r); err != nil {
		return nil, fmt.Errorf("read flags: %w", err)
	}
	// ehsize, phentsize, phnum and shentsize are consumed only to
	// advance the cursor; shnum and shstrndx are needed further on.
	for i := 0; i < 4; i++ {
		if _, err := readUint16(hdr.Data, r); err != nil {
			return nil, fmt.Errorf("read header sizes: %w", err)
		}
	}
	shnum, err := readUint16(hdr.Data, r)
	if err != nil {
		return nil, fmt.Errorf("read section header count: %w", err)
	}
	shstrndx, err := readUint16(hdr.Data, r)
	if err != nil {
		return nil, fmt.Errorf("read string table index: %w", err)
	}

	hdrs, err := parseSectionHeaders(r, hdr, int(shnum))
	if err != nil {
		return nil, err
	}

	payloads, err := loadSectionData(r, hdrs)
	if err != nil {
		return nil, err
	}

	symbols, err := extractSymbols(hdr, hdrs, payloads)
	if err != nil {
		return nil, err
	}

	// Name backfill needs the section-name string table payload, which
	// only exists once all payloads are loaded.
	if int(shstrndx) < len(payloads) {
		shstrtab := payloads[shstrndx]
		for i := range hdrs {
			hdrs[i].Name = getString(shstrtab, int(hdrs[i].nameIdx))
		}
	}

	sections := make(map[string]*object.Section, len(hdrs))
	for i, sh := range hdrs {
		sections[sh.Name] = &object.Section{
			Name:   sh.Name,
			Addr:   sh.Addr,
			Offset: sh.Offset,
			Size:   sh.Size,
			Data:   payloads[i],
		}
	}

	return &File{
		Hdr:      hdr,
		hdrs:     hdrs,
		sections: sections,
		symbols:  symbols,
	}, nil
}

func parseSectionHeaders(r io.ReadSeeker, hdr FileHeader, shnum int) ([]SectionHeader, error) {
	if _, err := r.Seek(int64(hdr.Shoff), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to section header table: %w", err)
	}

	hdrs := make([]SectionHeader, 0, shnum)
	for i := 0; i < shnum; i++ {
		var sh SectionHeader

		nameIdx, err := readUint32(hdr.Data, r)
		if err != nil {
			return nil, fmt.Errorf("section %d: read name index: %w", i, err)
		}
		sh.nameIdx = nameIdx

		shtype, err := readUint32(hdr.Data, r)
		if err != nil {
			return nil, fmt.Errorf("section %d: read type: %w", i, err)
		}
		sh.Type = SectionType(shtype)

		// Flags, addr, offset and size are 32-bit in ELF32 records and
		// 64-bit in ELF64 records; link and info are 32-bit in both.
		flags, err := readWord(hdr.Class, hdr.Data, r)
		if err != nil {
			return nil, fmt.Errorf("section %d: read flags: %w", i, err)
		}
		sh.Flags = SectionFlag(flags)

		if sh.Addr, err = readWord(hdr.Class, hdr.Data, r); err != nil {
			return nil, fmt.Errorf("section %d: read address: %w", i, err)
		}
		if sh.Offset, err = readWord(hdr.Class, hdr.Data, r); err != nil {
			return nil, fmt.Errorf("section %d: read offset: %w", i, err)
		}
		if sh.Size, err = readWord(hdr.Class, hdr.Data, r); err != nil {
			return nil, fmt.Errorf("section %d: read size: %w", i, err)
		}
		if sh.Link, err = readUint32(hdr.Data, r); err != nil {
			return nil, fmt.Errorf("section %d: read link: %w", i, err)
		}
		if sh.Info, err = readUint32(hdr.Data, r); err != nil {
			return nil, fmt.Errorf("section %d: read info: %w", i, err)
		}
		if sh.Addralign, err = readWord(hdr.Class, hdr.Data, r); err != nil {
			return nil, fmt.Errorf("section %d: read alignment: %w", i, err)
		}
		if sh.Entsize, err = readWord(hdr.Class, hdr.Data, r); err != nil {
			return nil, fmt.Errorf("section %d: read entry size: %w", i, err)
		}

		hdrs = append(hdrs, sh)
	}
	return hdrs, nil
}

func loadSectionData(r io.ReadSeeker, hdrs []SectionHeader) ([][]byte, error) {
	payloads := make([][]byte, 0, len(hdrs))
	for i, sh := range hdrs {
		var buf bytes.Buffer
		if sh.Size > 0 {
			if sh.Size > math.MaxInt64 {
				return nil, fmt.Errorf("section %d: declared size %d overflows", i, sh.Size)
			}
			if _, err := r.Seek(int64(sh.Offset), io.SeekStart); err != nil {
				return nil, fmt.Errorf("section %d: seek to payload: %w", i, err)
			}
			// Grow the buffer only as bytes actually arrive: a size
			// field the file cannot back surfaces as a truncation
			// error instead of a giant up-front allocation.
			if _, err := io.CopyN(&buf, r, int64(sh.Size)); err != nil {
				return nil, fmt.Errorf("section %d: read payload: %w", i, err)
			}
		}
		payloads = append(payloads, buf.Bytes())
	}
	return payloads, nil
}

// extractSymbols walks every SHT_SYMTAB section's payload in entsize
// strides, resolving each symbol's name through the string table named
// by the symtab's link field. Later symbols overwrite earlier ones with
// the same name.
func extractSymbols(hdr FileHeader, hdrs []SectionHeader, payloads [][]byte) (map[string]uint64, error) {
	symbols := make(map[string]uint64)
	for i, sh := range hdrs {
		if sh.Type != SHT_SYMTAB || sh.Entsize == 0 {
			continue
		}

		var strtab []byte
		if int(sh.Link) < len(payloads) {
			strtab = payloads[sh.Link]
		}

		cur := bytes.NewReader(payloads[i])
		for j := uint64(0); j < sh.Size/sh.Entsize; j++ {
			if _, err := cur.Seek(int64(j*sh.Entsize), io.SeekStart); err != nil {
				return nil, fmt.Errorf("symbol table %d: seek to entry %d: %w", i, j, err)
			}

			nameIdx, err := readUint32(hdr.Data, cur)
			if err != nil {
				return nil, fmt.Errorf("symbol table %d: read name index: %w", i, err)
			}

			var addr uint64
			switch hdr.Class {
			case ELFCLASS32:
				v, err := readUint32(hdr.Data, cur)
				if err != nil {
					return nil, fmt.Errorf("symbol table %d: read value: %w", i, err)
				}
				addr = uint64(v)
			case ELFCLASS64:
				// info, other and section index sit between the name
				// and the value in ELF64 records.
				if _, err := readUint8(cur); err != nil {
					return nil, fmt.Errorf("symbol table %d: read info: %w", i, err)
				}
				if _, err := readUint8(cur); err != nil {
					return nil, fmt.Errorf("symbol table %d: read other: %w", i, err)
				}
				if _, err := readUint16(hdr.Data, cur); err != nil {
					return nil, fmt.Errorf("symbol table %d: read section index: %w", i, err)
				}
				if addr, err = readUint64(hdr.Data, cur); err != nil {
					return nil, fmt.Errorf("symbol table %d: read value: %w", i, err)
				}
			}

			symbols[getString(strtab, int(nameIdx))] = addr
		}
	}
	return symbols, nil
}

// getString returns the NUL-terminated run starting at start. A start
// past the end of the table yields an empty name; a run with no
// terminator resolves to the remainder of the buffer. Names are raw
// single-byte text, never UTF-8 validated.
func getString(data []byte, start int) string {
	if start < 0 || start >= len(data) {
		return ""
	}
	end := bytes.IndexByte(data[start:], 0)
	if end < 0 {
		return string(data[start:])
	}
	return string(data[start : start+end])
}

// Sections returns the name-keyed section map. Duplicate section names
// collapse to the last one decoded.
func (f *File) Sections() map[string]*object.Section {
	return f.sections
}

// Symbols returns the symbol name to address map.
func (f *File) Symbols() map[string]uint64 {
	return f.symbols
}

// Section looks up a section by name.
func (f *File) Section(name string) (*object.Section, bool) {
	s, ok := f.sections[name]
	return s, ok
}

// Symbol looks up a symbol's address by name.
func (f *File) Symbol(name string) (uint64, bool) {
	addr, ok := f.symbols[name]
	return addr, ok
}

// SectionHeaders returns the decoded section header table in file
// order. The slice must not be modified.
func (f *File) SectionHeaders() []SectionHeader {
	return f.hdrs
}

// String renders the diagnostic dump: header summary, one line per
// section in file order, then symbols sorted by name.
func (f *File) String() string {
	var b strings.Builder
	fmt.Fprintln(&b, "ELF file")
	fmt.Fprintln(&b, f.Hdr)
	fmt.Fprintln(&b, "ELF sections")
	for _, sh := range f.hdrs {
		fmt.Fprintln(&b, sh)
	}
	fmt.Fprintln(&b, "ELF symbols")
	names := make([]string, 0, len(f.symbols))
	for name := range f.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "%s: %#x\n", name, f.symbols[name])
	}
	return b.String()
}
