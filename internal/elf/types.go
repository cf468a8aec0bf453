package elf

import "fmt"

// Identification block layout.
const (
	EI_NIDENT     = 16
	EI_CLASS      = 4
	EI_DATA       = 5
	EI_VERSION    = 6
	EI_OSABI      = 7
	EI_ABIVERSION = 8
)

// ELFMag is the 4-byte magic that opens every ELF file.
var ELFMag = [4]byte{0x7f, 'E', 'L', 'F'}

// Class is the address width of the container (EI_CLASS).
type Class uint8

const (
	ELFCLASSNONE Class = 0
	ELFCLASS32   Class = 1
	ELFCLASS64   Class = 2
)

func (c Class) String() string {
	switch c {
	case ELFCLASS32:
		return "ELF32"
	case ELFCLASS64:
		return "ELF64"
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

// Data is the byte order of all multi-byte fields (EI_DATA).
type Data uint8

const (
	ELFDATANONE Data = 0
	ELFDATA2LSB Data = 1
	ELFDATA2MSB Data = 2
)

func (d Data) String() string {
	switch d {
	case ELFDATA2LSB:
		return "little-endian"
	case ELFDATA2MSB:
		return "big-endian"
	}
	return fmt.Sprintf("data(%d)", uint8(d))
}

// OSABI identifies the operating system ABI (EI_OSABI).
type OSABI uint8

const (
	ELFOSABI_NONE    OSABI = 0
	ELFOSABI_LINUX   OSABI = 3
	ELFOSABI_SOLARIS OSABI = 6
	ELFOSABI_FREEBSD OSABI = 9
	ELFOSABI_OPENBSD OSABI = 12
	ELFOSABI_ARM     OSABI = 97
)

var osABINames = map[OSABI]string{
	ELFOSABI_NONE:    "UNIX System V",
	ELFOSABI_LINUX:   "Linux",
	ELFOSABI_SOLARIS: "Solaris",
	ELFOSABI_FREEBSD: "FreeBSD",
	ELFOSABI_OPENBSD: "OpenBSD",
	ELFOSABI_ARM:     "ARM",
}

func (o OSABI) String() string {
	if s, ok := osABINames[o]; ok {
		return s
	}
	return fmt.Sprintf("osabi(%d)", uint8(o))
}

// Type is the object file type (e_type).
type Type uint16

const (
	ET_NONE Type = 0
	ET_REL  Type = 1
	ET_EXEC Type = 2
	ET_DYN  Type = 3
	ET_CORE Type = 4
)

var typeNames = map[Type]string{
	ET_NONE: "none",
	ET_REL:  "relocatable",
	ET_EXEC: "executable",
	ET_DYN:  "shared object",
	ET_CORE: "core",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("type(%d)", uint16(t))
}

// Machine is the target instruction-set identifier (e_machine).
type Machine uint16

const (
	EM_NONE    Machine = 0
	EM_386     Machine = 3
	EM_MIPS    Machine = 8
	EM_PPC     Machine = 20
	EM_PPC64   Machine = 21
	EM_ARM     Machine = 40
	EM_X86_64  Machine = 62
	EM_AARCH64 Machine = 183
	EM_RISCV   Machine = 243
)

var machineNames = map[Machine]string{
	EM_NONE:    "none",
	EM_386:     "Intel 80386",
	EM_MIPS:    "MIPS",
	EM_PPC:     "PowerPC",
	EM_PPC64:   "PowerPC64",
	EM_ARM:     "ARM",
	EM_X86_64:  "AMD x86-64",
	EM_AARCH64: "AArch64",
	EM_RISCV:   "RISC-V",
}

func (m Machine) String() string {
	if s, ok := machineNames[m]; ok {
		return s
	}
	return fmt.Sprintf("machine(%d)", uint16(m))
}

// Version is the ELF format version (e_version).
type Version uint32

const EV_CURRENT Version = 1

func (v Version) String() string {
	if v == EV_CURRENT {
		return "1 (current)"
	}
	return fmt.Sprintf("%d", uint32(v))
}

// SectionType is the sh_type field of a section header.
type SectionType uint32

const (
	SHT_NULL     SectionType = 0
	SHT_PROGBITS SectionType = 1
	SHT_SYMTAB   SectionType = 2
	SHT_STRTAB   SectionType = 3
	SHT_RELA     SectionType = 4
	SHT_HASH     SectionType = 5
	SHT_DYNAMIC  SectionType = 6
	SHT_NOTE     SectionType = 7
	SHT_NOBITS   SectionType = 8
	SHT_REL      SectionType = 9
	SHT_DYNSYM   SectionType = 11
)

var sectionTypeNames = map[SectionType]string{
	SHT_NULL:     "NULL",
	SHT_PROGBITS: "PROGBITS",
	SHT_SYMTAB:   "SYMTAB",
	SHT_STRTAB:   "STRTAB",
	SHT_RELA:     "RELA",
	SHT_HASH:     "HASH",
	SHT_DYNAMIC:  "DYNAMIC",
	SHT_NOTE:     "NOTE",
	SHT_NOBITS:   "NOBITS",
	SHT_REL:      "REL",
	SHT_DYNSYM:   "DYNSYM",
}

func (t SectionType) String() string {
	if s, ok := sectionTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("shtype(%d)", uint32(t))
}

// SectionFlag is the sh_flags bit set, widened to 64 bits for ELF32.
type SectionFlag uint64

const (
	SHF_WRITE     SectionFlag = 0x1
	SHF_ALLOC     SectionFlag = 0x2
	SHF_EXECINSTR SectionFlag = 0x4
)

func (f SectionFlag) String() string {
	s := ""
	if f&SHF_WRITE != 0 {
		s += "W"
	}
	if f&SHF_ALLOC != 0 {
		s += "A"
	}
	if f&SHF_EXECINSTR != 0 {
		s += "X"
	}
	return s
}

// FileHeader holds the decoded ELF header. Offset and address fields
// are widened to 64 bits even for ELFCLASS32 sources so callers see a
// single numeric type.
type FileHeader struct {
	Class      Class
	Data       Data
	Version    Version
	OSABI      OSABI
	ABIVersion uint8
	Type       Type
	Machine    Machine
	Entry      uint64
	Phoff      uint64
	Shoff      uint64
	Flags      uint32
}

func (h FileHeader) String() string {
	return fmt.Sprintf("%s %s %s, %s, %s, version %s, entry %#x",
		h.Class, h.Data, h.OSABI, h.Type, h.Machine, h.Version, h.Entry)
}

// SectionHeader is one decoded record of the section header table.
// Name is backfilled from the section-name string table after all
// payloads are loaded; until then it is empty.
type SectionHeader struct {
	Name      string
	nameIdx   uint32
	Type      SectionType
	Flags     SectionFlag
	Addr      uint64
	Offset    uint64
	Size      uint64
	Link      uint32
	Info      uint32
	Addralign uint64
	Entsize   uint64
}

func (sh SectionHeader) String() string {
	return fmt.Sprintf("%-24s %-8s %-3s addr=%#010x off=%#08x size=%-8d link=%d entsize=%d",
		sh.Name, sh.Type, sh.Flags, sh.Addr, sh.Offset, sh.Size, sh.Link, sh.Entsize)
}
