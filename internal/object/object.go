// Package object defines the format-independent view of a parsed
// executable container. Each concrete format parser (ELF today, other
// container formats later) produces a value implementing Object.
package object

import "fmt"

// Object is the capability surface shared by all container formats.
type Object interface {
	// Arch reports the target architecture the file was built for,
	// or ArchUnknown if the machine identifier is not recognized.
	Arch() Arch

	// Section looks up a section by its resolved name.
	Section(name string) (*Section, bool)
}

// Section is a named region of the file. Data is an owned copy of the
// section's payload; it never aliases the source stream.
type Section struct {
	Name   string
	Addr   uint64
	Offset uint64
	Size   uint64
	Data   []byte
}

func (s *Section) String() string {
	return fmt.Sprintf("%s addr=%#x off=%#x size=%d", s.Name, s.Addr, s.Offset, s.Size)
}

// Width is the address width of an architecture.
type Width uint8

const (
	W32 Width = 32
	W64 Width = 64
)

func (w Width) String() string {
	return fmt.Sprintf("%d-bit", uint8(w))
}

// Endianness is the byte order of an architecture.
type Endianness uint8

const (
	Little Endianness = iota
	Big
)

func (e Endianness) String() string {
	if e == Big {
		return "big-endian"
	}
	return "little-endian"
}

// ARMMode selects between the ARM and Thumb instruction states.
type ARMMode uint8

const (
	ModeARM ARMMode = iota
	ModeThumb
)

// ARMEncoding distinguishes the A-profile and M-profile encodings.
type ARMEncoding uint8

const (
	EncARM ARMEncoding = iota
	EncMClass
)

// Arch is a tagged architecture descriptor. Exactly one of the concrete
// Arch* types is returned by Object.Arch.
type Arch interface {
	fmt.Stringer
	isArch()
}

// ArchX86 covers i386 and x86-64.
type ArchX86 struct {
	Width Width
}

// ArchPPC covers 32- and 64-bit PowerPC.
type ArchPPC struct {
	Width Width
	Endan Endianness
}

// ArchARM covers ARM and AArch64.
type ArchARM struct {
	Width    Width
	Endan    Endianness
	Mode     ARMMode
	Encoding ARMEncoding
}

// ArchUnknown is returned for machine identifiers with no mapping.
type ArchUnknown struct{}

func (ArchX86) isArch()     {}
func (ArchPPC) isArch()     {}
func (ArchARM) isArch()     {}
func (ArchUnknown) isArch() {}

func (a ArchX86) String() string {
	return fmt.Sprintf("x86 (%s)", a.Width)
}

func (a ArchPPC) String() string {
	return fmt.Sprintf("powerpc (%s, %s)", a.Width, a.Endan)
}

func (a ArchARM) String() string {
	mode := "arm"
	if a.Mode == ModeThumb {
		mode = "thumb"
	}
	return fmt.Sprintf("arm (%s, %s, %s)", a.Width, a.Endan, mode)
}

func (ArchUnknown) String() string {
	return "unknown"
}
