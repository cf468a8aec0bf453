package elf

import "github.com/siegetechnologies/execfmt/internal/object"

// Arch maps the header's machine and data-encoding fields to a tagged
// architecture descriptor. Unrecognized machines and encodings map to
// ArchUnknown rather than failing.
func (f *File) Arch() object.Arch {
	var endian object.Endianness
	switch f.Hdr.Data {
	case ELFDATA2LSB:
		endian = object.Little
	case ELFDATA2MSB:
		endian = object.Big
	default:
		return object.ArchUnknown{}
	}

	switch f.Hdr.Machine {
	case EM_386:
		return object.ArchX86{Width: object.W32}
	case EM_X86_64:
		return object.ArchX86{Width: object.W64}
	case EM_PPC:
		return object.ArchPPC{Width: object.W32, Endan: endian}
	case EM_PPC64:
		return object.ArchPPC{Width: object.W64, Endan: endian}
	case EM_ARM:
		return object.ArchARM{Width: object.W32, Endan: endian, Mode: object.ModeARM, Encoding: object.EncARM}
	case EM_AARCH64:
		return object.ArchARM{Width: object.W64, Endan: endian, Mode: object.ModeARM, Encoding: object.EncARM}
	}
	return object.ArchUnknown{}
}
