package elf

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/siegetechnologies/execfmt/internal/object"
)

func archOf(machine Machine, data Data) object.Arch {
	f := &File{Hdr: FileHeader{Machine: machine, Data: data}}
	return f.Arch()
}

func TestArchMapping(t *testing.T) {
	cases := []struct {
		name    string
		machine Machine
		data    Data
		want    object.Arch
	}{
		{"i386", EM_386, ELFDATA2LSB, object.ArchX86{Width: object.W32}},
		{"x86-64", EM_X86_64, ELFDATA2LSB, object.ArchX86{Width: object.W64}},
		{"ppc-be", EM_PPC, ELFDATA2MSB, object.ArchPPC{Width: object.W32, Endan: object.Big}},
		{"ppc64-le", EM_PPC64, ELFDATA2LSB, object.ArchPPC{Width: object.W64, Endan: object.Little}},
		{"arm", EM_ARM, ELFDATA2LSB, object.ArchARM{Width: object.W32, Endan: object.Little, Mode: object.ModeARM, Encoding: object.EncARM}},
		{"aarch64-be", EM_AARCH64, ELFDATA2MSB, object.ArchARM{Width: object.W64, Endan: object.Big, Mode: object.ModeARM, Encoding: object.EncARM}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, archOf(tc.machine, tc.data))
		})
	}
}

func TestArchUnknownMachine(t *testing.T) {
	assert.Equal(t, object.ArchUnknown{}, archOf(Machine(0x1234), ELFDATA2LSB))
	assert.Equal(t, object.ArchUnknown{}, archOf(EM_MIPS, ELFDATA2LSB))
}

func TestArchInvalidEncoding(t *testing.T) {
	// A recognized machine with a broken data encoding still maps to
	// unknown rather than failing.
	assert.Equal(t, object.ArchUnknown{}, archOf(EM_X86_64, ELFDATANONE))
}
