package inspect

import (
	"fmt"

	"github.com/siegetechnologies/execfmt/internal/elf"
	"github.com/siegetechnologies/execfmt/internal/object"
)

// DefaultChecks returns the built-in checks in their canonical order.
func DefaultChecks() []Check {
	return []Check{
		&FormatCheck{},
		&MetadataCheck{},
		&SectionCheck{},
		&SymbolCheck{},
	}
}

// FormatCheck validates the identification fields of the header.
type FormatCheck struct{}

func (c *FormatCheck) ID() string { return "format" }

func (c *FormatCheck) Description() string {
	return "Validates class, data encoding and format version"
}

func (c *FormatCheck) Run(f *elf.File) Result {
	result := Result{Status: StatusPass, Metadata: map[string]interface{}{
		"class":   f.Hdr.Class.String(),
		"data":    f.Hdr.Data.String(),
		"version": f.Hdr.Version.String(),
	}}

	if f.Hdr.Version != elf.EV_CURRENT {
		result.Status = StatusFail
		result.Details = fmt.Sprintf("unexpected format version: %s", f.Hdr.Version)
		return result
	}
	if len(f.SectionHeaders()) == 0 {
		result.Status = StatusFail
		result.Details = "file has no section header table"
		return result
	}

	result.Details = fmt.Sprintf("%s, %s", f.Hdr.Class, f.Hdr.Data)
	return result
}

// MetadataCheck validates the architecture mapping and entry point.
type MetadataCheck struct{}

func (c *MetadataCheck) ID() string { return "metadata" }

func (c *MetadataCheck) Description() string {
	return "Validates machine, architecture and entry point metadata"
}

func (c *MetadataCheck) Run(f *elf.File) Result {
	arch := f.Arch()
	result := Result{Status: StatusPass, Metadata: map[string]interface{}{
		"machine":     f.Hdr.Machine.String(),
		"type":        f.Hdr.Type.String(),
		"arch":        arch.String(),
		"entry_point": f.Hdr.Entry,
	}}

	if _, unknown := arch.(object.ArchUnknown); unknown {
		result.Status = StatusFail
		result.Details = fmt.Sprintf("unrecognized machine: %s", f.Hdr.Machine)
		return result
	}
	if f.Hdr.Type == elf.ET_EXEC && f.Hdr.Entry == 0 {
		result.Status = StatusFail
		result.Details = "executable has zero entry point"
		return result
	}

	result.Details = fmt.Sprintf("%s %s", arch, f.Hdr.Type)
	return result
}

// SectionCheck validates section presence and name resolution. The
// NULL section at index 0 legitimately has an empty name and is
// skipped.
type SectionCheck struct{}

func (c *SectionCheck) ID() string { return "sections" }

func (c *SectionCheck) Description() string {
	return "Validates section presence and name resolution"
}

func (c *SectionCheck) Run(f *elf.File) Result {
	hdrs := f.SectionHeaders()
	unresolved := 0
	for i, sh := range hdrs {
		if i == 0 {
			continue
		}
		if sh.Name == "" {
			unresolved++
		}
	}

	result := Result{Status: StatusPass, Metadata: map[string]interface{}{
		"section_count":    len(hdrs),
		"unresolved_names": unresolved,
	}}

	if unresolved > 0 {
		result.Status = StatusFail
		result.Details = fmt.Sprintf("%d section name(s) failed to resolve", unresolved)
		return result
	}
	if f.Hdr.Type == elf.ET_EXEC {
		if _, ok := f.Section(".text"); !ok {
			result.Status = StatusFail
			result.Details = "executable is missing a .text section"
			return result
		}
	}

	result.Details = fmt.Sprintf("%d sections, all names resolved", len(hdrs))
	return result
}

// SymbolCheck validates symbol table layout: whole-record payloads,
// in-range string table links, and named symbols.
type SymbolCheck struct{}

func (c *SymbolCheck) ID() string { return "symbols" }

func (c *SymbolCheck) Description() string {
	return "Validates symbol table layout and name resolution"
}

func (c *SymbolCheck) Run(f *elf.File) Result {
	hdrs := f.SectionHeaders()
	result := Result{Status: StatusPass, Metadata: map[string]interface{}{
		"symbol_count": len(f.Symbols()),
	}}

	for i, sh := range hdrs {
		if sh.Type != elf.SHT_SYMTAB {
			continue
		}
		if sh.Entsize == 0 {
			result.Status = StatusFail
			result.Details = fmt.Sprintf("symbol table %d declares zero entry size", i)
			return result
		}
		if sh.Size%sh.Entsize != 0 {
			result.Status = StatusFail
			result.Details = fmt.Sprintf("symbol table %d payload is not a whole number of records", i)
			return result
		}
		if int(sh.Link) >= len(hdrs) {
			result.Status = StatusFail
			result.Details = fmt.Sprintf("symbol table %d links to out-of-range section %d", i, sh.Link)
			return result
		}
	}

	// The reserved null symbol is legitimately anonymous, so an empty
	// name is recorded but not failed.
	_, anonymous := f.Symbol("")
	result.Metadata["anonymous_symbols"] = anonymous

	result.Details = fmt.Sprintf("%d symbols extracted", len(f.Symbols()))
	return result
}
