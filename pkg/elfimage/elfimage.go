// Package elfimage defines the boundary shape the engine needs from an
// ELF loader: sections, their virtual addresses, their ALLOC flag, and
// their raw bytes. The loader itself — parsing a real ELF file, resolving
// symbols, relocations, and so on — is an external collaborator and out
// of scope for this module; FromDebugELF below is a thin adapter over the
// standard library's reader, provided only so the demo CLI in
// cmd/banshee has something real to point at, not a general-purpose ELF
// loader implementation.
package elfimage

import (
	"debug/elf"
	"fmt"
)

// Section is one loadable (or non-loadable) section of the binary.
type Section struct {
	Name  string
	Addr  uint64
	Size  uint64
	Alloc bool   // SHF_ALLOC flag
	Data  []byte // raw section bytes, little-endian
}

// Image is the in-memory ELF object translate_elf consumes.
type Image struct {
	Sections []Section
}

// FromDebugELF adapts a stdlib *elf.File into an Image. It is not part of
// the engine's contract — it exists to let cmd/banshee load a real ELF
// file without the engine itself depending on a specific ELF library.
func FromDebugELF(f *elf.File) (*Image, error) {
	img := &Image{}
	for _, s := range f.Sections {
		data, err := s.Data()
		if err != nil {
			// A section whose data can't be read (e.g. SHT_NOBITS) is
			// carried through with no bytes rather than failing the
			// whole load; ALLOC sections with no data simply preload
			// nothing into global memory.
			data = nil
		}
		img.Sections = append(img.Sections, Section{
			Name:  s.Name,
			Addr:  s.Addr,
			Size:  s.Size,
			Alloc: s.Flags&elf.SHF_ALLOC != 0,
			Data:  data,
		})
	}
	if len(img.Sections) == 0 {
		return nil, fmt.Errorf("elfimage: no sections in ELF image")
	}
	return img, nil
}
