// Package macho reports the CPU architectures of Mach-O executables, both
// thin images and fat (universal) binaries. The names it returns match the
// -arch spellings the cc driver accepts.
package macho

import (
	"errors"
	"fmt"
	"io"

	debugmacho "debug/macho"
)

// ErrNotMachO reports that a file exists but is not a Mach-O image, for
// example a script with a shebang line or a Windows PE executable.
var ErrNotMachO = errors.New("not a Mach-O executable")

// Inspector adapts Architectures for injection into components that want to
// fake inspection in tests.
type Inspector struct{}

// Architectures implements the rewriter's inspection hook.
func (Inspector) Architectures(path string) ([]string, error) {
	return Architectures(path)
}

// Architectures returns the architecture names of the executable at path in
// image order. Fat binaries yield one entry per slice, deduplicated; thin
// images yield exactly one. Files that are not Mach-O at all report
// ErrNotMachO.
func Architectures(path string) ([]string, error) {
	fat, err := debugmacho.OpenFat(path)
	if err == nil {
		defer fat.Close()
		names := make([]string, 0, len(fat.Arches))
		seen := make(map[string]bool, len(fat.Arches))
		for _, arch := range fat.Arches {
			name := cpuName(arch.Cpu)
			if seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
		return names, nil
	}

	f, err := debugmacho.Open(path)
	if err != nil {
		// Bad magic is a *FormatError; an empty or truncated file
		// surfaces as EOF before the parser can classify it.
		var formatErr *debugmacho.FormatError
		if errors.As(err, &formatErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotMachO)
		}
		return nil, err
	}
	defer f.Close()
	return []string{cpuName(f.Cpu)}, nil
}

func cpuName(cpu debugmacho.Cpu) string {
	switch cpu {
	case debugmacho.Cpu386:
		return "i386"
	case debugmacho.CpuAmd64:
		return "x86_64"
	case debugmacho.CpuArm:
		return "arm"
	case debugmacho.CpuArm64:
		return "arm64"
	case debugmacho.CpuPpc:
		return "ppc"
	case debugmacho.CpuPpc64:
		return "ppc64"
	default:
		return cpu.String()
	}
}
