package rewriter

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/launchwrap/launchwrap/internal/bundle"
)

// Wrap states reported by Inspect.
const (
	// StateMissing: no entry-point executable and no preserved original.
	StateMissing = "missing"
	// StateOriginal: the entry point is untouched.
	StateOriginal = "original"
	// StateWrapped: launcher installed, original preserved.
	StateWrapped = "wrapped"
	// StatePartialMissingReal: launcher installed but the preserved
	// original is gone. The application cannot launch.
	StatePartialMissingReal = "partial_missing_real"
	// StateOrphanedReal: the entry point is gone but a preserved
	// original remains. Restore repairs this.
	StateOrphanedReal = "orphaned_real"
	// StateStaleReal: the entry point is not a launcher (likely a
	// reinstall) but a preserved copy still sits next to it.
	StateStaleReal = "stale_real"
)

// File kinds sniffed from content by Inspect.
const (
	KindScript   = "script"
	KindMachO    = "macho"
	KindMachOFat = "macho-fat"
	KindOther    = "other"
)

// Status describes the wrap state of one application.
type Status struct {
	AppPath    string `json:"app_path"`
	Executable string `json:"executable"`
	RealPath   string `json:"real_path"`

	// State is a summary derived from the fields below; see the State*
	// constants.
	State string `json:"state"`

	TargetExists     bool `json:"target_exists"`
	TargetIsLauncher bool `json:"target_is_launcher"`
	RealExists       bool `json:"real_exists"`

	// Kind, mode and content hash of the entry point and the preserved
	// original, where each exists. Hashes are best-effort.
	TargetKind string `json:"target_kind,omitempty"`
	TargetMode string `json:"target_mode,omitempty"`
	TargetHash string `json:"target_hash,omitempty"`
	RealKind   string `json:"real_kind,omitempty"`
	RealMode   string `json:"real_mode,omitempty"`
	RealHash   string `json:"real_hash,omitempty"`

	// Architectures of whichever file carries the application's code:
	// the preserved original when wrapped, otherwise the entry point.
	// Omitted when inspection is unavailable or fails.
	Architectures []string `json:"architectures,omitempty"`
}

// Inspect reports the wrap state of the application at appPath without
// modifying anything.
func (r *Rewriter) Inspect(appPath string) (*Status, error) {
	abs, err := filepath.Abs(appPath)
	if err != nil {
		return nil, err
	}

	target, err := bundle.ExecutablePath(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", abs, ErrMissingBinary)
		}
		return nil, err
	}
	real := target + BackupSuffix

	st := &Status{AppPath: abs, Executable: target, RealPath: real}

	if fi, err := os.Lstat(target); err == nil {
		st.TargetExists = true
		st.TargetMode = fmt.Sprintf("%04o", fi.Mode().Perm())
		st.TargetKind = sniffKind(target)
		if is, lerr := IsLauncher(target); lerr == nil {
			st.TargetIsLauncher = is
		}
		if hash, herr := HashBinary(target); herr == nil {
			st.TargetHash = hash
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat %s: %w", target, err)
	}

	if fi, err := os.Lstat(real); err == nil {
		st.RealExists = true
		st.RealMode = fmt.Sprintf("%04o", fi.Mode().Perm())
		st.RealKind = sniffKind(real)
		if hash, herr := HashBinary(real); herr == nil {
			st.RealHash = hash
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat %s: %w", real, err)
	}

	switch {
	case !st.TargetExists && !st.RealExists:
		st.State = StateMissing
	case !st.TargetExists:
		st.State = StateOrphanedReal
	case st.TargetIsLauncher && st.RealExists:
		st.State = StateWrapped
	case st.TargetIsLauncher:
		st.State = StatePartialMissingReal
	case st.RealExists:
		st.State = StateStaleReal
	default:
		st.State = StateOriginal
	}

	if r.opts.Inspector != nil && (st.TargetExists || st.RealExists) {
		probe := target
		if st.RealExists && (st.TargetIsLauncher || !st.TargetExists) {
			probe = real
		}
		if archs, aerr := r.opts.Inspector.Architectures(probe); aerr == nil {
			st.Architectures = archs
		}
	}

	return st, nil
}

// sniffKind classifies a file by its leading magic: a #! script, a thin or
// fat Mach-O image, or something else. Unreadable files are "other".
func sniffKind(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return KindOther
	}
	defer f.Close()

	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return KindOther
	}
	if magic[0] == '#' && magic[1] == '!' {
		return KindScript
	}
	switch binary.BigEndian.Uint32(magic[:]) {
	case 0xcafebabe, 0xbebafeca:
		return KindMachOFat
	case 0xfeedface, 0xfeedfacf, 0xcefaedfe, 0xcffaedfe:
		return KindMachO
	}
	return KindOther
}
