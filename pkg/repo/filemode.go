package repo

import (
	"fmt"
	"os"

	"github.com/odvcencio/lit/pkg/object"
)

// The engine tracks a fixed mode set: regular file, executable file,
// symlink, and directory. Anything finer-grained in the on-disk permission
// bits is normalized away.

// indexModeFor maps a file's stat info to its index mode.
func indexModeFor(info os.FileInfo) uint32 {
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return IndexModeSymlink
	case info.Mode()&0o100 != 0:
		return IndexModeExecutable
	default:
		return IndexModeFile
	}
}

// treeModeFor converts an index mode to the tree entry mode string.
func treeModeFor(indexMode uint32) string {
	switch indexMode {
	case IndexModeExecutable:
		return object.ModeExecutable
	case IndexModeSymlink:
		return object.ModeSymlink
	default:
		return object.ModeFile
	}
}

// indexModeForTree is the inverse of treeModeFor.
func indexModeForTree(treeMode string) uint32 {
	switch treeMode {
	case object.ModeExecutable:
		return IndexModeExecutable
	case object.ModeSymlink:
		return IndexModeSymlink
	default:
		return IndexModeFile
	}
}

// permForTreeMode returns the file permission used when materializing a
// blob during checkout.
func permForTreeMode(mode string) os.FileMode {
	if mode == object.ModeExecutable {
		return 0o755
	}
	return 0o644
}

func validateTreeMode(mode string) error {
	switch mode {
	case object.ModeDir, "040000", object.ModeFile, object.ModeExecutable, object.ModeSymlink:
		return nil
	default:
		return fmt.Errorf("unsupported tree entry mode %q", mode)
	}
}
