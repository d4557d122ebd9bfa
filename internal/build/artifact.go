package build

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Info describes the state of the build artifact.
type Info struct {
	// BinaryExists reports whether the artifact is present on disk.
	BinaryExists bool

	// Size is the artifact size in bytes, when present.
	Size int64

	// Mode is the build mode the artifact was located for.
	Mode string

	// Name is the project/binary name.
	Name string
}

// FormatSize renders the artifact size for display, e.g. "3.2 MB".
func (i Info) FormatSize() string {
	if !i.BinaryExists {
		return "N/A"
	}
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(i.Size)
	idx := 0
	for size >= 1024 && idx < len(units)-1 {
		size /= 1024
		idx++
	}
	return fmt.Sprintf("%.1f %s", size, units[idx])
}

// FindBinary locates the compiled binary under target/<mode>/<name>,
// falling back to a .exe suffix.
func FindBinary(projectPath, name, mode string) (string, error) {
	path := filepath.Join(projectPath, "target", mode, name)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if _, err := os.Stat(path + ".exe"); err == nil {
		return path + ".exe", nil
	}
	return "", fmt.Errorf("binary not found at %s: run 'rzen build' first", path)
}

// GetInfo inspects the build artifact for the given project.
func GetInfo(projectPath, name, mode string) Info {
	info := Info{Mode: mode, Name: name}

	path, err := FindBinary(projectPath, name, mode)
	if err != nil {
		return info
	}

	stat, err := os.Stat(path)
	if err != nil {
		return info
	}

	info.BinaryExists = true
	info.Size = stat.Size()
	return info
}

// NeedsRebuild reports whether any source file under src/ is newer than the
// compiled binary. A missing binary always needs a build.
func NeedsRebuild(projectPath, name, mode string) (bool, error) {
	path, err := FindBinary(projectPath, name, mode)
	if err != nil {
		return true, nil
	}

	stat, err := os.Stat(path)
	if err != nil {
		return true, nil
	}
	binaryTime := stat.ModTime()

	latest, err := latestSourceChange(filepath.Join(projectPath, "src"))
	if err != nil {
		return true, err
	}
	return binaryTime.Before(latest), nil
}

// latestSourceChange walks the source tree and returns the newest mtime of
// any source file.
func latestSourceChange(srcDir string) (time.Time, error) {
	var latest time.Time

	if _, err := os.Stat(srcDir); err != nil {
		return latest, fmt.Errorf("source directory not found: %s", srcDir)
	}

	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
		return nil
	})
	return latest, err
}
