package userdata

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// CheckRoot reports on the configuration root and the files under it.
// When fix is true, a missing root is created and an over-permissive
// scaffold.env is tightened to 0600.
func CheckRoot(w io.Writer, p Paths, fix bool) error {
	fmt.Fprintln(w, "Configuration root:")

	if _, err := os.Stat(p.Root); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", p.Root)
		if !fix {
			fmt.Fprintln(w, "         It is created on first use, or run 'doctor --fix'")
			return nil
		}
		if err := os.MkdirAll(p.Root, DirPermNormal); err != nil {
			return fmt.Errorf("creating %s: %w", p.Root, err)
		}
		fmt.Fprintf(w, "  [FIX ] Created %s\n", p.Root)
	} else if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", p.Root, err)
		return nil
	} else {
		fmt.Fprintf(w, "  [ OK ] %s exists\n", p.Root)
	}

	checkFile(w, p.RegistryPath(), "seeded with defaults on first use")
	checkFile(w, p.PreferencesPath(), "written when a default directory is saved")
	checkFile(w, p.SettingsPath(), "defaults apply")
	checkEnvFile(w, p.EnvFilePath(), fix)
	return nil
}

func checkFile(w io.Writer, path, missingNote string) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintf(w, "  [MISS] %s (%s)\n", path, missingNote)
	case err != nil:
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
	case info.IsDir():
		fmt.Fprintf(w, "  [WARN] %s is a directory\n", path)
	default:
		fmt.Fprintf(w, "  [ OK ] %s\n", path)
	}
}

func checkEnvFile(w io.Writer, path string, fix bool) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(w, "  [ -- ] %s not present (optional)\n", path)
		return
	}
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		return
	}

	perm := info.Mode().Perm()
	if perm&0077 == 0 {
		fmt.Fprintf(w, "  [ OK ] %s (permissions %o)\n", path, perm)
		return
	}
	fmt.Fprintf(w, "  [WARN] %s has permissions %o (expected %o)\n", path, perm, FilePermSecure)
	if fix {
		if err := os.Chmod(path, FilePermSecure); err != nil {
			fmt.Fprintf(w, "  [FAIL] Could not fix permissions on %s: %v\n", path, err)
			return
		}
		fmt.Fprintf(w, "  [FIX ] Fixed permissions on %s to %o\n", path, FilePermSecure)
	}
}
