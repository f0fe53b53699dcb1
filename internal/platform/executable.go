package platform

import (
	"runtime"
	"strings"
)

// windowsSuffixes are the extensions under which the same logical binary can
// be found on Windows, in the order shell resolution would try them.
var windowsSuffixes = []string{".cmd", ".exe"}

// ExecutableCandidates returns the names to try for a logical binary on the
// current platform: the bare name first, then any suffix variants.
func ExecutableCandidates(name string) []string {
	return executableCandidates(runtime.GOOS, name)
}

func executableCandidates(goos, name string) []string {
	candidates := []string{name}
	if goos != "windows" {
		return candidates
	}
	lower := strings.ToLower(name)
	for _, suffix := range windowsSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return candidates
		}
	}
	for _, suffix := range windowsSuffixes {
		candidates = append(candidates, name+suffix)
	}
	return candidates
}

// PathLookupCommand returns the system utility that prints the absolute
// path of a command found on PATH ("where" on Windows, "which" elsewhere).
func PathLookupCommand() string {
	return pathLookupCommand(runtime.GOOS)
}

func pathLookupCommand(goos string) string {
	if goos == "windows" {
		return "where"
	}
	return "which"
}

// FirstLine returns the first non-empty trimmed line of path lookup output.
// "where" prints every match, one per line, with CRLF endings.
func FirstLine(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
