// Package pathutil translates dataset paths between the Windows annotation
// workstations and the POSIX hosts that run the reports. Pure string
// rewriting; nothing here touches the filesystem except ResolveFirst, which
// probes through the fsutil seam.
package pathutil

import (
	"fmt"
	"path"
	"strings"

	"github.com/woundlab/segreport/internal/fsutil"
)

// DefaultMountRoot is where the annotation share's drive letters are mounted
// on the report hosts.
const DefaultMountRoot = "/mnt"

func isDriveLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// hasDrivePrefix reports whether p starts with a Windows drive designator
// like `D:`.
func hasDrivePrefix(p string) bool {
	return len(p) >= 2 && p[1] == ':' && isDriveLetter(p[0])
}

// TranslateDrivePath rewrites a Windows drive-letter path into its mounted
// POSIX equivalent: `D:\wounds\summary.json` with mount root `/mnt` becomes
// `/mnt/d/wounds/summary.json`. Paths without a drive designator are
// returned with separators normalized to forward slashes.
func TranslateDrivePath(p, mountRoot string) string {
	norm := strings.ReplaceAll(p, `\`, "/")
	if !hasDrivePrefix(norm) {
		return norm
	}

	drive := strings.ToLower(norm[:1])
	rest := strings.TrimPrefix(norm[2:], "/")
	if rest == "" {
		return path.Join(mountRoot, drive)
	}
	return path.Join(mountRoot, drive, rest)
}

// ToWindowsPath is the inverse rewrite: `/mnt/d/wounds/summary.json` with
// mount root `/mnt` becomes `D:\wounds\summary.json`. Drive-letter inputs are
// normalized to upper-case drive and backslashes; paths outside the mount
// root are returned unchanged.
func ToWindowsPath(p, mountRoot string) string {
	norm := strings.ReplaceAll(p, `\`, "/")
	if hasDrivePrefix(norm) {
		return windowsForm(norm[:1], strings.TrimPrefix(norm[2:], "/"))
	}

	root := strings.TrimSuffix(strings.ReplaceAll(mountRoot, `\`, "/"), "/")
	rest, ok := strings.CutPrefix(norm, root+"/")
	if !ok {
		return p
	}

	drive, sub, _ := strings.Cut(rest, "/")
	if len(drive) != 1 || !isDriveLetter(drive[0]) {
		return p
	}
	return windowsForm(drive, sub)
}

func windowsForm(drive, rest string) string {
	out := strings.ToUpper(drive) + `:\`
	if rest != "" {
		out += strings.ReplaceAll(rest, "/", `\`)
	}
	return out
}

// ResolveFirst returns the first candidate path that exists on fsys, in the
// order given. Empty candidates are skipped. When nothing exists the error
// names every path tried so the operator can see which conventions were
// probed.
func ResolveFirst(fsys fsutil.FileSystem, candidates ...string) (string, error) {
	tried := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if fsys.Exists(c) {
			return c, nil
		}
		tried = append(tried, c)
	}
	if len(tried) == 0 {
		return "", fmt.Errorf("no candidate paths given")
	}
	return "", fmt.Errorf("no candidate path exists, tried: %s", strings.Join(tried, ", "))
}

// CrossPlatformCandidates expands one configured path into the list of
// equivalent paths to probe: the path as given, its mounted translation, and
// its Windows form, without duplicates and in that order.
func CrossPlatformCandidates(p, mountRoot string) []string {
	candidates := []string{p}
	for _, alt := range []string{
		TranslateDrivePath(p, mountRoot),
		ToWindowsPath(p, mountRoot),
	} {
		seen := false
		for _, c := range candidates {
			if c == alt {
				seen = true
				break
			}
		}
		if !seen {
			candidates = append(candidates, alt)
		}
	}
	return candidates
}
