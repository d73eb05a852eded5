package pathutil

import (
	"strings"
	"testing"

	"github.com/woundlab/segreport/internal/fsutil"
)

func TestTranslateDrivePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"backslash drive path", `D:\wounds\summary.json`, "/mnt/d/wounds/summary.json"},
		{"forward-slash drive path", "D:/wounds/summary.json", "/mnt/d/wounds/summary.json"},
		{"lower-case drive", `e:\scans`, "/mnt/e/scans"},
		{"bare drive", `C:`, "/mnt/c"},
		{"drive root", `C:\`, "/mnt/c"},
		{"already posix", "/data/wounds/summary.json", "/data/wounds/summary.json"},
		{"relative path normalized", `photos\batch1\img.png`, "photos/batch1/img.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TranslateDrivePath(tt.in, DefaultMountRoot); got != tt.want {
				t.Errorf("TranslateDrivePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestToWindowsPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"mounted path", "/mnt/d/wounds/summary.json", `D:\wounds\summary.json`},
		{"mounted drive root", "/mnt/c", `C:\`},
		{"already windows", `d:/wounds/x.png`, `D:\wounds\x.png`},
		{"outside mount root", "/data/wounds/summary.json", "/data/wounds/summary.json"},
		{"mount entry that is not a drive", "/mnt/storage/x.png", "/mnt/storage/x.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToWindowsPath(tt.in, DefaultMountRoot); got != tt.want {
				t.Errorf("ToWindowsPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTranslateRoundTrip(t *testing.T) {
	windows := `D:\wounds\batch2\summary.json`

	mounted := TranslateDrivePath(windows, DefaultMountRoot)
	back := ToWindowsPath(mounted, DefaultMountRoot)

	if back != windows {
		t.Errorf("round trip: %q -> %q -> %q", windows, mounted, back)
	}
}

func TestResolveFirst(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	if err := mfs.WriteFile("/mnt/d/wounds/summary.json", []byte("{}"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := ResolveFirst(mfs, `D:\wounds\summary.json`, "/mnt/d/wounds/summary.json")
	if err != nil {
		t.Fatalf("ResolveFirst failed: %v", err)
	}
	if got != "/mnt/d/wounds/summary.json" {
		t.Errorf("resolved %q, want the mounted candidate", got)
	}
}

func TestResolveFirstPrefersEarlierCandidates(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	for _, p := range []string{"/a/summary.json", "/b/summary.json"} {
		if err := mfs.WriteFile(p, []byte("{}"), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}

	got, err := ResolveFirst(mfs, "/b/summary.json", "/a/summary.json")
	if err != nil {
		t.Fatalf("ResolveFirst failed: %v", err)
	}
	if got != "/b/summary.json" {
		t.Errorf("resolved %q, want first candidate", got)
	}
}

func TestResolveFirstListsTriedPaths(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()

	_, err := ResolveFirst(mfs, `D:\wounds\summary.json`, "/mnt/d/wounds/summary.json", "")
	if err == nil {
		t.Fatal("expected error when no candidate exists")
	}

	msg := err.Error()
	for _, candidate := range []string{`D:\wounds\summary.json`, "/mnt/d/wounds/summary.json"} {
		if !strings.Contains(msg, candidate) {
			t.Errorf("error %q does not name candidate %q", msg, candidate)
		}
	}
}

func TestResolveFirstNoCandidates(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()

	if _, err := ResolveFirst(mfs); err == nil {
		t.Error("expected error for empty candidate list")
	}
	if _, err := ResolveFirst(mfs, "", ""); err == nil {
		t.Error("expected error when every candidate is empty")
	}
}

func TestCrossPlatformCandidates(t *testing.T) {
	candidates := CrossPlatformCandidates(`D:\wounds\summary.json`, DefaultMountRoot)

	want := []string{
		`D:\wounds\summary.json`,
		"/mnt/d/wounds/summary.json",
		`D:\wounds\summary.json`,
	}
	// The Windows form duplicates the input and must be dropped.
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates %v, want 2", len(candidates), candidates)
	}
	if candidates[0] != want[0] || candidates[1] != want[1] {
		t.Errorf("candidates = %v", candidates)
	}
}
