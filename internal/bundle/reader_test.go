package bundle

import (
	"archive/tar"
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/pgzip"
)

// fixtureFile describes one entry of a fixture bundle's filesystem image.
type fixtureFile struct {
	content string
	mode    int64
	link    string // non-empty makes the entry a symlink
}

// defaultFixture is a minimal valid bundle image.
func defaultFixture() map[string]fixtureFile {
	return map[string]fixtureFile{
		"AppRun": {content: "#!/bin/sh\nexec app\n", mode: 0o755},
		"foo.desktop": {content: "[Desktop Entry]\nName=Foo\nExec=AppRun\nIcon=foo\nVersion=1.0\nType=Application\n",
			mode: 0o644},
		"foo.png": {content: "not-really-a-png", mode: 0o644},
	}
}

// writeBundle builds a fake AppImage: a 64-byte ELF64 header carrying the
// AppImage type-2 marker and no section tables, followed by a gzipped tar
// of the given files at offset 64.
func writeBundle(t *testing.T, files map[string]fixtureFile) string {
	t.Helper()

	hdr := make([]byte, 64)
	copy(hdr, []byte{0x7f, 'E', 'L', 'F'})
	hdr[4] = 2 // ELFCLASS64
	hdr[5] = 1 // little endian
	hdr[6] = 1
	copy(hdr[8:], []byte{'A', 'I', 0x02})
	binary.LittleEndian.PutUint64(hdr[40:], 64) // shoff right after the header

	var payload bytes.Buffer
	gz := pgzip.NewWriter(&payload)
	tw := tar.NewWriter(gz)
	for name, f := range files {
		mode := f.mode
		if mode == 0 {
			mode = 0o644
		}
		if f.link != "" {
			if err := tw.WriteHeader(&tar.Header{
				Name: name, Typeflag: tar.TypeSymlink, Linkname: f.link, Mode: mode,
			}); err != nil {
				t.Fatalf("writing symlink header: %v", err)
			}
			continue
		}
		if err := tw.WriteHeader(&tar.Header{
			Name: name, Typeflag: tar.TypeReg, Size: int64(len(f.content)), Mode: mode,
		}); err != nil {
			t.Fatalf("writing tar header: %v", err)
		}
		if _, err := tw.Write([]byte(f.content)); err != nil {
			t.Fatalf("writing tar body: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("closing tar: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("closing gzip: %v", err)
	}

	path := filepath.Join(t.TempDir(), "Fixture.AppImage")
	if err := os.WriteFile(path, append(hdr, payload.Bytes()...), 0o644); err != nil {
		t.Fatalf("writing fixture bundle: %v", err)
	}
	return path
}

// tempDirs counts appdrop extraction directories currently on disk.
func tempDirs(t *testing.T) int {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "appdrop-*"))
	if err != nil {
		t.Fatalf("globbing temp dirs: %v", err)
	}
	return len(matches)
}

func TestRead_ValidBundle(t *testing.T) {
	path := writeBundle(t, defaultFixture())

	b, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	defer b.Release()

	if b.Name() != "Foo" {
		t.Errorf("Name() = %q, want %q", b.Name(), "Foo")
	}
	if b.Version() != "1.0" {
		t.Errorf("Version() = %q, want %q", b.Version(), "1.0")
	}
	if b.Entry.Exec != "AppRun" {
		t.Errorf("Entry.Exec = %q, want %q", b.Entry.Exec, "AppRun")
	}
	if b.IconPath != filepath.Join(b.ExtractedRoot, "foo.png") {
		t.Errorf("IconPath = %q, want root foo.png", b.IconPath)
	}
	if b.EmbeddedRuntime {
		t.Error("EmbeddedRuntime = true for a plain bundle")
	}
	if _, err := os.Stat(filepath.Join(b.ExtractedRoot, "AppRun")); err != nil {
		t.Errorf("extracted AppRun missing: %v", err)
	}
}

func TestRead_ReleaseRemovesExtractionDir(t *testing.T) {
	b, err := Read(writeBundle(t, defaultFixture()))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	root := b.ExtractedRoot
	b.Release()
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Errorf("extraction dir %s still present after Release", root)
	}

	// Second Release must be a no-op, not a panic or double delete.
	b.Release()
}

func TestRead_NotAnELF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.AppImage")
	if err := os.WriteFile(path, []byte("definitely not an ELF file"), 0o644); err != nil {
		t.Fatal(err)
	}

	before := tempDirs(t)
	_, err := Read(path)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("Read() error = %v, want ErrInvalidFormat", err)
	}
	if after := tempDirs(t); after != before {
		t.Errorf("temp dir count changed %d -> %d on format rejection", before, after)
	}
}

func TestRead_MissingAppImageMarker(t *testing.T) {
	path := writeBundle(t, defaultFixture())

	// Blank out the AI marker bytes.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data[8], data[9], data[10] = 0, 0, 0
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Read(path); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Read() error = %v, want ErrInvalidFormat", err)
	}
}

func TestRead_TruncatedPayload(t *testing.T) {
	path := writeBundle(t, defaultFixture())

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// Keep the gzip magic but cut the stream short.
	if err := os.WriteFile(path, data[:70], 0o644); err != nil {
		t.Fatal(err)
	}

	before := tempDirs(t)
	if _, err := Read(path); !errors.Is(err, ErrExtraction) {
		t.Errorf("Read() error = %v, want ErrExtraction", err)
	}
	if after := tempDirs(t); after != before {
		t.Errorf("extraction dir leaked on corrupt payload")
	}
}

func TestRead_NoAppRun(t *testing.T) {
	files := defaultFixture()
	delete(files, "AppRun")

	before := tempDirs(t)
	if _, err := Read(writeBundle(t, files)); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Read() error = %v, want ErrInvalidFormat", err)
	}
	if after := tempDirs(t); after != before {
		t.Errorf("extraction dir leaked on missing AppRun")
	}
}

func TestRead_NoDesktopEntry(t *testing.T) {
	files := defaultFixture()
	delete(files, "foo.desktop")

	before := tempDirs(t)
	if _, err := Read(writeBundle(t, files)); !errors.Is(err, ErrMissingMetadata) {
		t.Errorf("Read() error = %v, want ErrMissingMetadata", err)
	}
	if after := tempDirs(t); after != before {
		t.Errorf("extraction dir leaked on missing metadata")
	}
}

func TestRead_DesktopEntryMissingExec(t *testing.T) {
	files := defaultFixture()
	files["foo.desktop"] = fixtureFile{content: "[Desktop Entry]\nName=Foo\n"}

	if _, err := Read(writeBundle(t, files)); !errors.Is(err, ErrMissingMetadata) {
		t.Errorf("Read() error = %v, want ErrMissingMetadata", err)
	}
}

func TestRead_PicksShallowestDesktopEntry(t *testing.T) {
	files := defaultFixture()
	delete(files, "foo.desktop")
	files["bb.desktop"] = fixtureFile{content: "[Desktop Entry]\nName=RootLater\nExec=AppRun\n"}
	files["aa.desktop"] = fixtureFile{content: "[Desktop Entry]\nName=RootFirst\nExec=AppRun\n"}
	files["usr/share/applications/00-deep.desktop"] = fixtureFile{
		content: "[Desktop Entry]\nName=Deep\nExec=AppRun\n"}

	b, err := Read(writeBundle(t, files))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	defer b.Release()

	if b.Name() != "RootFirst" {
		t.Errorf("Name() = %q, want lexicographically first root entry %q", b.Name(), "RootFirst")
	}
}

func TestRead_VersionFallsBackToAppImageKey(t *testing.T) {
	files := defaultFixture()
	files["foo.desktop"] = fixtureFile{
		content: "[Desktop Entry]\nName=Foo\nExec=AppRun\nX-AppImage-Version=2.3.4\n"}

	b, err := Read(writeBundle(t, files))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	defer b.Release()

	if b.Version() != "2.3.4" {
		t.Errorf("Version() = %q, want fallback %q", b.Version(), "2.3.4")
	}
}

func TestRead_IconUnresolvedLeavesPathEmpty(t *testing.T) {
	files := defaultFixture()
	delete(files, "foo.png")

	b, err := Read(writeBundle(t, files))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	defer b.Release()

	if b.IconPath != "" {
		t.Errorf("IconPath = %q, want empty for unresolved icon", b.IconPath)
	}
}

func TestRead_PathTraversalRejected(t *testing.T) {
	files := defaultFixture()
	files["../escape.txt"] = fixtureFile{content: "outside"}

	before := tempDirs(t)
	if _, err := Read(writeBundle(t, files)); !errors.Is(err, ErrExtraction) {
		t.Errorf("Read() error = %v, want ErrExtraction for traversal entry", err)
	}
	if after := tempDirs(t); after != before {
		t.Errorf("extraction dir leaked on traversal rejection")
	}
}
