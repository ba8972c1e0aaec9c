package jar

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func buildJar(t *testing.T, entries ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range entries {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		f.Write([]byte{0xCA, 0xFE, 0xBA, 0xBE})
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPackages(t *testing.T) {
	data := buildJar(t,
		"META-INF/MANIFEST.MF",
		"META-INF/versions/9/org/example/Multi.class",
		"org/junit/Assert.class",
		"org/junit/Test.class",
		"org/junit/runner/JUnitCore.class",
		"org/junit/runner/JUnitCore$1.class",
		"Default.class",
		"module-info.class",
		"org/junit/package-info.class",
		"org/junit/messages.properties",
		"junit/framework/",
	)
	path := filepath.Join(t.TempDir(), "junit-4.13.2.jar")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Packages(path)
	if err != nil {
		t.Fatalf("Packages() error: %v", err)
	}
	want := []string{"org.junit", "org.junit.runner"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Packages() = %v, want %v", got, want)
	}

	got, err = PackagesFrom(bytes.NewReader(data), int64(len(data)))
	if err != nil || !reflect.DeepEqual(got, want) {
		t.Errorf("PackagesFrom() = %v, %v, want %v", got, err, want)
	}
}

func TestPackagesErrors(t *testing.T) {
	if _, err := Packages(filepath.Join(t.TempDir(), "missing.jar")); err == nil {
		t.Error("Packages(missing) error = nil, want an error")
	}
	junk := filepath.Join(t.TempDir(), "junk.jar")
	os.WriteFile(junk, []byte("not a zip"), 0o644)
	if _, err := Packages(junk); err == nil {
		t.Error("Packages(junk) error = nil, want an error")
	}
}

func TestPackageOf(t *testing.T) {
	tests := []struct {
		entry  string
		want   string
		wantOK bool
	}{
		{"a/b/C.class", "a.b", true},
		{"a/C$Inner.class", "a", true},
		{"C.class", "", false},
		{"a/b/module-info.class", "", false},
		{"META-INF/x/Y.class", "", false},
		{"a/b/c.txt", "", false},
	}
	for _, tt := range tests {
		got, ok := PackageOf(tt.entry)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("PackageOf(%q) = %q, %v, want %q, %v", tt.entry, got, ok, tt.want, tt.wantOK)
		}
	}
}
