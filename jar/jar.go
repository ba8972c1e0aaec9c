// Package jar inspects Java archives.
package jar

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("undeepend.jar")

// Packages returns the sorted, unique Java packages that have classes in
// the archive at path. Classes in the default package, module-info and
// anything below META-INF are skipped.
func Packages(jarPath string) ([]string, error) {
	r, err := zip.OpenReader(jarPath)
	if err != nil {
		return nil, fmt.Errorf("open jar: %w", err)
	}
	defer r.Close()
	pkgs := packagesOf(r.File)
	log.Debugf("%s: %d packages", jarPath, len(pkgs))
	return pkgs, nil
}

// PackagesFrom is Packages for an archive already in memory or on another
// reader.
func PackagesFrom(ra io.ReaderAt, size int64) ([]string, error) {
	r, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("open jar: %w", err)
	}
	return packagesOf(r.File), nil
}

func packagesOf(files []*zip.File) []string {
	seen := make(map[string]bool)
	var pkgs []string
	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		pkg, ok := PackageOf(f.Name)
		if !ok || seen[pkg] {
			continue
		}
		seen[pkg] = true
		pkgs = append(pkgs, pkg)
	}
	slices.Sort(pkgs)
	return pkgs
}

// PackageOf maps a class entry name such as org/junit/Assert.class to its
// package.
func PackageOf(entry string) (string, bool) {
	if !strings.HasSuffix(entry, ".class") || strings.HasPrefix(entry, "META-INF/") {
		return "", false
	}
	dir, file := path.Split(entry)
	if dir == "" || file == "module-info.class" || file == "package-info.class" {
		return "", false
	}
	return strings.ReplaceAll(strings.TrimSuffix(dir, "/"), "/", "."), true
}
