// Package usage finds which declared dependencies a module's Java sources
// actually import.
package usage

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("undeepend.usage")

// SourceRoots are the module-relative directories scanned for sources.
var SourceRoots = []string{"src/main/java", "src/test/java"}

// Import is one import statement matched to a known package.
type Import struct {
	File      string `json:"file" yaml:"file"`
	Line      int    `json:"line" yaml:"line"`
	Statement string `json:"statement" yaml:"statement"`
	Package   string `json:"package" yaml:"package"`
}

// Scan walks the source roots below moduleDir and returns the imports
// whose package is in packages. Missing source roots are skipped.
func Scan(moduleDir string, packages []string) ([]Import, error) {
	known := make(map[string]bool, len(packages))
	for _, p := range packages {
		known[p] = true
	}

	var imports []Import
	for _, root := range SourceRoots {
		dir := filepath.Join(moduleDir, filepath.FromSlash(root))
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".java" {
				return nil
			}
			found, err := scanFile(path, known)
			if err != nil {
				return err
			}
			imports = append(imports, found...)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
	}
	return imports, nil
}

func scanFile(path string, known map[string]bool) ([]Import, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var imports []Import
	inComment := false
	sc := bufio.NewScanner(f)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if inComment {
			end := strings.Index(text, "*/")
			if end < 0 {
				continue
			}
			inComment = false
			text = strings.TrimSpace(text[end+2:])
		}
		if strings.HasPrefix(text, "/*") && !strings.Contains(text, "*/") {
			inComment = true
			continue
		}
		name, ok := ImportedName(text)
		if !ok {
			continue
		}
		if pkg, ok := packageFor(name, known); ok {
			imports = append(imports, Import{File: path, Line: line, Statement: text, Package: pkg})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	log.Debugf("%s: %d matching imports", path, len(imports))
	return imports, nil
}

// ImportedName extracts the imported name from an import statement:
// "import static a.b.C.m;" gives "a.b.C.m", "import a.b.*;" gives "a.b".
func ImportedName(line string) (string, bool) {
	rest, ok := strings.CutPrefix(line, "import")
	if !ok || rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	if after, ok := strings.CutPrefix(rest, "static"); ok && after != "" && (after[0] == ' ' || after[0] == '\t') {
		rest = strings.TrimSpace(after)
	}
	stmt, _, ok := strings.Cut(rest, ";")
	if !ok {
		return "", false
	}
	name := strings.Join(strings.Fields(stmt), "")
	name = strings.TrimSuffix(name, ".*")
	if name == "" {
		return "", false
	}
	return name, true
}

// packageFor returns the longest dotted prefix of name that is a known
// package. It covers class imports, nested classes, static members and
// wildcards alike.
func packageFor(name string, known map[string]bool) (string, bool) {
	for candidate := name; candidate != ""; {
		if known[candidate] {
			return candidate, true
		}
		i := strings.LastIndexByte(candidate, '.')
		if i < 0 {
			break
		}
		candidate = candidate[:i]
	}
	return "", false
}
