// Package load parses Go packages into DST files without type checking.
package load

import (
	"errors"
	"fmt"
	"go/build"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

// PackageDST parses the package with the given import path. "." is the working directory
// and includes test files; other packages are resolved with go/build and exclude them.
// Files that fail to parse are skipped.
func PackageDST(importPath string) ([]*dst.File, error) {
	dir, err := packageDir(importPath)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	includeTests := importPath == "."
	dec := decorator.NewDecorator(token.NewFileSet())
	files := make([]*dst.File, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}

		if !includeTests && strings.HasSuffix(name, "_test.go") {
			continue
		}

		file, err := dec.ParseFile(filepath.Join(dir, name), nil, 0)
		if err != nil {
			continue
		}

		files = append(files, file)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no parsable .go files in %s", errNoPackagesFound, dir)
	}

	return files, nil
}

func packageDir(importPath string) (string, error) {
	srcDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	if importPath == "." {
		return srcDir, nil
	}

	pkg, err := build.Import(importPath, srcDir, build.FindOnly)
	if err != nil {
		return "", fmt.Errorf("failed to find package %q: %w", importPath, err)
	}

	return pkg.Dir, nil
}

// unexported variables.
var (
	errNoPackagesFound = errors.New("no packages found")
)
