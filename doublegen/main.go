// Command doublegen writes test doubles for Go interfaces. Add a
// `//go:generate go run github.com/junittest/doubles/doublegen <interface>` comment to a
// test file, where <interface> is Name for an interface of the same package or pkg.Name
// for an imported one. The generated type is named <interface>Double unless --name says
// otherwise, and comes with Mock<interface> and Spy<interface> constructors.
package main

import (
	"fmt"
	"os"

	"github.com/dave/dst"
	"github.com/junittest/doubles/doublegen/run"
	"github.com/junittest/doubles/doublegen/run/load"
)

func main() {
	err := run.Run(os.Args, os.Getenv, realFileSystem{}, realPackageLoader{}, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// realFileSystem implements run.FileSystem using the os package.
type realFileSystem struct{}

func (realFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	err := os.WriteFile(name, data, perm)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return nil
}

// realPackageLoader implements run.PackageLoader by parsing package directories.
type realPackageLoader struct{}

func (realPackageLoader) Load(importPath string) ([]*dst.File, error) {
	files, err := load.PackageDST(importPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load package %q: %w", importPath, err)
	}

	return files, nil
}
