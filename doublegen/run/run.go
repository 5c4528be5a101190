// Package run implements the doublegen tool in a testable way: it finds an interface
// declaration and writes a type implementing it by forwarding every method to a
// doubles.Double.
package run

import (
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"path"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/dave/dst"
)

// FileSystem interface for mocking.
type FileSystem interface {
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// PackageLoader parses the files of a package. The import path "." is the package being
// generated into, test files included.
type PackageLoader interface {
	Load(importPath string) ([]*dst.File, error)
}

// Run executes doublegen. It takes the command line, a getter for the go generate
// environment (GOPACKAGE and GOFILE), a FileSystem for the output and a PackageLoader for
// the sources. On success it writes generated_<Name>.go, or generated_<Name>_test.go when
// called from a test, next to the //go:generate comment.
func Run(args []string, getEnv func(string) string, fileSys FileSystem, pkgLoader PackageLoader, out io.Writer) error {
	info, err := getGeneratorCallInfo(args, getEnv)
	if err != nil {
		return err
	}

	files, importPath, err := loadInterfacePackage(info, pkgLoader)
	if err != nil {
		return err
	}

	code, err := generateDouble(info, importPath, files)
	if err != nil {
		return err
	}

	return writeGeneratedCode(code, info.typeName, info.pkgName, getEnv("GOFILE"), fileSys, out)
}

// cliArgs defines the command-line arguments for the generator.
type cliArgs struct {
	Interface string `arg:"positional,required" help:"interface to implement (e.g. Store or pkg.Store)"`
	Name      string `arg:"--name"              help:"name of the generated type (defaults to <Interface>Double)"`
}

// generatorInfo holds information gathered for generation.
type generatorInfo struct {
	pkgName   string // package the code is generated into
	qualifier string // package name in front of the interface, empty for a local interface
	ifaceName string // interface name without qualifier
	typeName  string
}

// getGeneratorCallInfo returns basic information about the current call to the generator.
func getGeneratorCallInfo(args []string, getEnv func(string) string) (generatorInfo, error) {
	pkgName := getEnv("GOPACKAGE")
	if pkgName == "" {
		return generatorInfo{}, errNotGoGenerate
	}

	parsed, err := parseArgs(args)
	if err != nil {
		return generatorInfo{}, err
	}

	qualifier, ifaceName, qualified := strings.Cut(parsed.Interface, ".")
	if !qualified {
		qualifier, ifaceName = "", parsed.Interface
	}

	if !token.IsIdentifier(ifaceName) || (qualified && !token.IsIdentifier(qualifier)) {
		return generatorInfo{}, fmt.Errorf("%w: %q", errBadInterfaceName, parsed.Interface)
	}

	typeName := parsed.Name
	if typeName == "" {
		typeName = ifaceName + "Double"
	}

	if !token.IsIdentifier(typeName) {
		return generatorInfo{}, fmt.Errorf("%w: %q", errBadTypeName, typeName)
	}

	return generatorInfo{pkgName: pkgName, qualifier: qualifier, ifaceName: ifaceName, typeName: typeName}, nil
}

// parseArgs parses command-line arguments into cliArgs.
func parseArgs(args []string) (cliArgs, error) {
	var parsed cliArgs

	parser, err := arg.NewParser(arg.Config{Program: "doublegen"}, &parsed)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to create argument parser: %w", err)
	}

	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}

	err = parser.Parse(cmdArgs)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to parse arguments: %w", err)
	}

	return parsed, nil
}

// loadInterfacePackage returns the files declaring the interface's package, and its import
// path when it differs from the package being generated into.
func loadInterfacePackage(info generatorInfo, pkgLoader PackageLoader) ([]*dst.File, string, error) {
	current, err := pkgLoader.Load(".")
	if err != nil {
		return nil, "", fmt.Errorf("failed to load the current package: %w", err)
	}

	if info.qualifier == "" {
		return filesOfPackage(current, info.pkgName), "", nil
	}

	importPath, err := findImportPath(current, info.qualifier)
	if err != nil {
		return nil, "", err
	}

	files, err := pkgLoader.Load(importPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load package %q: %w", importPath, err)
	}

	var sources []*dst.File

	for _, file := range files {
		if !strings.HasSuffix(file.Name.Name, "_test") {
			sources = append(sources, file)
		}
	}

	return sources, importPath, nil
}

// findImportPath finds the import path the current package refers to by name.
func findImportPath(files []*dst.File, name string) (string, error) {
	for _, file := range files {
		for _, imp := range file.Imports {
			importPath := strings.Trim(imp.Path.Value, "\"`")
			if importName(imp, importPath) == name {
				return importPath, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %s", errPackageNotFound, name)
}

// importName is the name an import is referred to by in its file.
func importName(imp *dst.ImportSpec, importPath string) string {
	if imp.Name != nil {
		return imp.Name.Name
	}

	return path.Base(importPath)
}

func filesOfPackage(files []*dst.File, pkgName string) []*dst.File {
	var matching []*dst.File

	for _, file := range files {
		if file.Name.Name == pkgName {
			matching = append(matching, file)
		}
	}

	return matching
}

// unexported variables.
var (
	errBadInterfaceName  = errors.New("interface must be Name or pkg.Name")
	errBadTypeName       = errors.New("generated type name is not an identifier")
	errGenericInterface  = errors.New("generic interfaces are not supported")
	errInterfaceNotFound = errors.New("interface not found")
	errNotAnInterface    = errors.New("not an interface")
	errNotGoGenerate     = errors.New("GOPACKAGE is not set: run doublegen from a //go:generate comment")
	errPackageNotFound   = errors.New("no import for package")
	errReservedMethod    = errors.New("method name clashes with the embedded double")
	errUnsupportedType   = errors.New("unsupported type expression")
)
