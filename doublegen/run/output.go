package run

import (
	"fmt"
	"io"
	"strings"

	"github.com/toejough/go-reorder"
)

// writeGeneratedCode writes code to generated_<typeName>.go. The file gets a _test suffix
// when generated into a test package or from a _test.go file, which covers both blackbox
// and whitebox tests.
func writeGeneratedCode(code, typeName, pkgName, goFile string, fileSys FileSystem, out io.Writer) error {
	const generatedFilePermissions = 0o600

	filename := "generated_" + typeName + ".go"
	if strings.HasSuffix(pkgName, "_test") || strings.HasSuffix(goFile, "_test.go") {
		filename = "generated_" + typeName + "_test.go"
	}

	reordered, err := reorder.Source(code)
	if err != nil {
		_, _ = fmt.Fprintf(out, "Warning: failed to reorder %s: %v\n", filename, err)

		reordered = code
	}

	err = fileSys.WriteFile(filename, []byte(reordered), generatedFilePermissions)
	if err != nil {
		return fmt.Errorf("error writing %s: %w", filename, err)
	}

	_, _ = fmt.Fprintf(out, "%s written successfully.\n", filename)

	return nil
}
