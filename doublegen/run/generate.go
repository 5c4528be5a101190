package run

import (
	"bytes"
	"fmt"
	"go/format"
	"path"
	"slices"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/dave/dst"
)

// runtimeImportPath is the package generated code builds its doubles with.
const runtimeImportPath = "github.com/junittest/doubles"

// generateDouble renders the forwarding type for the interface described by info, declared
// in files. importPath is empty when the interface is local to the generated package.
func generateDouble(info generatorInfo, importPath string, files []*dst.File) (string, error) {
	specs := typeSpecs(files)

	methods, err := collectMethods(specs, info.ifaceName, map[string]bool{})
	if err != nil {
		return "", err
	}

	declared := make(map[string]bool, len(specs))
	for name := range specs {
		declared[name] = true
	}

	types := newTypeWriter(info.qualifier, declared)
	reserved := map[string]bool{"d": true, "results": true, "doubles": true, info.qualifier: true}

	data := templateData{
		Package:  info.pkgName,
		TypeName: info.typeName,
		Iface:    info.ifaceName,
		MockCtor: constructorName("Mock", info.ifaceName),
		SpyCtor:  constructorName("Spy", info.ifaceName),
	}

	if info.qualifier != "" {
		data.Iface = info.qualifier + "." + info.ifaceName
	}

	for _, m := range methods {
		if m.name == "Double" {
			return "", fmt.Errorf("%w: %s.%s", errReservedMethod, info.ifaceName, m.name)
		}

		view, err := newMethodView(m, types, reserved)
		if err != nil {
			return "", fmt.Errorf("method %s: %w", m.name, err)
		}

		data.Methods = append(data.Methods, view)
	}

	data.Imports, err = generatedImports(info, importPath, types.packages, files)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer

	err = doubleTemplate.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", info.typeName, err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("failed to format %s: %w", info.typeName, err)
	}

	return string(formatted), nil
}

type method struct {
	name string
	fn   *dst.FuncType
}

// collectMethods lists the methods of the named interface, following embedded interfaces
// of the same package, sorted by name.
func collectMethods(specs map[string]*dst.TypeSpec, name string, seen map[string]bool) ([]method, error) {
	spec, ok := specs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errInterfaceNotFound, name)
	}

	iface, ok := spec.Type.(*dst.InterfaceType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errNotAnInterface, name)
	}

	if spec.TypeParams != nil && len(spec.TypeParams.List) > 0 {
		return nil, fmt.Errorf("%w: %s", errGenericInterface, name)
	}

	if seen[name] {
		return nil, nil
	}

	seen[name] = true

	var methods []method

	for _, field := range iface.Methods.List {
		switch typed := field.Type.(type) {
		case *dst.FuncType:
			for _, ident := range field.Names {
				methods = append(methods, method{name: ident.Name, fn: typed})
			}
		case *dst.Ident:
			embedded, err := collectMethods(specs, typed.Name, seen)
			if err != nil {
				return nil, fmt.Errorf("%s embeds %w", name, err)
			}

			methods = append(methods, embedded...)
		default:
			return nil, fmt.Errorf("%w: %s embeds %T", errUnsupportedType, name, field.Type)
		}
	}

	slices.SortStableFunc(methods, func(a, b method) int { return strings.Compare(a.name, b.name) })

	return slices.CompactFunc(methods, func(a, b method) bool { return a.name == b.name }), nil
}

func typeSpecs(files []*dst.File) map[string]*dst.TypeSpec {
	specs := map[string]*dst.TypeSpec{}

	for _, file := range files {
		for _, decl := range file.Decls {
			gen, ok := decl.(*dst.GenDecl)
			if !ok {
				continue
			}

			for _, spec := range gen.Specs {
				if typeSpec, ok := spec.(*dst.TypeSpec); ok {
					specs[typeSpec.Name.Name] = typeSpec
				}
			}
		}
	}

	return specs
}

type templateData struct {
	Package  string
	Imports  []importView
	TypeName string
	Iface    string
	MockCtor string
	SpyCtor  string
	Methods  []methodView
}

type importView struct {
	Name string // set only when it differs from the last path element
	Path string
}

type methodView struct {
	Name    string
	Params  string // i int, j int
	Args    string // , i, j
	Results string // (string, error)
	Returns string // doubles.Result[string](results, 0), doubles.Result[error](results, 1)
}

func newMethodView(m method, types *typeWriter, reserved map[string]bool) (methodView, error) {
	var params, args []string

	for _, field := range m.fn.Params.List {
		typ, err := types.expr(field.Type)
		if err != nil {
			return methodView{}, err
		}

		names := make([]string, 0, len(field.Names))
		for _, ident := range field.Names {
			names = append(names, ident.Name)
		}

		if len(names) == 0 {
			names = []string{""}
		}

		for _, name := range names {
			if name == "" || name == "_" || reserved[name] {
				name = fmt.Sprintf("arg%d", len(params)+1)
			}

			params = append(params, name+" "+typ)
			args = append(args, ", "+name)
		}
	}

	results, err := types.fieldTypes(m.fn.Results)
	if err != nil {
		return methodView{}, err
	}

	returns := make([]string, len(results))
	for i, result := range results {
		returns[i] = fmt.Sprintf("doubles.Result[%s](results, %d)", result, i)
	}

	return methodView{
		Name:    m.name,
		Params:  strings.Join(params, ", "),
		Args:    strings.Join(args, ""),
		Results: resultList(results, ""),
		Returns: strings.Join(returns, ", "),
	}, nil
}

// generatedImports lists the runtime package, the interface's package and every package
// the method signatures refer to, sorted by path.
func generatedImports(
	info generatorInfo, importPath string, referenced map[string]bool, files []*dst.File,
) ([]importView, error) {
	byPath := map[string]string{runtimeImportPath: "doubles"}

	if importPath != "" {
		byPath[importPath] = info.qualifier
	}

	for name := range referenced {
		found, err := findImportPath(files, name)
		if err != nil {
			return nil, err
		}

		byPath[found] = name
	}

	imports := make([]importView, 0, len(byPath))

	for pkgPath, name := range byPath {
		view := importView{Path: pkgPath}
		if name != path.Base(pkgPath) {
			view.Name = name
		}

		imports = append(imports, view)
	}

	slices.SortFunc(imports, func(a, b importView) int { return strings.Compare(a.Path, b.Path) })

	return imports, nil
}

// constructorName prefixes the interface name, keeping unexported interfaces unexported.
func constructorName(prefix, ifaceName string) string {
	first, _ := utf8.DecodeRuneInString(ifaceName)
	if unicode.IsUpper(first) {
		return prefix + ifaceName
	}

	return strings.ToLower(prefix) + strings.ToUpper(string(first)) + ifaceName[utf8.RuneLen(first):]
}

// unexported variables.
var (
	doubleTemplate = template.Must(template.New("double").Parse(`// Code generated by doublegen. DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
	{{if .Name}}{{.Name}} {{end}}"{{.Path}}"
{{- end}}
)

// {{.TypeName}} implements {{.Iface}} by forwarding every call to a double.
type {{.TypeName}} struct {
	*doubles.Double
}
{{range .Methods}}
// {{.Name}} implements {{$.Iface}}.{{.Name}}.
func (d {{$.TypeName}}) {{.Name}}({{.Params}}){{if .Results}} {{.Results}}{{end}} {
{{- if .Returns}}
	results := d.Double.Invoke("{{.Name}}"{{.Args}})

	return {{.Returns}}
{{- else}}
	d.Double.Invoke("{{.Name}}"{{.Args}})
{{- end}}
}
{{end}}
// {{.MockCtor}} creates a {{.Iface}} mock in the harness of t.
func {{.MockCtor}}(t doubles.TestReporter, opts ...doubles.DoubleOption) {{.TypeName}} {
	t.Helper()

	return {{.TypeName}}{doubles.NewMock(t, (*{{.Iface}})(nil), opts...)}
}

// {{.SpyCtor}} creates a {{.Iface}} spy over impl in the harness of t.
func {{.SpyCtor}}(t doubles.TestReporter, impl {{.Iface}}, opts ...doubles.DoubleOption) {{.TypeName}} {
	t.Helper()

	return {{.TypeName}}{doubles.NewSpy(t, (*{{.Iface}})(nil), impl, opts...)}
}
`))
)
