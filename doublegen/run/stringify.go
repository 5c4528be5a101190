package run

import (
	"fmt"
	"strings"

	"github.com/dave/dst"
)

// typeWriter renders type expressions of the interface's package as they must be spelled
// in the generated file.
type typeWriter struct {
	qualifier string          // prefix for the source package's own types, empty when local
	declared  map[string]bool // type names declared by the source package
	packages  map[string]bool // package names referenced through selectors
}

func newTypeWriter(qualifier string, declared map[string]bool) *typeWriter {
	return &typeWriter{qualifier: qualifier, declared: declared, packages: map[string]bool{}}
}

// expr converts a DST type expression to its string representation.
//
//nolint:cyclop // Type-switch dispatcher over DST type expressions
func (w *typeWriter) expr(expr dst.Expr) (string, error) {
	switch typed := expr.(type) {
	case *dst.Ident:
		if w.qualifier != "" && w.declared[typed.Name] {
			return w.qualifier + "." + typed.Name, nil
		}

		return typed.Name, nil
	case *dst.SelectorExpr:
		pkg, ok := typed.X.(*dst.Ident)
		if !ok {
			return "", fmt.Errorf("%w: %T", errUnsupportedType, typed.X)
		}

		w.packages[pkg.Name] = true

		return pkg.Name + "." + typed.Sel.Name, nil
	case *dst.StarExpr:
		return w.prefixed("*", typed.X)
	case *dst.Ellipsis:
		return w.prefixed("...", typed.Elt)
	case *dst.ParenExpr:
		inner, err := w.expr(typed.X)

		return "(" + inner + ")", err
	case *dst.ArrayType:
		if typed.Len == nil {
			return w.prefixed("[]", typed.Elt)
		}

		length, ok := typed.Len.(*dst.BasicLit)
		if !ok {
			return "", fmt.Errorf("%w: array length %T", errUnsupportedType, typed.Len)
		}

		return w.prefixed("["+length.Value+"]", typed.Elt)
	case *dst.MapType:
		key, err := w.expr(typed.Key)
		if err != nil {
			return "", err
		}

		return w.prefixed("map["+key+"]", typed.Value)
	case *dst.ChanType:
		switch typed.Dir {
		case dst.SEND:
			return w.prefixed("chan<- ", typed.Value)
		case dst.RECV:
			return w.prefixed("<-chan ", typed.Value)
		default:
			return w.prefixed("chan ", typed.Value)
		}
	case *dst.FuncType:
		return w.funcType(typed)
	case *dst.InterfaceType:
		if typed.Methods == nil || len(typed.Methods.List) == 0 {
			return "interface{}", nil
		}

		return "", fmt.Errorf("%w: interface literal with methods", errUnsupportedType)
	case *dst.StructType:
		if typed.Fields == nil || len(typed.Fields.List) == 0 {
			return "struct{}", nil
		}

		return "", fmt.Errorf("%w: struct literal with fields", errUnsupportedType)
	case *dst.IndexExpr:
		return w.instantiation(typed.X, typed.Index)
	case *dst.IndexListExpr:
		return w.instantiation(typed.X, typed.Indices...)
	default:
		return "", fmt.Errorf("%w: %T", errUnsupportedType, expr)
	}
}

func (w *typeWriter) prefixed(prefix string, expr dst.Expr) (string, error) {
	inner, err := w.expr(expr)
	if err != nil {
		return "", err
	}

	return prefix + inner, nil
}

func (w *typeWriter) instantiation(generic dst.Expr, args ...dst.Expr) (string, error) {
	base, err := w.expr(generic)
	if err != nil {
		return "", err
	}

	parts, err := w.list(args)
	if err != nil {
		return "", err
	}

	return base + "[" + strings.Join(parts, ", ") + "]", nil
}

func (w *typeWriter) list(exprs []dst.Expr) ([]string, error) {
	parts := make([]string, len(exprs))

	for i, expr := range exprs {
		part, err := w.expr(expr)
		if err != nil {
			return nil, err
		}

		parts[i] = part
	}

	return parts, nil
}

// funcType renders a function type without parameter names.
func (w *typeWriter) funcType(fn *dst.FuncType) (string, error) {
	params, err := w.fieldTypes(fn.Params)
	if err != nil {
		return "", err
	}

	results, err := w.fieldTypes(fn.Results)
	if err != nil {
		return "", err
	}

	return "func(" + strings.Join(params, ", ") + ")" + resultList(results, " "), nil
}

// fieldTypes expands a field list into one type per name, or one for an unnamed field.
func (w *typeWriter) fieldTypes(fields *dst.FieldList) ([]string, error) {
	if fields == nil {
		return nil, nil
	}

	var types []string

	for _, field := range fields.List {
		typ, err := w.expr(field.Type)
		if err != nil {
			return nil, err
		}

		for range max(len(field.Names), 1) {
			types = append(types, typ)
		}
	}

	return types, nil
}

// resultList renders result types after a signature, parenthesised when there are several.
func resultList(results []string, sep string) string {
	switch len(results) {
	case 0:
		return ""
	case 1:
		return sep + results[0]
	default:
		return sep + "(" + strings.Join(results, ", ") + ")"
	}
}
