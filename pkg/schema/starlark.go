// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"

	"github.com/esmtools/esmcheck/pkg/filepos"
	"github.com/esmtools/esmcheck/pkg/yamlmeta"
	"github.com/k14s/starlark-go/starlark"
)

// CustomValidators holds user-defined validation functions loaded from
// Starlark files. A schema references them as custom('fn_name').
//
// A function receives the value under check and passes by returning True
// or None; returning False fails with a generic message, returning a
// string fails with that string as the message.
type CustomValidators struct {
	thread *starlark.Thread
	fns    starlark.StringDict
}

func NewCustomValidators() *CustomValidators {
	return &CustomValidators{
		thread: &starlark.Thread{Name: "custom-validators"},
		fns:    starlark.StringDict{},
	}
}

// LoadFile executes a Starlark source file and registers its global
// functions as validators.
func (cv *CustomValidators) LoadFile(name string, src []byte) error {
	globals, err := starlark.ExecFile(cv.thread, name, src, starlark.StringDict{})
	if err != nil {
		return fmt.Errorf("Loading custom validators '%s': %s", name, err)
	}

	for fnName, val := range globals {
		if _, ok := val.(starlark.Callable); !ok {
			continue
		}
		if _, found := cv.fns[fnName]; found {
			return fmt.Errorf("Custom validator %q is defined more than once", fnName)
		}
		cv.fns[fnName] = val
	}
	return nil
}

// Call runs a named validator against a value. failMsg is non-empty only
// when failed is true.
func (cv *CustomValidators) Call(fnName string, val interface{}) (failMsg string, failed bool, err error) {
	fn, ok := cv.fns[fnName]
	if !ok {
		return "", false, fmt.Errorf("Unknown custom validator %q", fnName)
	}

	callable, ok := fn.(starlark.Callable)
	if !ok {
		return "", false, fmt.Errorf("Custom validator %q is not callable", fnName)
	}

	result, err := starlark.Call(cv.thread, callable, starlark.Tuple{asStarlarkValue(val)}, []starlark.Tuple{})
	if err != nil {
		return "", false, fmt.Errorf("Evaluating custom validator %q: %s", fnName, err)
	}

	switch typedResult := result.(type) {
	case starlark.NoneType:
		return "", false, nil
	case starlark.String:
		return string(typedResult), true, nil
	default:
		if !result.Truth() {
			return fmt.Sprintf("value rejected by custom validator %q", fnName), true, nil
		}
		return "", false, nil
	}
}

func asStarlarkValue(val interface{}) starlark.Value {
	switch typedVal := val.(type) {
	case nil:
		return starlark.None
	case bool:
		return starlark.Bool(typedVal)
	case string:
		return starlark.String(typedVal)
	case int:
		return starlark.MakeInt(typedVal)
	case int64:
		return starlark.MakeInt64(typedVal)
	case float64:
		return starlark.Float(typedVal)
	case *yamlmeta.Array:
		var items []starlark.Value
		for _, item := range typedVal.Items {
			items = append(items, asStarlarkValue(item.Value))
		}
		return starlark.NewList(items)
	case *yamlmeta.Map:
		dict := starlark.NewDict(len(typedVal.Items))
		for _, item := range typedVal.Items {
			// keys in YAML maps are scalars at this point
			_ = dict.SetKey(asStarlarkValue(item.Key), asStarlarkValue(item.Value))
		}
		return dict
	default:
		return starlark.String(fmt.Sprintf("%v", typedVal))
	}
}

type customRuleValidator struct {
	allowNone bool
	fnName    string
}

func newCustomRuleValidator(expr *Expr, allowNone bool) (Validator, error) {
	args := expr.Positional()
	if len(args) != 1 || args[0].IsExpr {
		return nil, NewInvalidSchemaError(expr.Pos, "custom requires exactly one function name argument", "eg custom('valid_mip')")
	}
	fnName, ok := args[0].Scalar.(string)
	if !ok {
		return nil, NewInvalidSchemaError(expr.Pos, "custom function name must be a string", "")
	}
	return customRuleValidator{allowNone: allowNone, fnName: fnName}, nil
}

func (v customRuleValidator) DescribeExpected() string {
	return fmt.Sprintf("custom(%q)", v.fnName)
}

func (v customRuleValidator) Check(val interface{}, pos *filepos.Position, ctx *Context) []error {
	if val == nil && v.allowNone {
		return nil
	}
	if ctx.Customs == nil {
		return []error{fmt.Errorf("Custom validator %q referenced at %s, but no custom validators were loaded (use --custom-validators)", v.fnName, pos.AsCompactString())}
	}

	failMsg, failed, err := ctx.Customs.Call(v.fnName, val)
	if err != nil {
		return []error{err}
	}
	if failed {
		return []error{NewValueError(pos, valueRepr(val), failMsg)}
	}
	return nil
}
