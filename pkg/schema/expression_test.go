// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package schema_test

import (
	"testing"

	"github.com/esmtools/esmcheck/pkg/filepos"
	"github.com/esmtools/esmcheck/pkg/schema"
	"github.com/stretchr/testify/require"
)

func TestParseExprNoArgs(t *testing.T) {
	expr, err := schema.ParseExpr("str()", filepos.NewUnknownPosition())
	require.NoError(t, err)
	require.Equal(t, "str", expr.Name)
	require.Len(t, expr.Args, 0)
}

func TestParseExprKwargs(t *testing.T) {
	expr, err := schema.ParseExpr("str(min=3, max=10, required=False)", filepos.NewUnknownPosition())
	require.NoError(t, err)

	min, found := expr.Kwarg("min")
	require.True(t, found)
	require.Equal(t, int64(3), min.Scalar)

	req, found := expr.Kwarg("required")
	require.True(t, found)
	require.Equal(t, false, req.Scalar)

	_, found = expr.Kwarg("missing")
	require.False(t, found)
}

func TestParseExprPositional(t *testing.T) {
	expr, err := schema.ParseExpr("enum('amip', 'historical', 1.5, None)", filepos.NewUnknownPosition())
	require.NoError(t, err)

	args := expr.Positional()
	require.Len(t, args, 4)
	require.Equal(t, "amip", args[0].Scalar)
	require.Equal(t, "historical", args[1].Scalar)
	require.Equal(t, 1.5, args[2].Scalar)
	require.Nil(t, args[3].Scalar)
}

func TestParseExprNested(t *testing.T) {
	expr, err := schema.ParseExpr("list(include('dataset'), str(), min=1)", filepos.NewUnknownPosition())
	require.NoError(t, err)
	require.Equal(t, "list", expr.Name)

	args := expr.Positional()
	require.Len(t, args, 2)
	require.True(t, args[0].IsExpr)
	require.Equal(t, "include", args[0].Expr.Name)
	require.True(t, args[1].IsExpr)
	require.Equal(t, "str", args[1].Expr.Name)
}

func TestParseExprNullIsACall(t *testing.T) {
	expr, err := schema.ParseExpr("any(str(), null())", filepos.NewUnknownPosition())
	require.NoError(t, err)

	args := expr.Positional()
	require.Len(t, args, 2)
	require.True(t, args[1].IsExpr)
	require.Equal(t, "null", args[1].Expr.Name)
}

func TestParseExprStringEscapes(t *testing.T) {
	expr, err := schema.ParseExpr(`regex('^ta\'s$')`, filepos.NewUnknownPosition())
	require.NoError(t, err)
	require.Equal(t, `^ta's$`, expr.Positional()[0].Scalar)
}

func TestParseExprRegexBackslashesSurvive(t *testing.T) {
	expr, err := schema.ParseExpr(`regex('^r\d+i\d+p\d+$')`, filepos.NewUnknownPosition())
	require.NoError(t, err)
	require.Equal(t, `^r\d+i\d+p\d+$`, expr.Positional()[0].Scalar)
}

func TestParseExprNegativeNumbers(t *testing.T) {
	expr, err := schema.ParseExpr("int(min=-90, max=90)", filepos.NewUnknownPosition())
	require.NoError(t, err)

	min, _ := expr.Kwarg("min")
	require.Equal(t, int64(-90), min.Scalar)
}

func TestParseExprErrors(t *testing.T) {
	for _, src := range []string{
		"",
		"str",
		"str(",
		"str() trailing",
		"str(min=)",
		"str('unterminated",
		"123()",
		"str(min=3,,)",
	} {
		_, err := schema.ParseExpr(src, filepos.NewUnknownPosition())
		require.Errorf(t, err, "expected %q to fail", src)
	}
}
