// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/esmtools/esmcheck/pkg/filepos"
	"github.com/esmtools/esmcheck/pkg/yamlmeta"
)

// Validator checks a single data value (scalar, map or array node)
// against one schema rule.
type Validator interface {
	DescribeExpected() string
	Check(val interface{}, pos *filepos.Position, ctx *Context) []error
}

// Context carries cross-cutting state through a check: named includes,
// strict mode, loaded custom validators.
type Context struct {
	Includes map[string]Validator
	Strict   bool
	Customs  *CustomValidators

	includeDepth int
}

// maxIncludeDepth bounds include recursion so that mutually recursive
// includes cannot loop forever on a single value.
const maxIncludeDepth = 100

const dayLayout = "2006-01-02"

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// buildValidator compiles a parsed expression into a Validator. The
// returned bool is the value of the required kwarg (default true); it only
// matters to the enclosing map rule.
func buildValidator(expr *Expr) (Validator, bool, error) {
	required := true
	if v, ok := expr.Kwarg("required"); ok {
		b, isBool := v.Scalar.(bool)
		if !isBool {
			return nil, false, NewInvalidSchemaError(expr.Pos, "required kwarg must be a boolean", "")
		}
		required = b
	}

	allowNone, err := kwargBool(expr, "none", true)
	if err != nil {
		return nil, false, err
	}

	var validator Validator

	switch expr.Name {
	case "str":
		validator, err = newStrValidator(expr, allowNone)
	case "int":
		validator, err = newIntValidator(expr, allowNone)
	case "num":
		validator, err = newNumValidator(expr, allowNone)
	case "bool":
		validator = boolValidator{allowNone: allowNone}
	case "enum":
		validator, err = newEnumValidator(expr, allowNone)
	case "regex":
		validator, err = newRegexValidator(expr, allowNone)
	case "day":
		validator, err = newDayValidator(expr, allowNone)
	case "timestamp":
		validator, err = newTimestampValidator(expr, allowNone)
	case "ip":
		validator, err = newIPValidator(expr, allowNone)
	case "mac":
		validator = macValidator{allowNone: allowNone}
	case "null":
		validator = nullValidator{}
	case "list":
		validator, err = newListValidator(expr, allowNone)
	case "map":
		validator, err = newMapValidator(expr, allowNone)
	case "include":
		validator, err = newIncludeValidator(expr)
	case "any":
		validator, err = newAnyValidator(expr)
	case "subset":
		validator, err = newSubsetValidator(expr, allowNone)
	case "custom":
		validator, err = newCustomRuleValidator(expr, allowNone)
	default:
		return nil, false, NewInvalidSchemaError(expr.Pos,
			fmt.Sprintf("unknown validator %q", expr.Name),
			"known validators: str, int, num, bool, enum, regex, day, timestamp, ip, mac, null, list, map, include, any, subset, custom")
	}
	if err != nil {
		return nil, false, err
	}

	return validator, required, nil
}

func buildSubValidators(vals []Value, pos *filepos.Position) ([]Validator, error) {
	var result []Validator
	for _, val := range vals {
		if !val.IsExpr {
			return nil, NewInvalidSchemaError(pos,
				fmt.Sprintf("expected a nested validator, found literal %v", valueRepr(val.Scalar)), "")
		}
		sub, _, err := buildValidator(val.Expr)
		if err != nil {
			return nil, err
		}
		result = append(result, sub)
	}
	return result, nil
}

func failNone(v Validator, pos *filepos.Position) []error {
	return []error{NewValueError(pos, "null", v.DescribeExpected(),
		"the rule disallows null values (none=False)")}
}

func valueRepr(val interface{}) string {
	switch typedVal := val.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", typedVal)
	case *yamlmeta.Map, *yamlmeta.Array:
		return yamlmeta.TypeName(typedVal)
	default:
		return fmt.Sprintf("%v", typedVal)
	}
}

func describe(name string, constraints ...string) string {
	var present []string
	for _, c := range constraints {
		if c != "" {
			present = append(present, c)
		}
	}
	if len(present) == 0 {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, strings.Join(present, ", "))
}

type strValidator struct {
	allowNone  bool
	minLen     *int64
	maxLen     *int64
	equals     *string
	startsWith *string
	endsWith   *string
	matches    *regexp.Regexp
	exclude    *string
	ignoreCase bool
}

func newStrValidator(expr *Expr, allowNone bool) (Validator, error) {
	v := strValidator{allowNone: allowNone}
	var err error

	if v.minLen, err = kwargInt(expr, "min"); err != nil {
		return nil, err
	}
	if v.maxLen, err = kwargInt(expr, "max"); err != nil {
		return nil, err
	}
	if v.equals, err = kwargString(expr, "equals"); err != nil {
		return nil, err
	}
	if v.startsWith, err = kwargString(expr, "starts_with"); err != nil {
		return nil, err
	}
	if v.endsWith, err = kwargString(expr, "ends_with"); err != nil {
		return nil, err
	}
	if v.exclude, err = kwargString(expr, "exclude"); err != nil {
		return nil, err
	}
	if v.ignoreCase, err = kwargBool(expr, "ignore_case", false); err != nil {
		return nil, err
	}

	matches, err := kwargString(expr, "matches")
	if err != nil {
		return nil, err
	}
	if matches != nil {
		pattern := *matches
		if v.ignoreCase {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, NewInvalidSchemaError(expr.Pos, fmt.Sprintf("invalid matches pattern: %s", err), "")
		}
		v.matches = re
	}

	return v, nil
}

func (v strValidator) DescribeExpected() string {
	var minC, maxC string
	if v.minLen != nil {
		minC = fmt.Sprintf("min len %d", *v.minLen)
	}
	if v.maxLen != nil {
		maxC = fmt.Sprintf("max len %d", *v.maxLen)
	}
	return describe("str", minC, maxC)
}

func (v strValidator) Check(val interface{}, pos *filepos.Position, _ *Context) []error {
	if val == nil {
		if v.allowNone {
			return nil
		}
		return failNone(v, pos)
	}

	str, ok := val.(string)
	if !ok {
		return []error{NewMismatchedTypeError(val, pos, v.DescribeExpected())}
	}

	cmp := str
	if v.ignoreCase {
		cmp = strings.ToLower(str)
	}

	var errs []error
	if v.minLen != nil && int64(len(str)) < *v.minLen {
		errs = append(errs, NewValueError(pos, fmt.Sprintf("string of length %d", len(str)), v.DescribeExpected()))
	}
	if v.maxLen != nil && int64(len(str)) > *v.maxLen {
		errs = append(errs, NewValueError(pos, fmt.Sprintf("string of length %d", len(str)), v.DescribeExpected()))
	}
	if v.equals != nil && cmp != v.caseFold(*v.equals) {
		errs = append(errs, NewValueError(pos, valueRepr(str), fmt.Sprintf("string equal to %q", *v.equals)))
	}
	if v.startsWith != nil && !strings.HasPrefix(cmp, v.caseFold(*v.startsWith)) {
		errs = append(errs, NewValueError(pos, valueRepr(str), fmt.Sprintf("string starting with %q", *v.startsWith)))
	}
	if v.endsWith != nil && !strings.HasSuffix(cmp, v.caseFold(*v.endsWith)) {
		errs = append(errs, NewValueError(pos, valueRepr(str), fmt.Sprintf("string ending with %q", *v.endsWith)))
	}
	if v.matches != nil && !v.matches.MatchString(str) {
		errs = append(errs, NewValueError(pos, valueRepr(str), fmt.Sprintf("string matching /%s/", v.matches)))
	}
	if v.exclude != nil && strings.ContainsAny(cmp, v.caseFold(*v.exclude)) {
		errs = append(errs, NewValueError(pos, valueRepr(str), fmt.Sprintf("string without any of the characters %q", *v.exclude)))
	}
	return errs
}

func (v strValidator) caseFold(s string) string {
	if v.ignoreCase {
		return strings.ToLower(s)
	}
	return s
}

type intValidator struct {
	allowNone bool
	min, max  *int64
}

func newIntValidator(expr *Expr, allowNone bool) (Validator, error) {
	v := intValidator{allowNone: allowNone}
	var err error
	if v.min, err = kwargInt(expr, "min"); err != nil {
		return nil, err
	}
	if v.max, err = kwargInt(expr, "max"); err != nil {
		return nil, err
	}
	return v, nil
}

func (v intValidator) DescribeExpected() string {
	var minC, maxC string
	if v.min != nil {
		minC = fmt.Sprintf("min %d", *v.min)
	}
	if v.max != nil {
		maxC = fmt.Sprintf("max %d", *v.max)
	}
	return describe("int", minC, maxC)
}

func (v intValidator) Check(val interface{}, pos *filepos.Position, _ *Context) []error {
	if val == nil {
		if v.allowNone {
			return nil
		}
		return failNone(v, pos)
	}

	var num int64
	switch typedVal := val.(type) {
	case int64:
		num = typedVal
	case int:
		num = int64(typedVal)
	default:
		return []error{NewMismatchedTypeError(val, pos, v.DescribeExpected())}
	}

	var errs []error
	if v.min != nil && num < *v.min {
		errs = append(errs, NewValueError(pos, fmt.Sprintf("%d", num), v.DescribeExpected()))
	}
	if v.max != nil && num > *v.max {
		errs = append(errs, NewValueError(pos, fmt.Sprintf("%d", num), v.DescribeExpected()))
	}
	return errs
}

type numValidator struct {
	allowNone bool
	min, max  *float64
}

func newNumValidator(expr *Expr, allowNone bool) (Validator, error) {
	v := numValidator{allowNone: allowNone}
	var err error
	if v.min, err = kwargFloat(expr, "min"); err != nil {
		return nil, err
	}
	if v.max, err = kwargFloat(expr, "max"); err != nil {
		return nil, err
	}
	return v, nil
}

func (v numValidator) DescribeExpected() string {
	var minC, maxC string
	if v.min != nil {
		minC = fmt.Sprintf("min %v", *v.min)
	}
	if v.max != nil {
		maxC = fmt.Sprintf("max %v", *v.max)
	}
	return describe("num", minC, maxC)
}

func (v numValidator) Check(val interface{}, pos *filepos.Position, _ *Context) []error {
	if val == nil {
		if v.allowNone {
			return nil
		}
		return failNone(v, pos)
	}

	num, ok := asFloat(val)
	if !ok {
		return []error{NewMismatchedTypeError(val, pos, v.DescribeExpected())}
	}

	var errs []error
	if v.min != nil && num < *v.min {
		errs = append(errs, NewValueError(pos, fmt.Sprintf("%v", num), v.DescribeExpected()))
	}
	if v.max != nil && num > *v.max {
		errs = append(errs, NewValueError(pos, fmt.Sprintf("%v", num), v.DescribeExpected()))
	}
	return errs
}

func asFloat(val interface{}) (float64, bool) {
	switch typedVal := val.(type) {
	case int64:
		return float64(typedVal), true
	case int:
		return float64(typedVal), true
	case float64:
		return typedVal, true
	}
	return 0, false
}

type boolValidator struct {
	allowNone bool
}

func (v boolValidator) DescribeExpected() string { return "bool" }

func (v boolValidator) Check(val interface{}, pos *filepos.Position, _ *Context) []error {
	if val == nil {
		if v.allowNone {
			return nil
		}
		return failNone(v, pos)
	}
	if _, ok := val.(bool); !ok {
		return []error{NewMismatchedTypeError(val, pos, v.DescribeExpected())}
	}
	return nil
}

type enumValidator struct {
	allowNone bool
	values    []interface{}
}

func newEnumValidator(expr *Expr, allowNone bool) (Validator, error) {
	v := enumValidator{allowNone: allowNone}
	for _, arg := range expr.Positional() {
		if arg.IsExpr {
			return nil, NewInvalidSchemaError(expr.Pos, "enum arguments must be literals", "")
		}
		v.values = append(v.values, arg.Scalar)
	}
	if len(v.values) == 0 {
		return nil, NewInvalidSchemaError(expr.Pos, "enum requires at least one allowed value", "")
	}
	return v, nil
}

func (v enumValidator) DescribeExpected() string {
	var reprs []string
	for _, val := range v.values {
		reprs = append(reprs, valueRepr(val))
	}
	return "one of " + strings.Join(reprs, ", ")
}

func (v enumValidator) Check(val interface{}, pos *filepos.Position, _ *Context) []error {
	if val == nil && v.allowNone {
		return nil
	}
	for _, allowed := range v.values {
		if looseEq(val, allowed) {
			return nil
		}
	}
	return []error{NewValueError(pos, valueRepr(val), v.DescribeExpected())}
}

// looseEq compares scalars, treating int64 and float64 with the same
// numeric value as equal.
func looseEq(a, b interface{}) bool {
	if a == b {
		return true
	}
	aNum, aOK := asFloat(a)
	bNum, bOK := asFloat(b)
	return aOK && bOK && aNum == bNum
}

type regexValidator struct {
	allowNone bool
	patterns  []*regexp.Regexp
	name      string
}

func newRegexValidator(expr *Expr, allowNone bool) (Validator, error) {
	v := regexValidator{allowNone: allowNone}

	ignoreCase, err := kwargBool(expr, "ignore_case", false)
	if err != nil {
		return nil, err
	}
	multiline, err := kwargBool(expr, "multiline", false)
	if err != nil {
		return nil, err
	}

	flags := ""
	if ignoreCase {
		flags += "i"
	}
	if multiline {
		flags += "ms"
	}
	if flags != "" {
		flags = "(?" + flags + ")"
	}

	for _, arg := range expr.Positional() {
		pattern, ok := arg.Scalar.(string)
		if !ok {
			return nil, NewInvalidSchemaError(expr.Pos, "regex arguments must be pattern strings", "")
		}
		re, err := regexp.Compile(flags + pattern)
		if err != nil {
			return nil, NewInvalidSchemaError(expr.Pos, fmt.Sprintf("invalid pattern %q: %s", pattern, err), "")
		}
		v.patterns = append(v.patterns, re)
	}
	if len(v.patterns) == 0 {
		return nil, NewInvalidSchemaError(expr.Pos, "regex requires at least one pattern", "")
	}

	name, err := kwargString(expr, "name")
	if err != nil {
		return nil, err
	}
	if name != nil {
		v.name = *name
	}

	return v, nil
}

func (v regexValidator) DescribeExpected() string {
	if v.name != "" {
		return v.name
	}
	var reprs []string
	for _, re := range v.patterns {
		reprs = append(reprs, fmt.Sprintf("/%s/", re))
	}
	return "string matching " + strings.Join(reprs, " or ")
}

func (v regexValidator) Check(val interface{}, pos *filepos.Position, _ *Context) []error {
	if val == nil {
		if v.allowNone {
			return nil
		}
		return failNone(v, pos)
	}

	str, ok := val.(string)
	if !ok {
		return []error{NewMismatchedTypeError(val, pos, v.DescribeExpected())}
	}

	for _, re := range v.patterns {
		if re.MatchString(str) {
			return nil
		}
	}
	return []error{NewValueError(pos, valueRepr(str), v.DescribeExpected())}
}

type dayValidator struct {
	allowNone bool
	min, max  *time.Time
}

func newDayValidator(expr *Expr, allowNone bool) (Validator, error) {
	v := dayValidator{allowNone: allowNone}
	var err error
	if v.min, err = kwargDay(expr, "min"); err != nil {
		return nil, err
	}
	if v.max, err = kwargDay(expr, "max"); err != nil {
		return nil, err
	}
	return v, nil
}

func (v dayValidator) DescribeExpected() string {
	var minC, maxC string
	if v.min != nil {
		minC = "min " + v.min.Format(dayLayout)
	}
	if v.max != nil {
		maxC = "max " + v.max.Format(dayLayout)
	}
	return describe("day (YYYY-MM-DD)", minC, maxC)
}

func (v dayValidator) Check(val interface{}, pos *filepos.Position, _ *Context) []error {
	if val == nil {
		if v.allowNone {
			return nil
		}
		return failNone(v, pos)
	}

	str, ok := val.(string)
	if !ok {
		return []error{NewMismatchedTypeError(val, pos, v.DescribeExpected())}
	}

	day, err := time.Parse(dayLayout, str)
	if err != nil {
		return []error{NewValueError(pos, valueRepr(str), v.DescribeExpected())}
	}

	var errs []error
	if v.min != nil && day.Before(*v.min) {
		errs = append(errs, NewValueError(pos, valueRepr(str), v.DescribeExpected()))
	}
	if v.max != nil && day.After(*v.max) {
		errs = append(errs, NewValueError(pos, valueRepr(str), v.DescribeExpected()))
	}
	return errs
}

type timestampValidator struct {
	allowNone bool
}

func newTimestampValidator(_ *Expr, allowNone bool) (Validator, error) {
	return timestampValidator{allowNone: allowNone}, nil
}

func (v timestampValidator) DescribeExpected() string { return "timestamp" }

func (v timestampValidator) Check(val interface{}, pos *filepos.Position, _ *Context) []error {
	if val == nil {
		if v.allowNone {
			return nil
		}
		return failNone(v, pos)
	}

	str, ok := val.(string)
	if !ok {
		return []error{NewMismatchedTypeError(val, pos, v.DescribeExpected())}
	}

	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, str); err == nil {
			return nil
		}
	}
	return []error{NewValueError(pos, valueRepr(str), v.DescribeExpected())}
}

type ipValidator struct {
	allowNone bool
	version   int // 0 (any), 4 or 6
}

func newIPValidator(expr *Expr, allowNone bool) (Validator, error) {
	v := ipValidator{allowNone: allowNone}
	ver, err := kwargInt(expr, "version")
	if err != nil {
		return nil, err
	}
	if ver != nil {
		if *ver != 4 && *ver != 6 {
			return nil, NewInvalidSchemaError(expr.Pos, "ip version must be 4 or 6", "")
		}
		v.version = int(*ver)
	}
	return v, nil
}

func (v ipValidator) DescribeExpected() string {
	if v.version != 0 {
		return fmt.Sprintf("IPv%d address", v.version)
	}
	return "IP address"
}

func (v ipValidator) Check(val interface{}, pos *filepos.Position, _ *Context) []error {
	if val == nil {
		if v.allowNone {
			return nil
		}
		return failNone(v, pos)
	}

	str, ok := val.(string)
	if !ok {
		return []error{NewMismatchedTypeError(val, pos, v.DescribeExpected())}
	}

	ip := net.ParseIP(str)
	if ip == nil {
		// CIDR notation is accepted as well
		var err error
		ip, _, err = net.ParseCIDR(str)
		if err != nil {
			return []error{NewValueError(pos, valueRepr(str), v.DescribeExpected())}
		}
	}

	switch v.version {
	case 4:
		if ip.To4() == nil {
			return []error{NewValueError(pos, valueRepr(str), v.DescribeExpected())}
		}
	case 6:
		if ip.To4() != nil {
			return []error{NewValueError(pos, valueRepr(str), v.DescribeExpected())}
		}
	}
	return nil
}

type macValidator struct {
	allowNone bool
}

func (v macValidator) DescribeExpected() string { return "MAC address" }

func (v macValidator) Check(val interface{}, pos *filepos.Position, _ *Context) []error {
	if val == nil {
		if v.allowNone {
			return nil
		}
		return failNone(v, pos)
	}

	str, ok := val.(string)
	if !ok {
		return []error{NewMismatchedTypeError(val, pos, v.DescribeExpected())}
	}
	if _, err := net.ParseMAC(str); err != nil {
		return []error{NewValueError(pos, valueRepr(str), v.DescribeExpected())}
	}
	return nil
}

type nullValidator struct{}

func (v nullValidator) DescribeExpected() string { return "null" }

func (v nullValidator) Check(val interface{}, pos *filepos.Position, _ *Context) []error {
	if val != nil {
		return []error{NewValueError(pos, valueRepr(val), v.DescribeExpected())}
	}
	return nil
}

type listValidator struct {
	allowNone bool
	items     []Validator
	min, max  *int64
}

func newListValidator(expr *Expr, allowNone bool) (Validator, error) {
	v := listValidator{allowNone: allowNone}
	var err error

	if v.items, err = buildSubValidators(expr.Positional(), expr.Pos); err != nil {
		return nil, err
	}
	if v.min, err = kwargInt(expr, "min"); err != nil {
		return nil, err
	}
	if v.max, err = kwargInt(expr, "max"); err != nil {
		return nil, err
	}
	return v, nil
}

func (v listValidator) DescribeExpected() string {
	var minC, maxC string
	if v.min != nil {
		minC = fmt.Sprintf("min %d items", *v.min)
	}
	if v.max != nil {
		maxC = fmt.Sprintf("max %d items", *v.max)
	}
	return describe("list", minC, maxC)
}

func (v listValidator) Check(val interface{}, pos *filepos.Position, ctx *Context) []error {
	if val == nil {
		if v.allowNone {
			return nil
		}
		return failNone(v, pos)
	}

	array, ok := val.(*yamlmeta.Array)
	if !ok {
		return []error{NewMismatchedTypeError(val, pos, v.DescribeExpected())}
	}

	var errs []error
	if v.min != nil && int64(len(array.Items)) < *v.min {
		errs = append(errs, NewValueError(pos, fmt.Sprintf("list of %d items", len(array.Items)), v.DescribeExpected()))
	}
	if v.max != nil && int64(len(array.Items)) > *v.max {
		errs = append(errs, NewValueError(pos, fmt.Sprintf("list of %d items", len(array.Items)), v.DescribeExpected()))
	}

	for _, item := range array.Items {
		errs = append(errs, checkAgainstAny(v.items, item.Value, item.Position, ctx)...)
	}
	return errs
}

type mapValidator struct {
	allowNone bool
	values    []Validator
	key       Validator
	min, max  *int64
}

func newMapValidator(expr *Expr, allowNone bool) (Validator, error) {
	v := mapValidator{allowNone: allowNone}
	var err error

	if v.values, err = buildSubValidators(expr.Positional(), expr.Pos); err != nil {
		return nil, err
	}
	if v.min, err = kwargInt(expr, "min"); err != nil {
		return nil, err
	}
	if v.max, err = kwargInt(expr, "max"); err != nil {
		return nil, err
	}

	if keyVal, ok := expr.Kwarg("key"); ok {
		if !keyVal.IsExpr {
			return nil, NewInvalidSchemaError(expr.Pos, "key kwarg must be a validator", "")
		}
		v.key, _, err = buildValidator(keyVal.Expr)
		if err != nil {
			return nil, err
		}
	}

	return v, nil
}

func (v mapValidator) DescribeExpected() string {
	var minC, maxC string
	if v.min != nil {
		minC = fmt.Sprintf("min %d keys", *v.min)
	}
	if v.max != nil {
		maxC = fmt.Sprintf("max %d keys", *v.max)
	}
	return describe("map", minC, maxC)
}

func (v mapValidator) Check(val interface{}, pos *filepos.Position, ctx *Context) []error {
	if val == nil {
		if v.allowNone {
			return nil
		}
		return failNone(v, pos)
	}

	mapNode, ok := val.(*yamlmeta.Map)
	if !ok {
		return []error{NewMismatchedTypeError(val, pos, v.DescribeExpected())}
	}

	var errs []error
	if v.min != nil && int64(len(mapNode.Items)) < *v.min {
		errs = append(errs, NewValueError(pos, fmt.Sprintf("map of %d keys", len(mapNode.Items)), v.DescribeExpected()))
	}
	if v.max != nil && int64(len(mapNode.Items)) > *v.max {
		errs = append(errs, NewValueError(pos, fmt.Sprintf("map of %d keys", len(mapNode.Items)), v.DescribeExpected()))
	}

	for _, item := range mapNode.Items {
		if v.key != nil {
			errs = append(errs, v.key.Check(item.Key, item.Position, ctx)...)
		}
		errs = append(errs, checkAgainstAny(v.values, item.Value, item.Position, ctx)...)
	}
	return errs
}

type includeValidator struct {
	name      string
	strictSet bool
	strictVal bool
}

func newIncludeValidator(expr *Expr) (Validator, error) {
	args := expr.Positional()
	if len(args) != 1 || args[0].IsExpr {
		return nil, NewInvalidSchemaError(expr.Pos, "include requires exactly one name argument", "eg include('dataset')")
	}
	name, ok := args[0].Scalar.(string)
	if !ok {
		return nil, NewInvalidSchemaError(expr.Pos, "include name must be a string", "")
	}

	v := includeValidator{name: name}
	if strictVal, found := expr.Kwarg("strict"); found {
		b, isBool := strictVal.Scalar.(bool)
		if !isBool {
			return nil, NewInvalidSchemaError(expr.Pos, "strict kwarg must be a boolean", "")
		}
		v.strictSet = true
		v.strictVal = b
	}
	return v, nil
}

func (v includeValidator) DescribeExpected() string {
	return fmt.Sprintf("include(%q)", v.name)
}

func (v includeValidator) Check(val interface{}, pos *filepos.Position, ctx *Context) []error {
	target, ok := ctx.Includes[v.name]
	if !ok {
		return []error{fmt.Errorf("Unknown include %q referenced by data at %s", v.name, pos.AsCompactString())}
	}

	if ctx.includeDepth >= maxIncludeDepth {
		return []error{fmt.Errorf("Include %q nested more than %d levels deep at %s (include cycle?)",
			v.name, maxIncludeDepth, pos.AsCompactString())}
	}

	nested := *ctx
	nested.includeDepth++
	if v.strictSet {
		nested.Strict = v.strictVal
	}
	return target.Check(val, pos, &nested)
}

type anyValidator struct {
	validators []Validator
}

func newAnyValidator(expr *Expr) (Validator, error) {
	validators, err := buildSubValidators(expr.Positional(), expr.Pos)
	if err != nil {
		return nil, err
	}
	if len(validators) == 0 {
		return nil, NewInvalidSchemaError(expr.Pos, "any requires at least one validator", "")
	}
	return anyValidator{validators: validators}, nil
}

func (v anyValidator) DescribeExpected() string {
	var descs []string
	for _, sub := range v.validators {
		descs = append(descs, sub.DescribeExpected())
	}
	return strings.Join(descs, " | ")
}

func (v anyValidator) Check(val interface{}, pos *filepos.Position, ctx *Context) []error {
	return checkAgainstAny(v.validators, val, pos, ctx)
}

type subsetValidator struct {
	allowNone  bool
	validators []Validator
}

func newSubsetValidator(expr *Expr, allowNone bool) (Validator, error) {
	validators, err := buildSubValidators(expr.Positional(), expr.Pos)
	if err != nil {
		return nil, err
	}
	if len(validators) == 0 {
		return nil, NewInvalidSchemaError(expr.Pos, "subset requires at least one validator", "")
	}
	return subsetValidator{allowNone: allowNone, validators: validators}, nil
}

func (v subsetValidator) DescribeExpected() string {
	return "subset of " + anyValidator{v.validators}.DescribeExpected()
}

// Check accepts either a single value or a list; every element must
// satisfy at least one of the subset's validators.
func (v subsetValidator) Check(val interface{}, pos *filepos.Position, ctx *Context) []error {
	if val == nil {
		if v.allowNone {
			return nil
		}
		return failNone(v, pos)
	}

	if array, ok := val.(*yamlmeta.Array); ok {
		var errs []error
		for _, item := range array.Items {
			errs = append(errs, checkAgainstAny(v.validators, item.Value, item.Position, ctx)...)
		}
		return errs
	}
	return checkAgainstAny(v.validators, val, pos, ctx)
}

// checkAgainstAny passes when the value satisfies at least one of the
// validators. With a single validator its own violations surface
// unchanged, which keeps nested map/include errors precise.
func checkAgainstAny(validators []Validator, val interface{}, pos *filepos.Position, ctx *Context) []error {
	switch len(validators) {
	case 0:
		return nil
	case 1:
		return validators[0].Check(val, pos, ctx)
	}

	for _, sub := range validators {
		if len(sub.Check(val, pos, ctx)) == 0 {
			return nil
		}
	}
	return []error{NewValueError(pos, valueRepr(val), anyValidator{validators}.DescribeExpected())}
}

func kwargBool(expr *Expr, name string, def bool) (bool, error) {
	val, ok := expr.Kwarg(name)
	if !ok {
		return def, nil
	}
	b, isBool := val.Scalar.(bool)
	if !isBool {
		return false, NewInvalidSchemaError(expr.Pos, fmt.Sprintf("%s kwarg must be a boolean", name), "")
	}
	return b, nil
}

func kwargInt(expr *Expr, name string) (*int64, error) {
	val, ok := expr.Kwarg(name)
	if !ok {
		return nil, nil
	}
	n, isInt := val.Scalar.(int64)
	if !isInt {
		return nil, NewInvalidSchemaError(expr.Pos, fmt.Sprintf("%s kwarg must be an integer", name), "")
	}
	return &n, nil
}

func kwargFloat(expr *Expr, name string) (*float64, error) {
	val, ok := expr.Kwarg(name)
	if !ok {
		return nil, nil
	}
	f, isNum := asFloat(val.Scalar)
	if !isNum {
		return nil, NewInvalidSchemaError(expr.Pos, fmt.Sprintf("%s kwarg must be a number", name), "")
	}
	return &f, nil
}

func kwargString(expr *Expr, name string) (*string, error) {
	val, ok := expr.Kwarg(name)
	if !ok {
		return nil, nil
	}
	s, isStr := val.Scalar.(string)
	if !isStr {
		return nil, NewInvalidSchemaError(expr.Pos, fmt.Sprintf("%s kwarg must be a string", name), "")
	}
	return &s, nil
}

func kwargDay(expr *Expr, name string) (*time.Time, error) {
	s, err := kwargString(expr, name)
	if err != nil || s == nil {
		return nil, err
	}
	day, err := time.Parse(dayLayout, *s)
	if err != nil {
		return nil, NewInvalidSchemaError(expr.Pos, fmt.Sprintf("%s kwarg must be a YYYY-MM-DD date", name), "")
	}
	return &day, nil
}
