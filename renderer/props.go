// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package renderer

// PropType is one declared type a prop may take, used by resolvePropValue
// for boolean/default casting (spec §4.4.8).
type PropType int

const (
	PropAny PropType = iota
	PropBoolean
	PropString
	PropNumber
)

// PropOption is one component prop's normalized declaration: the types it
// accepts (in declared order, since "Boolean before String" changes casting
// behavior per spec §4.4.8), its default value (or DefaultFn to compute one
// without reactivity tracking), and whether it is required (dev-only check,
// logged rather than enforced since there is no dev/prod build distinction
// here).
type PropOption struct {
	Types     []PropType
	Default   any
	DefaultFn func() any
	Required  bool
}

func (o PropOption) hasType(t PropType) bool {
	for _, pt := range o.Types {
		if pt == t {
			return true
		}
	}
	return false
}

// PropSchema declares the props a component accepts, keyed by prop name.
// A component registered without a schema (RegisterComponent) gets its raw
// props map verbatim, unmodified, same as before this existed.
type PropSchema map[string]PropOption

// resolvePropValue applies, in order, spec §4.4.8's casting rules for one
// declared prop: default value first (raw absent or explicitly nil, i.e.
// JS `undefined`), then boolean casting (a Boolean-typed prop absent becomes
// false; a prop whose first declared type is Boolean and which also accepts
// String becomes true when passed an empty string or a string equal to its
// own name — the "boolean attribute shorthand" case).
func resolvePropValue(name string, opt PropOption, raw map[string]any) any {
	val, present := raw[name]
	if !present || val == nil {
		if opt.DefaultFn != nil {
			return opt.DefaultFn()
		}
		if opt.Default != nil {
			return opt.Default
		}
		if opt.hasType(PropBoolean) && len(opt.Types) == 1 {
			return false
		}
		return val
	}
	if len(opt.Types) > 0 && opt.Types[0] == PropBoolean && opt.hasType(PropString) {
		if s, ok := val.(string); ok && (s == "" || s == name) {
			return true
		}
	}
	return val
}

// resolveProps builds the props map a component's Fn actually sees: every
// key schema declares is run through resolvePropValue; any raw key not
// declared in schema passes through unchanged (there is no DOM attrs-vs-
// props split to route it into — see DESIGN.md — so it is just carried
// along as an ordinary prop).
func resolveProps(schema PropSchema, raw map[string]any) map[string]any {
	if schema == nil {
		return raw
	}
	resolved := make(map[string]any, len(raw)+len(schema))
	for k, v := range raw {
		resolved[k] = v
	}
	for name, opt := range schema {
		resolved[name] = resolvePropValue(name, opt, raw)
	}
	return resolved
}
