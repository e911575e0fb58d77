// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package renderer

import (
	"testing"

	"github.com/flowkit/flowui/vdom"
)

// TestPropsCastingE6 is spec §8.4 scenario E6: a declared
// {flag: Boolean, name: [Boolean, String]} schema, given {flag: undefined,
// name: ""}, must resolve to {flag: false, name: true}.
func TestPropsCastingE6(t *testing.T) {
	schema := PropSchema{
		"flag": PropOption{Types: []PropType{PropBoolean}},
		"name": PropOption{Types: []PropType{PropBoolean, PropString}},
	}
	raw := map[string]any{"flag": nil, "name": ""}

	resolved := resolveProps(schema, raw)
	if flag, _ := resolved["flag"].(bool); flag != false {
		t.Fatalf("expected flag=false, got %v", resolved["flag"])
	}
	if name, _ := resolved["name"].(bool); name != true {
		t.Fatalf("expected name=true, got %v", resolved["name"])
	}
}

func TestPropsCastingBooleanShorthandMatchesOwnName(t *testing.T) {
	schema := PropSchema{
		"disabled": PropOption{Types: []PropType{PropBoolean, PropString}},
	}
	resolved := resolveProps(schema, map[string]any{"disabled": "disabled"})
	if v, _ := resolved["disabled"].(bool); v != true {
		t.Fatalf("expected disabled=true for the name-equal string shorthand, got %v", resolved["disabled"])
	}
}

func TestPropsDefaultAppliedWhenAbsent(t *testing.T) {
	schema := PropSchema{
		"size": PropOption{Default: "medium"},
	}
	resolved := resolveProps(schema, map[string]any{})
	if resolved["size"] != "medium" {
		t.Fatalf("expected default \"medium\", got %v", resolved["size"])
	}
}

func TestPropsDefaultFnInvokedEachResolve(t *testing.T) {
	calls := 0
	schema := PropSchema{
		"id": PropOption{DefaultFn: func() any {
			calls++
			return calls
		}},
	}
	first := resolveProps(schema, map[string]any{})
	second := resolveProps(schema, map[string]any{})
	if first["id"] == second["id"] {
		t.Fatalf("expected DefaultFn to be invoked fresh on each resolve, got %v twice", first["id"])
	}
}

func TestUndeclaredPropsPassThroughUnchanged(t *testing.T) {
	schema := PropSchema{
		"flag": PropOption{Types: []PropType{PropBoolean}},
	}
	resolved := resolveProps(schema, map[string]any{"flag": nil, "extra": "kept"})
	if resolved["extra"] != "kept" {
		t.Fatalf("expected an undeclared prop to pass through unchanged, got %v", resolved["extra"])
	}
}

// TestPatchComponentResolvesDeclaredPropsOnMountAndUpdate exercises the
// schema end to end through the reconciler, not just resolveProps directly.
func TestPatchComponentResolvesDeclaredPropsOnMountAndUpdate(t *testing.T) {
	var seenFlag, seenName any
	comp := func(props any) *vdom.VDomElem {
		m := props.(map[string]any)
		seenFlag = m["flag"]
		seenName = m["name"]
		return vdom.H("div", nil)
	}

	r, _, root := newReconciler()
	r.RegisterComponentWithProps("Widget", comp, PropSchema{
		"flag": PropOption{Types: []PropType{PropBoolean}},
		"name": PropOption{Types: []PropType{PropBoolean, PropString}},
	})
	r.Mount(root, vdom.H("Widget", map[string]any{"flag": nil, "name": ""}))

	if seenFlag != false {
		t.Fatalf("expected mount to see flag=false, got %v", seenFlag)
	}
	if seenName != true {
		t.Fatalf("expected mount to see name=true, got %v", seenName)
	}

	r.Update(vdom.H("Widget", map[string]any{"flag": nil, "name": "name"}))
	if seenName != true {
		t.Fatalf("expected update to see name=true for the name-equal shorthand, got %v", seenName)
	}
}
