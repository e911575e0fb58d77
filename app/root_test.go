// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"testing"

	"github.com/flowkit/flowui/hostdom"
	"github.com/flowkit/flowui/vdom"
)

var testMountCount int

func testButton(props any) *vdom.VDomElem {
	clicked := UseLocal(false)
	UseEffect(func() func() {
		testMountCount++
		return nil
	}, nil)
	return vdom.H("button", map[string]any{
		"className": vdom.Classes("btn", vdom.If(clicked.Get(), "clicked")),
	}, "hello")
}

func TestRunMainMountsRegisteredComponent(t *testing.T) {
	RegisterComponent("TestButton", testButton)
	tree := hostdom.New()
	root := tree.CreateElement("div")
	r := RunMain[*hostdom.Node](tree, root, "TestButton")
	if r.Scheduler() == nil {
		t.Fatalf("expected a scheduler")
	}
	if len(root.Children) != 1 || root.Children[0].Tag != "button" {
		t.Fatalf("expected a mounted <button>, got %+v", root.Children)
	}
	if testMountCount != 1 {
		t.Fatalf("expected mount effect to run once, ran %d times", testMountCount)
	}
}

func TestSharedAtomSetGetAndSetFn(t *testing.T) {
	count := UseSharedAtom("test-count", 0)
	count.Set(5)
	if count.Get() != 5 {
		t.Fatalf("expected 5, got %d", count.Get())
	}
	count.SetFn(func(v int) int { return v + 1 })
	if count.Peek() != 6 {
		t.Fatalf("expected 6, got %d", count.Peek())
	}
}

func TestConfigSchemaDescribesRegisteredAtoms(t *testing.T) {
	UseConfig("port", 8080).WithMeta(AtomMeta{Description: "listen port", Min: floatPtr(1), Max: floatPtr(65535)})
	schema := GenerateConfigSchema()
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("expected properties map, got %v", schema["properties"])
	}
	portSchema, ok := props["port"].(map[string]any)
	if !ok {
		t.Fatalf("expected port in config schema, got %v", props)
	}
	if portSchema["type"] != "integer" {
		t.Fatalf("expected integer type, got %v", portSchema["type"])
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
