// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"log"
	"reflect"
	"runtime"
	"sync"

	"github.com/flowkit/flowui/reactivity"
	"github.com/flowkit/flowui/renderer"
	"github.com/flowkit/flowui/util"
)

// atomEntry is one process-wide named reactive cell (spec SUPPLEMENTED
// FEATURES #1): a reactivity.Ref the rest of the reactivity core already
// knows how to track/trigger, plus the bookkeeping (type, meta) the
// schema generator needs to describe it externally. Unlike a component's
// own UseRef/hook state, an atomEntry is addressable by name so a host
// config surface can set it without going through a component.
type atomEntry struct {
	ref  *reactivity.Ref[any]
	typ  reflect.Type
	meta *AtomMeta
}

var (
	atomMu sync.Mutex
	atoms  = make(map[string]*atomEntry)
)

// AtomMeta annotates an atom for schema generation (units, range, enum,
// pattern, description) — ported from engine/atomimpl.go's AtomMeta,
// which attaches the same fields to a RootElem-registered atom.
type AtomMeta struct {
	Description string
	Units       string
	Min         *float64
	Max         *float64
	Enum        []string
	Pattern     string
}

func getOrCreateAtom[T any](name string, initial T) *atomEntry {
	atomMu.Lock()
	defer atomMu.Unlock()
	if e, ok := atoms[name]; ok {
		return e
	}
	t := reflect.TypeOf(initial)
	if t != nil {
		if err := util.ValidateAtomType(t, name); err != nil {
			panic(err)
		}
	}
	e := &atomEntry{ref: reactivity.NewRef[any](any(initial)), typ: t}
	atoms[name] = e
	return e
}

// getAtomsByPrefix returns every registered atom whose name has prefix,
// keyed by the name with prefix stripped — mirrors
// engine/rootelem.go's getAtomsByPrefix, used by the $config./$data.
// schema generators in schema.go.
func getAtomsByPrefix(prefix string) map[string]*atomEntry {
	atomMu.Lock()
	defer atomMu.Unlock()
	result := make(map[string]*atomEntry)
	for name, e := range atoms {
		if len(name) > len(prefix) && name[:len(prefix)] == prefix {
			result[name[len(prefix):]] = e
		}
	}
	return result
}

// logInvalidAtomSet logs an error when an atom is being set during
// component render.
func logInvalidAtomSet(atomName string) {
	_, file, line, ok := runtime.Caller(2)
	if ok {
		log.Printf("invalid Set of atom '%s' in component render function at %s:%d", atomName, file, line)
	} else {
		log.Printf("invalid Set of atom '%s' in component render function", atomName)
	}
}

// sameRef returns true if oldVal and newVal share the same underlying
// reference (pointer, map, or slice). Nil values return false.
func sameRef[T any](oldVal, newVal T) bool {
	vOld := reflect.ValueOf(oldVal)
	vNew := reflect.ValueOf(newVal)

	if !vOld.IsValid() || !vNew.IsValid() {
		return false
	}

	switch vNew.Kind() {
	case reflect.Ptr:
		return any(oldVal) == any(newVal)
	case reflect.Map, reflect.Slice:
		if vOld.Kind() != vNew.Kind() || vOld.IsZero() || vNew.IsZero() {
			return false
		}
		return vOld.Pointer() == vNew.Pointer()
	}
	return false
}

// logMutationWarning logs a warning when mutation is detected.
func logMutationWarning(atomName string) {
	_, file, line, ok := runtime.Caller(2)
	if ok {
		log.Printf("WARNING: atom '%s' appears to be mutated instead of copied at %s:%d - make a copy of the value before mutating it", atomName, file, line)
	} else {
		log.Printf("WARNING: atom '%s' appears to be mutated instead of copied - make a copy of the value before mutating it", atomName)
	}
}

// Atom[T] is a typed handle onto a named process-wide reactive cell.
// Reading one during a component's render (via Get) makes that component
// track the underlying reactivity.Ref the same as if it held the Ref
// directly — no separate "usedBy" registry is needed, since the
// reactivity core's dep tracking already runs for any reactivity.Ref read
// inside a running renderer.Instance's render Effect.
type Atom[T any] struct {
	name  string
	entry *atomEntry
}

// AtomName returns the atom's fully-qualified registry name
// ("$shared.foo", "$config.bar", "$data.baz").
func (a Atom[T]) AtomName() string {
	return a.name
}

// Get returns the current value, tracking the calling render effect.
func (a Atom[T]) Get() T {
	val := a.entry.ref.Get()
	return util.GetTypedAtomValue[T](val, a.name)
}

// Peek reads the current value without tracking it as a dependency.
func (a Atom[T]) Peek() T {
	val := a.entry.ref.Peek()
	return util.GetTypedAtomValue[T](val, a.name)
}

// Set updates the atom's value and triggers every component that has read
// it since its last write. Calling Set during a component's own render is
// invalid (the teacher's same restriction on mutating state mid-render)
// and is logged rather than applied.
func (a Atom[T]) Set(newVal T) {
	if renderer.GetCurrentInstance() != nil {
		logInvalidAtomSet(a.name)
		return
	}
	currentTyped := util.GetTypedAtomValue[T](a.entry.ref.Peek(), a.name)
	if sameRef(currentTyped, newVal) {
		logMutationWarning(a.name)
	}
	a.entry.ref.Set(any(newVal))
}

// SetFn applies fn to the current value and writes back the result,
// under the same render-time restriction as Set.
func (a Atom[T]) SetFn(fn func(T) T) {
	if renderer.GetCurrentInstance() != nil {
		logInvalidAtomSet(a.name)
		return
	}
	a.entry.ref.Update(func(old any) any {
		typedOld := util.GetTypedAtomValue[T](old, a.name)
		return any(fn(typedOld))
	})
}

// WithMeta attaches schema annotations to the atom and returns it, for
// chaining at registration: app.UseConfig("port", 8080).WithMeta(...).
func (a Atom[T]) WithMeta(meta AtomMeta) Atom[T] {
	a.entry.meta = &meta
	return a
}

// UseSharedAtom returns a process-wide atom named "$shared."+name,
// created on first use with initial as its starting value. Any component
// that calls Get re-renders whenever Set/SetFn changes the value,
// regardless of which component wrote it.
func UseSharedAtom[T any](name string, initial T) Atom[T] {
	return Atom[T]{name: "$shared." + name, entry: getOrCreateAtom("$shared."+name, initial)}
}

// UseConfig is UseSharedAtom scoped to the "$config." namespace: values a
// host config surface is expected to set from outside any component,
// discoverable via GenerateConfigSchema.
func UseConfig[T any](name string, initial T) Atom[T] {
	return Atom[T]{name: "$config." + name, entry: getOrCreateAtom("$config."+name, initial)}
}

// UseData is UseSharedAtom scoped to the "$data." namespace: values an
// external data feed is expected to set, discoverable via
// GenerateDataSchema.
func UseData[T any](name string, initial T) Atom[T] {
	return Atom[T]{name: "$data." + name, entry: getOrCreateAtom("$data."+name, initial)}
}
