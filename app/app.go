// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

// Package app is the public registration surface a program using this
// framework imports: RegisterComponent to name components, the
// UseSharedAtom/UseConfig/UseData family for process-wide state, and
// RunMain to mount a root component against a chosen HostBackend and run
// its event loop. It is the generalization of the teacher's
// engine.ClientImpl with the HTTP/SSE transport to a specific frontend
// removed (see DESIGN.md) — everything here is in-process.
package app

import (
	"log"
	"sync"

	"github.com/flowkit/flowui/renderer"
	"github.com/flowkit/flowui/vdom"
)

var (
	componentsMu sync.Mutex
	components   = make(map[string]renderer.CompFunc)
	propSchemas  = make(map[string]renderer.PropSchema)
)

// RegisterComponent makes name resolvable as a custom element tag by any
// Reconciler RunMain creates afterward.
func RegisterComponent(name string, fn renderer.CompFunc) {
	componentsMu.Lock()
	defer componentsMu.Unlock()
	components[name] = fn
}

// RegisterComponentWithProps is RegisterComponent plus a declared prop
// schema (spec §4.4.8): every Reconciler RunMain creates afterward resolves
// name's raw props against schema (default values, Boolean/String casting)
// before the component function runs.
func RegisterComponentWithProps(name string, fn renderer.CompFunc, schema renderer.PropSchema) {
	componentsMu.Lock()
	defer componentsMu.Unlock()
	components[name] = fn
	propSchemas[name] = schema
}

// RunMain creates a Reconciler over backend, registers every component
// RegisterComponent has recorded, mounts rootTag into container, and
// returns the Reconciler so the caller can drive further top-level
// Updates (e.g. in response to a host resize or external event feed).
// This is the whole of the teacher's RunMain/listenAndServe loop once the
// product-specific HTTP/SSE transport is removed: mounting and the
// render-effect scheduler are the only parts that are this framework's
// concern rather than a specific host's.
func RunMain[N any](backend renderer.HostBackend[N], container N, rootTag string) *renderer.Reconciler[N] {
	r := renderer.NewReconciler[N](backend)
	componentsMu.Lock()
	for name, fn := range components {
		if schema, ok := propSchemas[name]; ok {
			r.RegisterComponentWithProps(name, fn, schema)
		} else {
			r.RegisterComponent(name, fn)
		}
	}
	componentsMu.Unlock()
	if _, ok := components[rootTag]; !ok {
		log.Printf("app.RunMain: root component %q was never registered", rootTag)
	}
	r.Mount(container, vdom.H(rootTag, nil))
	return r
}
