// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package renderer

// patchStyle is the style-prop fast path patchProps dispatches to instead
// of treating "style" as an opaque value equal-compared via propEqual's
// reflect-based Equal (which only handles comparable types and cannot look
// inside a map). It diffs two style maps key-by-key and skips the
// SetProp("style", ...) call entirely when nothing actually changed — the
// common case for a re-render triggered by some unrelated prop — instead
// of reapplying the whole declaration block on every patch. When a real
// change is found the full new style map is still passed to SetProp, since
// HostBackend's contract applies one prop value at a time rather than
// incrementally merging CSS declarations. Falls back to a single
// propEqual-gated SetProp when either side isn't a style map — a static
// literal parsed by the compiler (compiler/generate.go's parseStaticStyle)
// and a v-bind:style expression's resolved value are both map[string]any,
// but hand-built elements may still pass a raw CSS string.
func (r *Reconciler[N]) patchStyle(n N, oldVal, newVal any) {
	oldStyle, oldIsMap := oldVal.(map[string]any)
	newStyle, newIsMap := newVal.(map[string]any)
	if !oldIsMap || !newIsMap {
		if !propEqual(oldVal, newVal) {
			r.backend.SetProp(n, "style", newVal)
		}
		return
	}
	if styleEqual(oldStyle, newStyle) {
		return
	}
	r.backend.SetProp(n, "style", newVal)
}

func styleEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
