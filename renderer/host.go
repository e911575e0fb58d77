// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package renderer

// HostBackend is the contract the renderer drives synchronously during
// patch (spec §6.1): it knows nothing about HTML, the DOM, or any other
// concrete target — it only knows how to create, mutate, move, and
// destroy opaque native nodes of type N. This replaces the teacher's
// model of serializing a shadow tree over RPC to a separate TypeScript
// frontend (see DESIGN.md's Deletions) with an interface the Go renderer
// calls directly and in-process, which is what lets patch() actually
// reconcile rather than just describe a diff for someone else to apply.
type HostBackend[N any] interface {
	// CreateElement makes a new native node for a non-text tag.
	CreateElement(tag string) N
	// CreateText makes a new native text node.
	CreateText(text string) N
	// CreateComment makes a native comment node. The renderer does not
	// call it: a v-if with no matching branch renders no node at all.
	CreateComment(text string) N

	// SetText overwrites a text node's content (the PatchText fast path).
	SetText(n N, text string)
	// SetProp applies one prop (attribute, style map, event handler, or
	// ref) to n. A nil val means the prop is being removed.
	SetProp(n N, key string, val any)

	// Insert mounts child under parent, before anchor. A nil anchor means
	// append as the last child.
	Insert(parent N, child N, anchor N)
	// Remove detaches n from its parent and releases it.
	Remove(n N)
	// Move relocates an already-mounted node to a new position under the
	// same parent, before anchor (used by the keyed-children diff to
	// reorder without unmounting/remounting — spec §4.4.5).
	Move(parent N, n N, anchor N)

	// ParentNode/NextSibling report a node's position in the host tree.
	// The renderer does not call them: its children diffs compute anchors
	// from the mounted tree it keeps itself.
	ParentNode(n N) (N, bool)
	NextSibling(n N) (N, bool)

	// IsNil reports whether a host node handle is the backend's zero
	// value (e.g. a nil *html.Node) — generic code can't compare N to nil
	// directly since N isn't constrained to comparable-with-nil types.
	IsNil(n N) bool
}
