// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package renderer

import (
	"sync"

	"github.com/flowkit/flowui/vdom"
)

// refRegistry tracks every live *vdom.VDomRef by its RefId (spec
// SUPPLEMENTED FEATURES #3): a component's ref binding is a plain value
// (not a reactivity.Ref), so position updates from the host backend are
// delivered by RefId lookup here rather than through track/trigger.
var (
	refMu  sync.Mutex
	refReg = make(map[string]*vdom.VDomRef)
)

// resolveRef registers ref (if elem's "ref" prop holds one) as attached,
// called once per mount/patch of the element it's bound to so HasCurrent
// reflects whether the native node currently exists.
func resolveRef(elem *vdom.VDomElem, attached bool) {
	if elem == nil || elem.Props == nil {
		return
	}
	ref, ok := elem.Props["ref"].(*vdom.VDomRef)
	if !ok || ref == nil {
		return
	}
	refMu.Lock()
	defer refMu.Unlock()
	ref.HasCurrent = attached
	if attached {
		refReg[ref.RefId] = ref
	} else {
		delete(refReg, ref.RefId)
	}
}

// UpdateRefPosition is called by a host backend that measures layout
// (offset/scroll/bounding-rect) to report it back through the ref the
// component originally bound, the other half of the §4.4.1 "resolve the
// ref binding" contract.
func UpdateRefPosition(refId string, pos vdom.VDomRefPosition) {
	refMu.Lock()
	defer refMu.Unlock()
	ref, ok := refReg[refId]
	if !ok {
		return
	}
	ref.Position = &pos
}
