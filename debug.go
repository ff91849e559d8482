package bypass

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

type DumpFlags uint64

const (
	DumpSettings = DumpFlags(1 << iota)
	DumpBindings
	DumpViews
	DumpStats

	DumpAll = DumpFlags(0xFFFFFFFFFFFFFFFF)
)

var dumpSpew = &spew.ConfigState{
	Indent:                  " ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

func (f DumpFlags) Contains(v DumpFlags) bool {
	return (f & v) == v
}

// Dump renders the registry for debugging.
func (r *Registry) Dump(f DumpFlags) string {
	var buf strings.Builder
	if f.Contains(DumpStats) {
		total := 0
		for _, e := range r.entries {
			total += len(e.bindings)
		}
		fmt.Fprintf(&buf, "%s: arity = %d, settings = %d, bindings = %d\n", r.schema.name, r.schema.Arity(), len(r.entries), total)
	}
	for i, e := range r.entries {
		if f.Contains(DumpSettings) {
			fmt.Fprintf(&buf, "%d. %s (%d bindings)\n", i, e.setting, len(e.bindings))
		}
		if f.Contains(DumpBindings) {
			for _, b := range e.bindings {
				fmt.Fprintf(&buf, "  %s", dumpSpew.Sdump([]any(b)))
			}
		}
	}
	if f.Contains(DumpViews) {
		for _, name := range r.schema.viewNames {
			fmt.Fprintf(&buf, "view %s: columns %v\n", name, r.schema.views[name])
		}
	}
	return buf.String()
}
