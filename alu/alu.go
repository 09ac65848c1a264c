// Package alu implements the combinational arithmetic/logic unit of the
// datapath: a single unit selecting one of nine micro-ops over two input
// routes, producing a result and the two processor-status flags.
package alu

import (
	"github.com/golang/glog"

	"github.com/bdwalton/csamachine/isa"
)

// ALU holds the two input routes, the selected operation, the published
// result and the flags computed from the last Calc(). It has no memory of
// its own beyond the last operation — every field except Result is
// overwritten by the next SetInputs/Calc pair (CMP and AND leave Result as
// the previous operation published it), the same flag-setting pattern as a
// 6502's status-register helpers.
type ALU struct {
	routeA, routeB int
	op             isa.ALUOp

	Result int
	Flags  isa.PS
}

// New returns an ALU with flags clear — all state starts zeroed.
func New() *ALU {
	return &ALU{}
}

// SetInputs latches the two input routes and the selected micro-op, ahead
// of a Calc() call.
func (a *ALU) SetInputs(routeA, routeB int, op isa.ALUOp) {
	a.routeA, a.routeB, a.op = routeA, routeB, op
}

// Calc performs the selected operation and updates Result and Flags.
//
// CMP and AND publish flags from a shadow value (the comparison
// difference, or the bitwise conjunction) without overwriting Result — the
// accumulator is untouched by either. DEC_B does not decrement: it passes
// route B through unchanged. This is preserved literally because PUSH/POP's
// micro-sequences depend on its exact tick/flag behavior.
func (a *ALU) Calc() {
	switch a.op {
	case isa.IncA:
		a.Result = a.routeA + 1
		a.rise(a.Result)
	case isa.IncB:
		a.Result = a.routeB + 1
		a.rise(a.Result)
	case isa.DecA:
		a.Result = a.routeA - 1
		a.rise(a.Result)
	case isa.DecB:
		a.Result = a.routeB
		a.rise(a.Result)
	case isa.Add:
		a.Result = a.routeA + a.routeB
		a.rise(a.Result)
	case isa.Cmp:
		a.rise(a.routeA - a.routeB)
	case isa.And:
		a.rise(a.routeA & a.routeB)
	case isa.NextInA:
		a.Result = a.routeA
		a.rise(a.Result)
	case isa.NextInB:
		a.Result = a.routeB
		a.rise(a.Result)
	default:
		glog.Fatalf("alu: unknown operation %v", a.op)
	}
}

// SetFlags overrides Flags directly, bypassing Calc(). This exists solely
// for the datapath's empty-input IN case, where AC=0 and Z=true are
// specified explicitly rather than derived from an ALU operation.
func (a *ALU) SetFlags(ps isa.PS) {
	a.Flags = ps
}

// rise computes Z/N from x: Z when x is zero, N when x is negative. For
// CMP/AND, x is the shadow value (difference/conjunction), never Result —
// neither op touches Result at all.
func (a *ALU) rise(x int) {
	a.Flags = isa.PS{Z: x == 0, N: x < 0}
}
