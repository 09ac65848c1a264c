// Package control implements the control unit: it drives fetch and the
// per-opcode micro-sequences over a datapath, counting ticks and raising
// termination on HLT.
package control

import (
	"github.com/golang/glog"

	"github.com/bdwalton/csamachine/datapath"
	"github.com/bdwalton/csamachine/isa"
)

// mux/op pointer helpers — ALUExecute takes *isa.Mux so a micro-sequence
// can omit an input route entirely; these keep call sites terse.
func mx(m isa.Mux) *isa.Mux { return &m }

var (
	muxPC  = mx(isa.FromPC)
	muxSP  = mx(isa.FromSP)
	muxDR  = mx(isa.FromDR)
	muxAcc = mx(isa.FromAcc)
	noMux  *isa.Mux
)

// Unit is the control unit. It holds a non-owning reference to the
// datapath for the lifetime of one simulation: the simulator that
// constructs a Unit owns the Datapath, the Unit just drives it.
type Unit struct {
	dp     *datapath.Datapath
	Ticks  int
	Halted bool
}

// New wires a control unit to dp and loads program into memory.
func New(dp *datapath.Datapath, program []isa.Cell) *Unit {
	dp.LoadProgram(program)
	return &Unit{dp: dp}
}

func (u *Unit) tick() {
	u.Ticks++
}

// RunFetches executes exactly one instruction: fetch, the indirection
// prefix if present, the opcode's micro-sequence, and the uniform
// end-of-instruction flags latch.
func (u *Unit) RunFetches() {
	u.fetch()
	u.execute()
	u.dp.LatchFlags()

	if glog.V(2) {
		glog.Infof("tick=%d ac=%d ir=%s addr=%d pc=%d dr=%d sp=%d ps=%+v",
			u.Ticks, u.dp.AC, u.dp.IR.Opcode, u.dp.Addr, u.dp.PC, u.dp.DR, u.dp.SP, u.dp.PS)
	}
}

// fetch loads IR/DR from the cell at PC and advances PC. Always 2 ticks.
func (u *Unit) fetch() {
	u.dp.ALUExecute(isa.NextInB, noMux, muxPC)
	u.dp.LatchAddress()
	u.tick()

	u.dp.ALUExecute(isa.IncB, noMux, muxPC)
	u.dp.LatchPC()
	u.dp.LatchInstr()
	u.dp.LatchDR()
	u.tick()
}

// execute dispatches on the fetched opcode's class, after resolving one
// level of indirection if IR.IsIndirect.
func (u *Unit) execute() {
	ir := u.dp.IR
	op := ir.Opcode

	if op == isa.NOP {
		u.tick()
		return
	}

	if ir.IsIndirect {
		u.dp.ALUExecute(isa.NextInB, noMux, muxDR)
		u.dp.LatchAddress()
		u.tick()
		u.dp.LatchDR()
		u.tick()
	}

	switch op.Class() {
	case isa.ClassOperand:
		u.executeOperand(op)
	case isa.ClassNonOperand:
		u.executeNonOperand(op)
	case isa.ClassBranch:
		u.executeBranch(op)
	default:
		u.tick()
	}
}

func (u *Unit) executeOperand(op isa.Opcode) {
	switch op {
	case isa.LD:
		u.dp.ALUExecute(isa.NextInB, noMux, muxDR)
		u.dp.LatchAddress()
		u.tick()

		u.dp.LatchDR()
		u.dp.ALUExecute(isa.NextInB, noMux, muxDR)
		u.dp.LatchAcc(isa.FromAcc)
		u.tick()

	case isa.ST:
		u.dp.ALUExecute(isa.NextInB, noMux, muxDR)
		u.dp.LatchAddress()
		u.tick()

		u.dp.LatchDR()
		u.dp.ALUExecute(isa.NextInA, muxAcc, noMux)
		u.dp.LatchMR()
		u.dp.LatchWR()
		u.tick()

	case isa.ADD:
		u.dp.ALUExecute(isa.NextInB, noMux, muxDR)
		u.dp.LatchAddress()
		u.dp.LatchDR()
		u.tick()

		u.dp.ALUExecute(isa.Add, muxAcc, muxDR)
		u.dp.LatchAcc(isa.FromAcc)
		u.tick()

	case isa.CMP:
		u.dp.ALUExecute(isa.NextInB, noMux, muxDR)
		u.dp.LatchAddress()
		u.tick()

		u.dp.LatchDR()
		u.dp.ALUExecute(isa.Cmp, muxAcc, muxDR)
		u.tick()

	case isa.AND:
		u.dp.ALUExecute(isa.NextInB, noMux, muxDR)
		u.dp.LatchAddress()
		u.tick()

		u.dp.LatchDR()
		u.dp.ALUExecute(isa.And, muxAcc, muxDR)
		u.tick()

	case isa.IN:
		u.dp.LatchAcc(isa.FromInput)
		u.tick()

	case isa.OUT:
		u.dp.ALUExecute(isa.NextInB, noMux, muxDR)
		u.dp.LatchAddress()
		u.tick()

		u.dp.LatchDR()
		u.dp.LatchOutput()
		u.tick()

	default:
		glog.Fatalf("control: opcode %s classed as operand but not dispatched", op)
	}
}

func (u *Unit) executeNonOperand(op isa.Opcode) {
	switch op {
	case isa.HLT:
		u.Halted = true

	case isa.INC:
		u.dp.ALUExecute(isa.IncA, muxAcc, noMux)
		u.dp.LatchAcc(isa.FromAcc)
		u.tick()

	case isa.DEC:
		u.dp.ALUExecute(isa.DecA, muxAcc, noMux)
		u.dp.LatchAcc(isa.FromAcc)
		u.tick()

	case isa.PUSH:
		// DEC_B does not decrement (preserved quirk); PUSH's SP
		// arithmetic relies on that pass-through behavior.
		u.dp.ALUExecute(isa.DecB, noMux, muxSP)
		u.dp.LatchSP()
		u.dp.LatchAddress()
		u.tick()

		u.dp.ALUExecute(isa.NextInA, muxAcc, noMux)
		u.dp.LatchMR()
		u.dp.LatchWR()
		u.tick()

	case isa.POP:
		u.dp.ALUExecute(isa.NextInB, noMux, muxSP)
		u.dp.LatchAddress()
		u.tick()

		u.dp.ALUExecute(isa.DecB, noMux, muxSP)
		u.dp.LatchDR()
		u.dp.LatchSP()
		u.tick()

		u.dp.ALUExecute(isa.NextInB, noMux, muxDR)
		u.dp.LatchAcc(isa.FromAcc)
		u.tick()

	default:
		glog.Fatalf("control: opcode %s classed as non-operand but not dispatched", op)
	}
}

// executeBranch evaluates its predicate over the processor status as
// committed by the *previous* instruction's latch_flags — the current
// instruction hasn't latched flags yet, so dp.PS is still last cycle's
// value.
func (u *Unit) executeBranch(op isa.Opcode) {
	ps := u.dp.PS

	taken := false
	switch op {
	case isa.JMP:
		taken = true
	case isa.JZ:
		taken = ps.Z
	case isa.JNZ:
		taken = !ps.Z
	case isa.JG:
		// "greater or equal zero": tests not-N, not strict
		// greater-than (preserved quirk).
		taken = !ps.N
	default:
		glog.Fatalf("control: opcode %s classed as branch but not dispatched", op)
	}

	if taken {
		u.dp.ALUExecute(isa.NextInB, noMux, muxDR)
		u.dp.LatchPC()
		u.tick()
	}
}
