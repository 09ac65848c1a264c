// Package datapath implements the micro-architectural state of the
// machine: memory, registers, flags, the ALU, and the input/output
// buffers. Every method here is a primitive latch operation that
// completes in zero ticks — tick accounting is owned by the control unit.
package datapath

import (
	"github.com/golang/glog"

	"github.com/bdwalton/csamachine/alu"
	"github.com/bdwalton/csamachine/isa"
)

// Datapath is the sole owner of simulator memory and register state. It is
// constructed once per simulation and never shared across runs, the same
// one-shot-per-instance lifecycle a bus/CPU-memory pairing typically uses.
type Datapath struct {
	AC, PC, SP, Addr, DR, MR int
	IR                       isa.Cell
	PS                       isa.PS

	Mem         []isa.Cell
	MemCapacity int

	Input []rune

	SymbolBuffer []rune
	NumberBuffer []int

	alu *alu.ALU
}

// New allocates a Datapath with capacity memory cells, all zeroed to an
// implicit NOP with value 0, and input queued front-to-back for IN to
// consume.
func New(capacity int, input []rune) *Datapath {
	mem := make([]isa.Cell, capacity)
	for i := range mem {
		mem[i] = isa.ZeroCell(i)
	}

	return &Datapath{
		Mem:         mem,
		MemCapacity: capacity,
		Input:       input,
		alu:         alu.New(),
	}
}

// LoadProgram scatters an instruction image into memory by cell Index;
// cells it doesn't mention keep their implicit NOP/0 value, mirroring the
// original's put_program_into_memory.
func (d *Datapath) LoadProgram(cells []isa.Cell) {
	for _, c := range cells {
		d.Mem[c.Index] = c
	}
}

// ALUExecute gates the two input routes through their muxes and runs the
// ALU. Either mux may be nil when the micro-sequence doesn't drive that
// input.
func (d *Datapath) ALUExecute(op isa.ALUOp, muxA, muxB *isa.Mux) {
	var a, b int
	if muxA != nil {
		a = d.routeLeft(*muxA)
	}
	if muxB != nil {
		b = d.routeRight(*muxB)
	}
	d.alu.SetInputs(a, b, op)
	d.alu.Calc()
}

// routeLeft resolves the left-input mux, which admits FROM_ACC and FROM_PS.
func (d *Datapath) routeLeft(m isa.Mux) int {
	switch m {
	case isa.FromAcc:
		return d.AC
	case isa.FromPS:
		return d.PS.AsRoute()
	default:
		glog.Fatalf("datapath: invalid left mux source %v", m)
		return 0
	}
}

// routeRight resolves the right-input mux, which admits FROM_DR, FROM_PC
// and FROM_SP.
func (d *Datapath) routeRight(m isa.Mux) int {
	switch m {
	case isa.FromDR:
		return d.DR
	case isa.FromPC:
		return d.PC
	case isa.FromSP:
		return d.SP
	default:
		glog.Fatalf("datapath: invalid right mux source %v", m)
		return 0
	}
}

// LatchAddress latches ADDR from the ALU result.
func (d *Datapath) LatchAddress() {
	d.Addr = d.alu.Result
	glog.V(3).Infof("latch_address: ADDR=%d", d.Addr)
}

// LatchMR latches the memory-write buffer from the ALU result.
func (d *Datapath) LatchMR() {
	d.MR = d.alu.Result
	glog.V(3).Infof("latch_mr: MR=%d", d.MR)
}

// LatchInstr latches the whole cell at ADDR into IR.
func (d *Datapath) LatchInstr() {
	d.IR = d.Mem[d.Addr]
	glog.V(3).Infof("latch_instr: IR=%+v", d.IR)
}

// LatchDR latches DR from mem[ADDR].Value.
func (d *Datapath) LatchDR() {
	d.DR = d.Mem[d.Addr].Value
	glog.V(3).Infof("latch_dr: DR=%d", d.DR)
}

// LatchPC latches PC from the ALU result, reduced modulo capacity on every
// write.
func (d *Datapath) LatchPC() {
	d.PC = mod(d.alu.Result, d.MemCapacity)
	glog.V(3).Infof("latch_pc: PC=%d", d.PC)
}

// LatchSP latches SP as ALU.result multiplied by mem_capacity. This is not
// a typo: it's a suspected-bug-but-observable behavior in the machine
// being reproduced, and PUSH/POP's micro-sequences depend on the exact
// resulting wrap behavior, so it is kept literally.
func (d *Datapath) LatchSP() {
	d.SP = d.alu.Result * d.MemCapacity
	glog.V(3).Infof("latch_sp: SP=%d", d.SP)
}

// LatchFlags copies the ALU's flags into the processor status register.
func (d *Datapath) LatchFlags() {
	d.PS = d.alu.Flags
	glog.V(3).Infof("latch_flags: PS=%+v", d.PS)
}

// LatchAcc latches the accumulator through the AC-latch mux, which admits
// FROM_ACC (the ALU result) and FROM_INPUT.
func (d *Datapath) LatchAcc(m isa.Mux) {
	switch m {
	case isa.FromAcc:
		d.AC = d.alu.Result
	case isa.FromInput:
		if len(d.Input) == 0 {
			// Empty input is not an error: AC=0, Z=true, N=false.
			// This is driven through the ALU's flag register
			// rather than PS directly so the control unit's
			// uniform end-of-instruction latch_flags call still
			// reflects "the last ALU op".
			d.AC = 0
			d.alu.SetFlags(isa.PS{Z: true, N: false})
		} else {
			ch := d.Input[0]
			d.Input = d.Input[1:]
			d.AC = int(ch)
			glog.V(3).Infof("latch_acc(FROM_INPUT): consumed %q", ch)
		}
	default:
		glog.Fatalf("datapath: invalid acc-latch mux source %v", m)
	}
}

// LatchOutput appends AC to the output buffer DR selects: 0 for symbols
// (AC as a code point), 1 for numbers (AC as an integer).
func (d *Datapath) LatchOutput() {
	switch d.DR {
	case 0:
		d.SymbolBuffer = append(d.SymbolBuffer, rune(d.AC))
	case 1:
		d.NumberBuffer = append(d.NumberBuffer, d.AC)
	}
}

// LatchWR commits MR to memory at ADDR as a NOP-tagged data word.
func (d *Datapath) LatchWR() {
	d.Mem[d.Addr] = isa.Cell{Index: d.Addr, Opcode: isa.NOP, Value: d.MR, IsIndirect: false}
}

// mod is a true mathematical modulo (always non-negative for a positive
// modulus), unlike Go's %, which can return negative results for negative
// dividends.
func mod(x, m int) int {
	r := x % m
	if r < 0 {
		r += m
	}
	return r
}
