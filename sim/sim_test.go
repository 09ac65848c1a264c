package sim

import (
	"testing"

	"github.com/bdwalton/csamachine/isa"
)

func cell(i int, op isa.Opcode, v int) isa.Cell {
	return isa.Cell{Index: i, Opcode: op, Value: v}
}

func TestSimulateHelloCell(t *testing.T) {
	image := []isa.Cell{
		cell(0, isa.JMP, 10),
		cell(10, isa.LD, 13),
		cell(11, isa.OUT, 14),
		cell(12, isa.HLT, 0),
		cell(13, isa.NOP, 72),
		cell(14, isa.NOP, 0),
	}

	r := Simulate(image, nil, 20, 100)

	if r.Symbols != "H" {
		t.Errorf("Symbols = %q, want %q", r.Symbols, "H")
	}
	if len(r.Numbers) != 0 {
		t.Errorf("Numbers = %v, want empty", r.Numbers)
	}
	if r.Instructions != 4 {
		t.Errorf("Instructions = %d, want 4", r.Instructions)
	}
	if r.BudgetHit {
		t.Errorf("BudgetHit = true, want false")
	}
}

func TestSimulateBudgetExhaustion(t *testing.T) {
	image := []isa.Cell{
		cell(0, isa.JMP, 1),
		cell(1, isa.JMP, 1),
	}

	r := Simulate(image, nil, 10, 30)

	if r.Instructions != 30 {
		t.Errorf("Instructions = %d, want 30", r.Instructions)
	}
	if !r.BudgetHit {
		t.Errorf("BudgetHit = false, want true")
	}
}

func TestSimulateEchoConsumesInput(t *testing.T) {
	image := []isa.Cell{
		cell(0, isa.JMP, 1),
		cell(1, isa.IN, 0),
		cell(2, isa.OUT, 4),
		cell(3, isa.HLT, 0),
		cell(4, isa.NOP, 0),
	}

	r := Simulate(image, []rune("Z"), 10, 50)

	if r.Symbols != "Z" {
		t.Errorf("Symbols = %q, want %q", r.Symbols, "Z")
	}
}

func TestSimulateLoadThenOutputsNumber(t *testing.T) {
	image := []isa.Cell{
		cell(0, isa.JMP, 1),
		cell(1, isa.LD, 5),
		cell(2, isa.OUT, 6),
		cell(3, isa.HLT, 0),
		cell(5, isa.NOP, 42),
		cell(6, isa.NOP, 1),
	}

	r := Simulate(image, nil, 10, 50)

	if len(r.Numbers) != 1 || r.Numbers[0] != 42 {
		t.Fatalf("Numbers = %v, want [42]", r.Numbers)
	}
}
