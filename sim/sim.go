// Package sim is the simulation harness: it owns a datapath and control
// unit for exactly one run and drives the fetch loop to termination.
package sim

import (
	"github.com/golang/glog"

	"github.com/bdwalton/csamachine/control"
	"github.com/bdwalton/csamachine/datapath"
	"github.com/bdwalton/csamachine/isa"
)

// Result is everything a simulation run produces: the two output
// buffers, plus the counters a caller reports back to the operator.
type Result struct {
	Symbols      string
	Numbers      []int
	Instructions int
	Ticks        int
	BudgetHit    bool
}

// Simulate loads image into a fresh datapath of the given memory capacity,
// feeds input to IN, and runs until HLT or until budget instructions have
// executed, whichever comes first. Budget exhaustion is not an error: it
// is logged as a warning and the buffers accumulated so far are returned.
func Simulate(image []isa.Cell, input []rune, memCapacity, budget int) Result {
	dp := datapath.New(memCapacity, input)
	cu := control.New(dp, image)

	n := 0
	for n < budget && !cu.Halted {
		cu.RunFetches()
		n++
	}

	budgetHit := !cu.Halted
	if budgetHit {
		glog.Warningf("sim: instruction budget %d exhausted before HLT", budget)
	}

	return Result{
		Symbols:      string(dp.SymbolBuffer),
		Numbers:      dp.NumberBuffer,
		Instructions: n,
		Ticks:        cu.Ticks,
		BudgetHit:    budgetHit,
	}
}
