// Package translator implements the two-pass assembler: source lines in,
// an instruction image (isa.Cell slice) out.
package translator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/glog"

	"github.com/bdwalton/csamachine/isa"
)

var (
	ErrMissingOrg       = errors.New("translator: missing or malformed org directive")
	ErrMissingStart     = errors.New("translator: no _start label found")
	ErrUndefinedSymbol  = errors.New("translator: undefined symbol")
	ErrWordSizeMismatch = errors.New("translator: .word declared size does not match string length")
)

// stage1Cell is one line's worth of unresolved placement: either an
// instruction (Mnemonic set) or a data word (Mnemonic empty). Operand
// carries the raw, unresolved token text — a signed integer literal, a
// bare symbol name, or a "(symbol)" indirect reference — empty when the
// line has no operand at all.
type stage1Cell struct {
	Addr     int
	Mnemonic string
	Operand  string
}

// resolvedCell is a stage1Cell with its Operand resolved against the
// label table: Value/HasValue replace Operand once every symbol reference
// has been turned into a concrete address or literal integer.
type resolvedCell struct {
	Addr       int
	Mnemonic   string
	Value      int
	HasValue   bool
	IsIndirect bool
}

// Translate runs the full assembly pipeline over a program's source lines
// (already split one-statement-per-line, as read from a source file) and
// produces the instruction image a Cell JSON file ships.
func Translate(lines []string) ([]isa.Cell, error) {
	cleaned := clean(lines)

	org, err := findOrg(cleaned)
	if err != nil {
		glog.Errorf("translator: %v", err)
		return nil, err
	}

	labels, cells, err := stage1(cleaned, org)
	if err != nil {
		glog.Errorf("translator: %v", err)
		return nil, err
	}

	start, ok := findStart(labels)
	if !ok {
		glog.Errorf("translator: %v", ErrMissingStart)
		return nil, ErrMissingStart
	}

	resolved, err := stage2(labels, cells)
	if err != nil {
		glog.Errorf("translator: %v", err)
		return nil, err
	}

	image := stage3(resolved, start)
	glog.V(1).Infof("translator: %d labels, %d cells emitted, _start at %d", len(labels), len(image), start)
	return image, nil
}

// clean strips trailing ";" comments, dropping any line that becomes
// empty once its comment is removed.
func clean(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if i := strings.Index(line, ";"); i != -1 {
			line = strings.TrimSpace(line[:i])
			if line == "" {
				continue
			}
		}
		out = append(out, line)
	}
	return out
}

// findOrg locates the "org N" directive and returns its base address. It
// scans the cleaned lines, so an org line may carry a trailing comment.
func findOrg(lines []string) (int, error) {
	for _, line := range lines {
		if !strings.Contains(line, "org") {
			continue
		}
		if len(line) < 4 {
			return 0, fmt.Errorf("%w: %q", ErrMissingOrg, line)
		}
		v, err := strconv.Atoi(strings.TrimSpace(line[4:]))
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrMissingOrg, err)
		}
		return v, nil
	}
	return 0, ErrMissingOrg
}

// findStart returns the address of the "_start" label.
func findStart(labels map[string]int) (int, bool) {
	addr, ok := labels["_start"]
	return addr, ok
}

// stage1 walks the cleaned source once, assigning every label and
// instruction/data line an address (org, incremented as content is
// placed). Consecutive label lines with no intervening content all name
// the same address — the cell that eventually lands there. It does not
// resolve any symbol references yet — that's stage2's job, once every
// label's final address is known.
func stage1(lines []string, org int) (map[string]int, []stage1Cell, error) {
	labels := map[string]int{}
	var cells []stage1Cell

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "org"):
			continue

		case strings.HasSuffix(line, ":"):
			labels[strings.TrimSuffix(line, ":")] = org

		case strings.HasPrefix(line, ".word"):
			newCells, next, err := parseWord(line, org)
			if err != nil {
				return nil, nil, err
			}
			cells = append(cells, newCells...)
			org = next

		default:
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			c := stage1Cell{Addr: org, Mnemonic: strings.ToLower(fields[0])}
			if len(fields) > 1 {
				c.Operand = fields[1]
			}
			cells = append(cells, c)
			org++
		}
	}

	return labels, cells, nil
}

// parseWord expands a ".word" directive into one or more stage1Cells: a
// pascal-style string (size word followed by one cell per character code
// point), a signed integer literal, or a bare symbol reference to resolve
// later.
func parseWord(line string, org int) ([]stage1Cell, int, error) {
	text := strings.TrimSpace(strings.TrimPrefix(line, ".word"))

	if strings.Contains(text, "'") {
		parts := strings.SplitN(text, ",", 2)
		if len(parts) != 2 {
			return nil, 0, fmt.Errorf("translator: malformed .word string directive %q", line)
		}

		size, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, 0, fmt.Errorf("translator: malformed .word size %q: %w", parts[0], err)
		}

		quoted := strings.TrimSpace(parts[1])
		if len(quoted) < 2 || quoted[0] != '\'' || quoted[len(quoted)-1] != '\'' {
			return nil, 0, fmt.Errorf("translator: malformed .word string literal %q", line)
		}
		chars := []rune(quoted[1 : len(quoted)-1])

		if size != len(chars) {
			return nil, 0, fmt.Errorf("%w: declared %d, actual %d in %q", ErrWordSizeMismatch, size, len(chars), line)
		}

		cells := make([]stage1Cell, 0, len(chars)+1)
		cells = append(cells, stage1Cell{Addr: org, Operand: strconv.Itoa(size)})
		org++
		for _, r := range chars {
			cells = append(cells, stage1Cell{Addr: org, Operand: strconv.Itoa(int(r))})
			org++
		}
		return cells, org, nil
	}

	if n, err := strconv.Atoi(text); err == nil {
		return []stage1Cell{{Addr: org, Operand: strconv.Itoa(n)}}, org + 1, nil
	}

	// A bare symbol reference: resolved against the label table in stage2.
	return []stage1Cell{{Addr: org, Operand: text}}, org + 1, nil
}

// stage2 resolves every operand token against the label table: a
// "(symbol)" form marks indirection and strips its parens, a numeric
// token is taken literally, and anything else must name a label.
func stage2(labels map[string]int, cells []stage1Cell) ([]resolvedCell, error) {
	out := make([]resolvedCell, 0, len(cells))
	for _, c := range cells {
		rc := resolvedCell{Addr: c.Addr, Mnemonic: c.Mnemonic}
		if c.Operand == "" {
			out = append(out, rc)
			continue
		}

		operand := c.Operand
		if strings.HasPrefix(operand, "(") && strings.HasSuffix(operand, ")") {
			rc.IsIndirect = true
			operand = operand[1 : len(operand)-1]
		}

		if n, err := strconv.Atoi(operand); err == nil {
			rc.Value = n
		} else {
			addr, ok := labels[operand]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUndefinedSymbol, operand)
			}
			rc.Value = addr
		}
		rc.HasValue = true
		out = append(out, rc)
	}
	return out, nil
}

// stage3 encodes resolved cells into the final instruction image,
// prepending the bootstrap JMP to _start that always occupies index 0.
// Unrecognized mnemonics, and data words (which carry no mnemonic at
// all), both encode to NOP — a data word is a NOP cell whose Value holds
// the datum.
func stage3(cells []resolvedCell, start int) []isa.Cell {
	image := make([]isa.Cell, 0, len(cells)+1)
	image = append(image, isa.Cell{Index: 0, Opcode: isa.JMP, Value: start})

	for _, c := range cells {
		op, ok := isa.FromMnemonic(c.Mnemonic)
		if !ok {
			op = isa.NOP
		}
		value := 0
		if c.HasValue {
			value = c.Value
		}
		image = append(image, isa.Cell{
			Index:      c.Addr,
			Opcode:     op,
			Value:      value,
			IsIndirect: c.IsIndirect,
		})
	}

	return image
}
