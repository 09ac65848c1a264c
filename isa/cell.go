package isa

import "encoding/json"

// Cell is the unit of memory. Every memory location holds one, whether it
// carries executable code or a data word — a data word is simply a NOP
// cell whose Value holds the datum.
type Cell struct {
	Index      int    `json:"index"`
	Opcode     Opcode `json:"opcode"`
	Value      int    `json:"value"`
	IsIndirect bool   `json:"is_indirect"`
}

// ZeroCell is the contents of an uninitialized memory location.
func ZeroCell(index int) Cell {
	return Cell{Index: index, Opcode: NOP, Value: 0, IsIndirect: false}
}

// cellJSON backs Cell's JSON encoding so the wire tag for Opcode stays a
// plain upper-case mnemonic string, independent of any future change to
// the Go-side Opcode representation.
type cellJSON struct {
	Index      int    `json:"index"`
	Opcode     string `json:"opcode"`
	Value      int    `json:"value"`
	IsIndirect bool   `json:"is_indirect"`
}

func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(cellJSON{
		Index:      c.Index,
		Opcode:     string(c.Opcode),
		Value:      c.Value,
		IsIndirect: c.IsIndirect,
	})
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	var raw cellJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Index = raw.Index
	c.Opcode = Opcode(raw.Opcode)
	c.Value = raw.Value
	c.IsIndirect = raw.IsIndirect
	return nil
}
