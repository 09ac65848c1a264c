package isa

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ReadImage parses an instruction image file: a JSON array of cells in
// emission order. Cells not present in the array are implicitly NOP/0 —
// the caller (datapath.LoadProgram) is responsible for scattering the
// listed cells into a full-sized memory array by Index.
func ReadImage(r io.Reader) ([]Cell, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("isa: reading image: %w", err)
	}

	var cells []Cell
	if err := json.Unmarshal(data, &cells); err != nil {
		return nil, fmt.Errorf("isa: decoding image: %w", err)
	}
	return cells, nil
}

// WriteImage serializes cells as a JSON array, one cell per line, matching
// the line-per-instruction layout isa.py's write_code emitted (it joins
// one json.dumps(instr) per line inside a top-level "[" ... "]").
func WriteImage(w io.Writer, cells []Cell) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, c := range cells {
		if i > 0 {
			buf.WriteString(",\n")
		}
		b, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("isa: encoding cell at index %d: %w", c.Index, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("isa: writing image: %w", err)
	}
	return nil
}
