package estimator

import "strings"

// Quantization is the storage precision of model parameters. The set is closed;
// the zero value is not a valid level.
type Quantization int

const (
	Bit1 Quantization = iota + 1
	Bit2
	Bit3
	Bit4
	Bit5
	Bit6
	Bit8
	FP16
	FP32
)

type quantInfo struct {
	label string
	bits  int
}

var quantTable = map[Quantization]quantInfo{
	Bit1: {"1-bit", 1},
	Bit2: {"2-bit", 2},
	Bit3: {"3-bit", 3},
	Bit4: {"4-bit", 4},
	Bit5: {"5-bit", 5},
	Bit6: {"6-bit", 6},
	Bit8: {"8-bit", 8},
	FP16: {"fp16", 16},
	FP32: {"fp32", 32},
}

// Quantizations lists every level in ascending bit width.
func Quantizations() []Quantization {
	return []Quantization{Bit1, Bit2, Bit3, Bit4, Bit5, Bit6, Bit8, FP16, FP32}
}

// Valid reports whether q is one of the known levels.
func (q Quantization) Valid() bool {
	_, ok := quantTable[q]
	return ok
}

// String returns the canonical label (e.g. "4-bit", "fp16").
func (q Quantization) String() string {
	if info, ok := quantTable[q]; ok {
		return info.label
	}
	return "invalid"
}

// BitWidth returns the number of bits used per parameter, or 0 for an invalid level.
func (q Quantization) BitWidth() int {
	return quantTable[q].bits
}

// ParseQuantization maps a label to its level. Matching is exact apart from
// surrounding whitespace and letter case.
func ParseQuantization(label string) (Quantization, error) {
	norm := strings.ToLower(strings.TrimSpace(label))
	for q, info := range quantTable {
		if info.label == norm {
			return q, nil
		}
	}
	return 0, ErrInvalidQuantization(label)
}

// MarshalText implements encoding.TextMarshaler.
func (q Quantization) MarshalText() ([]byte, error) {
	if !q.Valid() {
		return nil, ErrInvalidQuantization(q.String())
	}
	return []byte(q.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *Quantization) UnmarshalText(b []byte) error {
	v, err := ParseQuantization(string(b))
	if err != nil {
		return err
	}
	*q = v
	return nil
}
