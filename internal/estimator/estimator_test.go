package estimator

import (
	"math"
	"testing"
)

func TestEstimateMemoryGB_Scenarios(t *testing.T) {
	cases := []struct {
		name     string
		params   float64
		quant    string
		ctx      int
		overhead float64
		want     float64
	}{
		{"7b 4-bit 2k ctx", 7, "4-bit", 2048, 2, 6.524},
		{"7b fp16 4k ctx", 7, "fp16", 4096, 2, 18.048},
		{"zero params", 0, "fp32", 1000, 2, 2.5},
		{"everything zero", 0, "1-bit", 0, 0, 0},
	}
	for _, c := range cases {
		got, err := EstimateMemoryGBLabel(c.params, c.quant, c.ctx, c.overhead)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.name, err)
		}
		if got != c.want {
			t.Fatalf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestEstimateMemoryGB_FP32Identity(t *testing.T) {
	for _, p := range []float64{0, 0.125, 1, 7, 13, 70, 405, 1.5} {
		got, err := EstimateMemoryGB(p, FP32, 0, 0)
		if err != nil {
			t.Fatalf("p=%v: %v", p, err)
		}
		if math.Abs(got-p*4) > 1e-9*math.Max(1, p) {
			t.Fatalf("p=%v: got %v, want %v", p, got, p*4)
		}
	}
}

func TestEstimateMemoryGB_ContextMonotonic(t *testing.T) {
	prev := -1.0
	for _, n := range []int{0, 1, 512, 2048, 8192, 131072} {
		got, err := EstimateMemoryGB(7, Bit4, n, DefaultOSOverheadGB)
		if err != nil {
			t.Fatalf("ctx=%d: %v", n, err)
		}
		if got <= prev {
			t.Fatalf("ctx=%d: %v not greater than %v", n, got, prev)
		}
		prev = got
	}
}

func TestEstimateMemoryGB_QuantizationMonotonic(t *testing.T) {
	prev := -1.0
	for _, q := range Quantizations() {
		got, err := EstimateMemoryGB(3, q, 1024, DefaultOSOverheadGB)
		if err != nil {
			t.Fatalf("%s: %v", q, err)
		}
		if got <= prev {
			t.Fatalf("%s: %v not greater than %v", q, got, prev)
		}
		prev = got
	}
}

func TestEstimateMemoryGB_InvalidQuantization(t *testing.T) {
	got, err := EstimateMemoryGBLabel(7, "7-bit", 2048, 2)
	if err == nil {
		t.Fatalf("expected error, got %v", got)
	}
	if !IsInvalidQuantization(err) {
		t.Fatalf("expected invalid quantization, got %v", err)
	}
	if got != 0 {
		t.Fatalf("expected zero result on error, got %v", got)
	}
	if _, err := EstimateMemoryGB(7, Quantization(0), 0, 0); !IsInvalidQuantization(err) {
		t.Fatalf("zero value: expected invalid quantization, got %v", err)
	}
	if _, err := EstimateMemoryGB(7, Quantization(99), 0, 0); !IsInvalidQuantization(err) {
		t.Fatalf("out of range: expected invalid quantization, got %v", err)
	}
}

func TestEstimateMemoryGB_InvalidInput(t *testing.T) {
	cases := []struct {
		name     string
		params   float64
		ctx      int
		overhead float64
	}{
		{"negative params", -1, 0, 2},
		{"nan params", math.NaN(), 0, 2},
		{"inf params", math.Inf(1), 0, 2},
		{"negative ctx", 7, -1, 2},
		{"negative overhead", 7, 0, -0.5},
		{"nan overhead", 7, 0, math.NaN()},
	}
	for _, c := range cases {
		if _, err := EstimateMemoryGB(c.params, Bit8, c.ctx, c.overhead); !IsInvalidInput(err) {
			t.Fatalf("%s: expected invalid input, got %v", c.name, err)
		}
	}
}

func TestEstimate_BreakdownSumsToTotal(t *testing.T) {
	b, err := Estimate(7, Bit4, 2048, 2)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if b.TotalGB != 6.524 {
		t.Fatalf("total=%v", b.TotalGB)
	}
	if b.ParametersGB != 3.5 || b.ContextGB != 1.024 || b.OverheadGB != 2 {
		t.Fatalf("unexpected breakdown: %+v", b)
	}
}
