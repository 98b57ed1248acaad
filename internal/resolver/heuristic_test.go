package resolver

import "testing"

func TestParametersFromName(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"meta-llama/Llama-2-7b-hf", 7e9, true},
		{"mistralai/Mistral-7B-Instruct-v0.2", 7e9, true},
		{"tiiuae/falcon-40b", 40e9, true},
		{"facebook/opt-350m", 350e6, true},
		{"EleutherAI/pythia-160M", 160e6, true},
		// billions checked before millions even when the m-match comes first
		{"org/125m-distilled-3b", 3e9, true},
		{"bert-base-uncased", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ParametersFromName(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("%q -> (%v, %v), want (%v, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}
