package types

import "testing"

func TestSuffixTag(t *testing.T) {
	cases := map[string]string{
		"config.json":               "config",
		"gguf/llama-2-7b.Q8_0.gguf": "llama-2-7b.q8_0",
		"model-4bit.safetensors":    "model-4bit",
		"README":                    "readme",
		".gitattributes":            ".gitattributes",
	}
	for in, want := range cases {
		if got := SuffixTag(in); got != want {
			t.Fatalf("%q -> %q, want %q", in, got, want)
		}
	}
}
