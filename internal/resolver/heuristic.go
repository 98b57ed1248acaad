package resolver

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Vaibhavs10/llm-mem-finder/internal/estimator"
	"github.com/Vaibhavs10/llm-mem-finder/pkg/types"
)

var (
	billionsPattern = regexp.MustCompile(`(?i)(\d+)b`)
	millionsPattern = regexp.MustCompile(`(?i)(\d+)m`)
)

// ParametersFromName extracts a raw parameter count from a model identifier.
// "<n>b" is tried first, then "<n>m"; the first match of the winning pattern is used.
func ParametersFromName(id string) (float64, bool) {
	if n, ok := firstNumber(billionsPattern, id); ok {
		return n * 1e9, true
	}
	if n, ok := firstNumber(millionsPattern, id); ok {
		return n * 1e6, true
	}
	return 0, false
}

func firstNumber(re *regexp.Regexp, s string) (float64, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// tagRank orders detectable tags; higher wins.
type tagRank int

const (
	rankNone tagRank = iota
	rankFP16
	rank8Bit
	rank4Bit
)

var rankQuant = map[tagRank]estimator.Quantization{
	rankFP16: estimator.FP16,
	rank8Bit: estimator.Bit8,
	rank4Bit: estimator.Bit4,
}

var (
	tag4Bit = regexp.MustCompile(`4-?bit|int4|q4`)
	tag8Bit = regexp.MustCompile(`8-?bit|int8|q8`)
	tagFP16 = regexp.MustCompile(`fp16|f16|16-?bit`)
)

func classifyTag(suffix string) tagRank {
	s := strings.ToLower(suffix)
	switch {
	case tag4Bit.MatchString(s):
		return rank4Bit
	case tag8Bit.MatchString(s):
		return rank8Bit
	case tagFP16.MatchString(s):
		return rankFP16
	}
	return rankNone
}

// QuantizationFromFiles picks a quantization from file suffix tags: any 4-bit
// file wins over 8-bit, which wins over fp16. ok is false when no file is tagged.
func QuantizationFromFiles(files []types.FileDescriptor) (estimator.Quantization, bool) {
	best := rankNone
	for _, f := range files {
		tag := f.Suffix
		if tag == "" {
			tag = f.Name
		}
		if r := classifyTag(tag); r > best {
			best = r
			if best == rank4Bit {
				break
			}
		}
	}
	if best == rankNone {
		return 0, false
	}
	return rankQuant[best], true
}
