package provider

import "strings"

// Financial polarity lexicon. Weights are on a [-1, 1] scale; headline
// scoring averages the matched weights, so a headline of mixed words lands
// near zero.
var lexicon = map[string]float64{
	// positive
	"beat":         0.7,
	"beats":        0.7,
	"upgrade":      0.8,
	"upgraded":     0.8,
	"surge":        0.8,
	"surges":       0.8,
	"rally":        0.7,
	"rallies":      0.7,
	"record":       0.5,
	"strong":       0.5,
	"growth":       0.5,
	"profit":       0.5,
	"profits":      0.5,
	"gain":         0.5,
	"gains":        0.5,
	"soar":         0.9,
	"soars":        0.9,
	"bullish":      0.8,
	"outperform":   0.7,
	"outperforms":  0.7,
	"exceeds":      0.6,
	"tops":         0.6,
	"jump":         0.6,
	"jumps":        0.6,
	"buyback":      0.4,
	"dividend":     0.3,
	"optimistic":   0.6,
	"breakthrough": 0.7,

	// negative
	"miss":          -0.7,
	"misses":        -0.7,
	"downgrade":     -0.8,
	"downgraded":    -0.8,
	"plunge":        -0.9,
	"plunges":       -0.9,
	"fall":          -0.5,
	"falls":         -0.5,
	"drop":          -0.5,
	"drops":         -0.5,
	"weak":          -0.5,
	"loss":          -0.6,
	"losses":        -0.6,
	"lawsuit":       -0.6,
	"probe":         -0.5,
	"investigation": -0.5,
	"recall":        -0.6,
	"bearish":       -0.8,
	"slump":         -0.7,
	"slumps":        -0.7,
	"tumble":        -0.7,
	"tumbles":       -0.7,
	"warns":         -0.6,
	"warning":       -0.6,
	"cuts":          -0.5,
	"layoffs":       -0.7,
	"bankruptcy":    -0.9,
	"fraud":         -0.9,
	"sinks":         -0.7,
	"crash":         -0.9,
}

// negators flip the sign of the word that follows them.
var negators = map[string]bool{
	"not":   true,
	"no":    true,
	"never": true,
	"fails": true,
}

// ScoreText scores a headline or summary on [-1, 1] by averaging lexicon
// weights over matched tokens. Text with no sentiment-bearing words scores
// a neutral 0.
func ScoreText(text string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	var (
		total   float64
		matched int
		negate  bool
	)

	for _, token := range tokens {
		if negators[token] {
			negate = true

			continue
		}

		weight, ok := lexicon[token]
		if !ok {
			negate = false

			continue
		}

		if negate {
			weight = -weight
			negate = false
		}

		total += weight
		matched++
	}

	if matched == 0 {
		return 0
	}

	return total / float64(matched)
}

func tokenize(text string) []string {
	lower := strings.ToLower(text)

	return strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
}
