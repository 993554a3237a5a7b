package matcher

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNormalizeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("normalize is idempotent", prop.ForAll(
		func(s string) bool {
			once := Normalize(s)
			return Normalize(once) == once
		},
		gen.AnyString(),
	))

	properties.Property("normalized output has no uppercase or punctuation", prop.ForAll(
		func(s string) bool {
			for _, r := range Normalize(s) {
				ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == ' '
				if !ok {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestSimilarityProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	genWord := gen.RegexMatch(`[a-z0-9]{1,12}( [a-z0-9]{1,12}){0,3}`)

	properties.Property("score stays within [0,1]", prop.ForAll(
		func(a, b string) bool {
			s := Similarity(a, b)
			return s >= 0 && s <= 1
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.Property("a non-empty string scores 1 against itself", prop.ForAll(
		func(s string) bool {
			return Similarity(s, s) == 1.0
		},
		genWord,
	))

	properties.Property("containment scores at least 0.8", prop.ForAll(
		func(s string) bool {
			return Similarity(s, s+" extra") >= 0.8
		},
		genWord,
	))

	properties.TestingRun(t)
}

func TestExtractIdentifiersProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("identifiers are unique", prop.ForAll(
		func(s string) bool {
			ids := ExtractIdentifiers(s)
			seen := make(map[string]struct{}, len(ids))
			for _, id := range ids {
				if _, dup := seen[id]; dup {
					return false
				}
				seen[id] = struct{}{}
			}
			return true
		},
		gen.RegexMatch(`([A-Za-z0-9-]{1,10} ){0,5}[A-Za-z0-9-]{1,10}`),
	))

	properties.Property("codes are reported uppercase", prop.ForAll(
		func(s string) bool {
			for _, id := range ExtractIdentifiers(s) {
				if id != strings.ToUpper(id) {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
