// Package resolutions holds the expectations an answer is compared against.
// Every constructor returns a *Resolution, which is both core.Resolvable
// and core.Describable.
package resolutions

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/jllopis/screenplay/pkg/core"
	"github.com/jllopis/screenplay/pkg/describe"
	"github.com/jllopis/screenplay/pkg/errors"
)

// Resolution pairs a sentence describing an expectation with the matcher
// that checks it.
type Resolution struct {
	sentence string
	matcher  *matcher
	err      error
}

var (
	_ core.Resolvable  = (*Resolution)(nil)
	_ core.Describable = (*Resolution)(nil)
)

// Resolve implements core.Resolvable.
func (r *Resolution) Resolve() core.Matcher { return r.matcher }

// Describe implements core.Describable.
func (r *Resolution) Describe() string { return r.sentence }

// Err reports a problem found while the resolution was built. A resolution
// with a non-nil Err never matches.
func (r *Resolution) Err() error { return r.err }

type matcher struct {
	description string
	match       func(actual any) bool
	mismatch    func(actual any) string
}

func (m *matcher) Matches(actual any) bool { return m.match(actual) }

func (m *matcher) Describe() string { return m.description }

func (m *matcher) DescribeMismatch(actual any) string {
	if m.mismatch != nil {
		return m.mismatch(actual)
	}
	return "was " + describe.RepresentProp(actual)
}

func build(sentence, description string, match func(any) bool) *Resolution {
	return &Resolution{
		sentence: sentence,
		matcher:  &matcher{description: description, match: match},
	}
}

func invalid(sentence string, err error) *Resolution {
	return &Resolution{
		sentence: sentence,
		err:      err,
		matcher: &matcher{
			description: "a valid resolution",
			match:       func(any) bool { return false },
			mismatch:    func(any) string { return err.Error() },
		},
	}
}

// IsEqualTo matches values equal to expected, compared with go-cmp.
func IsEqualTo(expected any) *Resolution {
	r := build(
		fmt.Sprintf("Equal to %s.", describe.RepresentProp(expected)),
		"a value equal to "+describe.RepresentProp(expected),
		func(actual any) bool { return equal(expected, actual) },
	)
	r.matcher.mismatch = func(actual any) string {
		if composite(actual) {
			if diff := safeDiff(expected, actual); diff != "" {
				return "differed (-want +got):\n" + diff
			}
		}
		return "was " + describe.RepresentProp(actual)
	}
	return r
}

func composite(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Struct, reflect.Slice, reflect.Map, reflect.Array, reflect.Pointer:
		return true
	}
	return false
}

func equal(expected, actual any) (eq bool) {
	defer func() {
		// cmp panics on unexported fields it was not told about.
		if recover() != nil {
			eq = reflect.DeepEqual(expected, actual)
		}
	}()
	return cmp.Equal(expected, actual)
}

func safeDiff(expected, actual any) (diff string) {
	defer func() {
		if recover() != nil {
			diff = ""
		}
	}()
	return cmp.Diff(expected, actual)
}

// ContainsTheText matches text containing substring.
func ContainsTheText(substring string) *Resolution {
	return build(
		fmt.Sprintf("Containing the text %q.", substring),
		fmt.Sprintf("text containing %q", substring),
		textual(func(s string) bool { return strings.Contains(s, substring) }),
	)
}

// ReadsExactly matches text equal to expected.
func ReadsExactly(expected string) *Resolution {
	return build(
		fmt.Sprintf("%q, verbatim.", expected),
		fmt.Sprintf("text reading exactly %q", expected),
		textual(func(s string) bool { return s == expected }),
	)
}

// StartsWith matches text beginning with prefix.
func StartsWith(prefix string) *Resolution {
	return build(
		fmt.Sprintf("Starting with %q.", prefix),
		fmt.Sprintf("text starting with %q", prefix),
		textual(func(s string) bool { return strings.HasPrefix(s, prefix) }),
	)
}

// EndsWith matches text ending with suffix.
func EndsWith(suffix string) *Resolution {
	return build(
		fmt.Sprintf("Ending with %q.", suffix),
		fmt.Sprintf("text ending with %q", suffix),
		textual(func(s string) bool { return strings.HasSuffix(s, suffix) }),
	)
}

// MatchesPattern matches text the regular expression finds a match in. An
// invalid pattern yields a resolution whose Err is UnableToFormResolution.
func MatchesPattern(pattern string) *Resolution {
	sentence := fmt.Sprintf("Matching the pattern %q.", pattern)
	re, err := regexp.Compile(pattern)
	if err != nil {
		return invalid(sentence, errors.New(
			errors.CodeUnableToFormResolution,
			fmt.Sprintf("%q is not a valid pattern", pattern),
			err,
		))
	}
	return build(sentence, fmt.Sprintf("text matching %q", pattern), textual(re.MatchString))
}

// IsEmpty matches nil and zero-length strings, slices, maps, arrays and
// channels.
func IsEmpty() *Resolution {
	return build("An empty value.", "an empty value", func(actual any) bool {
		n, ok := length(actual)
		return actual == nil || (ok && n == 0)
	})
}

// HasLength matches values of length n. A negative n yields a resolution
// whose Err is UnableToFormResolution.
func HasLength(n int) *Resolution {
	sentence := fmt.Sprintf("%d item(s) long.", n)
	if n < 0 {
		return invalid(sentence, errors.UnableToFormResolution(
			fmt.Sprintf("a length cannot be negative, got %d", n),
		))
	}
	r := build(sentence, fmt.Sprintf("a value of length %d", n), func(actual any) bool {
		got, ok := length(actual)
		return ok && got == n
	})
	r.matcher.mismatch = func(actual any) string {
		if got, ok := length(actual); ok {
			return fmt.Sprintf("had length %d", got)
		}
		return fmt.Sprintf("%s has no length", describe.RepresentProp(actual))
	}
	return r
}

// IsTrue matches the boolean true.
func IsTrue() *Resolution {
	return build("True.", "<true>", func(actual any) bool { return actual == true })
}

// IsFalse matches the boolean false.
func IsFalse() *Resolution {
	return build("False.", "<false>", func(actual any) bool { return actual == false })
}

// IsNot negates another resolution.
func IsNot(r core.Resolvable) *Resolution {
	if r == nil {
		return invalid("Not something.", errors.UnableToFormResolution("IsNot needs a resolution to negate"))
	}
	sentence := "Not " + describe.Describe(r) + "."
	if keeper, ok := r.(interface{ Err() error }); ok && keeper.Err() != nil {
		return invalid(sentence, keeper.Err())
	}
	inner := r.Resolve()
	return build(sentence, "not "+inner.Describe(), func(actual any) bool {
		return !inner.Matches(actual)
	})
}

func textual(match func(string) bool) func(any) bool {
	return func(actual any) bool {
		s, ok := text(actual)
		return ok && match(s)
	}
}

func text(actual any) (string, bool) {
	switch v := actual.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	}
	return "", false
}

func length(actual any) (int, bool) {
	if actual == nil {
		return 0, false
	}
	v := reflect.ValueOf(actual)
	switch v.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return v.Len(), true
	}
	return 0, false
}
