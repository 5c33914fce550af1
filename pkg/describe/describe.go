// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

// Package describe turns arbitrary participants of a performance into
// sentence fragments and log-friendly representations.
package describe

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jllopis/screenplay/pkg/core"
)

// Indescribable is emitted for Describables that return an empty sentence.
const Indescribable = "something indescribable"

const trailingPunctuation = ".,?!;:"

// Describe returns a lowercase fragment for x, safe to embed in a sentence.
func Describe(x any) string {
	if d, ok := x.(core.Describable); ok {
		sentence := d.Describe()
		if sentence == "" {
			return Indescribable
		}
		return Fragment(sentence)
	}
	switch x.(type) {
	case core.Performable, core.Answerable, core.Resolvable:
		return Words(TypeName(x))
	}
	return "the " + TypeName(x)
}

// Fragment lower-cases the first rune of sentence and strips one trailing
// punctuation mark.
func Fragment(sentence string) string {
	if sentence == "" {
		return sentence
	}
	r, size := utf8.DecodeRuneInString(sentence)
	sentence = string(unicode.ToLower(r)) + sentence[size:]
	if last, size := utf8.DecodeLastRuneInString(sentence); strings.ContainsRune(trailingPunctuation, last) {
		sentence = sentence[:len(sentence)-size]
	}
	return sentence
}

// Words splits a CamelCase name on every non-leading capital and
// lower-cases it: "OpenHomepage" becomes "open homepage".
func Words(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// TypeName is the bare name of x's dynamic type, without package path,
// pointer stars or type arguments.
func TypeName(x any) string {
	if x == nil {
		return "nil"
	}
	t := reflect.TypeOf(x)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		name = t.String()
	}
	if i := strings.IndexByte(name, '['); i > 0 {
		name = name[:i]
	}
	return name
}

// RepresentProp renders a value for logging. Matchers use their own text,
// strings are quoted, everything else is angle-bracketed unless it already
// is.
func RepresentProp(v any) string {
	switch item := v.(type) {
	case core.Matcher:
		return item.Describe()
	case string:
		return strconv.Quote(item)
	}
	s := fmt.Sprintf("%v", v)
	if strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") {
		return s
	}
	return "<" + s + ">"
}

// Sentence capitalizes fragment and terminates it with a period unless it
// already ends in punctuation.
func Sentence(fragment string) string {
	if fragment == "" {
		return fragment
	}
	r, size := utf8.DecodeRuneInString(fragment)
	fragment = string(unicode.ToUpper(r)) + fragment[size:]
	if last, _ := utf8.DecodeLastRuneInString(fragment); !strings.ContainsRune(trailingPunctuation, last) {
		fragment += "."
	}
	return fragment
}
