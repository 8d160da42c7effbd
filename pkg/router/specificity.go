package router

import (
	"cmp"
	"fmt"
	"slices"
)

// Specificity ranks variants that could match the same path.
//
// Variants compare field by field: more literal segments first, then a
// higher summed codec weight, then the earlier registered route, then the
// earlier declared template of that route.
type Specificity struct {
	Literals     int
	Weight       int
	Registration int
	Index        int
}

// Compare returns a negative number when s ranks before o, a positive number
// when it ranks after, and zero when they are equal.
func (s Specificity) Compare(o Specificity) int {
	if c := cmp.Compare(o.Literals, s.Literals); c != 0 {
		return c
	}
	if c := cmp.Compare(o.Weight, s.Weight); c != 0 {
		return c
	}
	if c := cmp.Compare(s.Registration, o.Registration); c != 0 {
		return c
	}
	return cmp.Compare(s.Index, o.Index)
}

// Less reports whether s ranks before o.
func (s Specificity) Less(o Specificity) bool {
	return s.Compare(o) < 0
}

func (s Specificity) String() string {
	return fmt.Sprintf("(literals=%d weight=%d route=%d variant=%d)", s.Literals, s.Weight, s.Registration, s.Index)
}

// specificityOf computes the specificity of a token sequence.
func specificityOf(tokens []Token, registration, index int) Specificity {
	s := Specificity{Registration: registration, Index: index}
	for _, t := range tokens {
		if t.IsParam() {
			s.Weight += t.Codec.Specificity()
		} else {
			s.Literals++
		}
	}
	return s
}

// rank sorts variants into matching order.
func rank(variants []*Variant) {
	slices.SortStableFunc(variants, func(a, b *Variant) int {
		return a.Specificity.Compare(b.Specificity)
	})
}
