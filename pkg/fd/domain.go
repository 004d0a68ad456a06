// Package fd implements finite-domain constraint filtering built around
// Régin's generalized arc-consistency algorithm for the all-different
// constraint. This file defines the Domain abstraction for finite sets of
// integer values.
package fd

import (
	"fmt"
	"math/bits"
	"strings"
	"sync"
)

// Domain pools for reducing allocations during propagation. Separate pools
// per word count so a Sudoku-sized domain never pays for a scheduling-sized
// one.
var (
	smallDomainPool = sync.Pool{
		New: func() interface{} {
			return &BitSetDomain{words: make([]uint64, 1)}
		},
	}

	mediumDomainPool = sync.Pool{
		New: func() interface{} {
			return &BitSetDomain{words: make([]uint64, 2)}
		},
	}

	largeDomainPool = sync.Pool{
		New: func() interface{} {
			return &BitSetDomain{words: make([]uint64, 4)}
		},
	}
)

// Domain represents the finite set of values a variable may still take.
// Values are 1-indexed integers in [1, MaxValue].
//
// Implementations are immutable: Remove returns a new domain rather than
// modifying in place. The Store layers mutation and undo on top of this,
// so domains themselves can be shared freely between snapshots.
type Domain interface {
	// Count returns the number of values in the domain. A count of zero
	// marks an inconsistent state.
	Count() int

	// Has reports whether the domain contains the given value.
	Has(value int) bool

	// Remove returns a new domain with the value removed. Removing an
	// absent value yields an equal domain; removing the last value yields
	// an empty one.
	Remove(value int) Domain

	// IsSingleton reports whether exactly one value remains.
	IsSingleton() bool

	// SingletonValue returns the sole value of a singleton domain.
	// Panics if the domain is not a singleton.
	SingletonValue() int

	// IterateValues calls f for each value in ascending order.
	IterateValues(f func(value int))

	// Clone returns a copy of the domain.
	Clone() Domain

	// Equal reports whether both domains contain exactly the same values.
	Equal(other Domain) bool

	// MaxValue returns the upper bound of the value range [1, MaxValue].
	MaxValue() int

	// Min returns the smallest value, or 0 for an empty domain.
	Min() int

	// Max returns the largest value, or 0 for an empty domain.
	Max() int

	// String returns a human-readable representation.
	String() string
}

// BitSetDomain is the standard Domain implementation: one bit per value in
// an array of uint64 words. Membership tests are O(1); every other
// operation is O(words).
//
// BitSetDomain is immutable. Operations return new instances, enabling
// structural sharing across Store snapshots.
type BitSetDomain struct {
	maxValue int
	words    []uint64
}

// domainFromPool fetches a cleared BitSetDomain from the matching pool, or
// nil when the domain is too large to pool.
func domainFromPool(maxValue int) *BitSetDomain {
	numWords := (maxValue + 63) / 64

	var d *BitSetDomain
	switch {
	case numWords == 1:
		d = smallDomainPool.Get().(*BitSetDomain)
	case numWords == 2:
		d = mediumDomainPool.Get().(*BitSetDomain)
	case numWords <= 4:
		d = largeDomainPool.Get().(*BitSetDomain)
	default:
		return nil
	}

	if cap(d.words) < numWords {
		d.words = make([]uint64, numWords)
	} else {
		d.words = d.words[:numWords]
	}
	for i := range d.words {
		d.words[i] = 0
	}

	d.maxValue = maxValue
	return d
}

// releaseDomainToPool returns a BitSetDomain to the matching pool for
// reuse. Only safe once no snapshot or trail entry can still reference the
// domain.
func releaseDomainToPool(d *BitSetDomain) {
	if d == nil || d.words == nil {
		return
	}

	switch numWords := len(d.words); {
	case numWords == 1:
		smallDomainPool.Put(d)
	case numWords == 2:
		mediumDomainPool.Put(d)
	case numWords <= 4:
		largeDomainPool.Put(d)
	}
}

// NewBitSetDomain creates a domain containing every value in [1, maxValue].
func NewBitSetDomain(maxValue int) *BitSetDomain {
	if maxValue <= 0 {
		return &BitSetDomain{maxValue: 0, words: nil}
	}

	d := domainFromPool(maxValue)
	if d == nil {
		d = &BitSetDomain{
			maxValue: maxValue,
			words:    make([]uint64, (maxValue+63)/64),
		}
	}

	for i := 0; i < maxValue; i++ {
		d.words[i/64] |= 1 << uint(i%64)
	}
	return d
}

// NewBitSetDomainFromValues creates a domain containing only the given
// values. Values outside [1, maxValue] are ignored.
func NewBitSetDomainFromValues(maxValue int, values []int) *BitSetDomain {
	if maxValue <= 0 {
		return &BitSetDomain{maxValue: 0, words: nil}
	}

	d := domainFromPool(maxValue)
	if d == nil {
		d = &BitSetDomain{
			maxValue: maxValue,
			words:    make([]uint64, (maxValue+63)/64),
		}
	}

	for _, v := range values {
		if v >= 1 && v <= maxValue {
			d.words[(v-1)/64] |= 1 << uint((v-1)%64)
		}
	}
	return d
}

// Count returns the number of values using hardware popcount.
func (d *BitSetDomain) Count() int {
	count := 0
	for _, word := range d.words {
		count += bits.OnesCount64(word)
	}
	return count
}

// Has reports membership in O(1).
func (d *BitSetDomain) Has(value int) bool {
	if value < 1 || value > d.maxValue {
		return false
	}
	return (d.words[(value-1)/64]>>uint((value-1)%64))&1 == 1
}

// Remove returns a new domain without the value.
func (d *BitSetDomain) Remove(value int) Domain {
	if value < 1 || value > d.maxValue || !d.Has(value) {
		return d.Clone()
	}

	newWords := make([]uint64, len(d.words))
	copy(newWords, d.words)
	newWords[(value-1)/64] &^= 1 << uint((value-1)%64)

	return &BitSetDomain{maxValue: d.maxValue, words: newWords}
}

// IsSingleton reports whether exactly one value remains.
func (d *BitSetDomain) IsSingleton() bool {
	return d.Count() == 1
}

// SingletonValue returns the single remaining value.
// Panics if the domain is not a singleton.
func (d *BitSetDomain) SingletonValue() int {
	for i, word := range d.words {
		if word != 0 {
			return i*64 + bits.TrailingZeros64(word) + 1
		}
	}
	panic("SingletonValue called on non-singleton domain")
}

// IterateValues calls f for each value in ascending order.
func (d *BitSetDomain) IterateValues(f func(value int)) {
	for wordIdx, word := range d.words {
		for word != 0 {
			lowestBit := word & -word
			f(wordIdx*64 + bits.TrailingZeros64(word) + 1)
			word &^= lowestBit
		}
	}
}

// Clone returns a copy, pooled when the size allows.
func (d *BitSetDomain) Clone() Domain {
	nd := domainFromPool(d.maxValue)
	if nd == nil {
		newWords := make([]uint64, len(d.words))
		copy(newWords, d.words)
		return &BitSetDomain{maxValue: d.maxValue, words: newWords}
	}
	copy(nd.words, d.words)
	return nd
}

// Equal reports whether both domains hold exactly the same values.
func (d *BitSetDomain) Equal(other Domain) bool {
	o, ok := other.(*BitSetDomain)
	if !ok {
		return false
	}
	if d.maxValue != o.maxValue || len(d.words) != len(o.words) {
		return false
	}
	for i := range d.words {
		if d.words[i] != o.words[i] {
			return false
		}
	}
	return true
}

// MaxValue returns the upper bound of the value range.
func (d *BitSetDomain) MaxValue() int {
	return d.maxValue
}

// Min returns the smallest value, or 0 for an empty domain.
func (d *BitSetDomain) Min() int {
	for wordIdx, word := range d.words {
		if word != 0 {
			return wordIdx*64 + bits.TrailingZeros64(word) + 1
		}
	}
	return 0
}

// Max returns the largest value, or 0 for an empty domain.
func (d *BitSetDomain) Max() int {
	for wordIdx := len(d.words) - 1; wordIdx >= 0; wordIdx-- {
		word := d.words[wordIdx]
		if word != 0 {
			value := wordIdx*64 + 63 - bits.LeadingZeros64(word) + 1
			if value > d.maxValue {
				continue
			}
			return value
		}
	}
	return 0
}

// String renders the domain as "{}", "{v}", "{a..b}" for a run, or an
// explicit (possibly truncated) value list.
func (d *BitSetDomain) String() string {
	count := d.Count()
	if count == 0 {
		return "{}"
	}

	values := d.ToSlice()
	if count == 1 {
		return fmt.Sprintf("{%d}", values[0])
	}
	if isConsecutive(values) {
		return fmt.Sprintf("{%d..%d}", values[0], values[len(values)-1])
	}

	var builder strings.Builder
	builder.WriteString("{")
	for i, v := range values {
		if i > 0 {
			builder.WriteString(",")
		}
		builder.WriteString(fmt.Sprintf("%d", v))
		if i >= 19 && len(values) > 20 {
			builder.WriteString(fmt.Sprintf(",...+%d more", len(values)-20))
			break
		}
	}
	builder.WriteString("}")
	return builder.String()
}

// ToSlice returns all values in ascending order. Mainly for tests.
func (d *BitSetDomain) ToSlice() []int {
	var values []int
	d.IterateValues(func(v int) {
		values = append(values, v)
	})
	return values
}

func isConsecutive(values []int) bool {
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1]+1 {
			return false
		}
	}
	return true
}
