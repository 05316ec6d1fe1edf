// Package capability models the abstract storage requirements attached to
// plan handles (persistence, retention, encryption, queryability and
// shareability) and the containment rules used to match them against what a
// storage key factory can provide.
package capability

import (
	"fmt"
	"strconv"
	"strings"
)

// Capability tags.
const (
	TagPersistence = "persistence"
	TagTtl         = "ttl"
	TagEncryption  = "encryption"
	TagQueryable   = "queryable"
	TagShareable   = "shareable"
)

// Comparison expresses relative strictness of two capabilities with the same tag.
type Comparison int

const (
	LessStrict Comparison = iota
	Equivalent
	Stricter
)

// Capability is a single storage requirement.
type Capability interface {
	Tag() string
	// Compare returns the strictness of the receiver relative to other. Both
	// capabilities must share the same tag.
	Compare(other Capability) Comparison
	String() string
}

// PersistenceKind is ordered from most to least restrictive.
type PersistenceKind int

const (
	PersistenceNone PersistenceKind = iota
	PersistenceInMemory
	PersistenceOnDisk
	PersistenceUnrestricted
)

var persistenceNames = map[PersistenceKind]string{
	PersistenceNone:         "none",
	PersistenceInMemory:     "inMemory",
	PersistenceOnDisk:       "onDisk",
	PersistenceUnrestricted: "unrestricted",
}

// Persistence describes where stored data may live.
type Persistence struct {
	Kind PersistenceKind
}

func (p Persistence) Tag() string { return TagPersistence }

func (p Persistence) Compare(other Capability) Comparison {
	o := other.(Persistence)
	switch {
	case p.Kind < o.Kind:
		return Stricter
	case p.Kind > o.Kind:
		return LessStrict
	}
	return Equivalent
}

func (p Persistence) String() string { return persistenceNames[p.Kind] }

// Ttl describes retention; Infinite retention is the least strict value.
type Ttl struct {
	Minutes  int
	Infinite bool
}

func (t Ttl) Tag() string { return TagTtl }

func (t Ttl) Compare(other Capability) Comparison {
	o := other.(Ttl)
	switch {
	case (t.Infinite && o.Infinite) || (!t.Infinite && !o.Infinite && t.Minutes == o.Minutes):
		return Equivalent
	case t.Infinite:
		return LessStrict
	case o.Infinite:
		return Stricter
	case t.Minutes < o.Minutes:
		return Stricter
	}
	return LessStrict
}

func (t Ttl) String() string {
	if t.Infinite {
		return "ttl:infinite"
	}
	return "ttl:" + strconv.Itoa(t.Minutes) + "m"
}

type flag struct {
	tag   string
	value bool
}

func (f flag) Tag() string { return f.tag }

func (f flag) Compare(other Capability) Comparison {
	o := toFlag(other)
	switch {
	case f.value == o.value:
		return Equivalent
	case f.value:
		return Stricter
	}
	return LessStrict
}

func (f flag) String() string {
	if f.value {
		return f.tag
	}
	return "!" + f.tag
}

func toFlag(c Capability) flag {
	switch actual := c.(type) {
	case Encryption:
		return flag(actual)
	case Queryable:
		return flag(actual)
	case Shareable:
		return flag(actual)
	case flag:
		return actual
	}
	panic(fmt.Sprintf("capability: %T is not a flag capability", c))
}

// Encryption requires the store to be encrypted.
type Encryption flag

func NewEncryption(value bool) Encryption            { return Encryption{tag: TagEncryption, value: value} }
func (e Encryption) Tag() string                     { return TagEncryption }
func (e Encryption) Compare(o Capability) Comparison { return flag(e).Compare(o) }
func (e Encryption) String() string                  { return flag(e).String() }

// Queryable requires the store to support queries.
type Queryable flag

func NewQueryable(value bool) Queryable             { return Queryable{tag: TagQueryable, value: value} }
func (q Queryable) Tag() string                     { return TagQueryable }
func (q Queryable) Compare(o Capability) Comparison { return flag(q).Compare(o) }
func (q Queryable) String() string                  { return flag(q).String() }

// Shareable requires the store to be shareable across arcs.
type Shareable flag

func NewShareable(value bool) Shareable             { return Shareable{tag: TagShareable, value: value} }
func (s Shareable) Tag() string                     { return TagShareable }
func (s Shareable) Compare(o Capability) Comparison { return flag(s).Compare(o) }
func (s Shareable) String() string                  { return flag(s).String() }

// Range spans capabilities from Min (least strict) to Max (most strict).
type Range struct {
	Min Capability
	Max Capability
}

func (r Range) Tag() string { return r.Min.Tag() }

// Compare compares ranges by their strictest bound.
func (r Range) Compare(other Capability) Comparison {
	return r.Max.Compare(ToRange(other).Max)
}

func (r Range) String() string {
	if r.Min.Compare(r.Max) == Equivalent {
		return r.Min.String()
	}
	return r.Min.String() + ".." + r.Max.String()
}

// Contains reports whether other lies within the range.
func (r Range) Contains(other Capability) bool {
	o := ToRange(other)
	return r.Min.Compare(o.Min) != Stricter && r.Max.Compare(o.Max) != LessStrict
}

// ToRange returns c as a range, wrapping plain values as single point ranges.
func ToRange(c Capability) Range {
	if r, ok := c.(Range); ok {
		return r
	}
	return Range{Min: c, Max: c}
}

// Predefined values.
var (
	Unrestricted  = Persistence{Kind: PersistenceUnrestricted}
	OnDisk        = Persistence{Kind: PersistenceOnDisk}
	InMemory      = Persistence{Kind: PersistenceInMemory}
	NoPersistence = Persistence{Kind: PersistenceNone}

	AnyPersistence = Range{Min: Unrestricted, Max: NoPersistence}
	AnyTtl         = Range{Min: Ttl{Infinite: true}, Max: Ttl{Minutes: 0}}
	AnyEncryption  = Range{Min: NewEncryption(false), Max: NewEncryption(true)}
	AnyQueryable   = Range{Min: NewQueryable(false), Max: NewQueryable(true)}
	AnyShareable   = Range{Min: NewShareable(false), Max: NewShareable(true)}
)

// ParseTtl parses retention expressions such as "30m", "2 hours" or "1d".
func ParseTtl(expr string) (Ttl, error) {
	expr = strings.TrimSpace(strings.ToLower(expr))
	if expr == "infinite" {
		return Ttl{Infinite: true}, nil
	}
	i := 0
	for i < len(expr) && expr[i] >= '0' && expr[i] <= '9' {
		i++
	}
	if i == 0 {
		return Ttl{}, fmt.Errorf("invalid ttl %q", expr)
	}
	count, _ := strconv.Atoi(expr[:i])
	switch strings.TrimSpace(expr[i:]) {
	case "m", "minute", "minutes":
		return Ttl{Minutes: count}, nil
	case "h", "hour", "hours":
		return Ttl{Minutes: count * 60}, nil
	case "d", "day", "days":
		return Ttl{Minutes: count * 60 * 24}, nil
	}
	return Ttl{}, fmt.Errorf("invalid ttl units in %q", expr)
}
