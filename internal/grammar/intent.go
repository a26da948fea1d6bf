// Package grammar parses playlist titles into scheduling intents.
//
// A title is either a bare holiday name, or a range of the form
//
//	tag|startSpec|endSpec
//
// where each spec is a day count ("5") or a holiday name with an optional
// day offset ("Christmas Day+2").
package grammar

import (
	"strconv"
	"strings"
)

// Kind distinguishes the two title shapes.
type Kind int

const (
	KindUnranged Kind = iota
	KindRanged
)

// SpecKind distinguishes the two shapes of one side of a range.
type SpecKind int

const (
	SpecNumeric SpecKind = iota
	SpecAnchor
)

// Spec is one side of a ranged title.
type Spec struct {
	Kind SpecKind

	// Days is the bare offset of a SpecNumeric side.
	Days int

	// Name, Offset and HasOffset describe a SpecAnchor side.
	Name      string
	Offset    int
	HasOffset bool
}

// Numeric returns a spec holding a bare day count.
func Numeric(days int) Spec {
	return Spec{Kind: SpecNumeric, Days: days}
}

// Anchor returns a spec referencing a holiday without offset.
func Anchor(name string) Spec {
	return Spec{Kind: SpecAnchor, Name: name}
}

// AnchorOffset returns a spec referencing a holiday shifted by offset days.
func AnchorOffset(name string, offset int) Spec {
	return Spec{Kind: SpecAnchor, Name: name, Offset: offset, HasOffset: true}
}

func (s Spec) String() string {
	switch s.Kind {
	case SpecNumeric:
		return strconv.Itoa(s.Days)
	default:
		if s.HasOffset {
			return s.Name + string(offsetMarker) + strconv.Itoa(s.Offset)
		}
		return s.Name
	}
}

// Intent is the parsed form of a playlist title.
type Intent struct {
	Kind Kind

	// Name is the lookup key of an unranged title.
	Name string

	// Tag, Start and End describe a ranged title. Tag carries no meaning.
	Tag   string
	Start Spec
	End   Spec
}

// Unranged returns the intent of a title naming a single holiday.
func Unranged(name string) Intent {
	return Intent{Kind: KindUnranged, Name: name}
}

// Ranged returns the intent of a tag|start|end title.
func Ranged(tag string, start, end Spec) Intent {
	return Intent{Kind: KindRanged, Tag: tag, Start: start, End: end}
}

// String renders the intent back into title form.
func (i Intent) String() string {
	if i.Kind == KindUnranged {
		return i.Name
	}
	sep := string(separator)
	return strings.Join([]string{i.Tag, i.Start.String(), i.End.String()}, sep)
}
