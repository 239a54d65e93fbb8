// Package diff computes line and character level edit scripts between an
// expected and an actual program output.
package diff

import "strings"

// SegmentType marks a diff unit as kept, added or deleted
type SegmentType string

const (
	Context SegmentType = "context"
	Add     SegmentType = "add"
	Del     SegmentType = "del"
)

// Segment is one line of a line diff, without its trailing newline
type Segment struct {
	Type  SegmentType `json:"type"`
	Value string      `json:"value"`
}

// LineDiff is the result of Lines
type LineDiff struct {
	Segments   []Segment `json:"segments"`
	HasChanges bool      `json:"hasChanges"`
}

// Lines computes the shortest line edit script from expected to actual.
// Carriage returns are dropped first and an empty text has zero lines.
func Lines(expected, actual string) LineDiff {
	a := splitLines(expected)
	b := splitLines(actual)

	script := shortestEditScript(a, b)
	segments := make([]Segment, 0, len(script))
	hasChanges := false
	for _, e := range script {
		switch e.kind {
		case opEqual:
			segments = append(segments, Segment{Type: Context, Value: a[e.ai]})
		case opDelete:
			hasChanges = true
			segments = append(segments, Segment{Type: Del, Value: a[e.ai]})
		case opInsert:
			hasChanges = true
			segments = append(segments, Segment{Type: Add, Value: b[e.bi]})
		}
	}
	return LineDiff{Segments: segments, HasChanges: hasChanges}
}

// Expected rebuilds the expected text from context and deleted lines
func (d LineDiff) Expected() string {
	return d.join(Del)
}

// Actual rebuilds the actual text from context and added lines
func (d LineDiff) Actual() string {
	return d.join(Add)
}

func (d LineDiff) join(side SegmentType) string {
	lines := make([]string, 0, len(d.Segments))
	for _, s := range d.Segments {
		if s.Type == Context || s.Type == side {
			lines = append(lines, s.Value)
		}
	}
	return strings.Join(lines, "\n")
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
