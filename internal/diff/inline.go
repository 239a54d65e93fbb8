package diff

// MaxInlineCells caps the product of the two line lengths (in runes) for
// which a character level refinement is computed.
const MaxInlineCells = 160000

// Part is a run of characters sharing one edit type
type Part struct {
	Type SegmentType `json:"type"`
	Text string      `json:"text"`
}

// InlineLine is a character level view of one output line or changed line pair.
// A nil line number means the line does not exist on that side.
type InlineLine struct {
	LineNumberA *int   `json:"lineNumberA"`
	LineNumberB *int   `json:"lineNumberB"`
	Parts       []Part `json:"parts"`
}

// Inline refines a line diff. Every maximal run of changed segments is
// paired positionally (n-th deletion with n-th addition) and each pair gets
// a character edit script; unpaired lines stay whole.
func Inline(segments []Segment) []InlineLine {
	result := make([]InlineLine, 0, len(segments))
	lineA, lineB := 0, 0

	for i := 0; i < len(segments); {
		if segments[i].Type == Context {
			lineA++
			lineB++
			result = append(result, InlineLine{
				LineNumberA: intPtr(lineA),
				LineNumberB: intPtr(lineB),
				Parts:       []Part{{Type: Context, Text: segments[i].Value}},
			})
			i++
			continue
		}

		var dels, adds []string
		for ; i < len(segments) && segments[i].Type != Context; i++ {
			if segments[i].Type == Del {
				dels = append(dels, segments[i].Value)
			} else {
				adds = append(adds, segments[i].Value)
			}
		}

		for p := 0; p < max(len(dels), len(adds)); p++ {
			line := InlineLine{}
			var aTxt, bTxt string
			if p < len(dels) {
				lineA++
				line.LineNumberA = intPtr(lineA)
				aTxt = dels[p]
			}
			if p < len(adds) {
				lineB++
				line.LineNumberB = intPtr(lineB)
				bTxt = adds[p]
			}
			line.Parts = refine(aTxt, bTxt)
			result = append(result, line)
		}
	}
	return result
}

func refine(aTxt, bTxt string) []Part {
	if aTxt == bTxt {
		return []Part{{Type: Context, Text: aTxt}}
	}

	a, b := []rune(aTxt), []rune(bTxt)
	if len(a)*len(b) > MaxInlineCells {
		parts := make([]Part, 0, 2)
		if aTxt != "" {
			parts = append(parts, Part{Type: Del, Text: aTxt})
		}
		if bTxt != "" {
			parts = append(parts, Part{Type: Add, Text: bTxt})
		}
		return parts
	}

	var parts []Part
	push := func(t SegmentType, r rune) {
		if n := len(parts); n > 0 && parts[n-1].Type == t {
			parts[n-1].Text += string(r)
			return
		}
		parts = append(parts, Part{Type: t, Text: string(r)})
	}
	for _, e := range shortestEditScript(a, b) {
		switch e.kind {
		case opEqual:
			push(Context, a[e.ai])
		case opDelete:
			push(Del, a[e.ai])
		case opInsert:
			push(Add, b[e.bi])
		}
	}
	return parts
}

func intPtr(v int) *int {
	return &v
}
