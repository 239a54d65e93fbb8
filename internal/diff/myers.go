package diff

type opKind int

const (
	opEqual opKind = iota
	opDelete
	opInsert
)

// edit is one step of an edit script. ai indexes a for equal/delete,
// bi indexes b for equal/insert.
type edit struct {
	kind opKind
	ai   int
	bi   int
}

// shortestEditScript runs the Myers O(ND) search and returns the edit
// script turning a into b. On ties the search advances along x, so a
// deletion is consumed before an insertion at the same frontier.
func shortestEditScript[T comparable](a, b []T) []edit {
	n, m := len(a), len(b)
	total := n + m
	if total == 0 {
		return nil
	}

	offset := total
	v := make([]int, 2*total+2)
	trace := make([][]int, 0, 8)

	for d := 0; d <= total; d++ {
		snapshot := make([]int, len(v))
		copy(snapshot, v)
		trace = append(trace, snapshot)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				return backtrack(trace, n, m, offset)
			}
		}
	}
	return nil
}

func backtrack(trace [][]int, n, m, offset int) []edit {
	x, y := n, m
	rev := make([]edit, 0, n+m)

	for d := len(trace) - 1; d >= 0; d-- {
		v := trace[d]
		k := x - y

		var prevK int
		if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := v[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			rev = append(rev, edit{kind: opEqual, ai: x - 1, bi: y - 1})
			x--
			y--
		}
		if d > 0 {
			if x == prevX {
				rev = append(rev, edit{kind: opInsert, ai: -1, bi: y - 1})
			} else {
				rev = append(rev, edit{kind: opDelete, ai: x - 1, bi: -1})
			}
		}
		x, y = prevX, prevY
	}

	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}
