package palette

// DefaultRecentSize is how many colors Recent remembers unless told otherwise.
const DefaultRecentSize = 8

// Recent is a most-recently-used list of colors without duplicates.
type Recent struct {
	max    int
	colors []string
}

func NewRecent(max int, seed ...string) *Recent {
	if max <= 0 {
		max = DefaultRecentSize
	}
	r := &Recent{max: max}
	for i := len(seed) - 1; i >= 0; i-- {
		r.Push(seed[i])
	}
	return r
}

// Push moves c to the front, dropping the oldest color when full. Invalid
// colors are ignored.
func (r *Recent) Push(c string) {
	c, err := Normalize(c)
	if err != nil || c == None {
		return
	}
	out := make([]string, 0, r.max)
	out = append(out, c)
	for _, old := range r.colors {
		if old != c && len(out) < r.max {
			out = append(out, old)
		}
	}
	r.colors = out
}

// Colors returns the list, most recent first.
func (r *Recent) Colors() []string {
	return append([]string(nil), r.colors...)
}
