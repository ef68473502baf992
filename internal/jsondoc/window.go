package jsondoc

// Window is a cursor over an array view. Arrays render an initial window
// of elements and extend it as the view scrolls toward the bottom of the
// rendered extent. This is display-only: ApplyEdit always operates on the
// full underlying array no matter how much is windowed.
type Window struct {
	step    int
	visible int
	total   int
}

// NewWindow opens a cursor over an array of the given length, showing up
// to step elements initially.
func NewWindow(total, step int) *Window {
	if step < 1 {
		step = 1
	}
	return &Window{step: step, visible: min(step, max(total, 0)), total: max(total, 0)}
}

// Visible reports how many leading elements are currently rendered
func (w *Window) Visible() int { return w.visible }

// Extend grows the window by one step, clamped to the array length.
// Returns true if the window grew.
func (w *Window) Extend() bool {
	if w.visible >= w.total {
		return false
	}
	w.visible = min(w.visible+w.step, w.total)
	return true
}

// Exhausted reports whether the whole array is rendered
func (w *Window) Exhausted() bool { return w.visible >= w.total }

// Slice returns the windowed prefix of arr. The slice aliases arr; callers
// treat it as read-only.
func (w *Window) Slice(arr []any) []any {
	if w.visible >= len(arr) {
		return arr
	}
	return arr[:w.visible]
}
