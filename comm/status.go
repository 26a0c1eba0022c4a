package comm

// Status describes a completed point-to-point operation: the actual
// source rank and tag of the matched message and the element count
// actually transferred, which may be smaller than the requested receive
// capacity.
type Status struct {
	Source int
	Tag    int
	Count  int
}
