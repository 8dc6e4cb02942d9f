package snapio

// FakeFile is an object that implements the Snapshot interface for testing
// purposes, but can be initialized directly from arrays. It records how many
// times it has been closed.
type FakeFile struct {
	x []float64
	Closes int
}

var _ Snapshot = &FakeFile{ }

// NewFakeFile creates a FakeFile holding the positions x.
func NewFakeFile(x []float64) *FakeFile {
	return &FakeFile{ x: x }
}

// NewFakeFileVecs creates a FakeFile holding the positions x.
func NewFakeFileVecs(x [][3]float64) *FakeFile {
	flat := make([]float64, 3*len(x))
	for i := range x {
		copy(flat[3*i: 3*i+3], x[i][:])
	}
	return NewFakeFile(flat)
}

func (f *FakeFile) Coords() []float64 { return f.x }
func (f *FakeFile) Len() int { return len(f.x) }
func (f *FakeFile) Close() error {
	f.Closes++
	return nil
}
