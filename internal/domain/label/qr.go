package label

// Grid sizes for the pseudo-QR pattern.
const (
	DefaultModules = 21
	MaxModules     = 177
	FinderSize     = 7

	// fillThreshold leaves roughly 42% of free cells on.
	fillThreshold = 0.58
)

// Grid is an n×n module grid, row-major.
type Grid struct {
	n     int
	cells []bool
}

// Size returns the number of modules per side.
func (g Grid) Size() int { return g.n }

// At reports whether module (x, y) is on. Out-of-range cells are off.
func (g Grid) At(x, y int) bool {
	if x < 0 || y < 0 || x >= g.n || y >= g.n {
		return false
	}
	return g.cells[y*g.n+x]
}

// Count returns the number of on modules.
func (g Grid) Count() int {
	c := 0
	for _, on := range g.cells {
		if on {
			c++
		}
	}
	return c
}

// Equal reports whether two grids have the same size and cells.
func (g Grid) Equal(o Grid) bool {
	if g.n != o.n {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// ClampModules bounds n to [DefaultModules, MaxModules].
func ClampModules(n int) int {
	switch {
	case n < DefaultModules:
		return DefaultModules
	case n > MaxModules:
		return MaxModules
	}
	return n
}

// QRPattern builds the pseudo-QR grid for seed. Finder regions sit in the
// top-left, top-right and bottom-left corners; every other cell draws once
// from a generator seeded by the sum of the seed's character codes.
func QRPattern(seed string, n int) Grid {
	n = ClampModules(n)
	g := Grid{n: n, cells: make([]bool, n*n)}
	rng := newMulberry32(seedSum(seed))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if ring, ok := finderRing(n, x, y); ok {
				g.cells[y*n+x] = ring%2 == 0
				continue
			}
			g.cells[y*n+x] = rng.next() > fillThreshold
		}
	}
	return g
}

// IsFinder reports whether (x, y) lies in one of the three finder regions.
func IsFinder(n, x, y int) bool {
	_, ok := finderRing(n, x, y)
	return ok
}

// FinderRing returns the ring distance of (x, y) to the nearest edge of its
// own finder region, or false when the cell is outside every region.
func FinderRing(n, x, y int) (int, bool) {
	return finderRing(n, x, y)
}

func finderRing(n, x, y int) (int, bool) {
	for _, origin := range [3][2]int{{0, 0}, {n - FinderSize, 0}, {0, n - FinderSize}} {
		lx, ly := x-origin[0], y-origin[1]
		if lx < 0 || ly < 0 || lx >= FinderSize || ly >= FinderSize {
			continue
		}
		return min(lx, ly, FinderSize-1-lx, FinderSize-1-ly), true
	}
	return 0, false
}

func seedSum(seed string) uint32 {
	var sum uint32
	for _, r := range seed {
		sum += uint32(r)
	}
	if sum == 0 {
		return 1
	}
	return sum
}

// mulberry32 is a small 32-bit generator with a reproducible [0,1) stream.
type mulberry32 struct{ state uint32 }

func newMulberry32(seed uint32) *mulberry32 { return &mulberry32{state: seed} }

func (m *mulberry32) next() float64 {
	m.state += 0x6d2b79f5
	t := m.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return float64(t^t>>14) / 4294967296
}
