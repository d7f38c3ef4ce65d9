package layout

// Size carries one quantity (a size, an offset or an alignment) for both
// addressing widths at once. Every operation updates both components
// together, so the 32-bit and 64-bit layouts are computed in a single pass.
type Size struct {
	Size32 int64
	Size64 int64
}

// MakeSize builds a Size from its 32-bit and 64-bit components.
func MakeSize(size32, size64 int64) Size {
	return Size{Size32: size32, Size64: size64}
}

// Add returns s advanced by other, per width.
func (s Size) Add(other Size) Size {
	return Size{
		Size32: s.Size32 + other.Size32,
		Size64: s.Size64 + other.Size64,
	}
}

// Max returns the component-wise maximum of s and other.
func (s Size) Max(other Size) Size {
	return Size{
		Size32: maxInt64(s.Size32, other.Size32),
		Size64: maxInt64(s.Size64, other.Size64),
	}
}

// AlignUp returns s rounded up to the given alignment, per width.
func (s Size) AlignUp(align Size) Size {
	return Size{
		Size32: roundUp(s.Size32, align.Size32),
		Size64: roundUp(s.Size64, align.Size64),
	}
}

// SizeAndAlign is the occupied size and required alignment of one element.
// Alignments coming out of the size table are always powers of two.
type SizeAndAlign struct {
	Size  Size
	Align Size
}

// Max returns the component-wise maximum of sa and other.
func (sa SizeAndAlign) Max(other SizeAndAlign) SizeAndAlign {
	return SizeAndAlign{
		Size:  sa.Size.Max(other.Size),
		Align: sa.Align.Max(other.Align),
	}
}

func roundUp(n, align int64) int64 {
	if align <= 1 {
		return n
	}
	r := n % align
	if r == 0 {
		return n
	}
	return n + (align - r)
}

func divRoundUp(a, b int64) int64 {
	return (a + b - 1) / b
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
