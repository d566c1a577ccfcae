package poly

// Compare gives a total ordering on polynomials, used to canonicalize
// sums and products: first by variant tag (Kind), then recursively
// lexicographically within a variant. It is transitive, antisymmetric,
// and satisfies Compare(a,b) == -Compare(b,a).
func Compare(a, b Polynomial) int {
	if a.Kind() != b.Kind() {
		return int(a.Kind()) - int(b.Kind())
	}
	switch x := a.(type) {
	case *Int:
		y := b.(*Int)
		return x.Value - y.Value
	case *Unknown:
		y := b.(*Unknown)
		return x.Index - y.Index
	case *Variable:
		y := b.(*Variable)
		return x.Index - y.Index
	case *Functional:
		y := b.(*Functional)
		if x.Index != y.Index {
			return x.Index - y.Index
		}
		return compareFuncSlices(x.Args, y.Args)
	case *Sum:
		y := b.(*Sum)
		return comparePolySlices(x.Terms, y.Terms)
	case *Product:
		y := b.(*Product)
		return comparePolySlices(x.Factors, y.Factors)
	case *Max:
		y := b.(*Max)
		return comparePolySlices(x.Args, y.Args)
	default:
		return 0
	}
}

func comparePolySlices(a, b []Polynomial) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

func compareFuncSlices(a, b []*Func) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i].Body, b[i].Body); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

// Less is a convenience wrapper for use with sort.Slice.
func Less(a, b Polynomial) bool { return Compare(a, b) < 0 }
