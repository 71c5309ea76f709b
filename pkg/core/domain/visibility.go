package domain

// Visible is implemented by entities that can be soft-deleted
type Visible interface {
	IsVisible() bool
}

// FilterVisible keeps the visible entries of in, preserving order.
func FilterVisible[T any, P interface {
	*T
	Visible
}](in []T) []T {
	out := make([]T, 0, len(in))
	for i := range in {
		if P(&in[i]).IsVisible() {
			out = append(out, in[i])
		}
	}
	return out
}
