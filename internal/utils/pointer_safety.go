package utils

// Value dereferences v, yielding the zero value when v is nil. Optional
// fields decoded from JSON are pointers; rendering goes through here so a
// null never panics.
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

// Ptr returns a pointer to v, for building merge patches from literals.
func Ptr[T any](v T) *T {
	return &v
}
