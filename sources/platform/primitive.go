package platform

// Ptr returns a pointer to a copy of v, for optional filter and patch fields.
func Ptr[T any](v T) *T {
	return &v
}
