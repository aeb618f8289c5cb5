package platform

// Curry builds a value and hands it to configurator before returning it.
func Curry[T any](constructor func() T, configurator func(T)) T {
	instance := constructor()
	configurator(instance)
	return instance
}
