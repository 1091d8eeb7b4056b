package utils

// Generates a sequence of n elements given a generation function
func Iota[T any](n int, gen func(int) T) []T {
	values := make([]T, n)

	for i := range values {
		values[i] = gen(i)
	}

	return values
}
