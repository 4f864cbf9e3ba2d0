package nbt

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func ensure(err error) {
	if err != nil {
		panic(err)
	}
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}
