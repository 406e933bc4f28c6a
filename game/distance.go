package game

// Manhattan returns |ax-bx| + |ay-by|.
func Manhattan(a, b Point) int {
	return abs(int(a.X)-int(b.X)) + abs(int(a.Y)-int(b.Y))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
