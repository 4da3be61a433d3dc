package game

// pointTable maps attempts remaining at the moment of a winning guess to
// the points awarded: solving on the first try (all six attempts left)
// pays the most.
var pointTable = map[int]int{
	6: 100,
	5: 50,
	4: 25,
	3: 10,
	2: 5,
	1: 1,
}

// PointsForRemaining returns the award for a round won with the given
// number of attempts remaining. Anything outside the table pays nothing.
func PointsForRemaining(remaining int) int {
	return pointTable[remaining]
}
