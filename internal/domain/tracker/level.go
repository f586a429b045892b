package tracker

// Level thresholds in total points. Level 1 starts at zero.
var levelThresholds = []int{0, 100, 300, 600, 1000}

// Level maps total points to levels 1..5.
func Level(points int) int {
	lvl := 1
	for i, th := range levelThresholds {
		if points >= th {
			lvl = i + 1
		}
	}
	return lvl
}

// PointsToNextLevel returns 0 at the top level.
func PointsToNextLevel(points int) int {
	lvl := Level(points)
	if lvl >= len(levelThresholds) {
		return 0
	}
	return levelThresholds[lvl] - points
}
