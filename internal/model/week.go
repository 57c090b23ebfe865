package model

// WeekColumn is one forecast week: a grid column whose header cell matched the
// week marker pattern.
type WeekColumn struct {
	Index int    // column index in the grid
	Label string // trimmed header text, e.g. "Week 1 = 2024-01-01"
}

// WeekLabels returns the labels of weeks in order.
func WeekLabels(weeks []WeekColumn) []string {
	labels := make([]string, len(weeks))
	for i, w := range weeks {
		labels[i] = w.Label
	}
	return labels
}

// WeekPosition returns the position of the week with the given column index, or -1.
func WeekPosition(weeks []WeekColumn, column int) int {
	for i, w := range weeks {
		if w.Index == column {
			return i
		}
	}
	return -1
}
