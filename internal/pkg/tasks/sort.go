package tasks

import "sort"

// SortForDisplay orders tasks in place: incomplete before completed, then
// high, medium, low. Tasks that compare equal keep their stored order.
func SortForDisplay(list []*Task) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		return a.Priority.rank() < b.Priority.rank()
	})
}

// Split partitions list into active and completed tasks, keeping order.
func Split(list []*Task) (active, completed []*Task) {
	for _, t := range list {
		if t.Completed {
			completed = append(completed, t)
		} else {
			active = append(active, t)
		}
	}
	return active, completed
}
