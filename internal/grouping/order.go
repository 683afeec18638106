package grouping

import "github.com/jonathan/resume-editor/internal/types"

// Order moves hidden groups after visible ones. It is a stable partition:
// relative order within each class is preserved.
func Order(groups []CompanyGroup) []CompanyGroup {
	visible := make([]CompanyGroup, 0, len(groups))
	var hidden []CompanyGroup

	for _, g := range groups {
		if g.Hidden() {
			hidden = append(hidden, g)
		} else {
			visible = append(visible, g)
		}
	}

	return append(visible, hidden...)
}

// Flatten concatenates the bullets of each group in group order
func Flatten(groups []CompanyGroup) []types.Bullet {
	n := 0
	for _, g := range groups {
		n += len(g.Bullets)
	}
	out := make([]types.Bullet, 0, n)
	for _, g := range groups {
		out = append(out, g.Bullets...)
	}
	return out
}

// Reorder partitions bullets, moves hidden groups last and flattens the result
func Reorder(bullets []types.Bullet) []types.Bullet {
	return Flatten(Order(Partition(bullets)))
}

// GroupIndexOf returns the index of the group containing the bullet, or -1
func GroupIndexOf(groups []CompanyGroup, id types.ID) int {
	for i, g := range groups {
		for _, b := range g.Bullets {
			if b.ID == id {
				return i
			}
		}
	}
	return -1
}
