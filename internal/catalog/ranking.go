package catalog

import (
	"bitwise74/movie-list/internal/model"
	"cmp"
	"slices"
)

// Assignment is the ranking a movie has to be written back with
type Assignment struct {
	MovieID uint
	Ranking int
}

// Rank orders movies worst to best (ascending rating, unrated first, ties
// broken by ID) and sets Ranking so the best movie is 1 and the worst is
// len(movies). It returns only the assignments that differ from what the
// movies carried before, i.e. what has to be persisted
func Rank(movies []model.Movie) []Assignment {
	slices.SortStableFunc(movies, func(a, b model.Movie) int {
		if c := compareRating(a.Rating, b.Rating); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})

	var changed []Assignment
	for i := range movies {
		r := len(movies) - i
		if movies[i].Ranking != r {
			movies[i].Ranking = r
			changed = append(changed, Assignment{MovieID: movies[i].ID, Ranking: r})
		}
	}

	return changed
}

func compareRating(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return cmp.Compare(*a, *b)
	}
}
