package domain

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode selects the display ordering of a rendered view.
type SortMode string

const (
	SortAZ     SortMode = "az"     // lexicographic by title, locale-aware
	SortNewest SortMode = "newest" // by addedAt, most recent first
	SortOldest SortMode = "oldest" // by addedAt, oldest first
	SortRating SortMode = "rating" // by rating descending, stable ties
)

// ParseSortMode maps user input to a SortMode, falling back to az for
// anything unknown (matches the app's default sort).
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortNewest, SortOldest, SortRating:
		return SortMode(s)
	default:
		return SortAZ
	}
}

// View is the per-render configuration of the view engine. It is an
// explicit value passed into RenderView on every recompute; nothing
// here is ambient or shared between renders.
type View struct {
	FilterText string
	Sort       SortMode
}

// RenderView produces the display ordering of a playlist's videos:
// case-insensitive substring filter on title, then the configured
// sort. The result is a fresh slice; the playlist's stored order is
// never touched, so switching sort modes and back implicitly restores
// the original visual order.
func RenderView(p Playlist, view View) []VideoEntry {
	out := make([]VideoEntry, 0, len(p.Videos))

	needle := strings.ToLower(strings.TrimSpace(view.FilterText))
	for _, v := range p.Videos {
		if needle == "" || strings.Contains(strings.ToLower(v.Title), needle) {
			out = append(out, v)
		}
	}

	switch view.Sort {
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].AddedAt > out[j].AddedAt })
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].AddedAt < out[j].AddedAt })
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	default: // SortAZ
		// Collators carry internal buffers, so build one per render.
		c := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Title, out[j].Title) < 0
		})
	}

	return out
}
