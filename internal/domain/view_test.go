package domain

import (
	"testing"
)

func viewFixture() Playlist {
	// Stored order is deliberately not alphabetical.
	return Playlist{
		ID:   "pl_1",
		Name: "Mix",
		Videos: []VideoEntry{
			{VideoID: "b", Title: "Bravo", AddedAt: 200, Rating: 3},
			{VideoID: "a", Title: "Alpha", AddedAt: 300, Rating: 5},
			{VideoID: "c", Title: "Charlie", AddedAt: 100, Rating: 3},
		},
	}
}

func titles(entries []VideoEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title
	}
	return out
}

func TestRenderViewSorting(t *testing.T) {
	p := viewFixture()

	tests := []struct {
		name string
		view View
		want []string
	}{
		{"az", View{Sort: SortAZ}, []string{"Alpha", "Bravo", "Charlie"}},
		{"newest", View{Sort: SortNewest}, []string{"Alpha", "Bravo", "Charlie"}},
		{"oldest", View{Sort: SortOldest}, []string{"Charlie", "Bravo", "Alpha"}},
		{"rating keeps stored order on ties", View{Sort: SortRating}, []string{"Alpha", "Bravo", "Charlie"}},
		{"unknown mode falls back to az", View{Sort: SortMode("bogus")}, []string{"Alpha", "Bravo", "Charlie"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(RenderView(p, tt.view))
			if !slicesEqual(got, tt.want) {
				t.Errorf("RenderView() order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseSortMode(t *testing.T) {
	tests := []struct {
		input string
		want  SortMode
	}{
		{"az", SortAZ},
		{"newest", SortNewest},
		{"oldest", SortOldest},
		{"rating", SortRating},
		{"", SortAZ},
		{"garbage", SortAZ},
	}
	for _, tt := range tests {
		if got := ParseSortMode(tt.input); got != tt.want {
			t.Errorf("ParseSortMode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRenderViewFilter(t *testing.T) {
	p := viewFixture()

	tests := []struct {
		name   string
		filter string
		want   []string
	}{
		{"empty filter selects all", "", []string{"Alpha", "Bravo", "Charlie"}},
		{"case-insensitive substring", "RaV", []string{"Bravo"}},
		{"whitespace-only filter selects all", "   ", []string{"Alpha", "Bravo", "Charlie"}},
		{"no match", "zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(RenderView(p, View{FilterText: tt.filter, Sort: SortAZ}))
			if !slicesEqual(got, tt.want) {
				t.Errorf("RenderView() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Sort then filter then clear filter: the view recomputes from the
// untouched base order every time, so clearing the filter restores
// the full az view and the stored order stays exactly as inserted.
func TestRenderViewDoesNotMutateStoredOrder(t *testing.T) {
	p := viewFixture()

	sorted := RenderView(p, View{Sort: SortAZ})
	if want := []string{"Alpha", "Bravo", "Charlie"}; !slicesEqual(titles(sorted), want) {
		t.Fatalf("az view = %v, want %v", titles(sorted), want)
	}

	filtered := RenderView(p, View{FilterText: "b", Sort: SortAZ})
	if want := []string{"Bravo"}; !slicesEqual(titles(filtered), want) {
		t.Fatalf("filtered view = %v, want %v", titles(filtered), want)
	}

	cleared := RenderView(p, View{Sort: SortAZ})
	if want := []string{"Alpha", "Bravo", "Charlie"}; !slicesEqual(titles(cleared), want) {
		t.Fatalf("cleared view = %v, want %v", titles(cleared), want)
	}

	if want := []string{"Bravo", "Alpha", "Charlie"}; !slicesEqual(titles(p.Videos), want) {
		t.Errorf("stored order mutated: %v, want %v", titles(p.Videos), want)
	}
}

func TestRenderViewRatingStability(t *testing.T) {
	p := Playlist{Videos: []VideoEntry{
		{VideoID: "1", Title: "First", Rating: 2},
		{VideoID: "2", Title: "Second", Rating: 5},
		{VideoID: "3", Title: "Third", Rating: 2},
		{VideoID: "4", Title: "Fourth", Rating: 2},
	}}

	got := RenderView(p, View{Sort: SortRating})
	want := []string{"Second", "First", "Third", "Fourth"}
	if !slicesEqual(titles(got), want) {
		t.Errorf("rating sort = %v, want %v (equal ratings keep stored order)", titles(got), want)
	}
}

func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
