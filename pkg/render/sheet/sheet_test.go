package sheet

import (
	"fmt"
	"strings"
	"testing"
)

func fronts(n int) []Front {
	out := make([]Front, n)
	for i := range out {
		out[i] = Front{Label: fmt.Sprintf("card_%d.png", i+1), PNG: []byte{0x89, 'P', 'N', 'G', byte(i)}}
	}
	return out
}

func TestPageCount(t *testing.T) {
	tests := []struct{ n, want int }{
		{0, 0}, {1, 2}, {6, 2}, {7, 4}, {12, 4}, {55, 20},
	}
	for _, tt := range tests {
		if got := PageCount(tt.n); got != tt.want {
			t.Errorf("PageCount(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
	if got := PageCount(7, WithGrid(3, 3)); got != 2 {
		t.Errorf("PageCount(7, 3x3) = %d, want 2", got)
	}
}

func TestPages(t *testing.T) {
	pages := Pages(fronts(7), []byte("back"))
	if len(pages) != 4 {
		t.Fatalf("got %d pages, want 4", len(pages))
	}

	wantImages := []int{6, 6, 1, 1}
	for i, p := range pages {
		doc := string(p)
		if got := strings.Count(doc, "<image"); got != wantImages[i] {
			t.Errorf("page %d has %d images, want %d", i+1, got, wantImages[i])
		}
		if !strings.Contains(doc, `width="210mm"`) || !strings.Contains(doc, `height="297mm"`) {
			t.Errorf("page %d is not A4", i+1)
		}
	}

	if !strings.Contains(string(pages[0]), "card_1.png") || !strings.Contains(string(pages[2]), "card_7.png") {
		t.Error("front pages should carry card labels")
	}
	if strings.Contains(string(pages[1]), "card_") {
		t.Error("back pages must not be labelled")
	}
}

func TestPagesGeometry(t *testing.T) {
	pages := Pages(fronts(1), []byte("back"))

	// Content is 2*85+5 = 175mm wide and 3*85+2*5 = 265mm tall, centred.
	front := string(pages[0])
	if !strings.Contains(front, `x="175" y="160" width="850" height="850"`) {
		t.Errorf("first front not in the top-left slot:\n%s", front)
	}
	// The back of a left-column card prints in the right column.
	back := string(pages[1])
	if !strings.Contains(back, `x="1075" y="160" width="850" height="850"`) {
		t.Errorf("back not mirrored:\n%s", back)
	}
}

func TestPagesWithoutBack(t *testing.T) {
	pages := Pages(fronts(7), nil)
	if len(pages) != 2 {
		t.Errorf("got %d pages without backs, want 2", len(pages))
	}
}
