package artcolor

import "testing"

func TestNearestPaletteColorNeverBlack(t *testing.T) {
	t.Parallel()

	valid := make(map[string]bool)
	for _, entry := range palette {
		valid[entry.Name] = true
	}

	for r := 0; r <= 255; r += 51 {
		for g := 0; g <= 255; g += 51 {
			for b := 0; b <= 255; b += 51 {
				entry := NearestPaletteColor(RGB{uint8(r), uint8(g), uint8(b)})
				if !valid[entry.Name] {
					t.Fatalf("NearestPaletteColor(%d,%d,%d) = %q, not a palette name", r, g, b, entry.Name)
				}
				if entry.Name == "black" {
					t.Fatalf("NearestPaletteColor(%d,%d,%d) returned black", r, g, b)
				}
			}
		}
	}
}

func TestNearestPaletteColorIdempotent(t *testing.T) {
	t.Parallel()

	for _, entry := range palette {
		got := NearestPaletteColor(entry.Ref)
		want := entry.Name
		if want == "black" {
			want = "white"
		}
		if got.Name != want {
			t.Fatalf("NearestPaletteColor(%s ref) = %q, want %q", entry.Name, got.Name, want)
		}
	}
}

func TestNearestPaletteColorBasicHues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		color RGB
		want  string
	}{
		{RGB{200, 20, 20}, "red"},
		{RGB{20, 180, 20}, "green"},
		{RGB{20, 20, 200}, "blue"},
		{RGB{200, 190, 30}, "yellow"},
		{RGB{25, 190, 190}, "cyan"},
		{RGB{190, 25, 190}, "magenta"},
		{RGB{10, 10, 10}, "white"}, // black overridden
	}
	for _, tc := range cases {
		if got := NearestPaletteColor(tc.color); got.Name != tc.want {
			t.Errorf("NearestPaletteColor(%v) = %q, want %q", tc.color, got.Name, tc.want)
		}
	}
}
