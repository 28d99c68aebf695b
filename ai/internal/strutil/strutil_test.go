package strutil

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"empty string", "", 10, ""},
		{"zero max", "hello", 0, ""},
		{"under limit", "hello", 10, "hello"},
		{"at limit", "hello", 5, "hello"},
		{"over limit", "hello world", 5, "hello..."},
		{"multibyte safe", "蔬菜炒豆腐", 2, "蔬菜..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestNormalizeItem(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Quinoa", "quinoa"},
		{"  Brown   Rice ", "brown rice"},
		{"carrots", "carrot"},
		{"Tomatoes", "tomato"},
		{"radishes", "radish"},
		{"hummus", "hummus"},
		{"couscous", "couscous"},
		{"chickpeas", "chickpea"},
		{"EGGS", "egg"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeItem(tt.input); got != tt.want {
				t.Errorf("NormalizeItem(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeItemIdempotent(t *testing.T) {
	for _, s := range []string{"Tomatoes", "carrots", "brown rice"} {
		once := NormalizeItem(s)
		if twice := NormalizeItem(once); twice != once {
			t.Errorf("NormalizeItem not idempotent for %q: %q != %q", s, once, twice)
		}
	}
}
