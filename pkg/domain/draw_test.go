package domain

import "testing"

func TestParseDrawType(t *testing.T) {
	tests := []struct {
		in      string
		want    DrawType
		wantErr bool
	}{
		{"single", DrawSingle, false},
		{"ten", DrawTen, false},
		{"TEN", "", true},
		{"", "", true},
		{"five", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDrawType(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDrawType(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDrawType(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDrawTypeCostAndCount(t *testing.T) {
	if DrawSingle.Cost() != 1 || DrawSingle.Count() != 1 {
		t.Errorf("single: cost=%d count=%d, want 1/1", DrawSingle.Cost(), DrawSingle.Count())
	}
	if DrawTen.Cost() != 10 || DrawTen.Count() != 10 {
		t.Errorf("ten: cost=%d count=%d, want 10/10", DrawTen.Cost(), DrawTen.Count())
	}
}
