package dice

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		notation string
		count    int
		sides    int
		modifier int
		wantErr  bool
	}{
		{notation: "1d20", count: 1, sides: 20},
		{notation: "3d6+2", count: 3, sides: 6, modifier: 2},
		{notation: "2d10-4", count: 2, sides: 10, modifier: -4},
		{notation: "100d6", count: 100, sides: 6},
		{notation: "1d1", count: 1, sides: 1},
		{notation: "d20", wantErr: true},   // count is mandatory
		{notation: "0d6", wantErr: true},   // at least one die
		{notation: "101d6", wantErr: true}, // over the cap
		{notation: "3d0", wantErr: true},   // zero-sided die
		{notation: "3d6+", wantErr: true},
		{notation: "3d6*2", wantErr: true},
		{notation: "abc", wantErr: true},
		{notation: "", wantErr: true},
		{notation: " 3d6", wantErr: true},
	}

	for _, tt := range tests {
		count, sides, modifier, err := Parse(tt.notation)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q) accepted invalid notation", tt.notation)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.notation, err)
			continue
		}
		if count != tt.count || sides != tt.sides || modifier != tt.modifier {
			t.Errorf("Parse(%q) = (%d, %d, %d), want (%d, %d, %d)",
				tt.notation, count, sides, modifier, tt.count, tt.sides, tt.modifier)
		}
	}
}

func TestEvaluateBoundsAndTotal(t *testing.T) {
	for i := 0; i < 50; i++ {
		roll, err := Evaluate("3d6+2")
		if err != nil {
			t.Fatal(err)
		}
		if len(roll.Results) != 3 {
			t.Fatalf("results = %v, want 3 dice", roll.Results)
		}

		sum := 0
		for _, r := range roll.Results {
			if r < 1 || r > 6 {
				t.Fatalf("die result %d out of [1, 6]", r)
			}
			sum += r
		}

		// The modifier counts toward the total.
		if roll.Total != sum+2 {
			t.Fatalf("total = %d, want sum %d + modifier 2", roll.Total, sum)
		}
	}
}

func TestEvaluateNegativeModifier(t *testing.T) {
	roll, err := Evaluate("1d1-5")
	if err != nil {
		t.Fatal(err)
	}
	if roll.Total != -4 {
		t.Fatalf("total = %d, want -4 (1 - 5)", roll.Total)
	}
}

func TestDescribe(t *testing.T) {
	roll := &Roll{Notation: "2d4+1", Results: []int{3, 2}, Total: 6}
	want := "rolled 2d4+1: [3 2] = 6"
	if got := roll.Describe(); got != want {
		t.Fatalf("Describe() = %q, want %q", got, want)
	}
}
