package employees

import (
	"errors"
	"testing"
)

func TestCheckDeactivation(t *testing.T) {
	if err := CheckDeactivation(0); err != nil {
		t.Fatalf("expected nil with no open bookings, got %v", err)
	}
	if err := CheckDeactivation(1); !errors.Is(err, ErrEmployeeInUse) {
		t.Fatalf("expected ErrEmployeeInUse, got %v", err)
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name         string
		aStart, aDur int
		bStart, bDur int
		want         bool
	}{
		{"same slot", 600, 60, 600, 60, true},
		{"starts inside", 630, 60, 600, 60, true},
		{"contains", 540, 180, 600, 30, true},
		{"ends exactly at start", 540, 60, 600, 60, false},
		{"starts exactly at end", 660, 30, 600, 60, false},
		{"far apart", 480, 30, 900, 30, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.aStart, tc.aDur, tc.bStart, tc.bDur); got != tc.want {
				t.Fatalf("Overlaps=%v want %v", got, tc.want)
			}
			if got := Overlaps(tc.bStart, tc.bDur, tc.aStart, tc.aDur); got != tc.want {
				t.Fatalf("Overlaps not symmetric")
			}
		})
	}
}

func TestReferenceListsAreCopies(t *testing.T) {
	p := Positions()
	p[0] = "changed"
	if Positions()[0] == "changed" {
		t.Fatalf("expected Positions to return a copy")
	}
	if len(Skills()) == 0 {
		t.Fatalf("expected skills")
	}
}
