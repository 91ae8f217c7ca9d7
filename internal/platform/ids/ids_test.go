package ids

import (
	"regexp"
	"testing"
	"time"
)

func TestNew_Format(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	id := New(Employee, now)

	re := regexp.MustCompile(`^emp_1748779200000_[0-9a-f]{9}$`)
	if !re.MatchString(id) {
		t.Fatalf("unexpected id format: %s", id)
	}
	if !HasPrefix(id, Employee) {
		t.Fatalf("expected emp prefix")
	}
}

func TestNew_Unique(t *testing.T) {
	now := time.Now()
	seen := map[string]struct{}{}
	for i := 0; i < 500; i++ {
		id := New(Booking, now)
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = struct{}{}
	}
}
