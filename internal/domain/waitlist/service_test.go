package waitlist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"pet-care-marketplace/internal/domain/tenancy"
)

type testRepo struct {
	items []Entry
}

func (r *testRepo) Create(_ context.Context, e Entry) error {
	for _, o := range r.items {
		if o.Email == e.Email && o.Type == e.Type {
			return tenancy.ErrDuplicate
		}
	}
	r.items = append(r.items, e)
	return nil
}

func (r *testRepo) List(_ context.Context, typ Type, offset, limit int) ([]Entry, int, error) {
	out := make([]Entry, 0)
	for i := len(r.items) - 1; i >= 0; i-- {
		if typ == "" || r.items[i].Type == typ {
			out = append(out, r.items[i])
		}
	}
	total := len(out)
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *testRepo) CountByType(_ context.Context) (map[Type]int, error) {
	m := map[Type]int{}
	for _, e := range r.items {
		m[e.Type]++
	}
	return m, nil
}

func (r *testRepo) CountSince(_ context.Context, since time.Time) (int, error) {
	n := 0
	for _, e := range r.items {
		if !e.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func TestJoin_DefaultsAndNormalizes(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo, nil)

	e, err := svc.Join(context.Background(), JoinInput{Email: "  Ana@Example.com "})
	if err != nil {
		t.Fatalf("Join error: %v", err)
	}
	if e.Type != TypeGeneral || e.Email != "ana@example.com" {
		t.Fatalf("unexpected entry %+v", e)
	}
}

func TestJoin_DuplicatePerType(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo, nil)
	ctx := context.Background()

	if _, err := svc.Join(ctx, JoinInput{Email: "a@b.com", Type: "mobile_app"}); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if _, err := svc.Join(ctx, JoinInput{Email: "A@B.com", Type: "mobile_app"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, err := svc.Join(ctx, JoinInput{Email: "a@b.com", Type: "business_app"}); err != nil {
		t.Fatalf("different type should be allowed: %v", err)
	}
	if len(repo.items) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(repo.items))
	}
}

func TestJoin_Invalid(t *testing.T) {
	svc := NewService(&testRepo{}, nil)
	ctx := context.Background()

	for _, in := range []JoinInput{
		{Email: "not-an-email"},
		{Email: ""},
		{Email: "a@b.com", Type: "desktop"},
	} {
		if _, err := svc.Join(ctx, in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
}

func TestStats_Buckets(t *testing.T) {
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)
	repo := &testRepo{items: []Entry{
		{ID: "1", Email: "a@x.com", Type: TypeGeneral, CreatedAt: now.AddDate(0, 0, -40)},
		{ID: "2", Email: "b@x.com", Type: TypeMobileApp, CreatedAt: now.AddDate(0, 0, -20)},
		{ID: "3", Email: "c@x.com", Type: TypeMobileApp, CreatedAt: now.AddDate(0, 0, -3)},
		{ID: "4", Email: "d@x.com", Type: TypeBusinessApp, CreatedAt: now.Add(-time.Hour)},
	}}
	svc := NewService(repo, nil)
	svc.now = func() time.Time { return now }

	st, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if st.Total != 4 || st.ByType[TypeMobileApp] != 2 || st.ByType[TypeGeneral] != 1 {
		t.Fatalf("unexpected counts %+v", st)
	}
	if st.Today != 1 || st.Last7Days != 2 || st.Last30Days != 3 {
		t.Fatalf("unexpected buckets today=%d 7d=%d 30d=%d", st.Today, st.Last7Days, st.Last30Days)
	}
	if len(st.Recent) != 4 || st.Recent[0].ID != "4" {
		t.Fatalf("unexpected recent %+v", st.Recent)
	}
}

func TestJoin_InvalidTypesShareOneMetricLabel(t *testing.T) {
	svc := NewService(&testRepo{}, nil)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		_, err := svc.Join(ctx, JoinInput{Email: "a@b.com", Type: fmt.Sprintf("junk-%d", i)})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	}

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	series := 0
	for _, mf := range families {
		if mf.GetName() != "petcare_waitlist_joins_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			series++
			for _, l := range m.GetLabel() {
				if l.GetName() == "type" && strings.HasPrefix(l.GetValue(), "junk-") {
					t.Fatalf("raw type leaked into label: %q", l.GetValue())
				}
			}
		}
	}
	// (3 tipos + unknown) x (created, duplicate, invalid)
	if series == 0 || series > (len(Types())+1)*3 {
		t.Fatalf("unexpected series count %d", series)
	}
}
