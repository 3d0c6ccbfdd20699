package postgres

import (
	"testing"

	"analysis-service/internal/core/domain"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }

func TestApplyFiltersEmpty(t *testing.T) {
	where, args := applyFilters(domain.PropertyFilters{})

	if where != "" {
		t.Errorf("expected empty WHERE clause, got %q", where)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestApplyFiltersPriceRange(t *testing.T) {
	where, args := applyFilters(domain.PropertyFilters{
		PriceMin: floatPtr(100000),
		PriceMax: floatPtr(500000),
	})

	want := "WHERE p.price >= $1 AND p.price <= $2"
	if where != want {
		t.Errorf("where = %q, want %q", where, want)
	}
	if len(args) != 2 || args[0] != 100000.0 || args[1] != 500000.0 {
		t.Errorf("args = %v, want [100000 500000]", args)
	}
}

func TestApplyFiltersAllFields(t *testing.T) {
	where, args := applyFilters(domain.PropertyFilters{
		PriceMin:     floatPtr(100000),
		PriceMax:     floatPtr(500000),
		BedroomsMin:  intPtr(3),
		BathroomsMin: floatPtr(2),
		PropertyType: strPtr("single_family"),
		City:         strPtr("Austin"),
		State:        strPtr("TX"),
		ZipCode:      strPtr("78701"),
		ScoreMin:     floatPtr(70),
	})

	want := "WHERE p.price >= $1 AND p.price <= $2 AND p.bedrooms >= $3 AND p.bathrooms >= $4" +
		" AND p.property_type = $5 AND p.city = $6 AND p.state = $7 AND p.zip_code = $8 AND p.score >= $9"
	if where != want {
		t.Errorf("where = %q, want %q", where, want)
	}
	if len(args) != 9 {
		t.Fatalf("expected 9 args, got %d: %v", len(args), args)
	}
	if args[4] != "single_family" || args[7] != "78701" {
		t.Errorf("unexpected string args: %v", args)
	}
}

func TestApplyFiltersSkipsEmptyStrings(t *testing.T) {
	where, args := applyFilters(domain.PropertyFilters{
		City:  strPtr(""),
		State: strPtr("CA"),
	})

	want := "WHERE p.state = $1"
	if where != want {
		t.Errorf("where = %q, want %q", where, want)
	}
	if len(args) != 1 || args[0] != "CA" {
		t.Errorf("args = %v, want [CA]", args)
	}
}
