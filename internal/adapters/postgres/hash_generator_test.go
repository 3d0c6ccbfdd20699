package postgres

import (
	"testing"

	"analysis-service/internal/core/domain"
)

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123 Main St.", "123 main st"},
		{"  456 Oak Ave, Unit #2  ", "456 oak ave unit 2"},
		{"789 North-West Blvd", "789 north west blvd"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := normalizeAddress(tt.in); got != tt.want {
			t.Errorf("normalizeAddress(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLocationHashStableAcrossSources(t *testing.T) {
	lat, lng := 30.2672, -97.7431

	a := &domain.Property{
		Address:  "123 Main St.",
		City:     "Austin",
		ZipCode:  "78701",
		Latitude: &lat, Longitude: &lng,
		ListingURL: "https://siteone.example/1",
	}

	// То же объявление с другой площадки: чуть другие координаты и регистр
	lat2, lng2 := 30.2675, -97.7428
	b := &domain.Property{
		Address:  "123 MAIN ST",
		City:     "AUSTIN",
		ZipCode:  "78701",
		Latitude: &lat2, Longitude: &lng2,
		ListingURL: "https://sitetwo.example/99",
	}

	if calculateLocationHash(a) != calculateLocationHash(b) {
		t.Error("expected same location hash for the same property from different sources")
	}
}

func TestLocationHashDiffersByAddress(t *testing.T) {
	a := &domain.Property{Address: "123 Main St", City: "Austin", ZipCode: "78701"}
	b := &domain.Property{Address: "125 Main St", City: "Austin", ZipCode: "78701"}

	if calculateLocationHash(a) == calculateLocationHash(b) {
		t.Error("expected different hashes for different addresses")
	}
}

func TestLocationPayloadWithoutCoordinates(t *testing.T) {
	p := &domain.Property{Address: "1 Elm St", City: "Fresno", ZipCode: "93701"}

	want := "null|1 elm st|fresno|93701"
	if got := buildLocationPayload(p); got != want {
		t.Errorf("buildLocationPayload() = %q, want %q", got, want)
	}
}
