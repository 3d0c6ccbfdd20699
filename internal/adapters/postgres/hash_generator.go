package postgres

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"analysis-service/internal/core/domain"

	"github.com/mmcloughlin/geohash"
)

const geohashPrecision = 5

var nonAddressChars = strings.NewReplacer(",", "", ".", "", "#", "", "-", " ")

// normalizeAddress упрощает адрес для стабильного хэширования
func normalizeAddress(addr string) string {
	lower := strings.ToLower(strings.TrimSpace(addr))
	return strings.Join(strings.Fields(nonAddressChars.Replace(lower)), " ")
}

// buildLocationPayload создает стабильную строку из географии объекта.
// Геохэш с точностью 5 (~5 км) группирует объявления одного района, даже
// когда источники отдают слегка разные координаты одного дома.
func buildLocationPayload(p *domain.Property) string {
	parts := make([]string, 0, 4)

	if p.Latitude != nil && p.Longitude != nil {
		geohsh := geohash.Encode(*p.Latitude, *p.Longitude)
		parts = append(parts, geohsh[:geohashPrecision])
	} else {
		parts = append(parts, "null")
	}

	parts = append(parts,
		normalizeAddress(p.Address),
		strings.ToLower(strings.TrimSpace(p.City)),
		strings.ToLower(strings.TrimSpace(p.ZipCode)),
	)

	return strings.Join(parts, "|")
}

// calculateLocationHash вычисляет SHA256 хэш географии объекта.
func calculateLocationHash(p *domain.Property) string {
	h := sha256.New()
	h.Write([]byte(buildLocationPayload(p)))
	return fmt.Sprintf("%x", h.Sum(nil))
}
