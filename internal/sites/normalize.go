// Package sites turns raw geodata elements into normalized heritage sites and
// ranks them by distance from a reference point.
package sites

import (
	"fmt"

	"heritage/internal/models"
)

// UnnamedPlace is the display name for elements carrying no name tag.
const UnnamedPlace = "Unnamed place"

// DefaultCategory is the classification for elements carrying none of the
// recognized category tags.
const DefaultCategory = "cultural"

// Normalize maps raw elements to Sites, preserving input order. Elements for
// which neither a direct coordinate nor a center resolves to two finite
// numbers are dropped. The function is total: missing fields degrade to
// fallback values and never cause an error.
func Normalize(elements []models.RawElement) []models.Site {
	result := make([]models.Site, 0, len(elements))
	for _, el := range elements {
		point, ok := el.Point()
		if !ok {
			continue
		}
		result = append(result, models.Site{
			ID:        fmt.Sprintf("%s/%d", el.Type, el.ID),
			Name:      displayName(el.Tags),
			Category:  classify(el.Tags),
			Lat:       point.Lat,
			Lon:       point.Lon,
			Wikidata:  el.Tags["wikidata"],
			Wikipedia: el.Tags["wikipedia"],
			OSM:       models.OSMRef{Type: el.Type, ID: el.ID},
			RawTags:   tagsOrEmpty(el.Tags),
		})
	}
	return result
}

// displayName prefers the English-localized name, then the generic name tag.
func displayName(tags map[string]string) string {
	if v := tags["name:en"]; v != "" {
		return v
	}
	if v := tags["name"]; v != "" {
		return v
	}
	return UnnamedPlace
}

// classify picks the site category with fixed precedence: heritage, historic,
// tourism, amenity.
func classify(tags map[string]string) string {
	for _, key := range []string{"heritage", "historic", "tourism", "amenity"} {
		if v := tags[key]; v != "" {
			return v
		}
	}
	return DefaultCategory
}

func tagsOrEmpty(tags map[string]string) map[string]string {
	if tags == nil {
		return map[string]string{}
	}
	return tags
}
