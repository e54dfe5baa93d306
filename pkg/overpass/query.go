package overpass

import (
	"fmt"
	"strconv"
)

// serverTimeoutSeconds is the timeout hint declared in the query itself; the
// Overpass server aborts evaluation after this many seconds.
const serverTimeoutSeconds = 30

// BuildQuery produces an Overpass QL query selecting cultural heritage POIs
// within radiusMeters of (lat, lon): anything tagged heritage or historic,
// plus museums, across nodes, ways and relations. Area features are returned
// with a computed center and all tags attached.
//
// The builder does not validate its inputs; callers are expected to reject a
// non-positive radius before getting here.
func BuildQuery(lat, lon, radiusMeters float64) string {
	around := fmt.Sprintf("around:%s,%s,%s",
		formatCoord(radiusMeters), formatCoord(lat), formatCoord(lon))

	return fmt.Sprintf(`[out:json][timeout:%d];
(
  node["heritage"](%[2]s);
  way["heritage"](%[2]s);
  relation["heritage"](%[2]s);

  node["historic"](%[2]s);
  way["historic"](%[2]s);
  relation["historic"](%[2]s);

  node["tourism"="museum"](%[2]s);
  way["tourism"="museum"](%[2]s);
  relation["tourism"="museum"](%[2]s);
);
out center tags;`, serverTimeoutSeconds, around)
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
