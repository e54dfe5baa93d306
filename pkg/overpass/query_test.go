package overpass

import (
	"strings"
	"testing"
)

func TestBuildQuery(t *testing.T) {
	query := BuildQuery(27.1751, 78.0421, 5000)

	if !strings.HasPrefix(query, "[out:json][timeout:30];") {
		t.Errorf("query missing json/timeout header: %q", query)
	}
	if !strings.HasSuffix(query, "out center tags;") {
		t.Errorf("query must request centers and tags: %q", query)
	}

	selectors := []string{`["heritage"]`, `["historic"]`, `["tourism"="museum"]`}
	kinds := []string{"node", "way", "relation"}
	for _, sel := range selectors {
		for _, kind := range kinds {
			want := kind + sel + "(around:5000,27.1751,78.0421);"
			if !strings.Contains(query, want) {
				t.Errorf("query missing clause %q", want)
			}
		}
	}
}

func TestBuildQueryIsPure(t *testing.T) {
	a := BuildQuery(10.5, 20.25, 1500)
	b := BuildQuery(10.5, 20.25, 1500)
	if a != b {
		t.Errorf("BuildQuery is not deterministic:\n%s\n%s", a, b)
	}
}
