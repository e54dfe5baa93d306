package describe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeGenerator counts upstream calls and can be told to fail or block.
type fakeGenerator struct {
	calls     int32
	fail      bool
	started   chan struct{} // when set, closed on the first call
	startOnce sync.Once
	release   chan struct{} // when set, calls block until closed
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.started != nil {
		f.startOnce.Do(func() { close(f.started) })
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.fail {
		return "", errors.New("upstream unavailable")
	}
	return "text for " + prompt, nil
}

func TestDescribeCachesPerSite(t *testing.T) {
	gen := &fakeGenerator{}
	enricher := NewEnricher(gen)
	cache := NewCache()

	first, err := enricher.Describe(context.Background(), cache, "node/1", "Taj Mahal", "Uttar Pradesh")
	if err != nil {
		t.Fatalf("first Describe failed: %v", err)
	}
	second, err := enricher.Describe(context.Background(), cache, "node/1", "Taj Mahal", "Uttar Pradesh")
	if err != nil {
		t.Fatalf("second Describe failed: %v", err)
	}
	if first != second {
		t.Errorf("cached text differs: %q vs %q", first, second)
	}
	if got := atomic.LoadInt32(&gen.calls); got != 1 {
		t.Errorf("upstream calls = %d, want exactly 1", got)
	}
}

func TestDescribeFailureLeavesCacheEmpty(t *testing.T) {
	gen := &fakeGenerator{fail: true}
	enricher := NewEnricher(gen)
	cache := NewCache()

	if _, err := enricher.Describe(context.Background(), cache, "node/2", "Old Fort", ""); err == nil {
		t.Fatalf("expected error from failing generator")
	}
	if cache.Len() != 0 {
		t.Errorf("failed enrichment must not populate the cache")
	}

	// A later call may retry and succeed.
	gen.fail = false
	text, err := enricher.Describe(context.Background(), cache, "node/2", "Old Fort", "")
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if text == "" {
		t.Errorf("retry returned empty text")
	}
	if got := atomic.LoadInt32(&gen.calls); got != 2 {
		t.Errorf("upstream calls = %d, want 2 (one failure, one retry)", got)
	}
}

func TestDescribeConcurrentSameIDDeduplicates(t *testing.T) {
	gen := &fakeGenerator{started: make(chan struct{}), release: make(chan struct{})}
	enricher := NewEnricher(gen)
	cache := NewCache()

	const callers = 5
	var wg sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)

	// Leader first: it reaches the generator and blocks there.
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = enricher.Describe(context.Background(), cache, "node/3", "Gateway", "")
	}()
	<-gen.started

	// Followers pile up on the in-flight fetch while the leader is blocked.
	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = enricher.Describe(context.Background(), cache, "node/3", "Gateway", "")
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(gen.release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d failed: %v", i, errs[i])
		}
		if results[i] != results[0] {
			t.Errorf("caller %d got %q, want %q", i, results[i], results[0])
		}
	}
	if got := atomic.LoadInt32(&gen.calls); got != 1 {
		t.Errorf("upstream calls = %d, want 1 for concurrent requests on one id", got)
	}
}

func TestDescribeIndependentSites(t *testing.T) {
	gen := &fakeGenerator{}
	enricher := NewEnricher(gen)
	cache := NewCache()

	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("node/%d", i)
		if _, err := enricher.Describe(context.Background(), cache, id, "site", ""); err != nil {
			t.Fatalf("Describe(%s) failed: %v", id, err)
		}
	}
	if got := atomic.LoadInt32(&gen.calls); got != 3 {
		t.Errorf("upstream calls = %d, want one per distinct id", got)
	}
}

func TestRegionHint(t *testing.T) {
	tests := []struct {
		name string
		tags map[string]string
		want string
	}{
		{"direct state tag wins", map[string]string{"state": "Rajasthan", "is_in:state": "Punjab"}, "Rajasthan"},
		{"is_in fallback", map[string]string{"is_in:state": "Kerala"}, "Kerala"},
		{"no hint", map[string]string{"name": "x"}, ""},
		{"nil tags", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RegionHint(tt.tags); got != tt.want {
				t.Errorf("RegionHint(%v) = %q, want %q", tt.tags, got, tt.want)
			}
		})
	}
}

func TestPrompt(t *testing.T) {
	p := Prompt("Taj Mahal", "")
	if !strings.Contains(p, `"Taj Mahal"`) || !strings.Contains(p, "India") {
		t.Errorf("default prompt = %q", p)
	}
	p = Prompt("Hawa Mahal", "Rajasthan")
	if !strings.Contains(p, "Rajasthan") {
		t.Errorf("state hint missing from %q", p)
	}
}

func TestRegistrySessionsAreIsolated(t *testing.T) {
	reg := NewRegistry()
	a, b := reg.NewSession(), reg.NewSession()
	if a == b {
		t.Fatalf("session ids must be unique")
	}
	reg.Cache(a).Put("node/1", "text")
	if _, ok := reg.Cache(b).Get("node/1"); ok {
		t.Errorf("caches must not leak across sessions")
	}
	if text, ok := reg.Cache(a).Get("node/1"); !ok || text != "text" {
		t.Errorf("session cache lost its entry")
	}

	reg.Drop(a)
	if _, ok := reg.Cache(a).Get("node/1"); ok {
		t.Errorf("dropped session must start empty")
	}
}
