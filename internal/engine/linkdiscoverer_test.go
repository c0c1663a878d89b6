package engine

import "testing"

func TestFindLinks_PaginationFirst(t *testing.T) {
	html := `
		<a href="/products/a">Product A</a>
		<a href="/?page=2">Next</a>
		<a href="/about">About</a>
	`
	got := FindLinks(html, "https://shop.test/", "")
	want := []string{
		"https://shop.test?page=2",
		"https://shop.test/products/a",
		"https://shop.test/about",
	}
	if len(got) != len(want) {
		t.Fatalf("FindLinks() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FindLinks()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFindLinks_ClassifiesByText(t *testing.T) {
	html := `<a href="/listing/2">Load more</a>`
	got := FindLinks(html, "https://shop.test/", "")
	if len(got) != 1 || got[0] != "https://shop.test/listing/2" {
		t.Errorf("FindLinks() = %v, want [https://shop.test/listing/2]", got)
	}
}

func TestFindLinks_SkipsExternalHosts(t *testing.T) {
	html := `<a href="https://other.test/x">External</a><a href="/internal">Internal</a>`
	got := FindLinks(html, "https://shop.test/", "")
	want := []string{"https://shop.test/internal"}
	if len(got) != len(want) || got[0] != want[0] {
		t.Errorf("FindLinks() = %v, want %v", got, want)
	}
}

func TestFindLinks_DedupesWithinGroup(t *testing.T) {
	html := `<a href="/a">One</a><a href="/a">Again</a>`
	got := FindLinks(html, "https://shop.test/", "")
	if len(got) != 1 {
		t.Errorf("FindLinks() = %v, want 1 entry", got)
	}
}

func TestFindLinks_ExplicitHostFilter(t *testing.T) {
	html := `<a href="https://cdn.shop.test/x">CDN</a>`
	got := FindLinks(html, "https://shop.test/", "cdn.shop.test")
	if len(got) != 1 || got[0] != "https://cdn.shop.test/x" {
		t.Errorf("FindLinks() = %v, want [https://cdn.shop.test/x]", got)
	}
}
