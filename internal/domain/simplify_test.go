package domain

import "testing"

func TestSimplify(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.Foo.Co.UK/x", "foo_co_uk"},
		{"https://example.com/", "example_com"},
		{"http://shop.test/products/a", "shop_test"},
		{"https://sub.domain.example.com/", "example_com"},
	}

	for _, c := range cases {
		got, err := Simplify(c.url)
		if err != nil {
			t.Fatalf("Simplify(%q) error = %v", c.url, err)
		}
		if got != c.want {
			t.Errorf("Simplify(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}

func TestSimplify_InvalidURL(t *testing.T) {
	if _, err := Simplify("://bad"); err == nil {
		t.Error("expected error for malformed URL")
	}
}

func TestSimplify_Idempotent(t *testing.T) {
	first, err := Simplify("https://www.Foo.Co.UK/x")
	if err != nil {
		t.Fatal(err)
	}
	second, err := Simplify("https://" + first)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("Simplify not stable across re-application: %q != %q", first, second)
	}
}
