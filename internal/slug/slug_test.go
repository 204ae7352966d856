package slug

import "testing"

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Ropa de Niños":     "ropa-de-ninos",
		"  Calzado  ":       "calzado",
		"Bolsos & Carteras": "bolsos-carteras",
		"Lencería":          "lenceria",
		"--x--":             "x",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsSlug(t *testing.T) {
	if !IsSlug("ropa-otros") {
		t.Fatalf("ropa-otros should be a slug")
	}
	for _, s := range []string{"", "a", "Ropa", "ropa_otros", "ropa otros"} {
		if IsSlug(s) {
			t.Fatalf("%q should not be a slug", s)
		}
	}
}
