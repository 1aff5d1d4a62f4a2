package catalog

import (
	"testing"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		in   string
		want model.ProductType
		ok   bool
	}{
		{"sachets fond plat", model.ProductFlatBottomSachet, true},
		{"5000 SACHETS kraft", model.ProductFlatBottomSachet, true},
		{"Sac fond carré avec poignées torsadées", model.ProductSquareBottomTwisted, true},
		{"sacs avec poignees torsadees 32x45", model.ProductSquareBottomTwisted, true},
		{"sac poignées plates", model.ProductSquareBottomFlat, true},
		{"sac fond carre sans poignee", model.ProductSquareBottomPlain, true},
		{"sac fond carré", model.ProductSquareBottomPlain, true},
		{"cartons", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := Match(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Match(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestProduct(t *testing.T) {
	for _, pt := range model.ProductTypes {
		p, ok := Product(pt)
		if !ok {
			t.Fatalf("missing catalog entry for %q", pt)
		}
		if p.Code == "" || p.Description == "" || p.Type != pt {
			t.Fatalf("incomplete catalog entry: %+v", p)
		}
	}
	if _, ok := Product("carton"); ok {
		t.Fatal("unexpected catalog entry")
	}
}

func TestSuggestArticleCode(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"kraft blanchi 100g laize 28 mondi", "KB100L28MON"},
		{"Kraft écru 70 g/m2, laize: 30", "KE70L30"},
		{"papier kraft naturel nordic", "KE80NOR"},
		{"blanchi grammage 120 l35 smurfit", "KB120L35SMU"},
		{"sachets fond plat", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SuggestArticleCode(tc.in); got != tc.want {
			t.Errorf("SuggestArticleCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseArticleCode(t *testing.T) {
	code, err := ParseArticleCode("KB100L28MON")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := ArticleCode{PaperType: "Kraft Blanchi", Grammage: 100, Laize: 28, Supplier: "Mondi"}
	if code != want {
		t.Fatalf("unexpected decode: %+v", code)
	}

	code, err = ParseArticleCode("ke80")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code.PaperType != "Kraft Écru" || code.Grammage != 80 || code.Laize != 0 {
		t.Fatalf("unexpected decode: %+v", code)
	}

	if _, err := ParseArticleCode("XX12"); err == nil {
		t.Fatal("expected error for unknown paper type")
	}
}
