package textnorm

import "testing"

func TestFold(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Restaurant Salah Eddine", "restaurant salah eddine"},
		{"  RESTAURANT   salah-eddine ", "restaurant salah eddine"},
		{"Café Étoile", "cafe etoile"},
		{"comme d'habitude", "comme d habitude"},
		{"Sac fond carré avec poignées", "sac fond carre avec poignees"},
		{"nafs l7aja!!", "nafs l7aja"},
		{"", ""},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Fold(tc.in); got != tc.want {
			t.Errorf("Fold(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestContainsPhrase(t *testing.T) {
	if !ContainsPhrase("Bonjour, comme d’habitude svp", "comme d'habitude") {
		t.Fatal("expected phrase match across apostrophe variants")
	}
	if !ContainsPhrase("KIF DIMA", "kif dima") {
		t.Fatal("expected case-insensitive match")
	}
	if ContainsPhrase("nous voulons renouveler", "renew") {
		t.Fatal("phrase must match whole words only")
	}
	if ContainsPhrase("anything", "  ") {
		t.Fatal("blank phrase never matches")
	}
}
