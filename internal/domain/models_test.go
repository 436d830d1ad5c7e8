package domain

import "testing"

func TestFoldNameMatchesFullCaseFolding(t *testing.T) {
	pairs := [][2]string{
		{"Zeus", "zeus"},
		{"Straße", "STRASSE"},
	}
	for _, p := range pairs {
		if FoldName(p[0]) != FoldName(p[1]) {
			t.Fatalf("expected %q and %q to fold together: %q vs %q", p[0], p[1], FoldName(p[0]), FoldName(p[1]))
		}
	}
	if FoldName("Loki") == FoldName("Thor") {
		t.Fatalf("distinct names folded together")
	}
}

func TestAcceptableResults(t *testing.T) {
	for r, want := range map[ResultType]bool{
		ResultCorrect:  true,
		ResultArguable: true,
		ResultObscure:  true,
		ResultMiss:     false,
	} {
		if r.Acceptable() != want {
			t.Fatalf("%v acceptable = %v, want %v", r, r.Acceptable(), want)
		}
	}
}

func TestDailyProgressResumable(t *testing.T) {
	cases := []struct {
		progress DailyProgress
		want     bool
	}{
		{DailyProgress{}, true},
		{DailyProgress{Position: 4, Score: 4}, true},
		{DailyProgress{Position: -1}, false},
		{DailyProgress{Position: 2, Score: -1}, false},
		{DailyProgress{Position: 2, Score: 3}, false},
	}
	for _, c := range cases {
		if got := c.progress.Resumable(); got != c.want {
			t.Fatalf("Resumable(%+v) = %v, want %v", c.progress, got, c.want)
		}
	}
}
