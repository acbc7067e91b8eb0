package combos

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	got, err := Parse(strings.NewReader("# header\nStar\n\n  moon \n#skip\nsun\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"star", "moon", "sun"}
	if len(got) != len(want) {
		t.Fatalf("Parse() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("group %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseRejects(t *testing.T) {
	tests := map[string]string{
		"empty":     "# nothing here\n\n",
		"duplicate": "star\nSTAR\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(in)); err == nil {
				t.Errorf("expected error for %q", in)
			}
		})
	}
}

func TestInitEmbeddedDefault(t *testing.T) {
	t.Setenv("COMBOS_FILE", "")
	if err := Init(""); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if Count() != 12 {
		t.Errorf("Count() = %d, want 12", Count())
	}
	if MaxCards() != 144 {
		t.Errorf("MaxCards() = %d, want 144", MaxCards())
	}
	g := Groups()
	g[0] = "mutated"
	if Groups()[0] != "triangle" {
		t.Error("Groups() exposed internal slice")
	}
}
