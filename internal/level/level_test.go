package level

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wallbreaker/internal/config"
	"wallbreaker/internal/game"
)

const smallLevel = `{
  "name": "small",
  "width": 3,
  "height": 2,
  "tiles": [0, 0, 0, 1, 1, 15],
  "entities": [
    {"kind": "enemy", "x": 5.5, "y": 6.55},
    {"kind": "ring", "x": 20, "y": 3, "health": 5, "sign": true}
  ]
}`

func TestParse(t *testing.T) {
	l, err := Parse(strings.NewReader(smallLevel))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if l.Name != "small" || l.Width != 3 || l.Height != 2 {
		t.Errorf("level = %+v", l)
	}

	ps := l.Placements()
	if len(ps) != 2 {
		t.Fatalf("placements = %d, want 2", len(ps))
	}
	if ps[0].Kind != game.KindEnemy || ps[0].Pos != (game.Vec{X: 5.5, Y: 6.55}) {
		t.Errorf("first placement = %+v", ps[0])
	}
	if ps[1].Kind != game.KindRing || ps[1].Health != 5 || !ps[1].IsSign {
		t.Errorf("second placement = %+v", ps[1])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"not json", `{`, "decode level"},
		{"unknown field", `{"width":1,"height":1,"tiles":[0],"bogus":1}`, "decode level"},
		{"zero size", `{"width":0,"height":1,"tiles":[]}`, "dimensions"},
		{"tile count", `{"width":2,"height":2,"tiles":[0,0,0]}`, "needs 4 tiles"},
		{"negative tile", `{"width":1,"height":1,"tiles":[-3]}`, "negative code"},
		{"bad kind", `{"width":1,"height":1,"tiles":[0],"entities":[{"kind":"dragon"}]}`, "unknown entity kind"},
		{"negative health", `{"width":1,"height":1,"tiles":[0],"entities":[{"kind":"enemy","health":-1}]}`, "negative health"},
		{"too big", `{"width":2000,"height":2000,"tiles":[]}`, "exceeds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "small.json")
	if err := os.WriteFile(path, []byte(smallLevel), 0o644); err != nil {
		t.Fatal(err)
	}

	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if l.Name != "small" {
		t.Errorf("name = %q", l.Name)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestGrid(t *testing.T) {
	l, err := Parse(strings.NewReader(smallLevel))
	if err != nil {
		t.Fatal(err)
	}
	g, err := l.Grid(11)
	if err != nil {
		t.Fatal(err)
	}
	if g.Width() != 3 || g.Height() != 2 || g.Tiles()[3] != 1 {
		t.Errorf("grid %dx%d tiles %v", g.Width(), g.Height(), g.Tiles())
	}
}

func TestDefaultArena(t *testing.T) {
	sim := config.DefaultSim()
	l := Default(sim.TileSize)
	if err := l.Validate(); err != nil {
		t.Fatalf("default arena invalid: %v", err)
	}

	g, err := l.Grid(sim.TileSize)
	if err != nil {
		t.Fatal(err)
	}
	w := game.NewWorld(game.WorldConfig{
		Sim:        sim,
		Limits:     config.DefaultLimits(),
		Grid:       g,
		Placements: l.Placements(),
	})

	if _, hit := g.CollidingTile(w.Player().Pos); hit {
		t.Error("player spawn must be clear of walls")
	}

	signs := 0
	for _, e := range w.Entities() {
		if e.BelowIndex < 0 {
			t.Errorf("%s %d at %+v should stand on a tile", e.Kind, e.ID, e.Pos)
		}
		if _, hit := g.CollidingTile(e.Pos); hit {
			t.Errorf("%s %d at %+v overlaps a wall", e.Kind, e.ID, e.Pos)
		}
		if e.IsSign {
			signs++
		}
	}
	if signs != 1 {
		t.Errorf("signs = %d, want 1", signs)
	}
}
