package game

import (
	"math/rand"
	"sort"
	"strings"
	"testing"
)

var noFood = FoodSettings{MinimumFood: 0, FoodSpawnChance: 0}

func seeded() *rand.Rand { return rand.New(rand.NewSource(1)) }

// dumpState renders the board top row first; heads are uppercase.
func dumpState(state *GameState) string {
	grid := make([][]byte, state.Height)
	for y := int32(0); y < state.Height; y++ {
		grid[y] = make([]byte, state.Width)
		for x := int32(0); x < state.Width; x++ {
			grid[y][x] = '.'
		}
	}
	for _, f := range state.Food {
		if state.InBounds(f) {
			grid[f.Y][f.X] = '*'
		}
	}
	for i, s := range state.Snakes {
		sym := byte('a' + i)
		for j := len(s.Body) - 1; j >= 0; j-- {
			p := s.Body[j]
			if !state.InBounds(p) {
				continue
			}
			if j == 0 {
				grid[p.Y][p.X] = sym - 32
			} else {
				grid[p.Y][p.X] = sym
			}
		}
	}
	var sb strings.Builder
	for y := int32(0); y < state.Height; y++ {
		sb.WriteString(string(grid[y]))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func logStep(t *testing.T, label string, before *GameState, moves map[string]Move, after *GameState) {
	t.Helper()
	ids := make([]string, 0, len(moves))
	for id := range moves {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var mv []string
	for _, id := range ids {
		mv = append(mv, id+"="+moves[id].String())
	}
	t.Logf("%s\n  BEFORE (moves=%v):\n%s  AFTER:\n%s", label, mv, dumpState(before), dumpState(after))
}

func findSnake(state *GameState, id string) *Snake {
	for i := range state.Snakes {
		if state.Snakes[i].Id == id {
			return &state.Snakes[i]
		}
	}
	return nil
}

func TestNextState_NormalMove_NoFood(t *testing.T) {
	before := &GameState{
		Width:  7,
		Height: 7,
		YouId:  "me",
		Snakes: []Snake{{
			Id:     "me",
			Health: 100,
			Body:   []Point{{X: 3, Y: 3}, {X: 3, Y: 4}, {X: 3, Y: 5}},
		}},
	}

	moves := map[string]Move{"me": MoveUp}
	after := NextStateSimultaneous(before, moves, seeded(), noFood)
	logStep(t, "normal move", before, moves, after)

	got := after.Snakes[0].Body
	want := []Point{{X: 3, Y: 2}, {X: 3, Y: 3}, {X: 3, Y: 4}}
	if len(got) != len(want) {
		t.Fatalf("body len=%d want=%d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("body[%d]=%v want=%v", i, got[i], want[i])
		}
	}
	if after.Snakes[0].Health != 99 {
		t.Fatalf("health=%d want=99", after.Snakes[0].Health)
	}
	if after.Turn != 1 {
		t.Fatalf("turn=%d want=1", after.Turn)
	}
}

func TestNextState_EatFood_GrowsByDuplicatingTail(t *testing.T) {
	before := &GameState{
		Width:  7,
		Height: 7,
		YouId:  "me",
		Snakes: []Snake{{
			Id:     "me",
			Health: 50,
			Body:   []Point{{X: 3, Y: 3}, {X: 3, Y: 4}, {X: 3, Y: 5}},
		}},
		Food: []Point{{X: 3, Y: 2}},
	}

	moves := map[string]Move{"me": MoveUp}
	after := NextStateSimultaneous(before, moves, seeded(), noFood)
	logStep(t, "eat food", before, moves, after)

	got := after.Snakes[0].Body
	want := []Point{{X: 3, Y: 2}, {X: 3, Y: 3}, {X: 3, Y: 4}, {X: 3, Y: 4}}
	if len(got) != len(want) {
		t.Fatalf("body len=%d want=%d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("body[%d]=%v want=%v", i, got[i], want[i])
		}
	}
	if after.Snakes[0].Health != 100 {
		t.Fatalf("health=%d want=100", after.Snakes[0].Health)
	}
	if len(after.Food) != 0 {
		t.Fatalf("food len=%d want=0", len(after.Food))
	}
}

func TestNextState_DoesNotMutateInput(t *testing.T) {
	before := &GameState{
		Width:  7,
		Height: 7,
		YouId:  "me",
		Snakes: []Snake{{Id: "me", Health: 50, Body: []Point{{X: 3, Y: 3}, {X: 3, Y: 4}}}},
		Food:   []Point{{X: 3, Y: 2}},
	}
	snapshot := before.Clone()

	NextStateSimultaneous(before, map[string]Move{"me": MoveUp}, seeded(), DefaultFoodSettings)

	if before.Snakes[0].Body[0] != snapshot.Snakes[0].Body[0] || len(before.Food) != len(snapshot.Food) {
		t.Fatalf("input state was mutated:\n%s", dumpState(before))
	}
}

func TestNextState_WallCollisionEliminates(t *testing.T) {
	before := &GameState{
		Width:  5,
		Height: 5,
		YouId:  "me",
		Snakes: []Snake{{Id: "me", Health: 100, Body: []Point{{X: 0, Y: 0}, {X: 1, Y: 0}}}},
	}

	after := NextStateSimultaneous(before, map[string]Move{"me": MoveLeft}, seeded(), noFood)
	if len(after.Snakes) != 0 {
		t.Fatalf("snakes=%d want=0", len(after.Snakes))
	}
	if !IsGameOver(after, 1) {
		t.Fatalf("solo game should be over once its snake dies")
	}
}

func TestNextState_StarvationEliminates(t *testing.T) {
	before := &GameState{
		Width:  5,
		Height: 5,
		YouId:  "me",
		Snakes: []Snake{{Id: "me", Health: 1, Body: []Point{{X: 2, Y: 2}, {X: 2, Y: 3}}}},
	}

	after := NextStateSimultaneous(before, map[string]Move{"me": MoveUp}, seeded(), noFood)
	if len(after.Snakes) != 0 {
		t.Fatalf("snakes=%d want=0", len(after.Snakes))
	}
}

func TestNextState_MissingMoveEliminates(t *testing.T) {
	before := &GameState{
		Width:  7,
		Height: 7,
		YouId:  "a",
		Snakes: []Snake{
			{Id: "a", Health: 100, Body: []Point{{X: 1, Y: 1}, {X: 1, Y: 2}}},
			{Id: "b", Health: 100, Body: []Point{{X: 5, Y: 5}, {X: 5, Y: 6}}},
		},
	}

	after := NextStateSimultaneous(before, map[string]Move{"a": MoveRight}, seeded(), noFood)
	if findSnake(after, "b") != nil {
		t.Fatalf("snake b should be eliminated without a move")
	}
	if Winner(after) != "a" {
		t.Fatalf("winner=%q want=a", Winner(after))
	}
}

func TestNextStateSimultaneous_HeadToHead(t *testing.T) {
	tests := []struct {
		name      string
		aBody     []Point
		bBody     []Point
		wantAlive []string
	}{
		{
			name:      "longer wins",
			aBody:     []Point{{X: 1, Y: 2}, {X: 0, Y: 2}, {X: 0, Y: 3}},
			bBody:     []Point{{X: 3, Y: 2}, {X: 4, Y: 2}},
			wantAlive: []string{"a"},
		},
		{
			name:      "equal length both die",
			aBody:     []Point{{X: 1, Y: 2}, {X: 0, Y: 2}},
			bBody:     []Point{{X: 3, Y: 2}, {X: 4, Y: 2}},
			wantAlive: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := &GameState{
				Width:  5,
				Height: 5,
				YouId:  "a",
				Snakes: []Snake{
					{Id: "a", Health: 100, Body: tt.aBody},
					{Id: "b", Health: 100, Body: tt.bBody},
				},
			}
			moves := map[string]Move{"a": MoveRight, "b": MoveLeft}
			after := NextStateSimultaneous(before, moves, seeded(), noFood)
			logStep(t, tt.name, before, moves, after)

			if len(after.Snakes) != len(tt.wantAlive) {
				t.Fatalf("alive=%d want=%d", len(after.Snakes), len(tt.wantAlive))
			}
			for _, id := range tt.wantAlive {
				if findSnake(after, id) == nil {
					t.Fatalf("snake %s should be alive", id)
				}
			}
		})
	}
}

func TestNextStateSimultaneous_BodyCollision(t *testing.T) {
	before := &GameState{
		Width:  7,
		Height: 7,
		YouId:  "a",
		Snakes: []Snake{
			{Id: "a", Health: 100, Body: []Point{{X: 2, Y: 1}, {X: 1, Y: 1}}},
			{Id: "b", Health: 100, Body: []Point{{X: 3, Y: 3}, {X: 3, Y: 2}, {X: 3, Y: 1}, {X: 3, Y: 0}}},
		},
	}

	moves := map[string]Move{"a": MoveRight, "b": MoveDown}
	after := NextStateSimultaneous(before, moves, seeded(), noFood)
	logStep(t, "body collision", before, moves, after)

	if findSnake(after, "a") != nil {
		t.Fatalf("snake a ran into b's body and should be eliminated")
	}
	if findSnake(after, "b") == nil {
		t.Fatalf("snake b should survive")
	}
}

func TestNextStateSimultaneous_BothMove_OneEats(t *testing.T) {
	before := &GameState{
		Width:  7,
		Height: 7,
		YouId:  "a",
		Snakes: []Snake{
			{Id: "a", Health: 10, Body: []Point{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}}},
			{Id: "b", Health: 10, Body: []Point{{X: 5, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 5}}},
		},
		Food: []Point{{X: 1, Y: 0}},
	}

	moves := map[string]Move{"a": MoveUp, "b": MoveLeft}
	after := NextStateSimultaneous(before, moves, seeded(), noFood)
	logStep(t, "one eats", before, moves, after)

	a, b := findSnake(after, "a"), findSnake(after, "b")
	if a == nil || b == nil {
		t.Fatalf("expected both snakes alive")
	}
	wantA := []Point{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}}
	if len(a.Body) != len(wantA) {
		t.Fatalf("snake a len=%d want=%d", len(a.Body), len(wantA))
	}
	for i := range wantA {
		if a.Body[i] != wantA[i] {
			t.Fatalf("snake a body[%d]=%v want=%v", i, a.Body[i], wantA[i])
		}
	}
	if a.Health != 100 {
		t.Fatalf("snake a health=%d want=100", a.Health)
	}

	wantB := []Point{{X: 4, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 5}}
	if len(b.Body) != len(wantB) {
		t.Fatalf("snake b len=%d want=%d", len(b.Body), len(wantB))
	}
	for i := range wantB {
		if b.Body[i] != wantB[i] {
			t.Fatalf("snake b body[%d]=%v want=%v", i, b.Body[i], wantB[i])
		}
	}
	if b.Health != 9 {
		t.Fatalf("snake b health=%d want=9", b.Health)
	}
}

func TestFood_MinimumFoodIsEnforced(t *testing.T) {
	state := &GameState{
		Width:  5,
		Height: 5,
		YouId:  "me",
		Snakes: []Snake{{Id: "me", Health: 100, Body: []Point{{X: 2, Y: 2}, {X: 2, Y: 3}, {X: 2, Y: 4}}}},
	}

	SpawnFood(state, seeded(), FoodSettings{MinimumFood: 3, FoodSpawnChance: 0})
	t.Logf("after spawn:\n%s", dumpState(state))

	if len(state.Food) != 3 {
		t.Fatalf("food len=%d want=3", len(state.Food))
	}
	seen := map[Point]bool{}
	for _, f := range state.Food {
		if state.Snakes[0].Occupies(f) {
			t.Fatalf("food spawned on snake at (%d,%d)", f.X, f.Y)
		}
		if seen[f] {
			t.Fatalf("food spawned twice at (%d,%d)", f.X, f.Y)
		}
		seen[f] = true
	}
}

func TestFood_SpawnChanceCanAddExtra(t *testing.T) {
	state := &GameState{
		Width:  5,
		Height: 5,
		YouId:  "me",
		Snakes: []Snake{{Id: "me", Health: 100, Body: []Point{{X: 2, Y: 2}}}},
		Food:   []Point{{X: 0, Y: 0}},
	}

	SpawnFood(state, seeded(), FoodSettings{MinimumFood: 0, FoodSpawnChance: 100})

	if len(state.Food) != 2 {
		t.Fatalf("food len=%d want=2", len(state.Food))
	}
}

func TestFood_FullBoardDoesNotSpawn(t *testing.T) {
	state := &GameState{
		Width:  2,
		Height: 1,
		YouId:  "me",
		Snakes: []Snake{{Id: "me", Health: 100, Body: []Point{{X: 0, Y: 0}, {X: 1, Y: 0}}}},
	}

	SpawnFood(state, seeded(), FoodSettings{MinimumFood: 2, FoodSpawnChance: 100})

	if len(state.Food) != 0 {
		t.Fatalf("food len=%d want=0", len(state.Food))
	}
}

func TestFood_ChanceOnlyRollsAtMinimum(t *testing.T) {
	// Below the minimum the board is topped up exactly, with no extra roll.
	state := &GameState{
		Width:  5,
		Height: 5,
		YouId:  "me",
		Snakes: []Snake{{Id: "me", Health: 100, Body: []Point{{X: 2, Y: 2}}}},
	}
	SpawnFood(state, seeded(), FoodSettings{MinimumFood: 2, FoodSpawnChance: 100})
	if len(state.Food) != 2 {
		t.Fatalf("food len=%d want=2", len(state.Food))
	}
}

func TestFood_SameSeedSamePlacement(t *testing.T) {
	mk := func() *GameState {
		return &GameState{
			Width:  11,
			Height: 11,
			YouId:  "me",
			Snakes: []Snake{{Id: "me", Health: 100, Body: []Point{{X: 5, Y: 5}}}},
		}
	}
	a, b := mk(), mk()
	SpawnFood(a, rand.New(rand.NewSource(9)), FoodSettings{MinimumFood: 4})
	SpawnFood(b, rand.New(rand.NewSource(9)), FoodSettings{MinimumFood: 4})
	for i := range a.Food {
		if a.Food[i] != b.Food[i] {
			t.Fatalf("food[%d] %+v vs %+v", i, a.Food[i], b.Food[i])
		}
	}
}

func TestFood_NoSpawnSettingsNeverDraw(t *testing.T) {
	state := &GameState{Width: 3, Height: 3, YouId: "me"}
	// A nil source is fine when nothing can spawn.
	SpawnFood(state, nil, noFood)
	if len(state.Food) != 0 {
		t.Fatalf("food len=%d want=0", len(state.Food))
	}
}

func TestPlaceStartingFood_DiagonalAwayFromCenter(t *testing.T) {
	state := &GameState{
		Width:  11,
		Height: 11,
		YouId:  "a",
		Snakes: []Snake{
			{Id: "a", Health: 100, Body: []Point{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}}},
			{Id: "b", Health: 100, Body: []Point{{X: 9, Y: 9}, {X: 9, Y: 9}, {X: 9, Y: 9}}},
		},
	}
	PlaceStartingFood(state, seeded())
	t.Logf("\n%s", dumpState(state))

	if len(state.Food) != 3 {
		t.Fatalf("food len=%d want one per snake plus centre", len(state.Food))
	}
	center := Point{X: 5, Y: 5}
	if state.Food[2] != center {
		t.Fatalf("last food=%+v want centre", state.Food[2])
	}
	for i, s := range state.Snakes {
		f := state.Food[i]
		dx, dy := f.X-s.Head().X, f.Y-s.Head().Y
		if abs(int(dx)) != 1 || abs(int(dy)) != 1 {
			t.Fatalf("snake %s food %+v is not diagonal to head", s.Id, f)
		}
		if !awayFromCenter(s.Head(), f, center) {
			t.Fatalf("snake %s food %+v is not away from centre", s.Id, f)
		}
	}
}

func TestPlaceStartingFood_SkipsOccupiedCentre(t *testing.T) {
	state := &GameState{
		Width:  5,
		Height: 5,
		YouId:  "a",
		Snakes: []Snake{{Id: "a", Health: 100, Body: []Point{{X: 2, Y: 2}}}},
	}
	PlaceStartingFood(state, seeded())
	for _, f := range state.Food {
		if f == (Point{X: 2, Y: 2}) {
			t.Fatalf("food placed on the snake in the centre")
		}
	}
}
