package heuristic

import (
	"fmt"

	"github.com/brensch/snekfang/game"
)

// Config selects the priority policy.
type Config struct {
	Pursuit         string    // proximity, largest or none
	PursuitDistance int       // head distance threshold for proximity
	Forage          bool      // chase uncontested food
	Fallback        game.Move // returned when no move is safe
}

func DefaultConfig() Config {
	return Config{
		Pursuit:         PursuitProximity,
		PursuitDistance: 2,
		Forage:          true,
		Fallback:        game.MoveUp,
	}
}

func (c Config) Validate() error {
	if _, err := ParsePursuitRule(c.Pursuit, c.PursuitDistance); err != nil {
		return fmt.Errorf("pursuit: %w", err)
	}
	if c.Fallback < game.MoveUp || c.Fallback > game.MoveRight {
		return fmt.Errorf("fallback: invalid move %d", int(c.Fallback))
	}
	return nil
}

// Strategies returns the ordered strategy list: pursuit, forage, explore.
func (c Config) Strategies() ([]Strategy, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	rule, _ := ParsePursuitRule(c.Pursuit, c.PursuitDistance)

	out := make([]Strategy, 0, 3)
	if _, none := rule.(NoPursuit); !none {
		out = append(out, PursuitStrategy{Rule: rule})
	}
	if c.Forage {
		out = append(out, ForageStrategy{})
	}
	out = append(out, ExploreStrategy{})
	return out, nil
}
