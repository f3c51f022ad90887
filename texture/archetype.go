package texture

import (
	"fmt"
	"strings"
)

// Archetype selects the surface generation rules for a body.
type Archetype int

const (
	Rocky Archetype = iota
	GasGiant
	WaterWorld
	EarthLike
)

var archetypeNames = map[Archetype]string{
	Rocky:      "rocky",
	GasGiant:   "gasGiant",
	WaterWorld: "waterWorld",
	EarthLike:  "earthLike",
}

func (a Archetype) String() string {
	if s, ok := archetypeNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Archetype(%d)", int(a))
}

// ParseArchetype accepts the canonical names and the short forms
// "rock", "gas", "water" and "earth", case-insensitively.
func ParseArchetype(s string) (Archetype, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rocky", "rock":
		return Rocky, nil
	case "gasgiant", "gas_giant", "gas":
		return GasGiant, nil
	case "waterworld", "water_world", "water":
		return WaterWorld, nil
	case "earthlike", "earth_like", "earth":
		return EarthLike, nil
	}
	return 0, fmt.Errorf("unknown archetype %q", s)
}

func (a Archetype) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Archetype) UnmarshalText(b []byte) error {
	v, err := ParseArchetype(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
