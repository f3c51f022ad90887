// Package catalog defines the orbiting bodies of the scene.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/echoflaresat/orrery/colors"
	"github.com/echoflaresat/orrery/orbit"
	"github.com/echoflaresat/orrery/texture"
	"github.com/echoflaresat/orrery/vectors"
)

var ErrInvalid = errors.New("invalid catalog")

// Body is the immutable configuration of one orbiting body.
type Body struct {
	Name         string            `yaml:"name"`
	Distance     float64           `yaml:"distance"`
	Size         float64           `yaml:"size"`
	BaseColor    colors.Color4     `yaml:"color"`
	DetailColor  colors.Color4     `yaml:"detail_color"`
	AngularSpeed float64           `yaml:"speed"`
	PhaseOffset  float64           `yaml:"offset"`
	Archetype    texture.Archetype `yaml:"type"`
	HasRings     bool              `yaml:"rings"`
}

// Position is the body's centre at elapsed time t.
func (b Body) Position(t float64) vectors.Vec3 {
	return orbit.Position(b.Distance, b.AngularSpeed, b.PhaseOffset, t)
}

func (b Body) TextureKey() texture.Key {
	return texture.NewKey(b.Archetype, b.BaseColor, b.DetailColor)
}

// requiredKeys must be present on every body in a catalog file; their zero
// values are not usable defaults.
var requiredKeys = []string{"color", "detail_color", "type"}

// UnmarshalYAML decodes a body and rejects entries missing a colour or type.
func (b *Body) UnmarshalYAML(n *yaml.Node) error {
	type plain Body
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	if n.Kind == yaml.MappingNode {
		for _, key := range requiredKeys {
			if !hasKey(n, key) {
				return fmt.Errorf("%w: body %q at line %d: missing %q", ErrInvalid, p.Name, n.Line, key)
			}
		}
	}
	*b = Body(p)
	return nil
}

func hasKey(n *yaml.Node, key string) bool {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return true
		}
	}
	return false
}

// Catalog is an ordered list of bodies; the index identifies a body.
type Catalog []Body

type file struct {
	Bodies Catalog `yaml:"bodies"`
}

// Default returns the bodies of the original site background.
func Default() Catalog {
	return Catalog{
		{Name: "mercury", Distance: 4, Size: 0.2, BaseColor: colors.MustHex("#A5A5A5"), DetailColor: colors.MustHex("#808080"), AngularSpeed: 1.2, PhaseOffset: 0, Archetype: texture.Rocky},
		{Name: "venus", Distance: 6, Size: 0.4, BaseColor: colors.MustHex("#E3BB76"), DetailColor: colors.MustHex("#D4A045"), AngularSpeed: 0.9, PhaseOffset: 2, Archetype: texture.GasGiant},
		{Name: "earth", Distance: 9, Size: 0.5, BaseColor: colors.MustHex("#4B9CD3"), DetailColor: colors.MustHex("#2E8B57"), AngularSpeed: 0.6, PhaseOffset: 4, Archetype: texture.EarthLike},
		{Name: "mars", Distance: 12, Size: 0.3, BaseColor: colors.MustHex("#D14A28"), DetailColor: colors.MustHex("#8B3218"), AngularSpeed: 0.5, PhaseOffset: 1, Archetype: texture.Rocky},
		{Name: "jupiter", Distance: 18, Size: 1.8, BaseColor: colors.MustHex("#C88B3A"), DetailColor: colors.MustHex("#8B5A2B"), AngularSpeed: 0.2, PhaseOffset: 5, Archetype: texture.GasGiant},
		{Name: "saturn", Distance: 24, Size: 1.5, BaseColor: colors.MustHex("#E2BF7D"), DetailColor: colors.MustHex("#CBA35C"), AngularSpeed: 0.15, PhaseOffset: 3, Archetype: texture.GasGiant, HasRings: true},
		{Name: "uranus", Distance: 30, Size: 1.0, BaseColor: colors.MustHex("#93B8BE"), DetailColor: colors.MustHex("#7A9AA0"), AngularSpeed: 0.1, PhaseOffset: 6, Archetype: texture.GasGiant, HasRings: true},
		{Name: "neptune", Distance: 35, Size: 1.0, BaseColor: colors.MustHex("#5B5DDF"), DetailColor: colors.MustHex("#3A3CBF"), AngularSpeed: 0.08, PhaseOffset: 2, Archetype: texture.GasGiant},
	}
}

// Load reads a catalog from a YAML file with a top-level "bodies" list.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog YAML: %w", err)
	}
	if err := f.Bodies.Validate(); err != nil {
		return nil, err
	}
	return f.Bodies, nil
}

// Marshal encodes the catalog in the format read by Load.
func (c Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(file{Bodies: c})
}

// Validate checks every body and that at most one body is earth-like.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("%w: no bodies", ErrInvalid)
	}
	earths := 0
	for i, b := range c {
		if b.Distance <= 0 {
			return fmt.Errorf("%w: body %d (%s): distance must be > 0", ErrInvalid, i, b.Name)
		}
		if b.Size <= 0 {
			return fmt.Errorf("%w: body %d (%s): size must be > 0", ErrInvalid, i, b.Name)
		}
		if b.Archetype == texture.EarthLike {
			earths++
		}
	}
	if earths > 1 {
		return fmt.Errorf("%w: %d earth-like bodies, at most one allowed", ErrInvalid, earths)
	}
	return nil
}

// EarthIndex returns the index of the earth-like body.
func (c Catalog) EarthIndex() (int, bool) {
	for i, b := range c {
		if b.Archetype == texture.EarthLike {
			return i, true
		}
	}
	return -1, false
}
