package catalog

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/echoflaresat/orrery/colors"
	"github.com/echoflaresat/orrery/texture"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.Len(t, c, 8)
	require.NoError(t, c.Validate())

	i, ok := c.EarthIndex()
	require.True(t, ok)
	require.Equal(t, 2, i)
	require.Equal(t, 9.0, c[i].Distance)

	rings := 0
	for _, b := range c {
		if b.HasRings {
			rings++
		}
	}
	require.Equal(t, 2, rings)
}

func TestBodyPosition(t *testing.T) {
	earth := Default()[2]
	p := earth.Position(3)
	require.InDelta(t, 9.0, p.Norm(), 1e-9)
	require.InDelta(t, math.Cos(3*0.6+4)*9, p.X, 1e-9)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bodies.yaml")
	doc := `bodies:
  - name: ember
    distance: 5
    size: 0.3
    color: "#D14A28"
    detail_color: "#8B3218"
    speed: 0.7
    offset: 1.5
    type: rock
  - name: home
    distance: 10
    size: 0.6
    color: "#4B9CD3"
    detail_color: "#2E8B57"
    speed: 0.4
    offset: 0
    type: earthLike
    rings: true
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c, 2)
	require.Equal(t, texture.Rocky, c[0].Archetype)
	require.Equal(t, colors.MustHex("#D14A28"), c[0].BaseColor)
	require.True(t, c[1].HasRings)

	i, ok := c.EarthIndex()
	require.True(t, ok)
	require.Equal(t, 1, i)
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "default.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	for i, b := range Default() {
		require.Equal(t, b.TextureKey(), c[i].TextureKey())
		require.Equal(t, b.Distance, c[i].Distance)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"distance":  "bodies:\n  - {name: a, distance: 0, size: 1, color: '#ffffff', detail_color: '#000000', type: rocky}\n",
		"size":      "bodies:\n  - {name: a, distance: 1, size: -1, color: '#ffffff', detail_color: '#000000', type: rocky}\n",
		"two-earth": "bodies:\n  - {name: a, distance: 1, size: 1, color: '#ffffff', detail_color: '#000000', type: earth}\n  - {name: b, distance: 2, size: 1, color: '#ffffff', detail_color: '#000000', type: earth}\n",
		"empty":     "bodies: []\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
			_, err := Load(path)
			require.True(t, errors.Is(err, ErrInvalid), "got %v", err)
		})
	}
}

func TestLoadRejectsBadFields(t *testing.T) {
	for name, doc := range map[string]string{
		"color": "bodies:\n  - {name: a, distance: 1, size: 1, color: 'orange', detail_color: '#000000', type: rocky}\n",
		"type":  "bodies:\n  - {name: a, distance: 1, size: 1, color: '#ffffff', detail_color: '#000000', type: ice}\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestLoadRejectsMissingKeys(t *testing.T) {
	for _, key := range []string{"color", "detail_color", "type"} {
		t.Run(key, func(t *testing.T) {
			fields := map[string]string{
				"color":        "color: '#ffffff'",
				"detail_color": "detail_color: '#000000'",
				"type":         "type: rocky",
			}
			delete(fields, key)
			doc := "bodies:\n  - {name: a, distance: 1, size: 1"
			for _, k := range []string{"color", "detail_color", "type"} {
				if f, ok := fields[k]; ok {
					doc += ", " + f
				}
			}
			doc += "}\n"

			path := filepath.Join(t.TempDir(), "c.yaml")
			require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
			_, err := Load(path)
			require.ErrorIs(t, err, ErrInvalid)
			require.Contains(t, err.Error(), key)
		})
	}
}
