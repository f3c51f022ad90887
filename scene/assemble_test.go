package scene

import (
	"image"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/echoflaresat/orrery/catalog"
	"github.com/echoflaresat/orrery/focus"
	"github.com/echoflaresat/orrery/orbit"
	"github.com/echoflaresat/orrery/texture"
	"github.com/echoflaresat/orrery/vectors"
)

type fixture struct {
	assembler *Assembler
	focus     *focus.Store
	generated int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fx := &fixture{focus: focus.NewStore()}
	synth := texture.NewSynthesizer(64, rand.New(rand.NewPCG(7, 7)))
	cache, err := texture.NewCache(16, func(k texture.Key) (*image.NRGBA, error) {
		fx.generated++
		return synth.Synthesize(k)
	}, nil, nil)
	require.NoError(t, err)
	fx.assembler = NewAssembler(catalog.Default(), cache, fx.focus, rand.New(rand.NewPCG(1, 1)), orbit.PerFrame)
	return fx
}

func TestAssemblerBuildsDecorations(t *testing.T) {
	fx := newFixture(t)
	f := fx.assembler.Frame("/", 0, 1.0/60)

	require.Len(t, f.Bodies, 8)
	require.Equal(t, 2.5, f.Sun.Radius)
	require.Equal(t, 0.6, f.Lights.Ambient)

	markers := 0
	for _, b := range f.Bodies {
		require.Len(t, b.Orbit, 65)
		require.Equal(t, b.Config.HasRings, b.Ring != nil, "body %d ring", b.Index)
		if b.Ring != nil {
			require.InDelta(t, b.Config.Size*1.4, b.Ring.Inner, 1e-12)
			require.InDelta(t, b.Config.Size*2.2, b.Ring.Outer, 1e-12)
			require.Equal(t, b.Config.DetailColor, b.Ring.Color)
		}
		if b.Marker != nil {
			markers++
			require.Equal(t, texture.EarthLike, b.Config.Archetype)
		}
		require.True(t, b.Texture.Valid())
	}
	require.Equal(t, 1, markers)
}

func TestStarfieldGeneratedOnce(t *testing.T) {
	fx := newFixture(t)
	first := fx.assembler.Frame("/", 0, 0).Stars
	second := fx.assembler.Frame("/about", 10, 0).Stars

	require.Len(t, first, StarCount)
	require.Same(t, &first[0], &second[0])
	for _, s := range first {
		r := s.Position.Norm()
		require.GreaterOrEqual(t, r, StarRadius-1e-9)
		require.LessOrEqual(t, r, StarRadius+StarDepth+1e-9)
	}
}

func TestTexturesNotRegeneratedPerFrame(t *testing.T) {
	fx := newFixture(t)
	for i := 0; i < 50; i++ {
		fx.assembler.Frame("/", float64(i)/60, 1.0/60)
	}
	// eight bodies, every key distinct
	require.Equal(t, 8, fx.generated)
}

func TestFocusOnlyOnDetailRoutes(t *testing.T) {
	fx := newFixture(t)
	fx.focus.Set(4)

	for _, path := range []string{"/", "/projects", "/about", "/404"} {
		f := fx.assembler.Frame(path, 1, 1.0/60)
		require.Equal(t, -1, f.Focused, path)
		for _, b := range f.Bodies {
			require.False(t, b.Focused, path)
		}
	}

	f := fx.assembler.Frame("/projects/lemon-drop", 1, 1.0/60)
	require.Equal(t, 4, f.Focused)
	count := 0
	for _, b := range f.Bodies {
		if b.Focused {
			count++
			require.Equal(t, 4, b.Index)
		}
	}
	require.Equal(t, 1, count)
}

func TestOutOfRangeFocusIsIgnored(t *testing.T) {
	fx := newFixture(t)
	fx.focus.Set(99)
	f := fx.assembler.Frame("/projects/lemon-drop", 1, 1.0/60)
	require.Equal(t, -1, f.Focused)
}

func TestFocusedBodySpinsSlower(t *testing.T) {
	fx := newFixture(t)
	fx.focus.Set(0)
	var f Frame
	for i := 0; i < 120; i++ {
		f = fx.assembler.Frame("/projects/research-buddy", float64(i)/60, 1.0/60)
	}
	require.InDelta(t, f.Bodies[1].Spin/5, f.Bodies[0].Spin, 1e-12)
}

func TestBodiesFollowOrbit(t *testing.T) {
	fx := newFixture(t)
	f := fx.assembler.Frame("/", 7.3, 1.0/60)
	for _, b := range f.Bodies {
		want := orbit.Position(b.Config.Distance, b.Config.AngularSpeed, b.Config.PhaseOffset, 7.3)
		require.InDelta(t, 0, vectors.Distance(want, b.Position), 1e-12)
	}
}

func TestMarkerRidesWithSpin(t *testing.T) {
	fx := newFixture(t)
	earth := 2
	f1 := fx.assembler.Frame("/", 0, 1.0/60)
	m1 := f1.Bodies[earth].Marker.Position.Sub(f1.Bodies[earth].Position)
	f2 := fx.assembler.Frame("/", 0, 1.0/60)
	m2 := f2.Bodies[earth].Marker.Position.Sub(f2.Bodies[earth].Position)

	require.InDelta(t, m1.Norm(), m2.Norm(), 1e-12)
	require.Greater(t, vectors.Distance(m1, m2), 0.0)
	require.InDelta(t, markerOffset.Norm(), m1.Norm(), 1e-12)
	require.False(t, math.IsNaN(m1.X))

	lights := f2.PointLights()
	require.Len(t, lights, 2)
}
