package texture

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	lru "github.com/hashicorp/golang-lru"

	"github.com/echoflaresat/orrery/colors"
)

// Key identifies a generated texture.
type Key struct {
	Archetype Archetype
	Base      color.NRGBA
	Detail    color.NRGBA
}

func NewKey(a Archetype, base, detail colors.Color4) Key {
	return Key{Archetype: a, Base: base.ToNRGBA(), Detail: detail.ToNRGBA()}
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s",
		k.Archetype,
		colors.FromStandardColor(k.Base).Hex(),
		colors.FromStandardColor(k.Detail).Hex())
}

// GenerateFunc produces the bitmap for a key.
type GenerateFunc func(Key) (*image.NRGBA, error)

// Observer is notified of cache activity.
type Observer interface {
	TextureGenerated(k Key)
	TextureCacheHit(k Key)
	TextureFallback(k Key)
}

type nopObserver struct{}

func (nopObserver) TextureGenerated(Key) {}
func (nopObserver) TextureCacheHit(Key)  {}
func (nopObserver) TextureFallback(Key)  {}

// Cache holds generated textures keyed by (archetype, base, detail).
// Failed generations are never stored, so the next lookup of that key
// after an input change retries.
type Cache struct {
	lru      *lru.Cache // Key -> Texture
	generate GenerateFunc
	observer Observer
	log      *slog.Logger
}

func NewCache(size int, generate GenerateFunc, observer Observer, log *slog.Logger) (*Cache, error) {
	l, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("texture cache: %w", err)
	}
	if observer == nil {
		observer = nopObserver{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Cache{lru: l, generate: generate, observer: observer, log: log}, nil
}

// Get returns the cached texture for k, generating it on a miss. The bool is
// false when generation failed and a solid fallback was returned instead.
func (c *Cache) Get(k Key) (Texture, bool) {
	if val, ok := c.lru.Get(k); ok {
		c.observer.TextureCacheHit(k)
		return val.(Texture), true
	}

	img, err := c.generate(k)
	if err != nil {
		c.log.Warn("texture synthesis failed, using solid fallback", "key", k.String(), "error", err)
		c.observer.TextureFallback(k)
		return New(Solid(colors.FromStandardColor(k.Base))), false
	}

	tex := New(img)
	c.lru.Add(k, tex)
	c.observer.TextureGenerated(k)
	return tex, true
}

// Len reports the number of cached textures.
func (c *Cache) Len() int { return c.lru.Len() }

// Memo binds one body to its current texture. It consults the cache only
// when the body's key changes, so a fallback is kept until then.
type Memo struct {
	cache *Cache
	key   Key
	tex   Texture
	ok    bool
	bound bool
}

func NewMemo(cache *Cache) *Memo {
	return &Memo{cache: cache}
}

func (m *Memo) Get(k Key) Texture {
	if m.bound && m.key == k {
		return m.tex
	}
	m.tex, m.ok = m.cache.Get(k)
	m.key = k
	m.bound = true
	return m.tex
}

// Degraded reports whether the bound texture is a fallback.
func (m *Memo) Degraded() bool { return m.bound && !m.ok }
