package textlayout

import (
	"errors"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// registeredFace is a font face together with the pixel size it was
// rasterized at, so measurements can be scaled to any font size.
type registeredFace struct {
	face        font.Face
	nominalSize float64
}

// FontRegistry resolves font families to faces. The zero value is not
// usable; use NewFontRegistry.
type FontRegistry struct {
	mu          sync.RWMutex
	faces       map[string]registeredFace
	defaultFace registeredFace
}

// NewFontRegistry returns a registry whose default family is the built-in
// 7x13 fixed-width face.
func NewFontRegistry() *FontRegistry {
	def := registeredFace{face: basicfont.Face7x13, nominalSize: 13}
	return &FontRegistry{
		faces:       map[string]registeredFace{DefaultFontFamily: def},
		defaultFace: def,
	}
}

// Register adds a face for family. nominalSize is the font size the face
// was created at.
func (r *FontRegistry) Register(family string, face font.Face, nominalSize float64) error {
	if family == "" {
		return errors.New("font family required")
	}
	if face == nil {
		return errors.New("font face required")
	}
	if nominalSize <= 0 {
		return errors.New("nominal size must be positive")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.faces[family] = registeredFace{face: face, nominalSize: nominalSize}
	return nil
}

// Families returns the number of registered families.
func (r *FontRegistry) Families() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.faces)
}

func (r *FontRegistry) lookup(family string) registeredFace {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if f, ok := r.faces[family]; ok {
		return f
	}
	return r.defaultFace
}

// scaledFace measures strings with a face scaled to a font size.
type scaledFace struct {
	face          font.Face
	scale         float64
	letterSpacing float64
}

func (r *FontRegistry) scaled(attrs TextAttributes) scaledFace {
	f := r.lookup(attrs.FontFamily)
	return scaledFace{
		face:          f.face,
		scale:         attrs.EffectiveFontSize() / f.nominalSize,
		letterSpacing: attrs.LetterSpacing,
	}
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func (s scaledFace) measure(text string) float64 {
	if text == "" {
		return 0
	}
	width := fixedToFloat(font.MeasureString(s.face, text)) * s.scale
	if s.letterSpacing != 0 {
		width += s.letterSpacing * float64(utf8.RuneCountInString(text))
	}
	return width
}

// metrics returns ascent, descent and the natural line height.
func (s scaledFace) metrics() (ascent, descent, lineHeight float64) {
	m := s.face.Metrics()
	ascent = fixedToFloat(m.Ascent) * s.scale
	descent = fixedToFloat(m.Descent) * s.scale
	lineHeight = fixedToFloat(m.Height) * s.scale
	if lineHeight < ascent+descent {
		lineHeight = ascent + descent
	}
	return ascent, descent, lineHeight
}
