package textlayout

import (
	"math"

	"golang.org/x/text/unicode/bidi"
	"golang.org/x/text/unicode/norm"

	"github.com/go-drift/fabric/pkg/graphics"
)

// Request is a single text measurement.
type Request struct {
	Text      string
	Attrs     TextAttributes
	Paragraph ParagraphAttributes
	// MaxWidth wraps lines when it is a positive finite number.
	MaxWidth float64
}

// Measurement is the result of laying out a paragraph. Lines is shared
// with the cache and must not be modified.
type Measurement struct {
	Size       graphics.Size
	Lines      []Line
	Ascent     float64
	Descent    float64
	LineHeight float64
	Direction  Direction
	Truncated  bool
}

// FirstBaseline returns the distance from the top of the paragraph to the
// baseline of its first line.
func (m Measurement) FirstBaseline() float64 {
	halfLeading := (m.LineHeight - m.Ascent - m.Descent) / 2
	return halfLeading + m.Ascent
}

// Stats reports cache effectiveness.
type Stats struct {
	Entries   int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Options configure a Manager.
type Options struct {
	CacheSize int
	// DefaultFontSize applies to requests without a font size.
	DefaultFontSize float64
	Fonts           *FontRegistry
}

// Manager measures paragraphs and caches the results. It is safe for
// concurrent use.
type Manager struct {
	fonts           *FontRegistry
	cache           *measurementCache
	defaultFontSize float64
}

// NewManager creates a Manager.
func NewManager(opts Options) *Manager {
	fonts := opts.Fonts
	if fonts == nil {
		fonts = NewFontRegistry()
	}
	size := opts.DefaultFontSize
	if !(size > 0) {
		size = DefaultFontSize
	}
	return &Manager{
		fonts:           fonts,
		cache:           newMeasurementCache(opts.CacheSize),
		defaultFontSize: size,
	}
}

// Fonts returns the registry used to resolve font families.
func (m *Manager) Fonts() *FontRegistry { return m.fonts }

// Measure lays out req.Text and returns its size and lines. Equal requests
// are served from cache.
func (m *Manager) Measure(req Request) Measurement {
	key := m.keyFor(req)
	hash := key.hash()
	if cached, ok := m.cache.get(key, hash); ok {
		return cached
	}
	measurement := m.layout(key)
	m.cache.put(key, hash, measurement)
	return measurement
}

// Stats returns cache statistics.
func (m *Manager) Stats() Stats {
	return Stats{
		Entries:   m.cache.len(),
		Hits:      m.cache.hits.Load(),
		Misses:    m.cache.misses.Load(),
		Evictions: m.cache.evictions.Load(),
	}
}

// Purge drops every cached measurement, for example after registering a
// font that changes existing families.
func (m *Manager) Purge() {
	m.cache.clear()
}

func (m *Manager) keyFor(req Request) cacheKey {
	attrs := req.Attrs
	if !(attrs.FontSize > 0) {
		attrs.FontSize = m.defaultFontSize
	}
	if attrs.FontFamily == "" {
		attrs.FontFamily = DefaultFontFamily
	}
	maxWidth := req.MaxWidth
	if !(maxWidth > 0) || math.IsInf(maxWidth, 0) {
		maxWidth = math.Inf(1)
	}
	return cacheKey{
		text:      norm.NFC.String(req.Text),
		attrs:     attrs,
		paragraph: req.Paragraph,
		maxWidth:  maxWidth,
	}
}

func (m *Manager) layout(key cacheKey) Measurement {
	face := m.fonts.scaled(key.attrs)
	ascent, descent, lineHeight := face.metrics()
	if key.attrs.LineHeight > 0 {
		lineHeight = key.attrs.LineHeight
	}

	lines := breakLines(key.text, key.maxWidth, face.measure, key.attrs.PreserveWhitespace)
	lines, truncated := truncateLines(lines, key.paragraph.MaximumNumberOfLines,
		key.paragraph.EllipsizeMode, key.maxWidth, face.measure)

	width := 0.0
	for _, line := range lines {
		width = math.Max(width, line.Width)
	}
	direction := key.attrs.Direction
	if direction == DirectionNatural {
		direction = baseDirection(key.text)
	}
	return Measurement{
		Size:       graphics.Size{Width: width, Height: lineHeight * float64(len(lines))},
		Lines:      lines,
		Ascent:     ascent,
		Descent:    descent,
		LineHeight: lineHeight,
		Direction:  direction,
		Truncated:  truncated,
	}
}

// baseDirection returns the direction of the first strong character, or
// LTR when there is none.
func baseDirection(text string) Direction {
	for _, r := range text {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.L:
			return DirectionLTR
		case bidi.R, bidi.AL:
			return DirectionRTL
		}
	}
	return DirectionLTR
}
