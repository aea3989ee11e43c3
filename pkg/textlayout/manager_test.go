package textlayout

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"
)

// The built-in face is 7 points per glyph and 13 points tall at size 13.
var base = TextAttributes{FontSize: 13}

func TestManager_MeasureSingleLine(t *testing.T) {
	m := NewManager(Options{})

	got := m.Measure(Request{Text: "hello", Attrs: base})

	assert.InDelta(t, 35, got.Size.Width, 1e-9)
	assert.InDelta(t, 13, got.Size.Height, 1e-9)
	assert.InDelta(t, 11, got.Ascent, 1e-9)
	assert.InDelta(t, 2, got.Descent, 1e-9)
	assert.InDelta(t, 11, got.FirstBaseline(), 1e-9)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "hello", got.Lines[0].Text)
	assert.False(t, got.Truncated)
}

func TestManager_Wrapping(t *testing.T) {
	type tc struct {
		text          string
		attrs         TextAttributes
		maxWidth      float64
		expectedLines []string
	}

	tests := map[string]tc{
		"fits": {
			text: "hello world", attrs: base, maxWidth: 100,
			expectedLines: []string{"hello world"},
		},
		"breaks at space": {
			text: "hello world", attrs: base, maxWidth: 50,
			expectedLines: []string{"hello", "world"},
		},
		"breaks long word": {
			text: "abcdefgh", attrs: base, maxWidth: 28,
			expectedLines: []string{"abcd", "efgh"},
		},
		"hard newlines": {
			text: "a\n\nb", attrs: base, maxWidth: 100,
			expectedLines: []string{"a", "", "b"},
		},
		"unconstrained": {
			text: "hello world", attrs: base, maxWidth: 0,
			expectedLines: []string{"hello world"},
		},
		"narrower than a glyph": {
			text: "ab", attrs: base, maxWidth: 3,
			expectedLines: []string{"a", "b"},
		},
		"preserve whitespace": {
			text: "ab cd", attrs: TextAttributes{FontSize: 13, PreserveWhitespace: true}, maxWidth: 21,
			expectedLines: []string{"ab ", "cd"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := NewManager(Options{})
			got := m.Measure(Request{Text: tt.text, Attrs: tt.attrs, MaxWidth: tt.maxWidth})

			texts := make([]string, len(got.Lines))
			for i, line := range got.Lines {
				texts[i] = line.Text
			}
			assert.Equal(t, tt.expectedLines, texts)
			assert.InDelta(t, 13*float64(len(tt.expectedLines)), got.Size.Height, 1e-9)
		})
	}
}

func TestManager_MaximumNumberOfLines(t *testing.T) {
	m := NewManager(Options{})

	tail := m.Measure(Request{
		Text:      "hello world again",
		Attrs:     base,
		Paragraph: ParagraphAttributes{MaximumNumberOfLines: 1},
		MaxWidth:  50,
	})
	require.Len(t, tail.Lines, 1)
	assert.Equal(t, "hello…", tail.Lines[0].Text)
	assert.True(t, tail.Truncated)
	assert.LessOrEqual(t, tail.Size.Width, 50.0)

	clip := m.Measure(Request{
		Text:      "hello world again",
		Attrs:     base,
		Paragraph: ParagraphAttributes{MaximumNumberOfLines: 2, EllipsizeMode: EllipsizeClip},
		MaxWidth:  50,
	})
	require.Len(t, clip.Lines, 2)
	assert.Equal(t, "world", clip.Lines[1].Text)
	assert.True(t, clip.Truncated)
}

func TestManager_FontScaling(t *testing.T) {
	type tc struct {
		attrs         TextAttributes
		expectedWidth float64
	}

	tests := map[string]tc{
		"doubled size":       {attrs: TextAttributes{FontSize: 26}, expectedWidth: 28},
		"size multiplier":    {attrs: TextAttributes{FontSize: 13, FontSizeMultiplier: 2}, expectedWidth: 28},
		"letter spacing":     {attrs: TextAttributes{FontSize: 13, LetterSpacing: 1}, expectedWidth: 16},
		"unknown family":     {attrs: TextAttributes{FontSize: 13, FontFamily: "Nope"}, expectedWidth: 14},
		"default font size":  {attrs: TextAttributes{}, expectedWidth: 14.0 * DefaultFontSize / 13},
		"explicit linespace": {attrs: TextAttributes{FontSize: 13, LineHeight: 20}, expectedWidth: 14},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := NewManager(Options{})
			got := m.Measure(Request{Text: "ab", Attrs: tt.attrs})
			assert.InDelta(t, tt.expectedWidth, got.Size.Width, 1e-9)
		})
	}
}

func TestManager_RegisteredFace(t *testing.T) {
	m := NewManager(Options{})
	require.NoError(t, m.Fonts().Register("mono", basicfont.Face7x13, 26))
	assert.Error(t, m.Fonts().Register("", basicfont.Face7x13, 13))
	assert.Error(t, m.Fonts().Register("x", nil, 13))
	assert.Error(t, m.Fonts().Register("x", basicfont.Face7x13, 0))
	assert.Equal(t, 2, m.Fonts().Families())

	got := m.Measure(Request{Text: "ab", Attrs: TextAttributes{FontFamily: "mono", FontSize: 13}})
	assert.InDelta(t, 7, got.Size.Width, 1e-9)
}

func TestManager_Cache(t *testing.T) {
	m := NewManager(Options{})

	first := m.Measure(Request{Text: "café", Attrs: base})
	second := m.Measure(Request{Text: "cafe\u0301", Attrs: base})

	assert.Equal(t, first.Size, second.Size)
	stats := m.Stats()
	assert.Equal(t, uint64(1), stats.Hits, "normalized text should share an entry")
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)

	// Unconstrained widths share one entry.
	m.Measure(Request{Text: "café", Attrs: base, MaxWidth: -1})
	assert.Equal(t, uint64(2), m.Stats().Hits)

	m.Purge()
	assert.Equal(t, 0, m.Stats().Entries)
}

func TestManager_CacheEviction(t *testing.T) {
	m := NewManager(Options{CacheSize: 2})

	m.Measure(Request{Text: "a", Attrs: base})
	m.Measure(Request{Text: "b", Attrs: base})
	m.Measure(Request{Text: "a", Attrs: base}) // a becomes most recent
	m.Measure(Request{Text: "c", Attrs: base}) // evicts b
	m.Measure(Request{Text: "a", Attrs: base})
	m.Measure(Request{Text: "b", Attrs: base})

	stats := m.Stats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, uint64(2), stats.Evictions)
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(4), stats.Misses)
}

func TestManager_Direction(t *testing.T) {
	type tc struct {
		text     string
		attrs    TextAttributes
		expected Direction
	}

	tests := map[string]tc{
		"latin":        {text: "hello", expected: DirectionLTR},
		"hebrew":       {text: "שלום", expected: DirectionRTL},
		"arabic":       {text: "مرحبا", expected: DirectionRTL},
		"digits only":  {text: "123", expected: DirectionLTR},
		"leading weak": {text: "1 שלום", expected: DirectionRTL},
		"explicit":     {text: "hello", attrs: TextAttributes{Direction: DirectionRTL}, expected: DirectionRTL},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := NewManager(Options{})
			assert.Equal(t, tt.expected, m.Measure(Request{Text: tt.text, Attrs: tt.attrs}).Direction)
		})
	}
}

func TestManager_ConcurrentMeasure(t *testing.T) {
	m := NewManager(Options{CacheSize: 4})
	texts := []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				text := texts[(i+j)%len(texts)]
				got := m.Measure(Request{Text: text, Attrs: base})
				if got.Size.Width != float64(7*len(text)) {
					t.Errorf("width of %q = %v", text, got.Size.Width)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, m.Stats().Entries, 4)
}
