package textlayout

import "math"

const (
	// DefaultFontSize is used when no font size is specified.
	DefaultFontSize = 14

	// DefaultFontFamily names the built-in fixed-width face.
	DefaultFontFamily = "system"
)

// FontWeight represents a numeric font weight.
type FontWeight int

const (
	FontWeightNormal   FontWeight = 400
	FontWeightSemibold FontWeight = 600
	FontWeightBold     FontWeight = 700
)

// FontStyle represents normal or italic text styles.
type FontStyle int

const (
	FontStyleNormal FontStyle = iota
	FontStyleItalic
)

// Direction is the base direction of a paragraph.
type Direction int

const (
	// DirectionNatural picks the direction of the first strong character.
	DirectionNatural Direction = iota
	DirectionLTR
	DirectionRTL
)

func (d Direction) String() string {
	switch d {
	case DirectionLTR:
		return "ltr"
	case DirectionRTL:
		return "rtl"
	default:
		return "natural"
	}
}

// EllipsizeMode controls how text truncated by a line limit is marked.
type EllipsizeMode int

const (
	EllipsizeTail EllipsizeMode = iota
	EllipsizeClip
)

// TextAttributes describes how a run of text is styled for measurement.
type TextAttributes struct {
	FontFamily string
	FontSize   float64
	// FontSizeMultiplier scales FontSize, for accessibility font scaling.
	// Zero means 1.
	FontSizeMultiplier float64
	FontWeight         FontWeight
	FontStyle          FontStyle
	// LineHeight overrides the face's natural line height when positive.
	LineHeight    float64
	LetterSpacing float64
	Direction     Direction
	// PreserveWhitespace keeps trailing spaces at soft line breaks.
	PreserveWhitespace bool
}

// EffectiveFontSize returns the font size after defaults and scaling.
func (a TextAttributes) EffectiveFontSize() float64 {
	size := a.FontSize
	if size <= 0 || math.IsNaN(size) {
		size = DefaultFontSize
	}
	if a.FontSizeMultiplier > 0 {
		size *= a.FontSizeMultiplier
	}
	return size
}

// ParagraphAttributes limit how a paragraph is broken into lines.
type ParagraphAttributes struct {
	// MaximumNumberOfLines caps the line count when positive.
	MaximumNumberOfLines int
	EllipsizeMode        EllipsizeMode
}
