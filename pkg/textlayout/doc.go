// Package textlayout measures paragraphs of text for layout.
//
// A Manager breaks text into lines against a maximum width using faces
// from a FontRegistry, and keeps an LRU of measurements keyed by a hash of
// the normalized text and its attributes. The built-in face is a 7x13
// fixed-width bitmap font scaled to the requested size; hosts register real
// faces with FontRegistry.Register.
package textlayout
