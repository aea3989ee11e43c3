package core

import (
	"fmt"
	"maps"
	"sort"
)

// Props is the immutable, component-specific property payload of a node.
// Implementations must be pointer types: the differ compares props by
// identity, and a new value means new props.
type Props interface {
	// Raw returns the raw values the props were built from. Callers must
	// not modify the result.
	Raw() RawProps
}

// RawProps is an untyped property bag as received from the description
// layer.
type RawProps map[string]any

// Merge returns a copy of r with patch applied. A nil value in patch
// removes the key.
func (r RawProps) Merge(patch RawProps) RawProps {
	out := make(RawProps, len(r)+len(patch))
	maps.Copy(out, r)
	for k, v := range patch {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

// Keys returns the keys of r in sorted order.
func (r RawProps) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is present.
func (r RawProps) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Float returns the number at key, or fallback if the key is absent.
func (r RawProps) Float(key string, fallback float64) (float64, error) {
	v, ok := r[key]
	if !ok {
		return fallback, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return fallback, fmt.Errorf("prop %q: expected number, got %T", key, v)
	}
}

// Int returns the integer at key, or fallback if the key is absent.
// Fractional numbers are truncated.
func (r RawProps) Int(key string, fallback int) (int, error) {
	if !r.Has(key) {
		return fallback, nil
	}
	f, err := r.Float(key, float64(fallback))
	if err != nil {
		return fallback, err
	}
	return int(f), nil
}

// String returns the string at key, or fallback if the key is absent.
func (r RawProps) String(key, fallback string) (string, error) {
	v, ok := r[key]
	if !ok {
		return fallback, nil
	}
	s, ok := v.(string)
	if !ok {
		return fallback, fmt.Errorf("prop %q: expected string, got %T", key, v)
	}
	return s, nil
}

// Bool returns the boolean at key, or fallback if the key is absent.
func (r RawProps) Bool(key string, fallback bool) (bool, error) {
	v, ok := r[key]
	if !ok {
		return fallback, nil
	}
	b, ok := v.(bool)
	if !ok {
		return fallback, fmt.Errorf("prop %q: expected bool, got %T", key, v)
	}
	return b, nil
}

// Map returns the nested property bag at key, or nil if the key is absent.
func (r RawProps) Map(key string) (RawProps, error) {
	v, ok := r[key]
	if !ok {
		return nil, nil
	}
	switch m := v.(type) {
	case RawProps:
		return m, nil
	case map[string]any:
		return RawProps(m), nil
	default:
		return nil, fmt.Errorf("prop %q: expected object, got %T", key, v)
	}
}
