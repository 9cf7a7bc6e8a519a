package config

// Params maps parameter names to their configured values. Values are
// normalized by loaders to float64 or string; integer-looking numbers in
// the source document arrive as float64.
type Params map[string]any

// Float returns the numeric value under key. The second return is false
// when the key is absent or holds a non-numeric value.
func (p Params) Float(key string) (float64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// FloatOr returns the numeric value under key, or def when absent.
func (p Params) FloatOr(key string, def float64) float64 {
	if v, ok := p.Float(key); ok {
		return v
	}
	return def
}

// String returns the string value under key.
func (p Params) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// StringOr returns the string value under key, or def when absent.
func (p Params) StringOr(key, def string) string {
	if v, ok := p.String(key); ok {
		return v
	}
	return def
}

// Has reports whether key is present, regardless of its type.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}
