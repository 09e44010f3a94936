//go:build unit || e2e

package testutil

// Field sets key on a request map. A nil value removes the key so required
// field validation can be exercised.
func Field(key string, value any) func(m map[string]any) {
	return func(m map[string]any) {
		if value == nil {
			delete(m, key)
		} else {
			m[key] = value
		}
	}
}
