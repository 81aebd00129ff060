// Package validate holds the per-field customer checks and the policy that
// combines them into an accept or reject verdict.
package validate

// Rules toggles the optional checks and the rejection policy.
type Rules struct {
	ValidateEmail    bool
	ValidatePhone    bool
	ValidateDate     bool
	ValidateState    bool
	ValidateZip      bool
	AllowEmptyFields bool
	StrictMode       bool
}

// DefaultRules enables every check, forbids empty fields and runs strict.
func DefaultRules() Rules {
	return Rules{
		ValidateEmail: true,
		ValidatePhone: true,
		ValidateDate:  true,
		ValidateState: true,
		ValidateZip:   true,
		StrictMode:    true,
	}
}

// Toggle is one named rule, used by loaders and reports.
type Toggle struct {
	Key   string
	Value *bool
}

// Toggles lists the rules under their file keys, in a stable order.
func (r *Rules) Toggles() []Toggle {
	return []Toggle{
		{"validate_email", &r.ValidateEmail},
		{"validate_phone", &r.ValidatePhone},
		{"validate_date", &r.ValidateDate},
		{"validate_state", &r.ValidateState},
		{"validate_zip", &r.ValidateZip},
		{"allow_empty_fields", &r.AllowEmptyFields},
		{"strict_mode", &r.StrictMode},
	}
}

// Set assigns the rule named key. It reports false for unknown keys.
func (r *Rules) Set(key string, v bool) bool {
	for _, t := range r.Toggles() {
		if t.Key == key {
			*t.Value = v
			return true
		}
	}
	return false
}
