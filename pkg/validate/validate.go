// Package validate provides struct-tag validation for request payloads.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required            field must not be zero/empty
//	nullable            if empty, skip all remaining rules for this field
//	email               valid email address
//	url                 valid URL (http/https)
//	numeric             any number
//	integer             whole number
//	min=N               string: min char length | number: min value
//	max=N               string: max char length | number: max value
//	gt=N / gte=N        number > N / >= N
//	lt=N / lte=N        number < N / <= N
//	in=a,b,c            value must be one of the listed items
//
// Example:
//
//	type Input struct {
//	    Name     string  `json:"name"     validate:"required,max=100"`
//	    Price    float64 `json:"price"    validate:"required,gte=0"`
//	    Category string  `json:"category" validate:"required,in=t-shirts,hoodies,jackets,pants,accessories"`
//	}
package validate

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns a map of fieldName → error message; empty map means no errors.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		value := rv.Field(i)

		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := jsonFieldName(field)
		rules := strings.Split(tag, ",")

		// Rule params may themselves contain commas (in=a,b,c), so
		// re-join anything after an `in=` into that rule.
		rules = mergeListRules(rules)

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			if msg := applyRule(rule, name, value); msg != "" {
				errs[name] = msg
				break // first failing rule per field
			}
		}
	}

	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

// ─── Core dispatcher ──────────────────────────────────────────────────────────

func applyRule(rule, field string, v reflect.Value) string {
	raw := fmt.Sprintf("%v", v.Interface())
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}

	case "email":
		if !emailRe.MatchString(raw) {
			return fmt.Sprintf("The %s field must be a valid email address.", field)
		}

	case "url":
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Sprintf("The %s field must be a valid URL.", field)
		}

	case "numeric":
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Sprintf("The %s field must be a number.", field)
		}

	case "integer":
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return fmt.Sprintf("The %s field must be an integer.", field)
		}

	case "min":
		return compareRule(field, v, param, "min")
	case "max":
		return compareRule(field, v, param, "max")
	case "gt":
		return numericRule(field, v, param, func(a, b float64) bool { return a > b }, "greater than")
	case "gte":
		return numericRule(field, v, param, func(a, b float64) bool { return a >= b }, "at least")
	case "lt":
		return numericRule(field, v, param, func(a, b float64) bool { return a < b }, "less than")
	case "lte":
		return numericRule(field, v, param, func(a, b float64) bool { return a <= b }, "at most")

	case "in":
		for _, opt := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(opt) {
				return ""
			}
		}
		return fmt.Sprintf("The %s field must be one of: %s.", field, param)
	}

	return ""
}

// compareRule handles min/max: character length for strings, value for numbers.
func compareRule(field string, v reflect.Value, param, mode string) string {
	limit, err := strconv.ParseFloat(param, 64)
	if err != nil {
		return ""
	}

	if v.Kind() == reflect.String {
		n := float64(len([]rune(v.String())))
		if mode == "min" && n < limit {
			return fmt.Sprintf("The %s field must be at least %s characters.", field, param)
		}
		if mode == "max" && n > limit {
			return fmt.Sprintf("The %s field may not be greater than %s characters.", field, param)
		}
		return ""
	}

	n, ok := asFloat(v)
	if !ok {
		return ""
	}
	if mode == "min" && n < limit {
		return fmt.Sprintf("The %s field must be at least %s.", field, param)
	}
	if mode == "max" && n > limit {
		return fmt.Sprintf("The %s field may not be greater than %s.", field, param)
	}
	return ""
}

func numericRule(field string, v reflect.Value, param string, cmp func(a, b float64) bool, word string) string {
	limit, err := strconv.ParseFloat(param, 64)
	if err != nil {
		return ""
	}
	n, ok := asFloat(v)
	if !ok {
		return fmt.Sprintf("The %s field must be a number.", field)
	}
	if !cmp(n, limit) {
		return fmt.Sprintf("The %s field must be %s %s.", field, word, param)
	}
	return ""
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

func asFloat(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.String:
		n, err := strconv.ParseFloat(v.String(), 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}

func hasRule(rules []string, name string) bool {
	for _, r := range rules {
		if r == name {
			return true
		}
	}
	return false
}

// mergeListRules re-joins comma-split pieces that belong to an in= parameter.
func mergeListRules(rules []string) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		r = strings.TrimSpace(r)
		if len(out) > 0 && strings.HasPrefix(out[len(out)-1], "in=") && !strings.Contains(r, "=") && !isKnownRule(r) {
			out[len(out)-1] += "," + r
			continue
		}
		out = append(out, r)
	}
	return out
}

func isKnownRule(r string) bool {
	switch r {
	case "required", "nullable", "email", "url", "numeric", "integer":
		return true
	}
	return false
}

func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return f.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}
