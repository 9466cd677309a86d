// Package generator finds placeholders in template text and fills them in.
//
// A placeholder is a token of the form {identifier} where identifier matches
// [a-zA-Z0-9_]+. The token {saudacao} is reserved and is always replaced with a
// greeting computed from the time of day.
package generator

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"
)

const (
	// GreetingKey is the reserved placeholder filled from the time of day.
	GreetingKey = "saudacao"

	// FieldPrefix marks the form fields that carry placeholder values.
	FieldPrefix = "var_"
)

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// Value is a placeholder name paired with the text that replaces it.
type Value struct {
	Name  string
	Value string
}

// Extract returns the placeholder names found in content in order of first
// appearance, without duplicates and without the greeting token.
func Extract(content string) []string {
	names := []string{}
	seen := map[string]struct{}{GreetingKey: {}}
	for _, m := range placeholderRe.FindAllStringSubmatch(content, -1) {
		name := m[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Greeting returns the greeting for the given hour of the day.
func Greeting(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "Bom dia"
	case hour >= 12 && hour < 18:
		return "Boa tarde"
	default:
		return "Boa noite"
	}
}

// Generate fills {saudacao} with the greeting for now and every supplied
// placeholder with its value. Values are applied in order as literal
// replacements, so a value that itself contains a later token is replaced too.
// Placeholders without a value are left as they are.
func Generate(content string, values []Value, now time.Time) string {
	out := strings.ReplaceAll(content, token(GreetingKey), Greeting(now.Hour()))
	for _, v := range values {
		out = strings.ReplaceAll(out, token(v.Name), v.Value)
	}
	return out
}

// FormValues collects the placeholder values from submitted form fields named
// FieldPrefix+name. Names listed in order come first in that order, any other
// submitted names follow sorted. Fields without the prefix are ignored.
func FormValues(form url.Values, order []string) []Value {
	submitted := make(map[string]string)
	for key, vals := range form {
		name, ok := strings.CutPrefix(key, FieldPrefix)
		if !ok || name == "" || len(vals) == 0 {
			continue
		}
		submitted[name] = vals[0]
	}

	values := make([]Value, 0, len(submitted))
	for _, name := range order {
		if v, ok := submitted[name]; ok {
			values = append(values, Value{Name: name, Value: v})
			delete(submitted, name)
		}
	}

	rest := make([]string, 0, len(submitted))
	for name := range submitted {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	for _, name := range rest {
		values = append(values, Value{Name: name, Value: submitted[name]})
	}
	return values
}

func token(name string) string {
	return "{" + name + "}"
}
