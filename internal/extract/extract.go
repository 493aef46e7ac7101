// Package extract pulls a single key/value fact out of user chat text.
package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// Extractor finds at most one fact in text.
type Extractor interface {
	Extract(text string) (key, value string, ok bool)
}

// Pattern is a regular expression with a "value" group and either a "key"
// group or a fixed Key.
type Pattern struct {
	Re  *regexp.Regexp
	Key string
}

// Patterns tries each pattern in order and returns the first match.
type Patterns []Pattern

const (
	// clause matches up to the end of the sentence or clause.
	clause = `[^，。,.!！?？;；\n]+`
	// trimSet is stripped from both ends of extracted values.
	trimSet = " \t、~～"
)

// Default returns the built-in patterns for common Chinese and English
// self-descriptions.
func Default() Patterns {
	return Patterns{
		{Re: regexp.MustCompile(`我的(?P<key>[^是，。,]+?)是(?P<value>` + clause + `)`)},
		{Re: regexp.MustCompile(`我叫(?P<value>` + clause + `)`), Key: "名字"},
		{Re: regexp.MustCompile(`我住在(?P<value>` + clause + `)`), Key: "城市"},
		{Re: regexp.MustCompile(`我喜欢(?P<value>` + clause + `)`), Key: "爱好"},
		{Re: regexp.MustCompile(`(?i)\bmy (?P<key>[a-z ]+?) is (?P<value>` + clause + `)`)},
	}
}

// Compile builds a pattern from expr, checking that it has the groups it
// needs. key may be empty when expr has a "key" group.
func Compile(expr, key string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("compile pattern: %w", err)
	}
	if re.SubexpIndex("value") < 0 {
		return Pattern{}, fmt.Errorf("pattern %q has no (?P<value>...) group", expr)
	}
	if key == "" && re.SubexpIndex("key") < 0 {
		return Pattern{}, fmt.Errorf("pattern %q needs a (?P<key>...) group or a fixed key", expr)
	}
	return Pattern{Re: re, Key: key}, nil
}

// Extract implements Extractor.
func (ps Patterns) Extract(text string) (string, string, bool) {
	text = strings.TrimSpace(text)
	for _, p := range ps {
		m := p.Re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		key := p.Key
		if i := p.Re.SubexpIndex("key"); key == "" && i >= 0 {
			key = strings.TrimSpace(m[i])
		}
		value := strings.Trim(m[p.Re.SubexpIndex("value")], trimSet)
		if key == "" || value == "" {
			continue
		}
		return key, value, true
	}
	return "", "", false
}
