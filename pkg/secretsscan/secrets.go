package secretsscan

import "strings"

func (r *rule) applies(lower string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// ContainsSecrets reports whether text looks like it carries a credential.
func ContainsSecrets(text string) bool {
	lower := strings.ToLower(text)
	for _, rule := range rules() {
		if rule.applies(lower) && rule.re.MatchString(text) {
			return true
		}
	}
	return false
}

// Matches returns the names of the rules matching text.
func Matches(text string) []string {
	lower := strings.ToLower(text)
	var names []string
	for _, rule := range rules() {
		if rule.applies(lower) && rule.re.MatchString(text) {
			names = append(names, rule.name)
		}
	}
	return names
}

// Redact replaces every credential found in text with [REDACTED].
func Redact(text string) string {
	for _, rule := range rules() {
		if rule.applies(strings.ToLower(text)) {
			text = rule.redact(text)
		}
	}
	return text
}

func (r *rule) redact(text string) string {
	secret := r.re.SubexpIndex("secret")

	var sb strings.Builder
	last := 0
	for _, loc := range r.re.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[0], loc[1]
		if secret >= 0 && loc[2*secret] >= 0 {
			start, end = loc[2*secret], loc[2*secret+1]
		}
		sb.WriteString(text[last:start])
		sb.WriteString("[REDACTED]")
		last = end
	}
	sb.WriteString(text[last:])
	return sb.String()
}
