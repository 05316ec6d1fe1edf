package meta

import (
	"os"
	"strings"
	"unicode"
)

const envPrefix = "${env."

// ExpandEnv replaces every ${env.KEY} in value with the value of the
// environment variable KEY, or "" when unset. Malformed expressions are kept
// literally.
func ExpandEnv(value string) string {
	return expand(value, os.Getenv)
}

func expand(value string, lookup func(string) string) string {
	if !strings.Contains(value, envPrefix) {
		return value
	}
	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(value[i:], envPrefix)
		if idx < 0 {
			b.WriteString(value[i:])
			return b.String()
		}
		b.WriteString(value[i : i+idx])
		startKey := i + idx + len(envPrefix)
		endKey := strings.IndexByte(value[startKey:], '}')
		if endKey < 0 {
			b.WriteString(value[i+idx:])
			return b.String()
		}
		key := value[startKey : startKey+endKey]
		if !isEnvKey(key) {
			// keep the prefix and rescan the remainder for nested expressions
			b.WriteString(envPrefix)
			i = startKey
			continue
		}
		b.WriteString(lookup(key))
		i = startKey + endKey + 1
	}
}

func isEnvKey(key string) bool {
	for _, r := range key {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}
