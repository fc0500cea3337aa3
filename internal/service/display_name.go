package service

import "strings"

// DisplayName turns a stored handle into a human display name: underscore
// segments are rejoined with single spaces, each with its first letter
// upper-cased. ASCII only; no locale-aware casing.
func DisplayName(handle string) string {
	if handle == "" {
		return ""
	}

	segments := strings.Split(handle, "_")
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		parts = append(parts, upperFirst(seg))
	}
	return strings.Join(parts, " ")
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	c := s[0]
	if c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
