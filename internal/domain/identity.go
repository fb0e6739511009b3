package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// User is the current signed-in identity. Email is the unique key order
// history is indexed by; Name may be a placeholder until a real sign-in
// replaces it.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// IsPlaceholderName reports whether name is empty or the literal "guest"
// (any casing), i.e. not a name the user chose
func IsPlaceholderName(name string) bool {
	trimmed := strings.TrimSpace(name)
	return trimmed == "" || strings.EqualFold(trimmed, "guest")
}

// DeriveName builds a readable name from the email's local part:
// "john.doe@x.com" -> "John Doe". Segments split on '.', '_' and '-';
// falls back to "User" when nothing usable remains.
func DeriveName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	segments := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})

	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		first, size := utf8.DecodeRuneInString(s)
		parts = append(parts, string(unicode.ToUpper(first))+s[size:])
	}
	if len(parts) == 0 {
		return "User"
	}
	return strings.Join(parts, " ")
}

// DisplayName is what the views show for u: the chosen name, or the email
// when the stored name is a placeholder
func (u *User) DisplayName() string {
	if u == nil {
		return "User"
	}
	if IsPlaceholderName(u.Name) {
		if u.Email != "" {
			return u.Email
		}
		return "User"
	}
	return strings.TrimSpace(u.Name)
}
