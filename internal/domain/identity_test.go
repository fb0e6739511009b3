package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveName(t *testing.T) {
	assert.Equal(t, "John Doe", DeriveName("john.doe@x.com"))
	assert.Equal(t, "Jane", DeriveName("jane@example.com"))
	assert.Equal(t, "Mary Jane Watson", DeriveName("mary_jane-watson@example.com"))
	assert.Equal(t, "User", DeriveName("@example.com"))
	assert.Equal(t, "User", DeriveName("...@example.com"))
}

func TestDeriveName_MultiByteFirstLetter(t *testing.T) {
	assert.Equal(t, "Émile", DeriveName("émile@example.com"))
	assert.Equal(t, "Émile Zola", DeriveName("émile.zola@example.com"))
}

func TestIsPlaceholderName(t *testing.T) {
	assert.True(t, IsPlaceholderName(""))
	assert.True(t, IsPlaceholderName("  "))
	assert.True(t, IsPlaceholderName("guest"))
	assert.True(t, IsPlaceholderName("Guest"))
	assert.True(t, IsPlaceholderName("GUEST"))
	assert.False(t, IsPlaceholderName("Jane"))
	assert.False(t, IsPlaceholderName("guest account"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Jane", (&User{Name: "Jane", Email: "jane@x.com"}).DisplayName())
	assert.Equal(t, "jane@x.com", (&User{Name: "Guest", Email: "jane@x.com"}).DisplayName())
	assert.Equal(t, "jane@x.com", (&User{Email: "jane@x.com"}).DisplayName())
	assert.Equal(t, "User", (&User{Name: "guest"}).DisplayName())
	assert.Equal(t, "User", (*User)(nil).DisplayName())
}
