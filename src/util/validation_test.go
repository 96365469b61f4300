package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	require.True(t, ValidateEmail("user@example.com"))
	require.True(t, ValidateEmail("first.last+tag@sub.domain.co"))
	require.False(t, ValidateEmail("not-an-email"))
	require.False(t, ValidateEmail("user@domain"))
	require.False(t, ValidateEmail(""))
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	require.True(t, ValidatePassword("Str0ng!pass"))
	require.False(t, ValidatePassword("short1!"))
	require.False(t, ValidatePassword("alllowercase1!"))
	require.False(t, ValidatePassword("NoDigits!!"))
	require.False(t, ValidatePassword("NoSpecial123"))
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Food orders", SanitizeText("Food orders"))
	require.Equal(t, "Food orders", SanitizeText("  <b>Food</b> orders "))
	require.Equal(t, "", SanitizeText("<script>alert(1)</script>"))
}

func TestSanitizeTags(t *testing.T) {
	t.Parallel()

	tags := SanitizeTags([]string{" food ", "<i>delivery</i>", "<script></script>", ""})
	require.Equal(t, []string{"food", "delivery"}, tags)
}
