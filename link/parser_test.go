package link

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParser_Parse(t *testing.T) {
	parser := NewParser()

	testCases := []struct {
		description string
		URL         string
		expectKind  string
		expectParam map[string]string
	}{
		{
			description: "universal invite link with path code",
			URL:         "https://bank.example.com/invite/A1",
			expectKind:  "invite",
			expectParam: map[string]string{"code": "A1"},
		},
		{
			description: "custom scheme invite with query code",
			URL:         "bank://invite?code=A1",
			expectKind:  "invite",
			expectParam: map[string]string{"code": "A1"},
		},
		{
			description: "path parameter wins over query on conflict",
			URL:         "https://bank.example.com/invite/A1?code=B2",
			expectKind:  "invite",
			expectParam: map[string]string{"code": "A1"},
		},
		{
			description: "reset password token",
			URL:         "https://bank.example.com/reset-password/tok-9",
			expectKind:  "reset-password",
			expectParam: map[string]string{"token": "tok-9"},
		},
		{
			description: "package detail",
			URL:         "bank://package/p-42",
			expectKind:  "package-detail",
			expectParam: map[string]string{"packageId": "p-42"},
		},
	}

	for _, testCase := range testCases {
		parsed, err := parser.Parse(testCase.URL)
		require.NoError(t, err, testCase.description)
		require.Equal(t, testCase.expectKind, parsed.Kind, testCase.description)
		require.Equal(t, testCase.expectParam, parsed.Params, testCase.description)
	}
}

func TestParser_Parse_Unknown(t *testing.T) {
	parser := NewParser()
	_, err := parser.Parse("https://bank.example.com/settings")
	require.ErrorIs(t, err, ErrUnknownLink)
}

func TestParser_WithSchemes(t *testing.T) {
	parser := NewParser(WithSchemes("bank"))
	_, err := parser.Parse("https://bank.example.com/invite/A1")
	require.ErrorIs(t, err, ErrUnknownLink)
	parsed, err := parser.Parse("bank://invite/A1")
	require.NoError(t, err)
	require.Equal(t, "invite", parsed.Kind)
}

func TestParser_WithRule(t *testing.T) {
	parser := NewParser(WithRule(Rule{Kind: "statement", Path: "/statement/{month}"}))
	parsed, err := parser.Parse("bank://statement/2025-05")
	require.NoError(t, err)
	require.Equal(t, "statement", parsed.Kind)
	require.Equal(t, map[string]string{"month": "2025-05"}, parsed.Params)
}
