package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lex(t *testing.T, line string) []Token {
	t.Helper()

	tokens, err := Lex(line, lexEnv())
	require.NoError(t, err)
	return tokens
}

func TestParse_singleStage(t *testing.T) {
	stages, err := Parse(lex(t, "echo hello world"))
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"echo", "hello", "world"}}, stages)
}

func TestParse_pipeline(t *testing.T) {
	stages, err := Parse(lex(t, "echo hello | cat | wc"))
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"echo", "hello"},
		{"cat"},
		{"wc"},
	}, stages)
}

func TestParse_empty(t *testing.T) {
	stages, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, stages)
}

func TestParse_emptyStages(t *testing.T) {
	cases := map[string]string{
		"leading-pipe":  "| echo",
		"trailing-pipe": "echo 1 |",
		"double-pipe":   "echo 1 || wc",
		"only-pipe":     "|",
	}

	for tn, line := range cases {
		t.Run(tn, func(t *testing.T) {
			_, err := Parse(lex(t, line))
			assert.ErrorIs(t, err, ErrEmptyStage)
		})
	}
}
