package rouge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_Identical(t *testing.T) {
	text := "The central bank raised interest rates by a quarter point on Wednesday."

	scores, err := Score(text, text)
	require.NoError(t, err)
	for _, m := range Metrics {
		assert.InDelta(t, 1.0, scores[m], 1e-9, m)
	}
}

func TestScore_EmptySide(t *testing.T) {
	for _, tc := range [][2]string{{"reference text", ""}, {"", "candidate text"}, {"", ""}} {
		scores, err := Score(tc[0], tc[1])
		require.NoError(t, err)
		assert.Equal(t, Zero(), scores)
		assert.Len(t, scores, 3)
	}
}

func TestScore_KnownValues(t *testing.T) {
	scores, err := Score("the cat sat on the mat", "the cat sat on a mat")
	require.NoError(t, err)

	assert.InDelta(t, 5.0/6.0, scores[Rouge1], 1e-9)
	assert.InDelta(t, 0.6, scores[Rouge2], 1e-9)
	assert.InDelta(t, 5.0/6.0, scores[RougeL], 1e-9)
}

func TestScore_Disjoint(t *testing.T) {
	scores, err := Score("alpha beta gamma", "delta epsilon zeta")
	require.NoError(t, err)
	for _, m := range Metrics {
		assert.Zero(t, scores[m], m)
	}
}

func TestScore_Stemming(t *testing.T) {
	scores, err := Score("running dogs", "runs dog")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, scores[Rouge1], 1e-9)
}

func TestScore_BoundedAndOrderSensitive(t *testing.T) {
	scores, err := Score("one two three four five", "five four three two one")
	require.NoError(t, err)

	assert.InDelta(t, 1.0, scores[Rouge1], 1e-9)
	assert.Zero(t, scores[Rouge2])
	assert.InDelta(t, 0.2, scores[RougeL], 1e-9)
	for _, m := range Metrics {
		assert.GreaterOrEqual(t, scores[m], 0.0)
		assert.LessOrEqual(t, scores[m], 1.0)
	}
}

func TestScore_InvalidUTF8(t *testing.T) {
	_, err := Score("valid", "bad \xff bytes")
	assert.ErrorIs(t, err, ErrInvalidText)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"the", "cat", "s", "toy"}, Tokenize("The cat's toy!"))
	assert.Equal(t, []string{"run", "fast", "2024"}, Tokenize("RUNNING fast, 2024"))
	assert.Empty(t, Tokenize("... --- !!!"))
}

func TestTokenize_Porter2Stems(t *testing.T) {
	// Porter2 keeps more of the stem than the classic Porter algorithm
	assert.Equal(t, []string{"generous"}, Tokenize("generously"))
	assert.Equal(t, []string{"cat", "run", "quick"}, Tokenize("cats running quickly"))
}

func TestLCSLength(t *testing.T) {
	assert.Equal(t, 0, lcsLength(nil, []string{"a"}))
	assert.Equal(t, 3, lcsLength([]string{"a", "b", "c", "d"}, []string{"a", "c", "d"}))
	assert.Equal(t, 2, lcsLength([]string{"x", "a", "y", "b"}, []string{"a", "b"}))
}
