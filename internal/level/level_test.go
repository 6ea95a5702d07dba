package level

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const simple = `
#####
#@$.#
#####
`

func TestParseSimpleLevel(t *testing.T) {
	b, err := ParseString(simple)
	require.NoError(t, err)
	assert.Len(t, b.BoxPositions(), 1)
	assert.Equal(t, MaxSteps, b.MaxSteps())
}

func TestParseRejectsMissingPlayer(t *testing.T) {
	_, err := ParseString("#####\n#$.  #\n#####")
	require.Error(t, err)
}

func TestParseRejectsUnrecognizedCharacter(t *testing.T) {
	_, err := ParseString("#####\n#@$?#\n#####")
	require.Error(t, err)
}

func TestParsePadsShortRowsWithWalls(t *testing.T) {
	// The middle row is shorter than the others; Sokoban-XSB files commonly
	// omit the trailing wall run.
	text := "#####\n#@$.\n#####"
	b, err := ParseString(text)
	require.NoError(t, err)
	_, width := b.Dimensions()
	assert.Equal(t, 5, width)
}

func TestParseAllSplitsOnBlankLines(t *testing.T) {
	pack := `Level 1
#####
#@$.#
#####

Level 2
######
#@$. #
######
`
	boards, err := ParseAll(strings.NewReader(pack))
	require.NoError(t, err)
	require.Len(t, boards, 2)
}
