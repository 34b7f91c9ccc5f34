package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/melodiq/melodiq/internal/catalog"
	"github.com/stretchr/testify/require"
)

func TestParseSequence(t *testing.T) {
	notes, err := catalog.ParseSequence("C4-E4-G4")
	require.NoError(t, err)
	require.Equal(t, []catalog.Note{"C4", "E4", "G4"}, notes)
	require.Equal(t, "C4-E4-G4", catalog.JoinNotes(notes))
}

func TestParseSequence_Accidentals(t *testing.T) {
	notes, err := catalog.ParseSequence("F#3-Bb5")
	require.NoError(t, err)
	require.Equal(t, []catalog.Note{"F#3", "Bb5"}, notes)
}

func TestParseSequence_Invalid(t *testing.T) {
	for _, bad := range []string{"", "H4", "C", "C9", "C#", "C4--E4", "c4"} {
		_, err := catalog.ParseSequence(bad)
		require.ErrorIs(t, err, catalog.ErrBadNote, "input %q", bad)
	}
}

func TestEqualNotes(t *testing.T) {
	require.True(t, catalog.EqualNotes([]catalog.Note{"C4", "E4"}, []catalog.Note{"C4", "E4"}))
	require.False(t, catalog.EqualNotes([]catalog.Note{"E4", "C4"}, []catalog.Note{"C4", "E4"}))
	require.False(t, catalog.EqualNotes([]catalog.Note{"C4"}, []catalog.Note{"C4", "E4"}))
}

func TestExpectedSlots(t *testing.T) {
	seq := &catalog.Sequence{
		Beginning: []catalog.Note{"C4", "E4", "G4"},
		Ending:    []catalog.Note{"C4", "E4"},
	}
	require.Equal(t, 2, seq.ExpectedSlots())
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `sequences:
  - id: seq-1
    level: 1
    beginning: C4-E4-G4
    ending: C4-E4
  - id: seq-2
    level: 2
    beginning: D4-F#4
    ending: A4
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	sequences, err := catalog.LoadSeed(path)
	require.NoError(t, err)
	require.Len(t, sequences, 2)
	require.Equal(t, "seq-1", sequences[0].ID)
	require.Equal(t, 2, sequences[0].ExpectedSlots())
	require.Equal(t, []catalog.Note{"D4", "F#4"}, sequences[1].Beginning)
}

func TestLoadSeed_BadNote(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `sequences:
  - id: seq-1
    level: 1
    beginning: C4-X4
    ending: C4
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := catalog.LoadSeed(path)
	require.ErrorIs(t, err, catalog.ErrBadNote)
}
