package fasta

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plain = `>chainA|Insulin A chain
GIVEQCCTSI
CSLYQLENYCN

>chainB Insulin B chain
FVNQHLCGSHLVEALYLVCGERGFFYTPKT
`

func TestRead(t *testing.T) {
	records, err := Read(strings.NewReader(plain))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "chainA", records[0].ID)
	assert.Equal(t, "Insulin A chain", records[0].Description)
	assert.Equal(t, "GIVEQCCTSICSLYQLENYCN", records[0].Sequence)
	assert.Equal(t, "chainB", records[1].ID)
	assert.Equal(t, "FVNQHLCGSHLVEALYLVCGERGFFYTPKT", records[1].Sequence)
}

func TestRead_SequenceBeforeHeader(t *testing.T) {
	_, err := Read(strings.NewReader("MKV\n>a\nMKV\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestRead_EmptyHeaderGetsID(t *testing.T) {
	records, err := Read(strings.NewReader(">\nMKV\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "sequence_1", records[0].ID)
}

func TestWrite_WrapsAndRoundTrips(t *testing.T) {
	long := strings.Repeat("A", 170)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []Record{{ID: "x", Description: "long one", Sequence: long}}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, ">x|long one", lines[0])
	assert.Len(t, lines[1], LineWidth)
	assert.Len(t, lines[3], 10)

	back, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, long, back[0].Sequence)
	assert.Equal(t, "long one", back[0].Description)
}

func TestReadFile_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.fasta.gz")
	fh, err := os.Create(path)
	require.NoError(t, err)
	gw := gzip.NewWriter(fh)
	_, err = gw.Write([]byte(plain))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, fh.Close())

	records, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.fasta"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestHasExtension(t *testing.T) {
	assert.True(t, HasExtension("a.fasta"))
	assert.True(t, HasExtension("a.FA"))
	assert.True(t, HasExtension("a.faa.gz"))
	assert.False(t, HasExtension("a.txt"))
}
