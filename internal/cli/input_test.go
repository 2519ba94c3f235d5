package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer

	s, err := GetSimpleText(readerFromLines("  hello  "), "Say something", &out)
	require.NoError(t, err)

	assert.Equal(t, "hello", s)
	assert.Contains(t, out.String(), "Say something")
}

func TestGetSimpleText_PartialLineAtEOF(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("no newline"))

	s, err := GetSimpleText(r, "p", &out)
	require.NoError(t, err)
	assert.Equal(t, "no newline", s)
}

func TestGetSimpleText_EmptyEOF(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader(""))

	_, err := GetSimpleText(r, "p", &out)
	assert.Error(t, err)
}

func TestGetID(t *testing.T) {
	var out bytes.Buffer

	id, err := GetID(readerFromLines("-42"), "id", &out)
	require.NoError(t, err)
	assert.Equal(t, int32(-42), id)

	_, err = GetID(readerFromLines("banana"), "id", &out)
	assert.Error(t, err)

	// does not fit in int32
	_, err = GetID(readerFromLines("3000000000"), "id", &out)
	assert.Error(t, err)
}
