package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/dimasprakoso/siakad-cli/internal/client/entity"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("  Budi Santoso  \n"))

	got, err := GetSimpleText(r, "Nama", &out)
	require.NoError(t, err)
	require.Equal(t, "Budi Santoso", got)
	require.Contains(t, out.String(), "Nama")
}

func TestGetSimpleText_PartialLineAtEOF(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("no trailing newline"))

	got, err := GetSimpleText(r, "Nama", &out)
	require.NoError(t, err)
	require.Equal(t, "no trailing newline", got)
}

func TestGetSimpleText_EOF(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader(""))

	_, err := GetSimpleText(r, "Nama", &out)
	require.Error(t, err)
}

func TestGetMultiline(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("baris satu\nbaris dua\n\nleftover\n"))

	got, err := GetMultiline(r, "Content", &out)
	require.NoError(t, err)
	require.Equal(t, "baris satu\nbaris dua", got)

	// Reading stopped at the empty line; later input is untouched.
	next, _ := r.ReadString('\n')
	require.Equal(t, "leftover\n", next)
}

func TestGetPassword(t *testing.T) {
	orig := readPassword
	readPassword = func(fd int) ([]byte, error) { return []byte("rahasia"), nil }
	defer func() { readPassword = orig }()

	var out bytes.Buffer
	got, err := GetPassword(&out)
	require.NoError(t, err)
	require.Equal(t, "rahasia", got)
	require.Contains(t, out.String(), "Enter password")
}

func TestCollectInput(t *testing.T) {
	var out bytes.Buffer
	a := &App{
		reader: bufio.NewReader(strings.NewReader("Judul baru\nisi catatan\nbaris dua\n\n")),
		out:    &out,
	}

	values, err := a.collectInput([]entity.Field{
		{Name: "title", Label: "Title", Kind: entity.FieldText},
		{Name: "content", Label: "Content", Kind: entity.FieldMultiline},
	})
	require.NoError(t, err)
	require.Equal(t, "Judul baru", values["title"])
	require.Equal(t, "isi catatan\nbaris dua", values["content"])
}
