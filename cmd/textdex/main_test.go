package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/textdex"
)

type note struct {
	ID   string `textdex:"Id,id"`
	Body string `textdex:"Body,text,highlight"`
}

func seedIndex(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "idx")
	e, err := textdex.New(textdex.WithIndexDir(dir))
	require.NoError(t, err)
	defer e.Close()

	idx, err := textdex.NewIndex[note](e)
	require.NoError(t, err)
	require.NoError(t, idx.CreateIndex(context.Background(), []note{
		{ID: "a", Body: "likes fishing"},
		{ID: "b", Body: "likes games"},
	}, true))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env", "test"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()
	names := make([]string, 0)
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "info", "search", "keywords"} {
		assert.Contains(t, names, want)
	}
}

func TestInfoCmd(t *testing.T) {
	dir := seedIndex(t)

	out, err := run(t, "--index", dir, "info")
	require.NoError(t, err)
	assert.Contains(t, out, "documents:")
	assert.Contains(t, out, dir)

	out, err = run(t, "--index", dir, "info", "--json")
	require.NoError(t, err)
	var info textdex.IndexInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, uint64(2), info.DocCount)
}

func TestSearchCmd(t *testing.T) {
	dir := seedIndex(t)

	out, err := run(t, "--index", dir, "search", "--highlight", "Body", "Body:fishing")
	require.NoError(t, err)
	assert.Contains(t, out, "1 hit(s)")
	assert.Contains(t, out, "Body: likes <b>fishing</b>")
	assert.NotContains(t, out, "games")

	out, err = run(t, "--index", dir, "search", "--json", "--order-by", "-Id", "*")
	require.NoError(t, err)
	var rs textdex.ResultSet[textdex.Document]
	require.NoError(t, json.Unmarshal([]byte(out), &rs))
	require.Len(t, rs.Results, 2)
	assert.Equal(t, "b", rs.Results[0].Data.Fields["Id"])
}

func TestSearchCmd_BadQuery(t *testing.T) {
	dir := seedIndex(t)
	_, err := run(t, "--index", dir, "search", "Body:")
	require.ErrorIs(t, err, textdex.ErrInvalidArgument)
}

func TestKeywordsCmd(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "--index", dir, "--analyzer", "simple", "keywords", "--stop-words", "the boat and the sea")
	require.NoError(t, err)
	assert.Equal(t, []string{"boat", "sea"}, strings.Fields(out))
}

func TestMissingConfigWithoutIndex(t *testing.T) {
	_, err := run(t, "info")
	require.Error(t, err)
}

func TestHumanBytes(t *testing.T) {
	tests := map[uint64]string{
		0:       "0 B",
		1023:    "1023 B",
		1024:    "1.0 KiB",
		1536:    "1.5 KiB",
		1 << 20: "1.0 MiB",
		5 << 30: "5.0 GiB",
	}
	for n, want := range tests {
		assert.Equal(t, want, humanBytes(n), n)
	}
}
