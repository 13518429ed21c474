package extractor

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// argvScript stands in for yt-dlp and prints each argument on its own line.
const argvScript = "#!/bin/sh\nfor a in \"$@\"; do printf '%s\\n' \"$a\"; done\n"

func newArgvRunner(t *testing.T) *YTDLPRunner {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in requires a POSIX shell")
	}
	bin := filepath.Join(t.TempDir(), "yt-dlp")
	require.NoError(t, os.WriteFile(bin, []byte(argvScript), 0755))
	return NewYTDLPRunner(bin)
}

func argv(t *testing.T, out *Output) []string {
	t.Helper()
	require.NotNil(t, out)
	return strings.Split(strings.TrimSpace(out.Stdout), "\n")
}

// valueOf returns the argument following flag, or "" if flag is absent.
func valueOf(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(a, flag+"="); ok {
			return v
		}
	}
	return ""
}

func TestYTDLPRunner_InfoInvocation(t *testing.T) {
	r := newArgvRunner(t)

	out, err := r.Run(context.Background(), Invocation{
		URL:      "https://vimeo.com/12345",
		InfoOnly: true,
	})
	require.NoError(t, err)

	args := argv(t, out)
	assert.Contains(t, args, "--skip-download")
	assert.Contains(t, args, "--dump-single-json")
	assert.Contains(t, args, "--no-playlist")
	assert.Contains(t, args, "--no-warnings")
	assert.Equal(t, "1", valueOf(args, "--playlist-items"))
	assert.Equal(t, "https://vimeo.com/12345", args[len(args)-1])

	assert.NotContains(t, args, "--format")
	assert.NotContains(t, args, "--no-simulate")
}

func TestYTDLPRunner_MediaInvocation(t *testing.T) {
	r := newArgvRunner(t)
	tpl := filepath.Join(t.TempDir(), "%(id)s.%(ext)s")

	out, err := r.Run(context.Background(), Invocation{
		URL:            "https://youtu.be/dQw4w9WgXcQ",
		Format:         "bestvideo[height<=720]+bestaudio/best[height<=720]",
		OutputTemplate: tpl,
	})
	require.NoError(t, err)

	args := argv(t, out)
	assert.Equal(t, "bestvideo[height<=720]+bestaudio/best[height<=720]", valueOf(args, "--format"))
	assert.Equal(t, tpl, valueOf(args, "--output"))
	assert.Equal(t, "1", valueOf(args, "--playlist-items"))
	assert.Contains(t, args, "--restrict-filenames")
	assert.Contains(t, args, "--force-overwrites")
	assert.Contains(t, args, "--dump-json")
	assert.Contains(t, args, "--no-simulate")
	assert.Contains(t, args, "--no-playlist")
	assert.NotContains(t, args, "--skip-download")
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", args[len(args)-1])
}

func TestYTDLPRunner_MissingBinary(t *testing.T) {
	r := NewYTDLPRunner(filepath.Join(t.TempDir(), "no-such-yt-dlp"))

	_, err := r.Run(context.Background(), Invocation{URL: "https://vimeo.com/1", InfoOnly: true})
	assert.Error(t, err)
}
