package extractor

import (
	"context"
	"fmt"

	"github.com/lrstanley/go-ytdlp"

	"github.com/iconidentify/vidfetch/internal/toolchain"
)

// Invocation describes one yt-dlp call.
type Invocation struct {
	URL string

	// InfoOnly probes metadata without downloading media bytes.
	InfoOnly bool

	// Format and OutputTemplate apply to media downloads only.
	Format         string
	OutputTemplate string
}

// Output is what a yt-dlp process produced.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes yt-dlp. A non-nil Output may accompany an error.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (*Output, error)
}

// YTDLPRunner runs yt-dlp through go-ytdlp.
type YTDLPRunner struct {
	binaryPath string
}

// NewYTDLPRunner creates a runner. An empty binaryPath searches PATH for
// yt-dlp, then youtube-dl.
func NewYTDLPRunner(binaryPath string) *YTDLPRunner {
	return &YTDLPRunner{binaryPath: binaryPath}
}

// Run builds and executes the command for inv.
func (r *YTDLPRunner) Run(ctx context.Context, inv Invocation) (*Output, error) {
	bin, err := toolchain.FindDownloader(r.binaryPath)
	if err != nil {
		return nil, err
	}

	cmd := ytdlp.New().
		SetExecutable(bin).
		NoPlaylist().
		PlaylistItems("1").
		NoWarnings()

	if inv.InfoOnly {
		cmd = cmd.SkipDownload().DumpSingleJSON()
	} else {
		cmd = cmd.
			Format(inv.Format).
			Output(inv.OutputTemplate).
			DumpJSON().
			NoSimulate().
			RestrictFilenames().
			ForceOverwrites()
	}

	res, err := cmd.Run(ctx, inv.URL)
	out := &Output{}
	if res != nil {
		out.Stdout = res.Stdout
		out.Stderr = res.Stderr
		out.ExitCode = res.ExitCode
	}
	if err != nil {
		return out, fmt.Errorf("run yt-dlp: %w", err)
	}
	return out, nil
}
