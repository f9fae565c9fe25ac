package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/swaglabs-e2e/internal/artifacts"
	"github.com/themizzi/swaglabs-e2e/internal/authstate"
	"github.com/themizzi/swaglabs-e2e/internal/config"
	"github.com/themizzi/swaglabs-e2e/internal/fixture"
	"go.uber.org/zap"
)

var (
	okColor    = color.New(color.FgGreen, color.Bold)
	staleColor = color.New(color.FgRed, color.Bold)
	faintColor = color.New(color.Faint)
)

// RunSaveAuth logs in as the configured user and writes the auth state file
func RunSaveAuth(ctx context.Context, cfg *config.SuiteConfig, logger *zap.Logger, w io.Writer) error {
	provider, err := fixture.NewProvider(cfg, logger)
	if err != nil {
		return err
	}
	defer provider.Close()

	state, err := provider.SaveAuthState(ctx)
	if err != nil {
		return err
	}
	okColor.Fprint(w, "saved ")
	fmt.Fprintf(w, "%s for %s\n", state.Path, cfg.Username)
	return nil
}

// ReportAuthState prints whether the auth state file can be used and returns
// the staleness error when it cannot
func ReportAuthState(w io.Writer, cache *authstate.Cache, now time.Time) error {
	state, err := cache.Load()
	if err != nil {
		staleColor.Fprint(w, "stale ")
		fmt.Fprintf(w, "%s\n", cache.Path)
		faintColor.Fprintf(w, "  %v\n", err)
		return err
	}

	okColor.Fprint(w, "fresh ")
	fmt.Fprintf(w, "%s\n", state.Path)
	faintColor.Fprintf(w, "  saved %s ago\n", now.Sub(state.SavedAt).Round(time.Second))
	if exp := state.SessionExpiry(); exp.IsZero() {
		faintColor.Fprintf(w, "  session cookie %s lasts for the browser session\n", state.Session.Name)
	} else {
		faintColor.Fprintf(w, "  session cookie %s expires in %s\n", state.Session.Name, exp.Sub(now).Round(time.Second))
	}
	return nil
}

// RunUploadArtifacts uploads the results directory to the configured bucket
func RunUploadArtifacts(ctx context.Context, cfg *config.ArtifactsConfig, dir string, logger *zap.Logger, w io.Writer) error {
	uploader, err := artifacts.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return uploadArtifacts(ctx, uploader, cfg.Bucket, dir, w)
}

func uploadArtifacts(ctx context.Context, uploader *artifacts.Uploader, bucket, dir string, w io.Writer) error {
	summary, err := uploader.UploadDir(ctx, dir)
	if err != nil {
		return err
	}
	for _, key := range summary.Keys {
		faintColor.Fprintf(w, "  s3://%s/%s\n", bucket, key)
	}
	okColor.Fprint(w, "uploaded ")
	fmt.Fprintf(w, "%d files (%d bytes)\n", summary.Files, summary.Bytes)
	return nil
}

// RunInstall downloads the Playwright driver and the named browsers
func RunInstall(browsers []string) error {
	return playwright.Install(&playwright.RunOptions{Browsers: browsers})
}
