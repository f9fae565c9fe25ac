package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/fatih/color"
	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/themizzi/swaglabs-e2e/internal/artifacts"
	"github.com/themizzi/swaglabs-e2e/internal/authstate"
	"github.com/themizzi/swaglabs-e2e/internal/errs"
	"go.uber.org/zap/zaptest"
)

func init() {
	color.NoColor = true
}

func writeAuthState(t *testing.T, expires float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "auth.json")
	doc := `{"cookies":[{"name":"session-username","value":"standard_user","domain":"127.0.0.1","path":"/","expires":` +
		formatFloat(expires) + `,"httpOnly":false,"secure":false,"sameSite":"Lax"}],"origins":[]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	return path
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func TestReportAuthState(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		expires   float64
		wantErr   bool
		wantLines []string
	}{
		{
			name:      "fresh browser session cookie",
			expires:   -1,
			wantLines: []string{"fresh ", "lasts for the browser session"},
		},
		{
			name:      "fresh expiring cookie",
			expires:   float64(now.Add(10 * time.Minute).Unix()),
			wantLines: []string{"fresh ", "expires in"},
		},
		{
			name:      "expired cookie",
			expires:   float64(now.Add(-time.Minute).Unix()),
			wantErr:   true,
			wantLines: []string{"stale "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN
			cache := &authstate.Cache{
				Path:          writeAuthState(t, tt.expires),
				BaseURL:       "http://127.0.0.1:8080",
				SessionCookie: "session-username",
				MaxAge:        time.Hour,
			}
			var out bytes.Buffer

			// WHEN
			err := ReportAuthState(&out, cache, now)

			// THEN
			if tt.wantErr {
				assert.Equal(t, errs.StaleAuthState, errs.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
			for _, want := range tt.wantLines {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestUploadArtifacts(t *testing.T) {
	// GIVEN a fake bucket and a results directory
	ts := httptest.NewServer(gofakes3.New(s3mem.New()).Server())
	defer ts.Close()

	ctx := context.Background()
	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("k", "s", "")),
	)
	require.NoError(t, err)
	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(ts.URL)
		o.UsePathStyle = true
	})
	_, err = client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String("results")})
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "trace-TestLogin.zip"), []byte("zip"), 0o644))

	uploader := artifacts.NewFromS3Client(client, "results", "ci", 2, zaptest.NewLogger(t))
	var out bytes.Buffer

	// WHEN
	err = uploadArtifacts(ctx, uploader, "results", dir, &out)

	// THEN
	require.NoError(t, err)
	assert.Contains(t, out.String(), "s3://results/ci/trace-TestLogin.zip")
	assert.Contains(t, out.String(), "uploaded 1 files (3 bytes)")
}
