package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumni/internal/alumni"
	"alumni/internal/auth"
	"alumni/internal/config"
	"alumni/internal/handler"
	"alumni/internal/importjob"
	"alumni/internal/jobboard"
	"alumni/internal/queue"
)

const testCSV = `Alumni ID,Name,DOB,Department,Batch,Contact,Status
A1,Ann,1999-01-01,CSE,2022,12345,Employed
OLD,Bob,1999-01-01,CSE,2022,12345,Employed
A2,"Lee, Cy",2000-02-30,ECE,2021,54321,Employed
A3,Di,2000-02-02,ECE,2021,54321,Higher Studies
`

func testConfig() config.App {
	return config.App{
		LogLevel:      "error",
		JWTIssuer:     "alumnictl-test",
		JWTSigningKey: "alumnictl-test-key",
		AccessTTL:     time.Hour,
		ImportDelay:   -1,
	}
}

func startAPI(t *testing.T, cfg config.App) (*alumni.Service, string, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := alumni.NewService(alumni.NewMemoryStore())
	h := handler.New(handler.Deps{
		Alumni:      svc,
		Jobs:        jobboard.NewService(jobboard.NewMemoryStore()),
		Preferences: jobboard.NewMemoryPreferences(),
		Imports:     importjob.NewMemoryStore(time.Hour),
		Queue:       queue.NewInMemory(1),
	})
	r := gin.New()
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	h.Register(r, auth.Bearer(cfg.JWTSigningKey, cfg.JWTIssuer, auth.RoleAdmin))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	tok, err := auth.Issue("cli@example.com", auth.RoleAdmin, cfg.JWTIssuer, cfg.JWTSigningKey, time.Hour)
	require.NoError(t, err)
	return svc, srv.URL, tok.AccessToken
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alumni.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, cfg config.App, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(cfg)
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestImportCommand(t *testing.T) {
	cfg := testConfig()
	svc, srvURL, token := startAPI(t, cfg)
	_, err := svc.Create(context.Background(), alumni.Record{
		AlumniID: "OLD", Name: "Bob", DOB: "1999-01-01", Department: "CSE", Batch: "2022", Contact: "12345", Status: "Employed",
	})
	require.NoError(t, err)

	path := writeCSV(t, testCSV)
	out, err := run(t, cfg, "", "import", path, "--api", srvURL, "--token", token, "--delay", "1ms", "--yes")
	require.NoError(t, err, out)

	assert.Contains(t, out, "Total rows: 4  Valid: 2  Invalid: 2")
	assert.Contains(t, out, "Alumni ID already exists in database")
	assert.Contains(t, out, "Invalid date format (use YYYY-MM-DD)")
	assert.Contains(t, out, "[1/2] A1 succeeded")
	assert.Contains(t, out, "[2/2] A3 succeeded")
	assert.Contains(t, out, "Imported: 2  Skipped: 0  Failed: 0  (completed)")

	list, err := svc.List(context.Background(), alumni.Filter{})
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestImportCommandDryRunAndDecline(t *testing.T) {
	cfg := testConfig()
	svc, srvURL, token := startAPI(t, cfg)
	path := writeCSV(t, testCSV)

	out, err := run(t, cfg, "", "import", path, "--api", srvURL, "--token", token, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Valid: 3")
	assert.NotContains(t, out, "Imported:")

	out, err = run(t, cfg, "n\n", "import", path, "--api", srvURL, "--token", token)
	require.NoError(t, err)
	assert.Contains(t, out, "Import aborted.")

	list, err := svc.List(context.Background(), alumni.Filter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestImportCommandRejectsFiles(t *testing.T) {
	cfg := testConfig()
	_, srvURL, _ := startAPI(t, cfg)

	xlsx := filepath.Join(t.TempDir(), "alumni.xlsx")
	require.NoError(t, os.WriteFile(xlsx, []byte("x"), 0o600))
	_, err := run(t, cfg, "", "import", xlsx, "--api", srvURL, "--yes")
	assert.Error(t, err)

	_, err = run(t, cfg, "", "import", writeCSV(t, "Alumni ID,Name\nA1,Ann\n"), "--api", srvURL, "--yes")
	assert.ErrorContains(t, err, "header")

	_, err = run(t, cfg, "", "import", writeCSV(t, "Alumni ID,Name,DOB,Department,Batch,Contact,Status\nA1,,,,,,\n"), "--api", srvURL, "--yes")
	assert.Error(t, err)
}

func TestImportCommandChecksAPIHealth(t *testing.T) {
	cfg := testConfig()
	path := writeCSV(t, testCSV)

	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()
	_, err := run(t, cfg, "", "import", path, "--api", downURL, "--yes")
	assert.ErrorContains(t, err, "alumni service unavailable")

	unhealthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" {
			t.Errorf("unexpected request %s before health check passed", r.URL.Path)
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(unhealthy.Close)
	out, err := run(t, cfg, "", "import", path, "--api", unhealthy.URL, "--yes")
	assert.ErrorContains(t, err, "alumni service unhealthy")
	assert.NotContains(t, out, "Total rows")
}

func TestTokenCommand(t *testing.T) {
	cfg := testConfig()
	out, err := run(t, cfg, "", "token", "--subject", "ops@example.com")
	require.NoError(t, err)

	tok := strings.SplitN(out, "\n", 2)[0]
	claims, err := auth.Parse(tok, cfg.JWTSigningKey, cfg.JWTIssuer)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Subject)
	assert.Equal(t, auth.RoleAdmin, claims.Role)

	_, err = run(t, cfg, "", "token")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	cfg := testConfig()
	svc, srvURL, token := startAPI(t, cfg)
	_, err := svc.Create(context.Background(), alumni.Record{
		AlumniID: "A1", Name: "Ann", DOB: "1999-01-01", Department: "CSE", Batch: "2022", Contact: "12345", Status: "Employed",
	})
	require.NoError(t, err)

	out, err := run(t, cfg, "", "export", "--api", srvURL, "--token", token, "-o", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Alumni ID,Name,DOB,Department,Batch,Contact,Status\nA1,Ann,"), out)

	_, err = run(t, cfg, "", "export", "--api", srvURL, "--format", "pdf")
	assert.Error(t, err)
}
