package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/nao1215/reportscope/internal/api"
	"github.com/nao1215/reportscope/internal/generate"
)

const (
	projectsJSON = `[
		{"_id":"p1","projectName":"Demo","scans":[
			{"_id":"s1","timestamp":"2024-05-01T10:20:30Z","username":"alice"},
			{"_id":"s2","timestamp":"2024-05-02T08:00:00Z","username":"bob"}
		]},
		{"_id":"p2","projectName":"Shop","scans":[
			{"_id":"s1","timestamp":"2024-05-01T10:20:30Z","username":"alice"},
			{"_id":"s4","timestamp":"2024-05-03T12:00:00Z","username":"carol"}
		]}
	]`

	scan1JSON = `{"_id":"s1","timestamp":"2024-05-01T10:20:30Z","username":"alice","project":"p1",
		"reportData":{
			"scanDetails":{"xss":{"src/app.js":["line 3","line 9"]},"sqli":{"db.py":[12]}},
			"stats":{"JavaScript":75.5,"Python":24.5}
		}}`

	scan1Text = "Username: alice\nProject: Demo\nTimestamp: 2024-05-01T10:20:30Z\n\n" +
		"Vulnerabilities:\n" +
		"XSS:\n  Path: src/app.js\n  Instances: line 3, line 9\n\n" +
		"SQLI:\n  Path: db.py\n  Instances: 12\n\n" +
		"Language Statistics:\nJavaScript: 75.50%\nPython: 24.50%\n"
)

// newFakeService serves the report and suggestion endpoints.
// Scan s2 always fails and scan s3 has no project.
func newFakeService(t *testing.T) *httptest.Server {
	t.Helper()

	projects := map[string]string{
		"p1": `{"_id":"p1","projectName":"Demo","scans":[{"_id":"s1"},{"_id":"s2"}]}`,
		"p2": `{"_id":"p2","projectName":"Shop","scans":[{"_id":"s1"},{"_id":"s4"}]}`,
	}
	scans := map[string]string{
		"s1": scan1JSON,
		"s3": `{"_id":"s3","username":"dave","project":null}`,
		"s4": `{"_id":"s4","timestamp":"2024-05-03T12:00:00Z","username":"carol","project":{"_id":"p2","projectName":"Shop"}}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /projects", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, projectsJSON)
	})
	mux.HandleFunc("GET /project/{id}", func(w http.ResponseWriter, r *http.Request) {
		body, ok := projects[r.PathValue("id")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	})
	mux.HandleFunc("GET /scan/{id}", func(w http.ResponseWriter, r *http.Request) {
		body, ok := scans[r.PathValue("id")]
		if !ok {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, body)
	})
	mux.HandleFunc("POST /generate-suggestion", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			CourseName string `json:"course_name"`
		}
		if err := json.UnmarshalRead(r.Body, &in); err != nil || in.CourseName != "Databases" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, `{"suggestions":"  Use worked examples\n\n Pair work \n"}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// writeTestConfig writes a config file pointing at baseURL and returns its
// path and export directory.
func writeTestConfig(t *testing.T, baseURL string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	exportDir := filepath.Join(dir, "exports")
	content := fmt.Sprintf(`base_url: %s
timeout: 5s
suggestion_url: %s/generate-suggestion
export:
  dir: %s
  format: text
  concurrency: 2
`, baseURL, baseURL, exportDir)

	path := filepath.Join(dir, ".reportscope")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path, exportDir
}

// runCLI executes the root command and returns what it printed to stdout.
func runCLI(t *testing.T, configPath, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--config", configPath))

	err := root.Execute()
	return out.String(), err
}

// TestProjectsCmd tests listing projects.
func TestProjectsCmd(t *testing.T) {
	t.Parallel()

	t.Run("lists projects with scans", func(t *testing.T) {
		t.Parallel()

		cfgPath, _ := writeTestConfig(t, newFakeService(t).URL)
		out, err := runCLI(t, cfgPath, "", "projects")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"Demo", "Shop", "s1", "s4", "alice", "carol"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}
	})

	t.Run("brief omits scans", func(t *testing.T) {
		t.Parallel()

		cfgPath, _ := writeTestConfig(t, newFakeService(t).URL)
		out, err := runCLI(t, cfgPath, "", "projects", "--brief")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(out, "alice") {
			t.Errorf("expected no scans in brief output, got:\n%s", out)
		}
	})

	t.Run("list failure is terminal", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		t.Cleanup(srv.Close)

		cfgPath, _ := writeTestConfig(t, srv.URL)
		_, err := runCLI(t, cfgPath, "", "projects")
		if !errors.Is(err, api.ErrFetch) {
			t.Fatalf("expected fetch error, got %v", err)
		}
		if got := api.StatusCodeOf(err); got != http.StatusServiceUnavailable {
			t.Errorf("expected status 503, got %d", got)
		}
	})
}

// TestShowCmd tests printing one scan.
func TestShowCmd(t *testing.T) {
	t.Parallel()

	cfgPath, _ := writeTestConfig(t, newFakeService(t).URL)

	t.Run("prints header and report", func(t *testing.T) {
		t.Parallel()

		out, err := runCLI(t, cfgPath, "", "show", "s1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != scan1Text {
			t.Errorf("unexpected output:\n got: %q\nwant: %q", out, scan1Text)
		}
	})

	t.Run("load failure", func(t *testing.T) {
		t.Parallel()

		if _, err := runCLI(t, cfgPath, "", "show", "s2"); !errors.Is(err, api.ErrFetch) {
			t.Errorf("expected fetch error, got %v", err)
		}
	})

	t.Run("scan without project", func(t *testing.T) {
		t.Parallel()

		_, err := runCLI(t, cfgPath, "", "show", "s3")
		if err == nil || !strings.Contains(err.Error(), "no project") {
			t.Errorf("expected missing project error, got %v", err)
		}
	})
}

// TestExportCmd tests single and project exports.
func TestExportCmd(t *testing.T) {
	t.Parallel()

	t.Run("exports one scan", func(t *testing.T) {
		t.Parallel()

		cfgPath, exportDir := writeTestConfig(t, newFakeService(t).URL)
		out, err := runCLI(t, cfgPath, "", "export", "s1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		path := filepath.Join(exportDir, "report-s1.txt")
		if !strings.Contains(out, path) {
			t.Errorf("expected output to name %s, got %q", path, out)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		if string(content) != scan1Text {
			t.Errorf("unexpected export:\n got: %q\nwant: %q", content, scan1Text)
		}
	})

	t.Run("format and out flags", func(t *testing.T) {
		t.Parallel()

		cfgPath, _ := writeTestConfig(t, newFakeService(t).URL)
		outDir := t.TempDir()
		if _, err := runCLI(t, cfgPath, "", "export", "-f", "md", "-o", outDir, "s1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(filepath.Join(outDir, "report-s1.md"))
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		if !strings.Contains(string(content), "Demo") {
			t.Errorf("expected project name in markdown export, got:\n%s", content)
		}
	})

	t.Run("unresolved scan is not exported", func(t *testing.T) {
		t.Parallel()

		cfgPath, exportDir := writeTestConfig(t, newFakeService(t).URL)
		_, err := runCLI(t, cfgPath, "", "export", "s3")
		if err == nil || !strings.Contains(err.Error(), "cannot be exported") {
			t.Fatalf("expected precondition error, got %v", err)
		}
		if _, err := os.Stat(filepath.Join(exportDir, "report-s3.txt")); !os.IsNotExist(err) {
			t.Error("expected no document for an unresolved scan")
		}
	})

	t.Run("exports every scan of a project", func(t *testing.T) {
		t.Parallel()

		cfgPath, exportDir := writeTestConfig(t, newFakeService(t).URL)
		out, err := runCLI(t, cfgPath, "", "export", "--project", "p2", "--all")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Exported 2 of 2 scans") {
			t.Errorf("unexpected summary:\n%s", out)
		}
		for _, name := range []string{"report-s1.txt", "report-s4.txt"} {
			if _, err := os.Stat(filepath.Join(exportDir, name)); err != nil {
				t.Errorf("expected %s: %v", name, err)
			}
		}
	})

	t.Run("failing scan does not stop the project export", func(t *testing.T) {
		t.Parallel()

		cfgPath, exportDir := writeTestConfig(t, newFakeService(t).URL)
		out, err := runCLI(t, cfgPath, "", "export", "-p", "p1", "-a")
		if err == nil || !strings.Contains(err.Error(), "1 of 2 exports failed") {
			t.Fatalf("expected partial failure, got %v", err)
		}
		if !strings.Contains(out, "failed") {
			t.Errorf("expected a failure line, got:\n%s", out)
		}
		if _, err := os.Stat(filepath.Join(exportDir, "report-s1.txt")); err != nil {
			t.Errorf("expected report-s1.txt: %v", err)
		}
	})

	t.Run("requires a target", func(t *testing.T) {
		t.Parallel()

		cfgPath, _ := writeTestConfig(t, newFakeService(t).URL)
		for _, args := range [][]string{
			{"export"},
			{"export", "--project", "p1"},
			{"export", "s1", "--project", "p1", "--all"},
		} {
			if _, err := runCLI(t, cfgPath, "", args...); !errors.Is(err, errExportTarget) {
				t.Errorf("%v: expected errExportTarget, got %v", args, err)
			}
		}
	})
}

// TestBrowseCmd tests the interactive session.
func TestBrowseCmd(t *testing.T) {
	t.Parallel()

	t.Run("select, show and export", func(t *testing.T) {
		t.Parallel()

		cfgPath, exportDir := writeTestConfig(t, newFakeService(t).URL)
		script := "export\nproject 1\nscan s1\nhelp\nexport\nquit\n"
		out, err := runCLI(t, cfgPath, script, "browse")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(out, "export is available once a scan is loaded") {
			t.Errorf("expected export to be unavailable before a scan is loaded:\n%s", out)
		}
		if !strings.Contains(out, "Project: Demo") || !strings.Contains(out, "XSS:") {
			t.Errorf("expected the report to be shown:\n%s", out)
		}
		if !strings.Contains(out, "Saved") {
			t.Errorf("expected export confirmation:\n%s", out)
		}
		if _, err := os.Stat(filepath.Join(exportDir, "report-s1.txt")); err != nil {
			t.Errorf("expected report-s1.txt: %v", err)
		}
	})

	t.Run("load failure is shown inline and retried", func(t *testing.T) {
		t.Parallel()

		cfgPath, _ := writeTestConfig(t, newFakeService(t).URL)
		script := "project p1\nscan 2\nexport\nscan 2\nscan 1\nquit\n"
		out, err := runCLI(t, cfgPath, script, "browse")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := strings.Count(out, "failed to load scan s2"); got != 2 {
			t.Errorf("expected two inline load errors, got %d:\n%s", got, out)
		}
		if !strings.Contains(out, "export is available once a scan is loaded") {
			t.Errorf("expected export to be unavailable after a failed load:\n%s", out)
		}
		if !strings.Contains(out, "Username: alice") {
			t.Errorf("expected the session to recover with scan s1:\n%s", out)
		}
	})

	t.Run("unknown scan and project", func(t *testing.T) {
		t.Parallel()

		cfgPath, _ := writeTestConfig(t, newFakeService(t).URL)
		out, err := runCLI(t, cfgPath, "scan s1\nproject nope\nproject 2\nscan s2\nfly\n", "browse")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{
			"select a project first",
			`no project "nope"`,
			"does not belong",
			`unknown command "fly"`,
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("project list failure is terminal", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		t.Cleanup(srv.Close)

		cfgPath, _ := writeTestConfig(t, srv.URL)
		if _, err := runCLI(t, cfgPath, "quit\n", "browse"); !errors.Is(err, api.ErrFetch) {
			t.Errorf("expected fetch error, got %v", err)
		}
	})
}

// TestGeneratorCmds tests the plan and suggest commands.
func TestGeneratorCmds(t *testing.T) {
	t.Parallel()

	cfgPath, _ := writeTestConfig(t, newFakeService(t).URL)

	t.Run("suggest prints trimmed lines", func(t *testing.T) {
		t.Parallel()

		out, err := runCLI(t, cfgPath, "", "suggest", "Databases")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "Suggestions for Databases\n  Use worked examples\n  Pair work\n"
		if out != want {
			t.Errorf("got %q, want %q", out, want)
		}
	})

	t.Run("plan requires learner fields", func(t *testing.T) {
		t.Parallel()

		_, err := runCLI(t, cfgPath, "", "plan", "--name", "Ada", "--age", "17")
		if !errors.Is(err, generate.ErrMissingField) {
			t.Errorf("expected ErrMissingField, got %v", err)
		}
	})
}

// TestOpenAIProviderNeedsKey tests that the openai provider is rejected without a key.
// It changes the environment, so it does not call t.Parallel.
func TestOpenAIProviderNeedsKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfgPath, _ := writeTestConfig(t, newFakeService(t).URL)
	_, err := runCLI(t, cfgPath, "", "suggest", "Databases", "--provider", "openai")
	if err == nil || !strings.Contains(err.Error(), "configuration error") {
		t.Errorf("expected configuration error, got %v", err)
	}
}
