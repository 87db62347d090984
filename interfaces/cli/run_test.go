package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/tabletop/interfaces/cli"
)

func writeScript(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.txt")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := cli.New().WithOutput(&stdout, &stderr)
	err := app.ExecuteWithArgs(context.Background(), args)
	return stdout.String(), err
}

func TestRun_Script(t *testing.T) {
	script := writeScript(t,
		"PLACE 1,2,EAST",
		"MOVE",
		"MOVE",
		"LEFT",
		"MOVE",
		"REPORT",
	)

	out, err := runApp(t, "run", script)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !strings.Contains(out, "3,3,NORTH") {
		t.Errorf("output = %q, want report 3,3,NORTH", out)
	}
}

func TestRun_IgnoresCommandsBeforePlace(t *testing.T) {
	script := writeScript(t,
		"MOVE",
		"REPORT",
		"PLACE 0,0,NORTH",
		"REPORT",
	)

	out, err := runApp(t, "run", script)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if strings.Count(out, "\n") != 1 || !strings.Contains(out, "0,0,NORTH") {
		t.Errorf("output = %q, want single report 0,0,NORTH", out)
	}
}

func TestRun_JSONOutput(t *testing.T) {
	script := writeScript(t, "PLACE 2,3,WEST", "REPORT")

	out, err := runApp(t, "run", "--output", "json", script)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !strings.Contains(out, `{"x":2,"y":3,"facing":"WEST"}`) {
		t.Errorf("output = %q, want JSON report", out)
	}
}

func TestRun_ExitStopsProcessing(t *testing.T) {
	script := writeScript(t,
		"PLACE 0,0,NORTH",
		"EXIT",
		"REPORT",
	)

	out, err := runApp(t, "run", script)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !strings.Contains(out, "Goodbye!") {
		t.Errorf("output = %q, want goodbye message", out)
	}
	if strings.Contains(out, "0,0,NORTH") {
		t.Errorf("output = %q, report after EXIT should not run", out)
	}
}

func TestRun_WithMemoryCache(t *testing.T) {
	script := writeScript(t,
		"PLACE 4,4,SOUTH",
		"REPORT",
		"REPORT",
	)

	out, err := runApp(t, "run", "--cache", "--agent-id", "cli-cache-test", script)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if strings.Count(out, "4,4,SOUTH") != 2 {
		t.Errorf("output = %q, want two identical reports", out)
	}
}

func TestRun_CustomGrid(t *testing.T) {
	script := writeScript(t,
		"PLACE 7,7,NORTH",
		"REPORT",
	)

	// On the default 5x5 grid this PLACE is invalid and produces no
	// output; on a 10x10 grid it reports.
	out, err := runApp(t, "run", "--grid-width", "10", "--grid-height", "10", script)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !strings.Contains(out, "7,7,NORTH") {
		t.Errorf("output = %q, want report 7,7,NORTH", out)
	}

	out, err = runApp(t, "run", script)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if strings.Contains(out, "7,7,NORTH") {
		t.Errorf("output = %q, PLACE beyond the default grid should be ignored", out)
	}
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tabletop.yaml")
	cfgContent := "grid:\n  width: 8\n  height: 8\n"
	if err := os.WriteFile(cfgPath, []byte(cfgContent), 0o600); err != nil {
		t.Fatal(err)
	}
	script := writeScript(t, "PLACE 6,6,EAST", "REPORT")

	out, err := runApp(t, "run", "-c", cfgPath, script)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !strings.Contains(out, "6,6,EAST") {
		t.Errorf("output = %q, want report 6,6,EAST", out)
	}
}

func TestRun_WatchRequiresScript(t *testing.T) {
	_, err := runApp(t, "run", "--watch")
	if err == nil {
		t.Error("run --watch without a script passed, want error")
	}
}

func TestRun_MissingScript(t *testing.T) {
	_, err := runApp(t, "run", filepath.Join(t.TempDir(), "absent.txt"))
	if err == nil {
		t.Error("run with missing script passed, want error")
	}
}
