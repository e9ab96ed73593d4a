package e2e

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const (
	TEST_SERVER_TIMEOUT = 30 * time.Second
	// RFC 8032 test vector 1; only the shape of the key matters here.
	TEST_PUBLIC_KEY = "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"
	TEST_OWNER      = "100000000000000001"
)

func TestEndToEndWorkflow(t *testing.T) {
	// 1. Setup Environment
	cliPath := findBinary(t)
	tempDir := t.TempDir()
	t.Logf("Running test in temp dir: %s", tempDir)

	var cleanEnv []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "HOME=") || strings.HasPrefix(e, "XDG_CONFIG_HOME=") ||
			strings.HasPrefix(e, "OBJECTIVES_") || strings.HasPrefix(e, "DISCORD_") || strings.HasPrefix(e, "PORT=") {
			continue
		}
		cleanEnv = append(cleanEnv, e)
	}
	cleanEnv = append(cleanEnv,
		fmt.Sprintf("HOME=%s", tempDir),
		fmt.Sprintf("XDG_CONFIG_HOME=%s", tempDir),
		fmt.Sprintf("OBJECTIVES_DATABASE=%s", filepath.Join(tempDir, "objectives.db")),
		fmt.Sprintf("OBJECTIVES_OWNER=%s", TEST_OWNER),
		fmt.Sprintf("DISCORD_PUBLIC_KEY=%s", TEST_PUBLIC_KEY),
	)
	configFlag := "--config=" + filepath.Join(tempDir, "config.yaml")

	// 2. Initialize storage
	t.Log("Initializing storage...")
	runCmd(t, cliPath, cleanEnv, configFlag, "init")

	// 3. Objective lifecycle
	runCmd(t, cliPath, cleanEnv, configFlag, "objective", "add", "Read", "--frequency", "daily")
	out := runCmd(t, cliPath, cleanEnv, configFlag, "objective", "list")
	if !strings.Contains(out, "Read") || !strings.Contains(out, "available") {
		t.Fatalf("new objective missing from list:\n%s", out)
	}

	out = runCmd(t, cliPath, cleanEnv, configFlag, "objective", "submit", "Read")
	if !strings.Contains(out, "Submitted") {
		t.Fatalf("unexpected submit output:\n%s", out)
	}

	// A second submission inside the cooldown is a user error.
	code, out := runCmdExit(t, cliPath, cleanEnv, configFlag, "objective", "submit", "Read")
	if code != 2 {
		t.Fatalf("expected exit code 2 for a repeated submission, got %d\nOutput: %s", code, out)
	}
	if !strings.Contains(out, "cannot be submitted again") {
		t.Errorf("unexpected rejection output:\n%s", out)
	}

	runCmd(t, cliPath, cleanEnv, configFlag, "objective", "rename", "Read", "Read daily")
	out = runCmd(t, cliPath, cleanEnv, configFlag, "objective", "list")
	if !strings.Contains(out, "Read daily") {
		t.Errorf("renamed objective missing from list:\n%s", out)
	}

	// 4. Preferences and backups
	runCmd(t, cliPath, cleanEnv, configFlag, "visibility", "set", "shared")
	out = runCmd(t, cliPath, cleanEnv, configFlag, "visibility", "get")
	if !strings.Contains(out, "shared") {
		t.Errorf("visibility not saved:\n%s", out)
	}
	runCmd(t, cliPath, cleanEnv, configFlag, "backup", "create")
	out = runCmd(t, cliPath, cleanEnv, configFlag, "backup", "list")
	if !strings.Contains(out, ".db") {
		t.Errorf("backup missing from list:\n%s", out)
	}

	// 5. Interaction server
	addr := freeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serveCmd := exec.CommandContext(ctx, cliPath, configFlag, "serve", "--no-sweep", "--listen", addr)
	serveCmd.Env = cleanEnv
	var serveOut bytes.Buffer
	serveCmd.Stdout = &serveOut
	serveCmd.Stderr = &serveOut
	if err := serveCmd.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	defer func() {
		cancel()
		_ = serveCmd.Wait()
		if t.Failed() {
			t.Logf("Server output: %s", serveOut.String())
		}
	}()

	baseURL := "http://" + addr
	waitForHealthy(t, baseURL+"/healthz", TEST_SERVER_TIMEOUT)
	t.Log("Server is ready")

	resp, err := http.Post(baseURL+"/interactions", "application/json", strings.NewReader(`{"type":1}`))
	if err != nil {
		t.Fatalf("POST /interactions failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unsigned interaction: expected 401, got %d", resp.StatusCode)
	}

	// 6. Delete
	runCmd(t, cliPath, cleanEnv, configFlag, "objective", "delete", "Read daily", "--yes")
	out = runCmd(t, cliPath, cleanEnv, configFlag, "objective", "list")
	if strings.Contains(out, "Read daily") {
		t.Errorf("deleted objective still listed:\n%s", out)
	}
}

// findBinary resolves the CLI from OBJECTIVES_BIN_DIR or ../../bin.
func findBinary(t *testing.T) string {
	t.Helper()
	binDir := os.Getenv("OBJECTIVES_BIN_DIR")
	if binDir == "" {
		binDir = filepath.Join("..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)
	cliPath := filepath.Join(binDir, "objectives")
	if _, err := os.Stat(cliPath); err != nil {
		t.Skipf("CLI binary not found at %s; build it with 'go build -o bin/objectives ./cmd/objectives'", cliPath)
	}
	return cliPath
}

func runCmd(t *testing.T, path string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(path, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Command %s %v failed: %v\nOutput: %s", path, args, err, out)
	}
	return string(out)
}

func runCmdExit(t *testing.T, path string, env []string, args ...string) (int, string) {
	t.Helper()
	cmd := exec.Command(path, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, string(out)
	case errors.As(err, &exitErr):
		return exitErr.ExitCode(), string(out)
	default:
		t.Fatalf("Command %s %v did not run: %v", path, args, err)
		return -1, ""
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to reserve a port: %v", err)
	}
	defer l.Close()
	return l.Addr().String()
}

func waitForHealthy(t *testing.T, url string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", url)
}
