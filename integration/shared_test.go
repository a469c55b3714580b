//go:build basic || database

// Package integration contains end-to-end tests for the feedstore CLI.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration (or -tags database with Docker)
package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedBinaryPath holds the path to a feedstore binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getFeedstoreBinary returns the path to the feedstore binary, building it once if needed.
func getFeedstoreBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "feedstore-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binaryPath := filepath.Join(tempDir, "feedstore")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build feedstore: %v", err))
		}

		sharedBinaryPath = binaryPath
	})

	return sharedBinaryPath
}

// runFeedstore runs the CLI and returns its combined output.
func runFeedstore(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getFeedstoreBinary(), args...)
	cmd.Dir = t.TempDir()
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}

const lifecycleImages = `[{"id":"a0a0a0a0-0000-4000-8000-000000000001","description":null,"location":null,"url":"https://x/1"}]`

// runLifecycle drives insert, retrieve and delete through the CLI against the backend
// configured in the environment.
func runLifecycle(t *testing.T) {
	t.Helper()

	_, err := runFeedstore(t, lifecycleImages, "insert", "--timestamp", "2024-03-01T10:30:00Z")
	require.NoError(t, err)

	out, err := runFeedstore(t, "", "retrieve", "--output", "json")
	require.NoError(t, err)
	require.Contains(t, out, `"result": "found"`)
	require.Contains(t, out, "https://x/1")

	_, err = runFeedstore(t, "", "delete")
	require.NoError(t, err)

	out, err = runFeedstore(t, "", "retrieve", "--output", "json")
	require.NoError(t, err)
	require.Contains(t, out, `"result": "empty"`)

	out, err = runFeedstore(t, "", "cache", "status")
	require.NoError(t, err)
	require.Contains(t, out, "Connected: true")
}
