// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/tomtom215/azafea/internal/cli"
	"github.com/tomtom215/azafea/internal/config"
)

func writeConfig(t *testing.T, redisHost, redisPort string) string {
	t.Helper()
	t.Setenv(config.ConfigPathEnvVar, "")
	content := fmt.Sprintf(`
main:
  number_of_workers: 1
redis:
  host: %s
  port: %s
postgresql:
  password: hunter2
queues:
  - name: ping-1
    handler: endless.ping.v1
`, redisHost, redisPort)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err = newApp(&out, &errOut).root().Execute(args)
	return out.String(), errOut.String(), err
}

func TestHelpListsCommands(t *testing.T) {
	_, stderr, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, name := range []string{"run", "print-config", "initdb", "migratedb", "replay-errors",
		"normalize-vendors", "parse-old-images", "transform-countries-alpha-3-to-2",
		"replay-invalid", "replay-unknown", "dropdb"} {
		if !strings.Contains(stderr, name) {
			t.Errorf("help does not list %s", name)
		}
	}
}

func TestChunkSizeFlag(t *testing.T) {
	_, stderr, err := execute(t, "normalize-vendors", "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(stderr, "--chunk-size") {
		t.Errorf("normalize-vendors help has no --chunk-size:\n%s", stderr)
	}

	_, stderr, err = execute(t, "transform-countries-alpha-3-to-2", "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.Contains(stderr, "--chunk-size") {
		t.Error("transform-countries-alpha-3-to-2 should not take --chunk-size")
	}
}

func TestDropdbRequiresConfirmation(t *testing.T) {
	_, stderr, err := execute(t, "dropdb")
	if code := cli.ExitCodeOf(err); code != 2 {
		t.Fatalf("exit code = %d (%v), want 2", code, err)
	}
	if !isSilent(err) {
		t.Error("dropdb error should be silent")
	}
	if !strings.Contains(stderr, "--yes") {
		t.Errorf("stderr does not mention --yes: %q", stderr)
	}
}

func TestPrintConfigHidesPasswords(t *testing.T) {
	path := writeConfig(t, "localhost", "6379")

	stdout, _, err := execute(t, "-c", path, "print-config")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.Contains(stdout, "hunter2") {
		t.Errorf("print-config leaks the password:\n%s", stdout)
	}
	if !strings.Contains(stdout, "endless.ping.v1") {
		t.Errorf("print-config misses the queues:\n%s", stdout)
	}
}

func TestReplayErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	path := writeConfig(t, mr.Host(), mr.Port())

	for _, r := range []string{"first", "second"} {
		if _, err := mr.Lpush("errors-ping-1", r); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := mr.Lpush("ping-1", "pending"); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := execute(t, "--config", path, "replay-errors", "ping-1")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(stdout, "Moved 2 records") {
		t.Errorf("stdout = %q", stdout)
	}
	if mr.Exists("errors-ping-1") {
		t.Error("dead letter queue was not emptied")
	}

	// Workers pop from the right: the pending record comes first, then the
	// replayed ones oldest first.
	got, err := mr.List("ping-1")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"second", "first", "pending"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("ping-1 = %v, want %v", got, want)
	}
}

func TestReplayErrorsUnknownQueue(t *testing.T) {
	mr := miniredis.RunT(t)
	path := writeConfig(t, mr.Host(), mr.Port())

	_, _, err := execute(t, "-c", path, "replay-errors", "nope")
	if err == nil || !strings.Contains(err.Error(), `unknown queue "nope"`) {
		t.Errorf("Execute() error = %v", err)
	}

	_, _, err = execute(t, "-c", path, "replay-errors")
	if err == nil {
		t.Error("replay-errors without a queue should fail")
	}
}
