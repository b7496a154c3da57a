package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"squeeze/internal/testsupport"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStrategiesCommandListsClosedSet(t *testing.T) {
	output, err := runCommand(t, "strategies")
	if err != nil {
		t.Fatalf("strategies command failed: %v", err)
	}
	for _, want := range []string{"compress", "maintain", "best", "optimal", "efficient", "audio"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in strategies output:\n%s", want, output)
		}
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	output, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(output, target) {
		t.Fatalf("expected target path in output:\n%s", output)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample config: %v", err)
	}
	if !strings.Contains(string(data), "[encoder]") {
		t.Fatalf("sample config missing encoder section:\n%s", data)
	}
}

func TestConfigInitRefusesOverwriteWithoutFlag(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if _, err := runCommand(t, "config", "init", "--path", target); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}
	if _, err := runCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("init with --overwrite failed: %v", err)
	}
}

func TestProcessCommandRejectsMissingSource(t *testing.T) {
	base := t.TempDir()
	configPath := writeMinimalConfig(t, base)

	_, err := runCommand(t, "--config", configPath, "process", filepath.Join(base, "missing.mp4"))
	if err == nil {
		t.Fatal("expected missing source to fail")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProcessCommandRequiresEncoderBinary(t *testing.T) {
	base := t.TempDir()
	configPath := writeMinimalConfig(t, base)
	source := filepath.Join(base, "clip.mp4")
	testsupport.WriteFile(t, source, 2048)

	// An empty PATH leaves the encoder unresolvable even though the
	// source file is real.
	t.Setenv("PATH", t.TempDir())

	_, err := runCommand(t, "--config", configPath, "process", source)
	if err == nil {
		t.Fatal("expected missing encoder to fail the command")
	}
	if !strings.Contains(err.Error(), "missing dependency ffmpeg") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func writeMinimalConfig(t *testing.T, base string) string {
	t.Helper()
	configPath := filepath.Join(base, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		"work_dir = " + tomlString(filepath.Join(base, "work")),
		"output_dir = " + tomlString(filepath.Join(base, "output")),
		"log_dir = " + tomlString(filepath.Join(base, "logs")),
		"",
		"[logging]",
		"format = \"json\"",
		"",
	}, "\n")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func tomlString(value string) string {
	return "\"" + strings.ReplaceAll(value, "\\", "\\\\") + "\""
}
