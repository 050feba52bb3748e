package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	return tmpDir
}

func TestResolveLogFilePathDefaultDir(t *testing.T) {
	tmpDir := chdirTemp(t)

	got, err := resolveLogFilePath(Options{})
	if err != nil {
		t.Fatalf("resolve default log path failed: %v", err)
	}
	if filepath.Base(got) != defaultLogFilename {
		t.Fatalf("unexpected log filename: %s", filepath.Base(got))
	}

	// TempDir 在 mac 上可能是符号链接，比较前先还原真实路径
	realTmpDir, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("resolve tmp dir symlink failed: %v", err)
	}
	realGotDir, err := filepath.EvalSymlinks(filepath.Dir(got))
	if err != nil {
		t.Fatalf("resolve got dir symlink failed: %v", err)
	}
	if want := filepath.Join(realTmpDir, defaultLogDirName); realGotDir != want {
		t.Fatalf("unexpected log dir: got=%s want=%s", realGotDir, want)
	}
	if _, err := os.Stat(filepath.Dir(got)); err != nil {
		t.Fatalf("expected log dir to be created: %v", err)
	}
}

func TestNewReleaseWritesJSONToConfiguredFile(t *testing.T) {
	tmpDir := t.TempDir()

	log := New("release", Options{Dir: tmpDir, Filename: "vendorlink.log"})
	log.Info("snapshot_scan_done")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "vendorlink.log"))
	if err != nil {
		t.Fatalf("read release log failed: %v", err)
	}
	if !strings.Contains(string(content), `"message":"snapshot_scan_done"`) {
		t.Fatalf("expected json log line with message field, got=%s", string(content))
	}
}

func TestNewDebugDoesNotWriteFile(t *testing.T) {
	tmpDir := t.TempDir()

	log := New("debug", Options{Dir: tmpDir, Filename: "debug.log"})
	log.Info("debug_mode_probe")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(tmpDir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode should not create log file")
	}
}

func TestResolveLevelExplicitOverridesMode(t *testing.T) {
	level := resolveLevel("warn", true)
	if !level.Enabled(zapcore.WarnLevel) || level.Enabled(zapcore.InfoLevel) {
		t.Fatalf("explicit warn level should win over debug mode")
	}

	level = resolveLevel("", true)
	if !level.Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug mode without explicit level should enable debug")
	}

	// 非法级别回退到模式默认
	level = resolveLevel("loud", false)
	if level.Enabled(zapcore.DebugLevel) || !level.Enabled(zapcore.InfoLevel) {
		t.Fatalf("invalid level should fall back to info")
	}
}

func TestZFallbackBeforeInit(t *testing.T) {
	old := L
	L = nil
	t.Cleanup(func() { L = old })

	if Z() == nil {
		t.Fatalf("Z should fall back to a usable logger before Init")
	}
	if S() == nil {
		t.Fatalf("S should never return nil")
	}
}
