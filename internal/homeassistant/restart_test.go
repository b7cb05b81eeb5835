package homeassistant

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/m-mizutani/gt"
)

func fakeDocker(t *testing.T, exitCode string) (bin, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake needs a POSIX shell")
	}
	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args")
	bin = filepath.Join(dir, "docker")
	script := "#!/bin/sh\necho \"$@\" > " + argsFile + "\necho 'no such container' >&2\nexit " + exitCode + "\n"
	gt.NoError(t, os.WriteFile(bin, []byte(script), 0o755))
	return bin, argsFile
}

func TestDockerRestarterRunsRestart(t *testing.T) {
	bin, argsFile := fakeDocker(t, "0")
	r := NewDockerRestarter("")
	r.Binary = bin

	gt.NoError(t, r.Restart(context.Background()))
	args, err := os.ReadFile(argsFile)
	gt.NoError(t, err)
	gt.Equal(t, string(args), "restart homeassistant\n")
}

func TestDockerRestarterReportsFailure(t *testing.T) {
	bin, _ := fakeDocker(t, "1")
	r := &DockerRestarter{Container: "ha", Binary: bin}

	err := r.Restart(context.Background())
	gt.Error(t, err)
	gt.S(t, err.Error()).Contains("docker restart failed")
}

func TestDockerRestarterMissingBinary(t *testing.T) {
	r := &DockerRestarter{Container: "ha", Binary: filepath.Join(t.TempDir(), "missing")}
	gt.Error(t, r.Restart(context.Background()))
}

func TestNopRestarter(t *testing.T) {
	gt.NoError(t, NopRestarter{}.Restart(context.Background()))
}
