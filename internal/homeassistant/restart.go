// Package homeassistant restarts the dashboard container so it drops cached
// images after a run.
package homeassistant

import (
	"context"
	"os/exec"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"homehub/internal/logging"
)

const DefaultContainer = "homeassistant"

// DockerRestarter runs `docker restart <Container>`.
type DockerRestarter struct {
	Container string
	// Binary defaults to "docker" resolved from PATH.
	Binary string
}

func NewDockerRestarter(container string) *DockerRestarter {
	if container == "" {
		container = DefaultContainer
	}
	return &DockerRestarter{Container: container, Binary: "docker"}
}

func (d *DockerRestarter) Restart(ctx context.Context) error {
	bin := d.Binary
	if bin == "" {
		bin = "docker"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return goerr.Wrap(err, "docker not found in PATH")
	}

	out, err := exec.CommandContext(ctx, path, "restart", d.Container).CombinedOutput()
	if err != nil {
		return goerr.Wrap(err, "docker restart failed",
			goerr.V("container", d.Container),
			goerr.V("output", strings.TrimSpace(string(out))))
	}
	logging.From(ctx).Info("🐳 Home Assistant restart initiated", "container", d.Container)
	logging.From(ctx).Info("wait 30-60 seconds for Home Assistant to fully restart")
	return nil
}

// NopRestarter is used when restarts are disabled.
type NopRestarter struct{}

func (NopRestarter) Restart(context.Context) error { return nil }
