package runner

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourceplane/foldplan/internal/model"
)

func TestProcessExecutor_CapturesOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "job")
	spec := model.CommandSpec{
		JobID:      "sh",
		Executable: "sh",
		Arguments:  []string{"-c", "pwd; echo oops >&2; exit 3"},
		WorkingDir: dir,
	}

	res, err := NewProcessExecutor(nil, nil).Execute(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "oops\n", res.Stderr)
	assert.Contains(t, res.Stdout, "job")
	assert.DirExists(t, dir)
}

func TestProcessExecutor_LaunchFailure(t *testing.T) {
	spec := model.CommandSpec{
		JobID:      "missing",
		Executable: "/definitely/not/here",
		WorkingDir: t.TempDir(),
	}

	res, err := NewProcessExecutor(nil, nil).Execute(context.Background(), spec)
	require.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
}

func TestProcessExecutor_CancelDoesNotInterruptRunningProcess(t *testing.T) {
	spec := model.CommandSpec{
		JobID:      "slow",
		Executable: "sh",
		Arguments:  []string{"-c", "sleep 0.3; echo done"},
		WorkingDir: t.TempDir(),
	}
	ctx, cancel := context.WithCancel(context.Background())
	timer := time.AfterFunc(50*time.Millisecond, cancel)
	defer timer.Stop()

	res, err := NewProcessExecutor(nil, nil).Execute(ctx, spec)
	require.NoError(t, err)

	assert.Error(t, ctx.Err())
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "done\n", res.Stdout)
}
