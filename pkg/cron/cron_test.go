package cron

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context, Params) error { return nil }

func TestTaskManager_AddTask(t *testing.T) {
	manager := NewTaskManager()
	require.NoError(t, manager.AddTask("test_task", "0 0 * * *", noop, nil))

	tasks := manager.ListTasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "test_task", tasks[0].Name)
	assert.False(t, tasks[0].NextRun.IsZero())

	assert.Error(t, manager.AddTask("test_task", "0 0 * * *", noop, nil), "duplicate name")
}

func TestTaskManager_PauseResumeRemove(t *testing.T) {
	manager := NewTaskManager()
	require.NoError(t, manager.AddTask("task_a", "0 0 * * *", noop, nil))
	require.NoError(t, manager.AddTask("task_b", "30 0 * * *", noop, nil))

	manager.PauseTask("task_a")
	assert.Equal(t, StatusPaused, manager.GetTaskStatus("task_a"))
	assert.Equal(t, StatusRunning, manager.GetTaskStatus("task_b"))

	manager.ResumeTask("task_a")
	assert.Equal(t, StatusRunning, manager.GetTaskStatus("task_a"))

	manager.RemoveTask("task_a")
	tasks := manager.ListTasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "task_b", tasks[0].Name)
	assert.Equal(t, StatusNotExist, manager.GetTaskStatus("task_a"))
}

func TestTaskManager_RunNow(t *testing.T) {
	manager := NewTaskManager()
	calls := 0
	boom := errors.New("boom")
	require.NoError(t, manager.AddTask("flaky", "0 0 * * *", func(context.Context, Params) error {
		calls++
		return boom
	}, nil))

	assert.ErrorIs(t, manager.RunNow("flaky"), boom)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "boom", manager.ListTasks()[0].LastErr)

	manager.PauseTask("flaky")
	_ = manager.RunNow("flaky")
	assert.Equal(t, 1, calls, "paused task must not run")

	assert.Error(t, manager.RunNow("missing"))
}

func TestTaskManager_StartAndStop(t *testing.T) {
	manager := NewTaskManager()
	require.NoError(t, manager.AddTask("test_task", "0 0 * * *", noop, nil))

	manager.Start()
	time.Sleep(100 * time.Millisecond)
	manager.Stop()
}

func TestTaskManager_LoadTasksFromYAML(t *testing.T) {
	registry := NewTaskRegistry()
	registry.Register("test_task", noop)

	tmpFile, err := os.CreateTemp("", "tasks.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	_, err = tmpFile.Write([]byte(`
- name: test_task
  cron_expr: 0 0 * * *
`))
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())

	manager := NewTaskManager()
	require.NoError(t, manager.LoadTasksFromYAML(tmpFile.Name(), registry))
	assert.Len(t, manager.ListTasks(), 1)
}

func TestTaskManager_LoadTasks_Skips(t *testing.T) {
	registry := NewTaskRegistry()
	registry.Register("enabled_task", noop)
	registry.Register("disabled_task", noop)
	registry.Register("bad_expr", noop)

	manager := NewTaskManager()
	err := manager.LoadTasksFromYAMLBytes([]byte(`
- name: enabled_task
  cron_expr: "0 0 * * *"
- name: disabled_task
  cron_expr: "0 12 * * *"
  disabled: true
- name: bad_expr
  cron_expr: invalid_cron_expr
- name: undefined_task
  cron_expr: "0 0 * * *"
`), registry)
	require.NoError(t, err)

	tasks := manager.ListTasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "enabled_task", tasks[0].Name)
}

func TestTaskManager_LoadTasks_InvalidYAML(t *testing.T) {
	manager := NewTaskManager()
	err := manager.LoadTasksFromYAMLBytes([]byte(`
- name: test_task
  cron_expr: 0 0 * * *
  invalid_field: true
`), NewTaskRegistry())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
	assert.Empty(t, manager.ListTasks())
}

func TestTaskManager_ParamsDecoded(t *testing.T) {
	type sweepParams struct {
		DryRun  bool          `mapstructure:"dry_run"`
		Limit   int           `mapstructure:"limit"`
		Timeout time.Duration `mapstructure:"timeout"`
		Labels  map[string]string
	}

	var got sweepParams
	registry := NewTaskRegistry()
	registry.Register("sweep", func(_ context.Context, p Params) error {
		return p.Decode(&got)
	})

	manager := NewTaskManager()
	require.NoError(t, manager.LoadTasksFromYAMLBytes([]byte(`
- name: sweep
  cron_expr: "*/5 * * * *"
  params:
    dry_run: "true"
    limit: 50
    timeout: 3s
    labels:
      env: test
`), registry))

	require.NoError(t, manager.RunNow("sweep"))
	assert.True(t, got.DryRun)
	assert.Equal(t, 50, got.Limit)
	assert.Equal(t, 3*time.Second, got.Timeout)
	assert.Equal(t, "test", got.Labels["env"])
}
