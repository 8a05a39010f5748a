package cron

import (
	"github.com/ayxworxfr/newcomer_admin/internal/config"
	"github.com/ayxworxfr/newcomer_admin/pkg/cron"
)

// Registry 可在 tasks 配置中引用的任务
func Registry() *cron.TaskRegistry {
	registry := cron.NewTaskRegistry()
	registry.Register("health_task", healthCheck)
	registry.Register("link_sweep", linkSweep)
	registry.Register("code_refresh", codeRefresh)
	return registry
}

func InitCronTask() (*cron.TaskManager, error) {
	manager := cron.NewTaskManager()

	tasks := config.GetCronTasks()
	if len(tasks) == 0 {
		return manager, nil
	}
	if err := manager.LoadTasks(tasks, Registry()); err != nil {
		return nil, err
	}
	manager.Start()
	return manager, nil
}
