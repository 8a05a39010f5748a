package cron

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/mitchellh/mapstructure"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// Params 任务参数，来自 YAML 的 params 节点
type Params map[string]any

// Decode 将参数解码到结构体，字段使用 mapstructure 标签
func (p Params) Decode(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(map[string]any(p))
}

// TaskFunc 任务处理函数
type TaskFunc func(ctx context.Context, params Params) error

// TaskStatus 任务状态
type TaskStatus string

const (
	StatusRunning  TaskStatus = "running"
	StatusPaused   TaskStatus = "paused"
	StatusNotExist TaskStatus = "not exist"
)

// TaskInfo 任务信息
type TaskInfo struct {
	Name     string     `json:"name"`
	Status   TaskStatus `json:"status"`
	CronExpr string     `json:"cron_expr"`
	NextRun  time.Time  `json:"next_run"`
	LastErr  string     `json:"last_error,omitempty"`
}

type managedJob struct {
	entryID  cron.EntryID
	run      func()
	cronExpr string
	disabled bool
	lastErr  error
}

// TaskManager 定时任务管理器
type TaskManager struct {
	scheduler *cron.Cron
	tasks     map[string]*managedJob
	mu        sync.RWMutex
}

// NewTaskManager 创建定时任务管理器，使用标准五段式表达式
func NewTaskManager() *TaskManager {
	return &TaskManager{
		scheduler: cron.New(),
		tasks:     make(map[string]*managedJob),
	}
}

// Start 启动调度
func (tm *TaskManager) Start() {
	tm.scheduler.Start()
	logger.Info(context.Background(), "All scheduled tasks started")
}

// Stop 停止调度并等待运行中的任务结束
func (tm *TaskManager) Stop() {
	<-tm.scheduler.Stop().Done()
	logger.Info(context.Background(), "All scheduled tasks stopped")
}

// AddTask 添加定时任务
func (tm *TaskManager) AddTask(name, cronExpr string, task TaskFunc, params Params) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if _, exists := tm.tasks[name]; exists {
		return fmt.Errorf("task %s already exists", name)
	}

	job := &managedJob{cronExpr: cronExpr}
	job.run = func() {
		tm.mu.RLock()
		disabled := job.disabled
		tm.mu.RUnlock()
		if disabled {
			return
		}

		ctx := logger.WithContext(context.Background(), zap.String("task", name))
		start := time.Now()
		err := task(ctx, params)

		tm.mu.Lock()
		job.lastErr = err
		tm.mu.Unlock()

		if err != nil {
			logger.Error(ctx, "Task failed", zap.Error(err), zap.Duration("cost", time.Since(start)))
			return
		}
		logger.Debug(ctx, "Task finished", zap.Duration("cost", time.Since(start)))
	}

	entryID, err := tm.scheduler.AddFunc(cronExpr, job.run)
	if err != nil {
		return fmt.Errorf("failed to add task %s: %w", name, err)
	}
	job.entryID = entryID
	tm.tasks[name] = job

	logger.Infof(context.Background(), "Task %s added, expression: %s", name, cronExpr)
	return nil
}

// RunNow 立即同步执行一次任务，暂停的任务不执行
func (tm *TaskManager) RunNow(name string) error {
	tm.mu.RLock()
	job, ok := tm.tasks[name]
	tm.mu.RUnlock()
	if !ok {
		return fmt.Errorf("task %s not exist", name)
	}
	job.run()

	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return job.lastErr
}

// RemoveTask 移除定时任务
func (tm *TaskManager) RemoveTask(name string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	job, exists := tm.tasks[name]
	if !exists {
		logger.Warnf(context.Background(), "Attempt to remove non-existent task %s", name)
		return
	}
	tm.scheduler.Remove(job.entryID)
	delete(tm.tasks, name)
	logger.Infof(context.Background(), "Task %s removed", name)
}

// PauseTask 暂停任务
func (tm *TaskManager) PauseTask(name string) {
	tm.setDisabled(name, true)
}

// ResumeTask 恢复任务
func (tm *TaskManager) ResumeTask(name string) {
	tm.setDisabled(name, false)
}

func (tm *TaskManager) setDisabled(name string, disabled bool) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	job, exists := tm.tasks[name]
	if !exists {
		logger.Warnf(context.Background(), "Task %s not exist", name)
		return
	}
	job.disabled = disabled
	logger.Infof(context.Background(), "Task %s disabled=%v", name, disabled)
}

// GetTaskStatus 获取任务状态
func (tm *TaskManager) GetTaskStatus(name string) TaskStatus {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	job, exists := tm.tasks[name]
	switch {
	case !exists:
		return StatusNotExist
	case job.disabled:
		return StatusPaused
	default:
		return StatusRunning
	}
}

// ListTasks 所有任务，按名称排序
func (tm *TaskManager) ListTasks() []TaskInfo {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	infos := make([]TaskInfo, 0, len(tm.tasks))
	for name, job := range tm.tasks {
		info := TaskInfo{Name: name, Status: StatusRunning, CronExpr: job.cronExpr}
		if job.disabled {
			info.Status = StatusPaused
		}
		if spec, err := cron.ParseStandard(job.cronExpr); err == nil {
			info.NextRun = spec.Next(time.Now())
		}
		if job.lastErr != nil {
			info.LastErr = job.lastErr.Error()
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// TaskConfig YAML 中的单个任务
type TaskConfig struct {
	Name     string `yaml:"name"`
	CronExpr string `yaml:"cron_expr"`
	Disabled bool   `yaml:"disabled,omitempty"`
	Params   Params `yaml:"params,omitempty"`
}

// TaskRegistry 任务名到处理函数的映射
type TaskRegistry struct {
	tasks map[string]TaskFunc
}

// NewTaskRegistry 创建任务注册表
func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{tasks: make(map[string]TaskFunc)}
}

// Register 注册任务处理函数
func (tr *TaskRegistry) Register(name string, handler TaskFunc) {
	tr.tasks[name] = handler
}

// LoadTasksFromYAML 从YAML文件加载任务
func (tm *TaskManager) LoadTasksFromYAML(filePath string, registry *TaskRegistry) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read YAML file: %w", err)
	}
	return tm.LoadTasksFromYAMLBytes(data, registry)
}

// LoadTasksFromYAMLBytes 严格解析，未知字段返回错误
func (tm *TaskManager) LoadTasksFromYAMLBytes(data []byte, registry *TaskRegistry) error {
	var taskConfigs []TaskConfig
	if err := yaml.UnmarshalStrict(data, &taskConfigs); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return tm.LoadTasks(taskConfigs, registry)
}

// LoadTasks 按配置加载任务；禁用、未注册或表达式错误的任务跳过
func (tm *TaskManager) LoadTasks(taskConfigs []TaskConfig, registry *TaskRegistry) error {
	ctx := context.Background()
	for _, cfg := range taskConfigs {
		if cfg.Disabled {
			logger.Infof(ctx, "Skipping disabled task: %s", cfg.Name)
			continue
		}
		handler, exists := registry.tasks[cfg.Name]
		if !exists {
			logger.Warnf(ctx, "Task %s has no registered handler", cfg.Name)
			continue
		}
		if err := tm.AddTask(cfg.Name, cfg.CronExpr, handler, normalizeParams(cfg.Params)); err != nil {
			logger.Errorf(ctx, "Failed to load task %s: %v", cfg.Name, err)
		}
	}
	return nil
}

// normalizeParams yaml.v2 解析出的嵌套 map 键为 any，统一转换为 string
func normalizeParams(p Params) Params {
	if p == nil {
		return Params{}
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, inner := range val {
			m[fmt.Sprint(k)] = normalizeValue(inner)
		}
		return m
	case []any:
		for i := range val {
			val[i] = normalizeValue(val[i])
		}
		return val
	default:
		return v
	}
}
