package repository

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var IsRecordSQLEvent = true

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrMultipleRecord = errors.New("multiple records found")
)

// QueryOption 查询选项
type QueryOption struct {
	OrderBy string
	Limit   int
	Offset  int
	Filters []Condition
}

type TransactionFunc func(ctx context.Context) (any, error)

// TransactionExecutor 以事务方式执行一组操作
// fn 内部必须使用传入的 ctx，嵌套调用复用外层事务
type TransactionExecutor interface {
	Transaction(ctx context.Context, fn TransactionFunc) (any, error)
}

// ORMProcessor 把仓储操作映射到具体的存储实现
// 目前只有 XormProcessor，MySQL 与 SQLite 共用
type ORMProcessor interface {
	// Create 插入单条记录，model 为结构体指针，自增主键会回填
	Create(ctx context.Context, model any) error
	// Update 按主键整行更新
	Update(ctx context.Context, model any) error
	// Delete 以 model 的非零字段为条件删除
	Delete(ctx context.Context, model any) error
	DeleteByOption(ctx context.Context, model any, opts *QueryOption) error
	// Query 返回的 Data 为 []T
	Query(ctx context.Context, model any, opts *QueryOption) (*QueryResult, error)
	BatchCreate(ctx context.Context, models []any) error
	// BuildFiltersFromModel 从模型的非零字段生成查询条件
	BuildFiltersFromModel(model any) []Condition

	TransactionExecutor
}

// QueryResult 查询结果
type QueryResult struct {
	Data  any
	Total int64
}

type transactionKey struct{}

var TransactionKeyInstance = transactionKey{}

// RecordDbEvent 把SQL执行信息记录为当前span的事件
func RecordDbEvent(ctx context.Context, info map[string]any) {
	if !IsRecordSQLEvent {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	attributes := make([]attribute.KeyValue, 0, len(info))
	for k, v := range info {
		attributes = append(attributes, attribute.String(k, fmt.Sprintf("%v", v)))
	}
	span.AddEvent("db_execute_info", trace.WithAttributes(attributes...))
}
