package repository

import (
	"context"
	"errors"
	"reflect"
)

// Repository 通用仓储接口
type Repository[T any] interface {
	TransactionExecutor
	Create(ctx context.Context, model *T) error
	Update(ctx context.Context, model *T) error
	Delete(ctx context.Context, model *T) error
	DeleteByID(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (*T, error)
	FindByKey(ctx context.Context, key string, value any) (*T, error)
	Find(ctx context.Context, model *T) (*T, error)
	FindAll(ctx context.Context, model *T) ([]T, error)
	FindPage(ctx context.Context, query any, limit, offset int, orderBy string) ([]T, int64, error)
	BatchCreate(ctx context.Context, models []T) error
	QueryBuilder() *QueryBuilder[T]
}

// GenericRepository 通用仓储实现
type GenericRepository[T any] struct {
	processor ORMProcessor
}

func NewRepository[T any](processor ORMProcessor) Repository[T] {
	return &GenericRepository[T]{processor: processor}
}

func (r *GenericRepository[T]) Create(ctx context.Context, model *T) error {
	return r.processor.Create(ctx, model)
}

func (r *GenericRepository[T]) Update(ctx context.Context, model *T) error {
	return r.processor.Update(ctx, model)
}

func (r *GenericRepository[T]) Delete(ctx context.Context, model *T) error {
	return r.processor.Delete(ctx, model)
}

// DeleteByID 根据主键删除
func (r *GenericRepository[T]) DeleteByID(ctx context.Context, id uint64) error {
	model := new(T)
	pk, err := r.pkColumn()
	if err != nil {
		return err
	}
	field := reflect.ValueOf(model).Elem().Field(pk.Index)
	if !field.CanSet() || field.Kind() != reflect.Uint64 {
		return errors.New("primary key must be an uint64 field")
	}
	field.SetUint(id)
	return r.processor.Delete(ctx, model)
}

// FindByID 根据主键查询
func (r *GenericRepository[T]) FindByID(ctx context.Context, id uint64) (*T, error) {
	pk, err := r.pkColumn()
	if err != nil {
		return nil, err
	}
	return r.FindByKey(ctx, pk.Name, id)
}

func (r *GenericRepository[T]) pkColumn() (columnMeta, error) {
	pk, ok := metaOf(reflect.TypeOf(new(T))).pk()
	if !ok {
		return columnMeta{}, errors.New("model does not have a primary key")
	}
	return pk, nil
}

// FindByKey 按单列等值查询唯一记录
func (r *GenericRepository[T]) FindByKey(ctx context.Context, key string, value any) (*T, error) {
	return r.findOne(ctx, []Condition{{Field: key, Op: OpEq, Value: value}})
}

// Find 以模型非零字段为条件查询唯一记录
func (r *GenericRepository[T]) Find(ctx context.Context, model *T) (*T, error) {
	if model == nil {
		return nil, errors.New("model cannot be nil")
	}
	return r.findOne(ctx, r.processor.BuildFiltersFromModel(model))
}

func (r *GenericRepository[T]) findOne(ctx context.Context, filters []Condition) (*T, error) {
	result, err := r.processor.Query(ctx, new(T), &QueryOption{Filters: filters, Limit: 2})
	if err != nil {
		return nil, err
	}
	data, ok := result.Data.([]T)
	if !ok || len(data) == 0 {
		return nil, ErrRecordNotFound
	}
	if len(data) > 1 {
		return nil, ErrMultipleRecord
	}
	return &data[0], nil
}

// FindAll 以模型非零字段为条件查询全部记录
func (r *GenericRepository[T]) FindAll(ctx context.Context, model *T) ([]T, error) {
	if model == nil {
		return nil, errors.New("model cannot be nil")
	}
	result, err := r.processor.Query(ctx, new(T), &QueryOption{
		Filters: r.processor.BuildFiltersFromModel(model),
	})
	if err != nil {
		return nil, err
	}
	return result.Data.([]T), nil
}

// FindPage 以查询参数上的 xorm 标签生成条件分页查询
func (r *GenericRepository[T]) FindPage(ctx context.Context, query any, limit, offset int, orderBy string) ([]T, int64, error) {
	opts := &QueryOption{Limit: limit, Offset: offset, OrderBy: orderBy}
	if query != nil {
		opts.Filters = r.processor.BuildFiltersFromModel(query)
	}
	result, err := r.processor.Query(ctx, new(T), opts)
	if err != nil {
		return nil, 0, err
	}
	data, ok := result.Data.([]T)
	if !ok {
		return nil, 0, errors.New("invalid result type")
	}
	return data, result.Total, nil
}

// BatchCreate 批量插入，自增主键回填到 models
func (r *GenericRepository[T]) BatchCreate(ctx context.Context, models []T) error {
	if len(models) == 0 {
		return nil
	}
	ptrs := make([]any, len(models))
	for i := range models {
		ptrs[i] = &models[i]
	}
	return r.processor.BatchCreate(ctx, ptrs)
}

func (r *GenericRepository[T]) QueryBuilder() *QueryBuilder[T] {
	return NewQueryBuilder[T](r.processor)
}

func (r *GenericRepository[T]) Transaction(ctx context.Context, fn TransactionFunc) (any, error) {
	return r.processor.Transaction(ctx, fn)
}
