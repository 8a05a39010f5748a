package repository

import (
	"context"
	"errors"
)

type Op string

const (
	OpLike       Op = "like"
	OpStartsWith Op = "startswith"
	OpEq         Op = "eq"
	OpNe         Op = "ne"
	OpGt         Op = "gt"
	OpLt         Op = "lt"
	OpGe         Op = "ge"
	OpLe         Op = "le"
	OpIn         Op = "in"
	OpNotIn      Op = "notin"
)

// Condition 查询条件，Field 为数据库列名
type Condition struct {
	Field string
	Op    Op
	Value any
}

// QueryBuilder 链式查询构建器
type QueryBuilder[T any] struct {
	processor  ORMProcessor
	conditions []Condition
	orderBy    string
	limit      int
	offset     int
}

func NewQueryBuilder[T any](processor ORMProcessor) *QueryBuilder[T] {
	return &QueryBuilder[T]{processor: processor}
}

func (qb *QueryBuilder[T]) where(field string, op Op, value any) *QueryBuilder[T] {
	qb.conditions = append(qb.conditions, Condition{Field: field, Op: op, Value: value})
	return qb
}

func (qb *QueryBuilder[T]) Eq(field string, value any) *QueryBuilder[T] {
	return qb.where(field, OpEq, value)
}

func (qb *QueryBuilder[T]) Ne(field string, value any) *QueryBuilder[T] {
	return qb.where(field, OpNe, value)
}

func (qb *QueryBuilder[T]) Like(field string, value any) *QueryBuilder[T] {
	return qb.where(field, OpLike, value)
}

func (qb *QueryBuilder[T]) StartsWith(field string, value any) *QueryBuilder[T] {
	return qb.where(field, OpStartsWith, value)
}

func (qb *QueryBuilder[T]) Gt(field string, value any) *QueryBuilder[T] {
	return qb.where(field, OpGt, value)
}

func (qb *QueryBuilder[T]) Lt(field string, value any) *QueryBuilder[T] {
	return qb.where(field, OpLt, value)
}

// In 空切片视为恒假条件
func (qb *QueryBuilder[T]) In(field string, value any) *QueryBuilder[T] {
	return qb.where(field, OpIn, value)
}

// NotIn 空切片视为恒真条件
func (qb *QueryBuilder[T]) NotIn(field string, value any) *QueryBuilder[T] {
	return qb.where(field, OpNotIn, value)
}

// OrderBy 形如 "screen_order asc, screen_id asc"
func (qb *QueryBuilder[T]) OrderBy(fields string) *QueryBuilder[T] {
	qb.orderBy = fields
	return qb
}

func (qb *QueryBuilder[T]) Limit(limit int) *QueryBuilder[T] {
	qb.limit = limit
	return qb
}

func (qb *QueryBuilder[T]) Offset(offset int) *QueryBuilder[T] {
	qb.offset = offset
	return qb
}

func (qb *QueryBuilder[T]) options() *QueryOption {
	return &QueryOption{
		OrderBy: qb.orderBy,
		Limit:   qb.limit,
		Offset:  qb.offset,
		Filters: qb.conditions,
	}
}

// Find 执行查询并返回列表
func (qb *QueryBuilder[T]) Find(ctx context.Context) ([]T, error) {
	result, err := qb.processor.Query(ctx, new(T), qb.options())
	if err != nil {
		return nil, err
	}
	data, ok := result.Data.([]T)
	if !ok {
		return nil, errors.New("invalid result type")
	}
	return data, nil
}

// First 返回第一条记录，没有记录时返回 ErrRecordNotFound
func (qb *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	qb.limit = 1
	result, err := qb.Find(ctx)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, ErrRecordNotFound
	}
	return &result[0], nil
}

// Count 返回符合条件的记录数
func (qb *QueryBuilder[T]) Count(ctx context.Context) (int64, error) {
	result, err := qb.processor.Query(ctx, new(T), &QueryOption{Filters: qb.conditions})
	if err != nil {
		return 0, err
	}
	return result.Total, nil
}

// Delete 删除符合条件的记录，没有条件时拒绝执行
func (qb *QueryBuilder[T]) Delete(ctx context.Context) error {
	if len(qb.conditions) == 0 {
		return errors.New("delete without conditions is not allowed")
	}
	return qb.processor.DeleteByOption(ctx, new(T), &QueryOption{Filters: qb.conditions})
}
