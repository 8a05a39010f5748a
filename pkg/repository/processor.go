package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"xorm.io/xorm"
)

// XormProcessor xorm处理器实现
type XormProcessor struct {
	engine *xorm.Engine
}

func NewXormProcessor(engine *xorm.Engine) *XormProcessor {
	return &XormProcessor{engine: engine}
}

// getSession 优先使用上下文中的事务会话
func (p *XormProcessor) getSession(ctx context.Context) (*xorm.Session, bool) {
	if session, ok := ctx.Value(TransactionKeyInstance).(*xorm.Session); ok && session != nil {
		return session, true
	}
	return p.engine.NewSession().Context(ctx), false
}

// run 执行fn并把最后一条SQL记录到span
func (p *XormProcessor) run(ctx context.Context, fn func(*xorm.Session) (any, error)) (any, error) {
	session, inTx := p.getSession(ctx)
	if !inTx {
		defer session.Close()
	}
	start := time.Now()
	result, err := fn(session)
	sql, args := session.LastSQL()
	info := map[string]any{"sql": sql, "duration": time.Since(start)}
	if len(args) > 0 {
		info["args"] = args
	}
	RecordDbEvent(ctx, info)
	return result, err
}

func (p *XormProcessor) Create(ctx context.Context, model any) error {
	_, err := p.run(ctx, func(session *xorm.Session) (any, error) {
		return session.Insert(model)
	})
	return err
}

// Update 整行更新，零值字段同样写入
func (p *XormProcessor) Update(ctx context.Context, model any) error {
	pk, ok := metaOf(reflect.TypeOf(model)).pk()
	if !ok {
		return errors.New("model must have a primary key field")
	}
	id := reflect.ValueOf(model).Elem().Field(pk.Index)
	if id.IsZero() {
		return errors.New("model must have a valid primary key value")
	}
	_, err := p.run(ctx, func(session *xorm.Session) (any, error) {
		return session.ID(id.Interface()).AllCols().Update(model)
	})
	return err
}

func (p *XormProcessor) Delete(ctx context.Context, model any) error {
	_, err := p.run(ctx, func(session *xorm.Session) (any, error) {
		return session.Delete(model)
	})
	return err
}

func (p *XormProcessor) DeleteByOption(ctx context.Context, model any, opts *QueryOption) error {
	_, err := p.run(ctx, func(session *xorm.Session) (any, error) {
		for _, filter := range opts.Filters {
			session = applyCondition(session, filter)
		}
		return session.Delete(model)
	})
	return err
}

func (p *XormProcessor) Query(ctx context.Context, model any, opts *QueryOption) (*QueryResult, error) {
	slicePtr := reflect.New(reflect.SliceOf(reflect.TypeOf(model).Elem()))
	_, err := p.run(ctx, func(session *xorm.Session) (any, error) {
		for _, filter := range opts.Filters {
			session = applyCondition(session, filter)
		}
		if opts.OrderBy != "" {
			session = session.OrderBy(opts.OrderBy)
		}
		if opts.Limit > 0 {
			session = session.Limit(opts.Limit, opts.Offset)
		}
		return nil, session.Find(slicePtr.Interface())
	})
	if err != nil {
		return nil, err
	}

	total := int64(slicePtr.Elem().Len())
	if opts.Limit > 0 {
		count, err := p.run(ctx, func(session *xorm.Session) (any, error) {
			for _, filter := range opts.Filters {
				session = applyCondition(session, filter)
			}
			return session.Count(model)
		})
		if err != nil {
			return nil, err
		}
		total = count.(int64)
	}

	return &QueryResult{Data: slicePtr.Elem().Interface(), Total: total}, nil
}

func (p *XormProcessor) BatchCreate(ctx context.Context, models []any) error {
	_, err := p.Transaction(ctx, func(txCtx context.Context) (any, error) {
		return p.run(txCtx, func(session *xorm.Session) (any, error) {
			for _, model := range models {
				if _, err := session.Insert(model); err != nil {
					return nil, err
				}
			}
			return len(models), nil
		})
	})
	return err
}

func (p *XormProcessor) BuildFiltersFromModel(model any) []Condition {
	return buildFilters(model)
}

// Transaction 支持嵌套，内层复用外层事务
func (p *XormProcessor) Transaction(ctx context.Context, fn TransactionFunc) (result any, err error) {
	if _, ok := ctx.Value(TransactionKeyInstance).(*xorm.Session); ok {
		return fn(ctx)
	}

	session := p.engine.NewSession().Context(ctx)
	defer session.Close()
	if err := session.Begin(); err != nil {
		return nil, err
	}
	txCtx := context.WithValue(ctx, TransactionKeyInstance, session)

	defer func() {
		if r := recover(); r != nil {
			_ = session.Rollback()
			panic(r)
		}
	}()

	result, err = fn(txCtx)
	if err != nil {
		if rbErr := session.Rollback(); rbErr != nil {
			return nil, fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return nil, err
	}
	if err := session.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

// applyCondition 把条件应用到会话
func applyCondition(session *xorm.Session, cond Condition) *xorm.Session {
	switch cond.Op {
	case OpIn, OpNotIn:
		values := toAnySlice(cond.Value)
		if len(values) == 0 {
			if cond.Op == OpIn {
				return session.Where("1 = 0")
			}
			return session
		}
		if cond.Op == OpIn {
			return session.In(cond.Field, values...)
		}
		return session.NotIn(cond.Field, values...)
	case OpEq:
		return session.Where(cond.Field+" = ?", cond.Value)
	case OpNe:
		return session.Where(cond.Field+" != ?", cond.Value)
	case OpGt:
		return session.Where(cond.Field+" > ?", cond.Value)
	case OpLt:
		return session.Where(cond.Field+" < ?", cond.Value)
	case OpGe:
		return session.Where(cond.Field+" >= ?", cond.Value)
	case OpLe:
		return session.Where(cond.Field+" <= ?", cond.Value)
	case OpLike:
		return session.Where(cond.Field+" LIKE ?", fmt.Sprintf("%%%v%%", cond.Value))
	case OpStartsWith:
		return session.Where(cond.Field+" LIKE ?", fmt.Sprintf("%v%%", cond.Value))
	default:
		return session
	}
}

func toAnySlice(value any) []any {
	if values, ok := value.([]any); ok {
		return values
	}
	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Slice {
		return []any{value}
	}
	out := make([]any, v.Len())
	for i := 0; i < v.Len(); i++ {
		out[i] = v.Index(i).Interface()
	}
	return out
}
