package repository

import (
	"reflect"
	"strings"
	"sync"

	"github.com/ettle/strcase"
)

// columnMeta 结构体字段与数据库列的对应关系
type columnMeta struct {
	Name   string
	Index  int
	PK     bool
	Tagged bool
	Op     Op
}

type modelMeta struct {
	Type    reflect.Type
	Columns []columnMeta
}

func (m *modelMeta) pk() (columnMeta, bool) {
	for _, c := range m.Columns {
		if c.PK {
			return c, true
		}
	}
	return columnMeta{}, false
}

var metaCache sync.Map

// metaOf 解析模型的 xorm 标签，结果按类型缓存
func metaOf(t reflect.Type) *modelMeta {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := metaCache.Load(t); ok {
		return cached.(*modelMeta)
	}
	meta := &modelMeta{Type: t}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("xorm")
		if tag == "-" {
			continue
		}
		col := parseXormTag(tag)
		col.Tagged = tag != ""
		if col.Name == "" {
			col.Name = strcase.ToSnake(field.Name)
		}
		col.Index = i
		meta.Columns = append(meta.Columns, col)
	}
	actual, _ := metaCache.LoadOrStore(t, meta)
	return actual.(*modelMeta)
}

// parseXormTag 解析 `xorm:"pk autoincr bigint 'id'"` 或查询参数上的 `xorm:"name op=like"`
func parseXormTag(tag string) columnMeta {
	col := columnMeta{Op: OpEq}
	if tag == "" {
		return col
	}
	var bare []string
	for _, part := range strings.Fields(tag) {
		lower := strings.ToLower(part)
		switch {
		case strings.HasPrefix(part, "'") && strings.HasSuffix(part, "'") && len(part) > 1:
			col.Name = strings.Trim(part, "'")
		case strings.HasPrefix(lower, "op="):
			col.Op = Op(lower[3:])
		case lower == "pk":
			col.PK = true
		default:
			bare = append(bare, part)
		}
	}
	// 查询参数只写列名不带引号
	if col.Name == "" && len(bare) == 1 && !isXormKeyword(bare[0]) {
		col.Name = bare[0]
	}
	return col
}

func isXormKeyword(s string) bool {
	s = strings.ToLower(s)
	if i := strings.Index(s, "("); i > 0 {
		s = s[:i]
	}
	switch s {
	case "notnull", "null", "unique", "index", "bigint", "int", "tinyint", "smallint", "unsigned",
		"varchar", "char", "text", "datetime", "bool", "default", "extends", "deleted", "version",
		"autoincr", "created", "updated":
		return true
	}
	return false
}

// buildFilters 把模型非零字段转换为查询条件
func buildFilters(model any) []Condition {
	val := reflect.ValueOf(model)
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	meta := metaOf(val.Type())
	filters := make([]Condition, 0, len(meta.Columns))
	for _, col := range meta.Columns {
		if !col.Tagged {
			continue
		}
		fv := val.Field(col.Index)
		if fv.IsZero() || fv.Kind() == reflect.Struct {
			continue
		}
		filters = append(filters, Condition{Field: col.Name, Op: col.Op, Value: fv.Interface()})
	}
	return filters
}
