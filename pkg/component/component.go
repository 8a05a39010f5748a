// Package component 定义画面可以挂载的组件集合。
// 组件集合在编译期固定，画面上的 component_name 只能取这里登记过的值。
package component

import (
	"fmt"
	"sort"
	"strings"
)

type Tag string

const (
	NewComerList      Tag = "NewComerList"
	GraduateList      Tag = "GraduateList"
	EducationTracking Tag = "EducationTracking"
	FileAttachments   Tag = "FileAttachments"
	Dashboard         Tag = "Dashboard"
	Statistics        Tag = "Statistics"
	ScreenAdmin       Tag = "ScreenAdmin"
	MenuAdmin         Tag = "MenuAdmin"
	UserMenuAdmin     Tag = "UserMenuAdmin"
	CodeAdmin         Tag = "CodeAdmin"
)

// Spec 组件的静态描述
type Spec struct {
	Tag         Tag
	Title       string
	DefaultPath string
	AdminOnly   bool
}

var specs = []Spec{
	{Tag: NewComerList, Title: "새가족 목록", DefaultPath: "/new-comers"},
	{Tag: GraduateList, Title: "수료자 목록", DefaultPath: "/graduates"},
	{Tag: EducationTracking, Title: "교육 현황", DefaultPath: "/education"},
	{Tag: FileAttachments, Title: "첨부 파일", DefaultPath: "/files"},
	{Tag: Dashboard, Title: "대시보드", DefaultPath: "/dashboard"},
	{Tag: Statistics, Title: "통계", DefaultPath: "/statistics"},
	{Tag: ScreenAdmin, Title: "화면 관리", DefaultPath: "/admin/screens", AdminOnly: true},
	{Tag: MenuAdmin, Title: "메뉴 관리", DefaultPath: "/admin/menus", AdminOnly: true},
	{Tag: UserMenuAdmin, Title: "사용자 메뉴 관리", DefaultPath: "/admin/user-menus", AdminOnly: true},
	{Tag: CodeAdmin, Title: "코드 관리", DefaultPath: "/admin/codes", AdminOnly: true},
}

var (
	byTag  = make(map[Tag]Spec, len(specs))
	byPath = make(map[string]Spec, len(specs))
)

func init() {
	for _, s := range specs {
		byTag[s.Tag] = s
		byPath[s.DefaultPath] = s
	}
}

// All 按登记顺序返回全部组件
func All() []Spec {
	out := make([]Spec, len(specs))
	copy(out, specs)
	return out
}

func Lookup(name string) (Spec, bool) {
	s, ok := byTag[Tag(name)]
	return s, ok
}

// Valid 空字符串视为未指定组件，也是合法的
func Valid(name string) bool {
	if name == "" {
		return true
	}
	_, ok := byTag[Tag(name)]
	return ok
}

// StaticTitle 管理画面等固定路由的标题，不需要查询画面目录
func StaticTitle(path string) (string, bool) {
	path = strings.TrimSuffix(path, "/")
	s, ok := byPath[path]
	if !ok || !(s.AdminOnly || s.Tag == Dashboard || s.Tag == Statistics) {
		return "", false
	}
	return s.Title, true
}

// Registry 组件标签到构造函数的映射，只接受登记过的标签
type Registry[V any] struct {
	ctors map[Tag]func() V
}

// NewRegistry 出现未登记的标签时返回错误
func NewRegistry[V any](ctors map[Tag]func() V) (*Registry[V], error) {
	r := &Registry[V]{ctors: make(map[Tag]func() V, len(ctors))}
	for tag, ctor := range ctors {
		if _, ok := byTag[tag]; !ok {
			return nil, fmt.Errorf("unknown component %q", tag)
		}
		if ctor == nil {
			return nil, fmt.Errorf("nil constructor for component %q", tag)
		}
		r.ctors[tag] = ctor
	}
	return r, nil
}

// Build 画面上的 component_name 为空或没有实现时返回 false
func (r *Registry[V]) Build(name string) (V, bool) {
	ctor, ok := r.ctors[Tag(name)]
	if !ok {
		var zero V
		return zero, false
	}
	return ctor(), true
}

// Missing 已登记但没有实现的组件
func (r *Registry[V]) Missing() []Tag {
	var missing []Tag
	for _, s := range specs {
		if _, ok := r.ctors[s.Tag]; !ok {
			missing = append(missing, s.Tag)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}
