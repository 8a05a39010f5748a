package main

import (
	"fmt"

	"github.com/ayxworxfr/newcomer_admin/pkg/component"
	"github.com/ayxworxfr/newcomer_admin/pkg/navigation"
)

// screenRenderer 导航树中一行画面的输出
type screenRenderer func(s navigation.MenuScreen) string

func listRenderer() screenRenderer {
	return func(s navigation.MenuScreen) string {
		return fmt.Sprintf("%s  %s", s.ScreenName, s.ScreenPath)
	}
}

func adminRenderer() screenRenderer {
	return func(s navigation.MenuScreen) string {
		return fmt.Sprintf("%s  %s  [admin]", s.ScreenName, s.ScreenPath)
	}
}

func reportRenderer() screenRenderer {
	return func(s navigation.MenuScreen) string {
		return fmt.Sprintf("%s  %s  [report]", s.ScreenName, s.ScreenPath)
	}
}

// renderers 文件附件和教育现况在命令行中没有专门的展示
var renderers = mustRegistry(component.NewRegistry(map[component.Tag]func() screenRenderer{
	component.NewComerList:  listRenderer,
	component.GraduateList:  listRenderer,
	component.Dashboard:     reportRenderer,
	component.Statistics:    reportRenderer,
	component.ScreenAdmin:   adminRenderer,
	component.MenuAdmin:     adminRenderer,
	component.UserMenuAdmin: adminRenderer,
	component.CodeAdmin:     adminRenderer,
}))

func mustRegistry[V any](r *component.Registry[V], err error) *component.Registry[V] {
	if err != nil {
		panic(err)
	}
	return r
}

// renderScreen component_name 为空或没有专门展示时按列表输出，画面未命名时取组件标题
func renderScreen(s navigation.MenuScreen) string {
	if s.ScreenName == "" {
		if spec, ok := component.Lookup(s.ComponentName); ok {
			s.ScreenName = spec.Title
		}
	}
	if render, ok := renderers.Build(s.ComponentName); ok {
		return render(s)
	}
	return listRenderer()(s)
}
