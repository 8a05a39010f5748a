package navigation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ayxworxfr/newcomer_admin/pkg/component"
	"github.com/ayxworxfr/newcomer_admin/pkg/httpclient"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/samber/lo/parallel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrEmptyRoute 画面存在但没有配置路径
var ErrEmptyRoute = errors.New("screen has no route path")

// MenuResolver Session 依赖的解析能力
type MenuResolver interface {
	ResolveUserMenus(ctx context.Context, userID uint64) Result[[]Node]
	ResolveScreenRoute(ctx context.Context, screenID uint64, fallback string) string
}

// Resolver 通过 REST 接口把用户、画面标识解析成导航结构
type Resolver struct {
	client      *httpclient.Client
	resolutions metric.Int64Counter
}

func NewResolver(client *httpclient.Client) *Resolver {
	r := &Resolver{client: client}
	meter := otel.GetMeterProvider().Meter("newcomer-admin/navigation")
	counter, err := meter.Int64Counter("navigation.resolutions", metric.WithDescription("Navigation resolutions by kind and outcome"))
	if err != nil {
		logger.Warn(context.Background(), "Failed to create navigation counter", zap.Error(err))
	}
	r.resolutions = counter
	return r
}

func (r *Resolver) record(ctx context.Context, kind string, err error) {
	if r.resolutions == nil {
		return
	}
	r.resolutions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("ok", err == nil),
	))
}

// DefaultRoute 调用方没有给出回退路径时使用
func DefaultRoute(screenID uint64) string {
	return fmt.Sprintf("/screen/%d", screenID)
}

// ResolveUserMenus 拉取用户被授权的菜单及其画面
//
// 菜单按 id 去重，按 menu_order、id 排序；画面按关联顺序、画面 id 排序。
// 响应里缺少 screens 的菜单会并发补拉，全部完成后才返回。
// 授权拉取失败时 Value 为空列表，Err 携带原因。
func (r *Resolver) ResolveUserMenus(ctx context.Context, userID uint64) Result[[]Node] {
	var entries []userMenuEntry
	err := r.client.GetJSON(ctx, fmt.Sprintf("/api/user-menus/user/%d", userID), nil, &entries)
	r.record(ctx, "user_menus", err)
	if err != nil {
		logger.Warn(ctx, "Failed to resolve user menus", zap.Uint64("user_id", userID), zap.Error(err))
		return failure([]Node{}, err)
	}

	entries = lo.UniqBy(lo.Filter(entries, func(e userMenuEntry, _ int) bool { return e.ID != 0 }),
		func(e userMenuEntry) uint64 { return e.ID })

	nodes := parallel.Map(entries, func(e userMenuEntry, _ int) Node {
		return Node{
			Menu:    Menu{ID: e.ID, MenuName: e.MenuName, MenuOrder: e.MenuOrder, IsActive: true},
			Screens: r.menuScreens(ctx, e),
		}
	})
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Menu.MenuOrder != nodes[j].Menu.MenuOrder {
			return nodes[i].Menu.MenuOrder < nodes[j].Menu.MenuOrder
		}
		return nodes[i].Menu.ID < nodes[j].Menu.ID
	})
	return success(nodes)
}

func (r *Resolver) menuScreens(ctx context.Context, e userMenuEntry) []MenuScreen {
	var screens []MenuScreen
	if e.Screens != nil {
		screens = *e.Screens
	} else if err := r.client.GetJSON(ctx, fmt.Sprintf("/api/menus/%d/screens", e.ID), nil, &screens); err != nil {
		// 单个菜单失败时保留空分组
		logger.Warn(ctx, "Failed to fetch menu screens", zap.Uint64("menu_id", e.ID), zap.Error(err))
		return []MenuScreen{}
	}
	return orderScreens(screens)
}

// orderScreens 丢弃悬空画面并排序
func orderScreens(screens []MenuScreen) []MenuScreen {
	out := lo.UniqBy(lo.Filter(screens, func(s MenuScreen, _ int) bool { return s.ID != 0 }),
		func(s MenuScreen) uint64 { return s.ID })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LinkOrder != out[j].LinkOrder {
			return out[i].LinkOrder < out[j].LinkOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// LookupScreenRoute 查询画面路径，失败原因保留在 Err 中
func (r *Resolver) LookupScreenRoute(ctx context.Context, screenID uint64) Result[string] {
	var screen Screen
	err := r.client.GetJSON(ctx, fmt.Sprintf("/api/screens/%d", screenID), nil, &screen)
	if err == nil && screen.ScreenPath == "" {
		err = ErrEmptyRoute
	}
	r.record(ctx, "screen_route", err)
	if err != nil {
		return failure("", errors.Wrapf(err, "screen %d", screenID))
	}
	return success(screen.ScreenPath)
}

// ResolveScreenRoute 解析失败时原样返回 fallback
func (r *Resolver) ResolveScreenRoute(ctx context.Context, screenID uint64, fallback string) string {
	res := r.LookupScreenRoute(ctx, screenID)
	if !res.OK() {
		logger.Warn(ctx, "Screen route fallback", zap.Uint64("screen_id", screenID),
			zap.String("fallback", fallback), zap.Error(res.Err))
	}
	return res.Or(fallback)
}

// ResolveScreenTitle 当前页面的标题，没有匹配时返回空字符串
func (r *Resolver) ResolveScreenTitle(ctx context.Context, path string) string {
	if path == "" {
		return ""
	}
	if title, found := component.StaticTitle(path); found {
		return title
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var screen Screen
	err := r.client.GetJSON(ctx, "/api/screens/path"+path, nil, &screen)
	r.record(ctx, "screen_title", err)
	if err != nil {
		if !httpclient.IsNotFound(err) {
			logger.Warn(ctx, "Failed to resolve screen title", zap.String("path", path), zap.Error(err))
		}
		return ""
	}
	return screen.ScreenName
}
