package navigation

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ayxworxfr/newcomer_admin/pkg/component"
	"github.com/ayxworxfr/newcomer_admin/pkg/httpclient"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// ErrNotConfirmed 删除操作被用户取消，请求未发出
var ErrNotConfirmed = errors.New("operation not confirmed")

// Confirmer 删除前的确认
type Confirmer interface {
	Confirm(ctx context.Context, action string) bool
}

// ConfirmFunc 函数适配 Confirmer
type ConfirmFunc func(ctx context.Context, action string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, action string) bool { return f(ctx, action) }

// ScreenInput 画面表单
type ScreenInput struct {
	ScreenName        string `json:"screen_name" validate:"required,max=100"`
	ScreenPath        string `json:"screen_path" validate:"required,max=255,startswith=/"`
	ScreenDescription string `json:"screen_description" validate:"max=500"`
	ComponentName     string `json:"component_name" validate:"component"`
	Department        string `json:"department" validate:"max=100"`
	IsActive          bool   `json:"is_active"`
	ScreenOrder       int    `json:"screen_order"`
}

// MenuInput 菜单表单
type MenuInput struct {
	MenuName   string `json:"menu_name" validate:"required,max=100"`
	MenuOrder  int    `json:"menu_order"`
	Department string `json:"department" validate:"max=100"`
	IsActive   bool   `json:"is_active"`
}

type linkInput struct {
	ScreenID    uint64 `json:"screenId"`
	ScreenOrder int    `json:"screenOrder"`
}

type grantInput struct {
	UserID uint64 `json:"userId"`
	MenuID uint64 `json:"menuId"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("component", func(fl validator.FieldLevel) bool {
		return component.Valid(fl.Field().String())
	})
	return v
}

// Admin 画面、菜单、关联与授权的维护接口，写操作失败直接返回错误
type Admin struct {
	client   *httpclient.Client
	confirm  Confirmer
	validate *validator.Validate
}

// NewAdmin confirm 为 nil 时所有删除都会被拒绝
func NewAdmin(client *httpclient.Client, confirm Confirmer) *Admin {
	return &Admin{client: client, confirm: confirm, validate: newValidator()}
}

func (a *Admin) confirmed(ctx context.Context, action string) error {
	if a.confirm == nil || !a.confirm.Confirm(ctx, action) {
		return errors.Wrap(ErrNotConfirmed, action)
	}
	return nil
}

// ---------------------- 画面 ----------------------

func (a *Admin) ListScreens(ctx context.Context) ([]Screen, error) {
	var p page[Screen]
	if err := a.client.GetJSON(ctx, "/api/screens", nil, &p); err != nil {
		return nil, errors.Wrap(err, "list screens")
	}
	return p.List, nil
}

func (a *Admin) CreateScreen(ctx context.Context, in ScreenInput) (*Screen, error) {
	if err := a.validate.Struct(in); err != nil {
		return nil, err
	}
	var out Screen
	if err := a.client.PostJSON(ctx, "/api/screens", in, &out); err != nil {
		return nil, errors.Wrap(err, "create screen")
	}
	return &out, nil
}

func (a *Admin) UpdateScreen(ctx context.Context, id uint64, in ScreenInput) (*Screen, error) {
	if err := a.validate.Struct(in); err != nil {
		return nil, err
	}
	var out Screen
	if err := a.client.PutJSON(ctx, fmt.Sprintf("/api/screens/%d", id), in, &out); err != nil {
		return nil, errors.Wrapf(err, "update screen %d", id)
	}
	return &out, nil
}

func (a *Admin) DeleteScreen(ctx context.Context, id uint64) error {
	if err := a.confirmed(ctx, fmt.Sprintf("delete screen %d", id)); err != nil {
		return err
	}
	return errors.Wrapf(a.client.DeleteJSON(ctx, fmt.Sprintf("/api/screens/%d", id), nil), "delete screen %d", id)
}

// ---------------------- 菜单 ----------------------

func (a *Admin) ListMenus(ctx context.Context) ([]Menu, error) {
	var p page[Menu]
	if err := a.client.GetJSON(ctx, "/api/menus", nil, &p); err != nil {
		return nil, errors.Wrap(err, "list menus")
	}
	return p.List, nil
}

func (a *Admin) GetMenu(ctx context.Context, id uint64) (*Menu, error) {
	var out Menu
	if err := a.client.GetJSON(ctx, fmt.Sprintf("/api/menus/%d", id), nil, &out); err != nil {
		return nil, errors.Wrapf(err, "get menu %d", id)
	}
	return &out, nil
}

func (a *Admin) CreateMenu(ctx context.Context, in MenuInput) (*Menu, error) {
	if err := a.validate.Struct(in); err != nil {
		return nil, err
	}
	var out Menu
	if err := a.client.PostJSON(ctx, "/api/menus", in, &out); err != nil {
		return nil, errors.Wrap(err, "create menu")
	}
	return &out, nil
}

func (a *Admin) UpdateMenu(ctx context.Context, id uint64, in MenuInput) (*Menu, error) {
	if err := a.validate.Struct(in); err != nil {
		return nil, err
	}
	var out Menu
	if err := a.client.PutJSON(ctx, fmt.Sprintf("/api/menus/%d", id), in, &out); err != nil {
		return nil, errors.Wrapf(err, "update menu %d", id)
	}
	return &out, nil
}

func (a *Admin) DeleteMenu(ctx context.Context, id uint64) error {
	if err := a.confirmed(ctx, fmt.Sprintf("delete menu %d", id)); err != nil {
		return err
	}
	return errors.Wrapf(a.client.DeleteJSON(ctx, fmt.Sprintf("/api/menus/%d", id), nil), "delete menu %d", id)
}

// ---------------------- 关联 ----------------------

func (a *Admin) ListMenuScreens(ctx context.Context, menuID uint64) ([]MenuScreen, error) {
	var out []MenuScreen
	if err := a.client.GetJSON(ctx, fmt.Sprintf("/api/menus/%d/screens", menuID), nil, &out); err != nil {
		return nil, errors.Wrapf(err, "list screens of menu %d", menuID)
	}
	return orderScreens(out), nil
}

func (a *Admin) LinkScreen(ctx context.Context, menuID, screenID uint64, order int) (*Link, error) {
	var out Link
	in := linkInput{ScreenID: screenID, ScreenOrder: order}
	if err := a.client.PostJSON(ctx, fmt.Sprintf("/api/menus/%d/screens", menuID), in, &out); err != nil {
		return nil, errors.Wrapf(err, "link screen %d to menu %d", screenID, menuID)
	}
	return &out, nil
}

func (a *Admin) UnlinkScreen(ctx context.Context, menuID, screenID uint64) error {
	if err := a.confirmed(ctx, fmt.Sprintf("unlink screen %d from menu %d", screenID, menuID)); err != nil {
		return err
	}
	path := fmt.Sprintf("/api/menus/%d/screens/%d", menuID, screenID)
	return errors.Wrapf(a.client.DeleteJSON(ctx, path, nil), "unlink screen %d from menu %d", screenID, menuID)
}

// AvailableScreens 全部画面减去已挂到该菜单的画面，每次调用都重新计算
func (a *Admin) AvailableScreens(ctx context.Context, menuID uint64) ([]Screen, error) {
	all, err := a.ListScreens(ctx)
	if err != nil {
		return nil, err
	}
	linked, err := a.ListMenuScreens(ctx, menuID)
	if err != nil {
		return nil, err
	}
	linkedIDs := lo.SliceToMap(linked, func(s MenuScreen) (uint64, struct{}) { return s.ID, struct{}{} })
	return lo.Filter(all, func(s Screen, _ int) bool {
		_, exists := linkedIDs[s.ID]
		return !exists
	}), nil
}

// ---------------------- 授权 ----------------------

// ListGrants userID 为 0 时返回全部授权
func (a *Admin) ListGrants(ctx context.Context, userID uint64) ([]Grant, error) {
	var query url.Values
	if userID != 0 {
		query = url.Values{"user_id": {strconv.FormatUint(userID, 10)}}
	}
	var p page[Grant]
	if err := a.client.GetJSON(ctx, "/api/user-menus", query, &p); err != nil {
		return nil, errors.Wrap(err, "list grants")
	}
	return p.List, nil
}

func (a *Admin) GrantMenu(ctx context.Context, userID, menuID uint64) (*Grant, error) {
	var out Grant
	if err := a.client.PostJSON(ctx, "/api/user-menus", grantInput{UserID: userID, MenuID: menuID}, &out); err != nil {
		return nil, errors.Wrapf(err, "grant menu %d to user %d", menuID, userID)
	}
	return &out, nil
}

func (a *Admin) RevokeGrant(ctx context.Context, id uint64) error {
	if err := a.confirmed(ctx, fmt.Sprintf("revoke grant %d", id)); err != nil {
		return err
	}
	return errors.Wrapf(a.client.DeleteJSON(ctx, fmt.Sprintf("/api/user-menus/%d", id), nil), "revoke grant %d", id)
}
