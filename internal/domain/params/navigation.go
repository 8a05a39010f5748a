package params

// ---------------------- 画面 ----------------------

// ScreenRequest 创建画面
type ScreenRequest struct {
	ScreenName        string `json:"screen_name" vd:"len($)>0&&len($)<=100"`
	ScreenPath        string `json:"screen_path" vd:"len($)>0&&len($)<=255"`
	ScreenDescription string `json:"screen_description" vd:"len($)<=500"`
	ComponentName     string `json:"component_name" vd:"len($)<=100"`
	Department        string `json:"department" vd:"len($)<=100"`
	IsActive          bool   `json:"is_active"`
	ScreenOrder       int    `json:"screen_order"`
}

// UpdateScreenRequest 整体更新画面
type UpdateScreenRequest struct {
	ID uint64 `path:"id" vd:"$>0"`
	ScreenRequest
}

// ScreenListRequest 画面列表
type ScreenListRequest struct {
	Page
	ScreenName string `query:"screen_name" xorm:"screen_name op=like"`
	Department string `query:"department" xorm:"department"`
}

// ScreenPathRequest 按路径查询画面
type ScreenPathRequest struct {
	Path string `path:"path"`
}

// ---------------------- 菜单 ----------------------

// MenuRequest 创建菜单
type MenuRequest struct {
	MenuName   string `json:"menu_name" vd:"len($)>0&&len($)<=100"`
	MenuOrder  int    `json:"menu_order"`
	Department string `json:"department" vd:"len($)<=100"`
	IsActive   bool   `json:"is_active"`
}

// UpdateMenuRequest 整体更新菜单
type UpdateMenuRequest struct {
	ID uint64 `path:"id" vd:"$>0"`
	MenuRequest
}

// MenuListRequest 菜单列表
type MenuListRequest struct {
	Page
	MenuName   string `query:"menu_name" xorm:"menu_name op=like"`
	Department string `query:"department" xorm:"department"`
}

// LinkScreenRequest 把画面挂到菜单下
type LinkScreenRequest struct {
	MenuID      uint64 `path:"id" vd:"$>0"`
	ScreenID    uint64 `json:"screenId" vd:"$>0"`
	ScreenOrder int    `json:"screenOrder"`
}

// UnlinkScreenRequest 从菜单移除画面
type UnlinkScreenRequest struct {
	MenuID   uint64 `path:"id" vd:"$>0"`
	ScreenID uint64 `path:"screen_id" vd:"$>0"`
}

// ---------------------- 用户菜单授权 ----------------------

// GrantRequest 授予用户菜单
type GrantRequest struct {
	UserID uint64 `json:"userId" vd:"$>0"`
	MenuID uint64 `json:"menuId" vd:"$>0"`
}

// GrantListRequest 授权列表
type GrantListRequest struct {
	Page
	UserID uint64 `query:"user_id" xorm:"user_id"`
	MenuID uint64 `query:"menu_id" xorm:"menu_id"`
}

// UserMenusRequest 用户导航
type UserMenusRequest struct {
	UserID uint64 `path:"user_id" vd:"$>0"`
}

// ---------------------- 字典 ----------------------

// CodeGroupRequest 按分组读取字典
type CodeGroupRequest struct {
	Group string `path:"group" vd:"len($)>0&&len($)<=50"`
}
