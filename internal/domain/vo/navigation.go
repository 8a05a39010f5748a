package vo

import "time"

// Screen 画面视图对象
type Screen struct {
	ID                uint64    `json:"id"`
	ScreenName        string    `json:"screen_name"`
	ScreenPath        string    `json:"screen_path"`
	ScreenDescription string    `json:"screen_description"`
	ComponentName     string    `json:"component_name"`
	Department        string    `json:"department"`
	IsActive          bool      `json:"is_active"`
	ScreenOrder       int       `json:"screen_order"`
	CreateTime        time.Time `json:"create_time"`
	UpdateTime        time.Time `json:"update_time"`
}

// Menu 菜单视图对象
type Menu struct {
	ID         uint64    `json:"id"`
	MenuName   string    `json:"menu_name"`
	MenuOrder  int       `json:"menu_order"`
	Department string    `json:"department"`
	IsActive   bool      `json:"is_active"`
	CreateTime time.Time `json:"create_time"`
	UpdateTime time.Time `json:"update_time"`
}

// MenuScreen 菜单下的画面，LinkOrder 为关联上的显示顺序
type MenuScreen struct {
	Screen
	LinkOrder int `json:"link_order"`
}

// UserMenu 用户可见的菜单及其画面
type UserMenu struct {
	ID        uint64        `json:"id"`
	MenuName  string        `json:"menu_name"`
	MenuOrder int           `json:"menu_order"`
	Screens   []*MenuScreen `json:"screens"`
}

// MenuScreenLink 关联视图对象
type MenuScreenLink struct {
	ID          uint64 `json:"id"`
	MenuID      uint64 `json:"menuId"`
	ScreenID    uint64 `json:"screenId"`
	ScreenOrder int    `json:"screenOrder"`
}

// Grant 授权视图对象
type Grant struct {
	ID         uint64    `json:"id"`
	UserID     uint64    `json:"userId"`
	MenuID     uint64    `json:"menuId"`
	MenuName   string    `json:"menuName,omitempty"`
	CreateTime time.Time `json:"create_time"`
}

// Code 字典项
type Code struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Component 可挂到画面上的组件
type Component struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	DefaultPath string `json:"default_path"`
	AdminOnly   bool   `json:"admin_only"`
}
