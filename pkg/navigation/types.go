// Package navigation 是导航服务的客户端：解析用户菜单、画面路由与标题，
// 维护下拉导航树的会话状态，并提供画面/菜单/授权的维护接口。
package navigation

// Screen 画面
type Screen struct {
	ID                uint64 `json:"id"`
	ScreenName        string `json:"screen_name"`
	ScreenPath        string `json:"screen_path"`
	ScreenDescription string `json:"screen_description"`
	ComponentName     string `json:"component_name"`
	Department        string `json:"department"`
	IsActive          bool   `json:"is_active"`
	ScreenOrder       int    `json:"screen_order"`
}

// MenuScreen 菜单下的画面，LinkOrder 为关联上的顺序
type MenuScreen struct {
	Screen
	LinkOrder int `json:"link_order"`
}

// Menu 菜单
type Menu struct {
	ID         uint64 `json:"id"`
	MenuName   string `json:"menu_name"`
	MenuOrder  int    `json:"menu_order"`
	Department string `json:"department"`
	IsActive   bool   `json:"is_active"`
}

// Node 导航树上的一个菜单节点
type Node struct {
	Menu     Menu
	Screens  []MenuScreen
	Expanded bool
}

// Link 菜单与画面的关联
type Link struct {
	ID          uint64 `json:"id"`
	MenuID      uint64 `json:"menuId"`
	ScreenID    uint64 `json:"screenId"`
	ScreenOrder int    `json:"screenOrder"`
}

// Grant 用户菜单授权
type Grant struct {
	ID       uint64 `json:"id"`
	UserID   uint64 `json:"userId"`
	MenuID   uint64 `json:"menuId"`
	MenuName string `json:"menuName,omitempty"`
}

// userMenuEntry /api/user-menus/user/{id} 的单个元素，screens 缺失时需要单独拉取
type userMenuEntry struct {
	ID        uint64        `json:"id"`
	MenuName  string        `json:"menu_name"`
	MenuOrder int           `json:"menu_order"`
	Screens   *[]MenuScreen `json:"screens"`
}

type page[T any] struct {
	List  []T   `json:"list"`
	Total int64 `json:"total"`
}
