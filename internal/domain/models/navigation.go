package models

import "time"

// Screen 画面：一个可导航的逻辑页面
type Screen struct {
	ID                uint64    `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	ScreenName        string    `xorm:"varchar(100) notnull 'screen_name'" json:"screen_name"`
	ScreenPath        string    `xorm:"varchar(255) notnull index 'screen_path'" json:"screen_path"`
	ScreenDescription string    `xorm:"varchar(500) 'screen_description'" json:"screen_description"`
	ComponentName     string    `xorm:"varchar(100) 'component_name'" json:"component_name"`
	Department        string    `xorm:"varchar(100) 'department'" json:"department"`
	IsActive          bool      `xorm:"bool notnull 'is_active'" json:"is_active"`
	ScreenOrder       int       `xorm:"int 'screen_order'" json:"screen_order"`
	CreateTime        time.Time `xorm:"created 'create_time'" json:"create_time"`
	UpdateTime        time.Time `xorm:"updated 'update_time'" json:"update_time"`
}

func (Screen) TableName() string { return "screen" }

// Menu 菜单：有序的画面分组
type Menu struct {
	ID         uint64    `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	MenuName   string    `xorm:"varchar(100) notnull 'menu_name'" json:"menu_name"`
	MenuOrder  int       `xorm:"int 'menu_order'" json:"menu_order"`
	Department string    `xorm:"varchar(100) 'department'" json:"department"`
	IsActive   bool      `xorm:"bool notnull 'is_active'" json:"is_active"`
	CreateTime time.Time `xorm:"created 'create_time'" json:"create_time"`
	UpdateTime time.Time `xorm:"updated 'update_time'" json:"update_time"`
}

func (Menu) TableName() string { return "menu" }

// MenuScreenLink 菜单与画面的关联，ScreenOrder 只决定该菜单内的显示顺序
type MenuScreenLink struct {
	ID          uint64 `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	MenuID      uint64 `xorm:"bigint unsigned notnull unique(menu_screen) 'menu_id'" json:"menu_id"`
	ScreenID    uint64 `xorm:"bigint unsigned notnull unique(menu_screen) index 'screen_id'" json:"screen_id"`
	ScreenOrder int    `xorm:"int 'screen_order'" json:"screen_order"`
}

func (MenuScreenLink) TableName() string { return "menu_screen_link" }

// UserMenuGrant 用户可见的菜单，允许重复授权，读取时去重
type UserMenuGrant struct {
	ID         uint64    `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	UserID     uint64    `xorm:"bigint unsigned notnull index 'user_id'" json:"user_id"`
	MenuID     uint64    `xorm:"bigint unsigned notnull index 'menu_id'" json:"menu_id"`
	CreateTime time.Time `xorm:"created 'create_time'" json:"create_time"`
}

func (UserMenuGrant) TableName() string { return "user_menu" }
