package models

// Code 下拉选项字典，GroupCode 下按 SortOrder 排列
type Code struct {
	ID        uint64 `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	GroupCode string `xorm:"varchar(50) notnull index 'group_code'" json:"group_code"`
	CodeValue string `xorm:"varchar(50) notnull 'code_value'" json:"code_value"`
	CodeLabel string `xorm:"varchar(100) notnull 'code_label'" json:"code_label"`
	SortOrder int    `xorm:"int 'sort_order'" json:"sort_order"`
	IsActive  bool   `xorm:"bool notnull 'is_active'" json:"is_active"`
}

func (Code) TableName() string { return "code" }
