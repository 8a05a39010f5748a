package models

import (
	"time"

	"github.com/ayxworxfr/newcomer_admin/pkg/crypter"
)

const (
	UserStatusDisabled = 0
	UserStatusEnabled  = 1
)

// User 登录用户，授权的主体
type User struct {
	ID            uint64    `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	Username      string    `xorm:"varchar(50) notnull unique 'username'" json:"username"`
	Password      string    `xorm:"varchar(100) notnull 'password'" json:"-"`
	DisplayName   string    `xorm:"varchar(100) 'display_name'" json:"display_name"`
	Department    string    `xorm:"varchar(100) 'department'" json:"department"`
	Role          string    `xorm:"varchar(20) notnull 'role'" json:"role"`
	Status        int       `xorm:"int 'status'" json:"status"`
	CreateTime    time.Time `xorm:"created 'create_time'" json:"create_time"`
	UpdateTime    time.Time `xorm:"updated 'update_time'" json:"update_time"`
	LastLoginTime time.Time `xorm:"datetime 'last_login_time'" json:"last_login_time"`
}

func (User) TableName() string { return "admin_user" }

func (u *User) Verify(password string) bool {
	return crypter.Instance.Verify(password, u.Password)
}

func (u *User) EncryptPassword() {
	u.Password = crypter.Instance.Encrypt(u.Password)
}

func (u *User) Enabled() bool {
	return u.Status == UserStatusEnabled
}
