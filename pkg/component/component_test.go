package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupAndValid(t *testing.T) {
	spec, ok := Lookup("GraduateList")
	require.True(t, ok)
	assert.Equal(t, "/graduates", spec.DefaultPath)

	_, ok = Lookup("graduatelist")
	assert.False(t, ok)

	assert.True(t, Valid(""))
	assert.True(t, Valid(string(MenuAdmin)))
	assert.False(t, Valid("EvalScript"))
}

func TestStaticTitle(t *testing.T) {
	title, ok := StaticTitle("/admin/menus")
	assert.True(t, ok)
	assert.Equal(t, "메뉴 관리", title)

	title, ok = StaticTitle("/dashboard/")
	assert.True(t, ok)
	assert.Equal(t, "대시보드", title)

	// 业务画面的标题来自画面目录
	_, ok = StaticTitle("/new-comers")
	assert.False(t, ok)
}

func TestRegistry(t *testing.T) {
	reg, err := NewRegistry(map[Tag]func() string{
		NewComerList: func() string { return "new-comer view" },
		Dashboard:    func() string { return "dashboard view" },
	})
	require.NoError(t, err)

	view, ok := reg.Build("NewComerList")
	assert.True(t, ok)
	assert.Equal(t, "new-comer view", view)

	_, ok = reg.Build("Statistics")
	assert.False(t, ok)
	assert.Contains(t, reg.Missing(), Statistics)
	assert.NotContains(t, reg.Missing(), Dashboard)

	_, err = NewRegistry(map[Tag]func() string{"Unknown": func() string { return "" }})
	assert.Error(t, err)
}

func TestAllIsACopy(t *testing.T) {
	all := All()
	all[0].Title = "changed"
	spec, _ := Lookup(string(all[0].Tag))
	assert.NotEqual(t, "changed", spec.Title)
}
