package navigation

import "hash/fnv"

// Palette 分组行的背景色
var Palette = []string{
	"#FDECEA", "#E8F4FD", "#EAF7EC", "#FFF8E1",
	"#F3E5F5", "#E0F2F1", "#FBE9E7", "#ECEFF1",
}

// GroupColor 同一名称总是得到同一颜色，空名称取第一个
func GroupColor(name string) string {
	if name == "" {
		return Palette[0]
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return Palette[h.Sum32()%uint32(len(Palette))]
}
