package utils

import (
	"os"
	"path/filepath"
)

// RootEnv 覆盖项目根目录的环境变量
const RootEnv = "APP_ROOT"

// GetAbsPath 将相对项目根目录的路径转换为绝对路径
//
// 根目录优先取 APP_ROOT，否则从工作目录向上查找 go.mod 所在目录，都找不到时使用工作目录。
// 测试在包目录下运行，这样 conf/ 下的文件在任意包内都能找到。
func GetAbsPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(ProjectRoot(), path)
}

// ProjectRoot 项目根目录
func ProjectRoot() string {
	if root := os.Getenv(RootEnv); root != "" {
		return root
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	for dir := wd; ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return wd
		}
		dir = parent
	}
}
