package crypter

import "os"

// 默认密钥，生产环境通过 CRYPTER_KEY 覆盖
const defaultKey = "newcomer-admin@2025"

var Instance *SHA384Crypter

func init() {
	key := os.Getenv("CRYPTER_KEY")
	if key == "" {
		key = defaultKey
	}
	Instance = NewSHA384Crypter(key)
}
