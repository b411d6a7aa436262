package courseService

import "github.com/bytedance/sonic"

func mustJSON(v interface{}) []byte {
	b, err := sonic.Marshal(v)
	if err != nil {
		return []byte("[]")
	}
	return b
}
