package recipe

import (
	"regexp"
	"strings"
)

var fencedJSON = regexp.MustCompile("(?is)```json(.*?)```")

// ExtractJSON 從模型回覆中取出 JSON 文字：
// 先取 ```json 區塊內容，其次取第一個 { 到最後一個 }，都沒有時原樣回傳
func ExtractJSON(text string) string {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first != -1 && last > first {
		return text[first : last+1]
	}
	return text
}
