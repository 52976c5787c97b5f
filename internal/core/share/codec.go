package share

import (
	"net/url"
	"sort"
	"strings"

	"pantry-chef/internal/pkg/common"

	lzstring "github.com/daku10/go-lz-string"
	"go.uber.org/zap"
)

// Scheme 分享連結的編碼方式
type Scheme string

const (
	// SchemeNone 無法辨識的輸入
	SchemeNone Scheme = ""
	// SchemeToken 壓縮後的已選食材 id 陣列（?pantry=）
	SchemeToken Scheme = "token"
	// SchemeMap URL 編碼的完整布林對照表（?share=）
	SchemeMap Scheme = "map"
)

// 查詢參數名稱
const (
	TokenParam = "pantry"
	MapParam   = "share"
)

// Codec 帶預設來源網址的分享連結編碼器
type Codec struct {
	baseURL string
}

// NewCodec 創建編碼器；baseURL 在呼叫端沒有提供來源時使用
func NewCodec(baseURL string) *Codec {
	return &Codec{baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/")}
}

// Origin 呼叫端提供的來源優先，其次是設定值，最後為空字串
func (c *Codec) Origin(origin string) string {
	if o := strings.TrimRight(strings.TrimSpace(origin), "/"); o != "" {
		return o
	}
	return c.baseURL
}

// TokenURL 以 SchemeToken 產生分享連結
func (c *Codec) TokenURL(ids []string, origin string) (string, error) {
	return BuildTokenURL(ids, c.Origin(origin))
}

// MapURL 以 SchemeMap 產生分享連結
func (c *Codec) MapURL(sel map[string]bool, origin string) (string, error) {
	return BuildMapURL(sel, c.Origin(origin))
}

// EncodeToken 去重排序後序列化為 JSON 陣列，再壓縮成可放在網址中的字串
func EncodeToken(ids []string) (string, error) {
	data, err := common.ToJSON(normalizeIDs(ids))
	if err != nil {
		return "", err
	}
	return lzstring.CompressToEncodedURIComponent(data)
}

// BuildTokenURL 產生 <origin>/?pantry=<token>
func BuildTokenURL(ids []string, origin string) (string, error) {
	token, err := EncodeToken(ids)
	if err != nil {
		return "", err
	}
	return origin + "/?" + TokenParam + "=" + token, nil
}

// DecodeToken 解壓縮並解析 id 陣列；任何失敗都回傳空陣列
func DecodeToken(token string) []string {
	ids, _ := decodeToken(token)
	return ids
}

// DecodeTokenOrURL 接受完整網址或單獨的 token
func DecodeTokenOrURL(input string) []string {
	input = strings.TrimSpace(input)
	if u, ok := parseURL(input); ok {
		return DecodeToken(u.Query().Get(TokenParam))
	}
	return DecodeToken(input)
}

func decodeToken(token string) ([]string, bool) {
	if token == "" {
		return []string{}, false
	}
	// 查詢字串中的 + 會被還原成空白
	token = strings.ReplaceAll(token, " ", "+")

	data, err := lzstring.DecompressFromEncodedURIComponent(token)
	if err != nil || data == "" {
		common.LogDebug("share token 無法解壓縮", zap.Error(err))
		return []string{}, false
	}

	var raw []interface{}
	if err := common.ParseJSON(data, &raw); err != nil {
		common.LogDebug("share token 不是 JSON 陣列", zap.Error(err))
		return []string{}, false
	}
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			ids = append(ids, s)
		}
	}
	return ids, true
}

// uriComponentUnescaper 還原 encodeURIComponent 不跳脫、但 QueryEscape 會跳脫的字元
var uriComponentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeMap 將完整對照表序列化為 JSON 並以 encodeURIComponent 的規則編碼
func EncodeMap(sel map[string]bool) (string, error) {
	if sel == nil {
		sel = map[string]bool{}
	}
	data, err := common.ToJSON(sel)
	if err != nil {
		return "", err
	}
	return uriComponentUnescaper.Replace(url.QueryEscape(data)), nil
}

// BuildMapURL 產生 <origin>/?share=<payload>
func BuildMapURL(sel map[string]bool, origin string) (string, error) {
	payload, err := EncodeMap(sel)
	if err != nil {
		return "", err
	}
	return origin + "/?" + MapParam + "=" + payload, nil
}

// DecodeMap 解析 URL 編碼的對照表；非布林值略過，任何失敗都回傳空對照表
func DecodeMap(payload string) map[string]bool {
	sel, _ := decodeMap(payload)
	return sel
}

func decodeMap(payload string) (map[string]bool, bool) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return map[string]bool{}, false
	}
	if unescaped, err := url.QueryUnescape(payload); err == nil {
		payload = unescaped
	}

	var raw map[string]interface{}
	if err := common.ParseJSON(payload, &raw); err != nil || raw == nil {
		common.LogDebug("share payload 不是 JSON 物件", zap.Error(err))
		return map[string]bool{}, false
	}
	sel := make(map[string]bool, len(raw))
	for k, v := range raw {
		if b, ok := v.(bool); ok {
			sel[k] = b
		}
	}
	return sel, true
}

// Decode 單一解碼入口：網址依參數名稱決定方式，單獨的字串依序嘗試兩種方式
func Decode(input string) (Scheme, map[string]bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return SchemeNone, map[string]bool{}
	}

	if u, ok := parseURL(input); ok {
		q := u.Query()
		if token := q.Get(TokenParam); token != "" {
			if ids, ok := decodeToken(token); ok {
				return SchemeToken, selectionOf(ids)
			}
		}
		if payload := q.Get(MapParam); payload != "" {
			// Query() 已經解碼過一次
			if sel, ok := decodeMap(url.QueryEscape(payload)); ok {
				return SchemeMap, sel
			}
		}
		return SchemeNone, map[string]bool{}
	}

	lower := strings.ToLower(input)
	if strings.HasPrefix(lower, "{") || strings.HasPrefix(lower, "%7b") {
		if sel, ok := decodeMap(input); ok {
			return SchemeMap, sel
		}
		return SchemeNone, map[string]bool{}
	}
	if ids, ok := decodeToken(input); ok {
		return SchemeToken, selectionOf(ids)
	}
	if sel, ok := decodeMap(input); ok {
		return SchemeMap, sel
	}
	return SchemeNone, map[string]bool{}
}

// SelectedIDs 對照表中為 true 的 id，已排序
func SelectedIDs(sel map[string]bool) []string {
	ids := make([]string, 0, len(sel))
	for id, ok := range sel {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func selectionOf(ids []string) map[string]bool {
	sel := make(map[string]bool, len(ids))
	for _, id := range ids {
		sel[id] = true
	}
	return sel
}

func normalizeIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// parseURL 只把帶查詢字串的完整或相對網址視為網址
func parseURL(input string) (*url.URL, bool) {
	if !strings.Contains(input, "?") {
		return nil, false
	}
	u, err := url.Parse(input)
	if err != nil {
		return nil, false
	}
	if u.Scheme == "" && !strings.HasPrefix(input, "/") && !strings.HasPrefix(input, "?") {
		return nil, false
	}
	return u, true
}
