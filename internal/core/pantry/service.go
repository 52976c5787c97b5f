package pantry

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"pantry-chef/internal/core/share"
	"pantry-chef/internal/pkg/common"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Links 目前選擇的兩種分享連結
type Links struct {
	TokenURL string   `json:"tokenUrl"`
	MapURL   string   `json:"mapUrl"`
	Selected []string `json:"selected"`
}

// ImportResult 匯入分享連結的結果
type ImportResult struct {
	Scheme    share.Scheme    `json:"scheme"`
	Selection map[string]bool `json:"selection"`
	Imported  bool            `json:"imported"`
}

// Service 食材櫃服務；每次變更都同步寫回儲存
type Service struct {
	store Store
	codec *share.Codec
	mu    sync.Mutex
}

// NewService 創建食材櫃服務
func NewService(store Store, codec *share.Codec) *Service {
	if codec == nil {
		codec = share.NewCodec("")
	}
	return &Service{store: store, codec: codec}
}

// Selection 讀取目前的選擇；資料缺漏或格式錯誤時視為空選擇
func (s *Service) Selection(ctx context.Context) (map[string]bool, error) {
	data, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return decodeSelection(data), nil
}

// Set 設定單一食材是否可用
func (s *Service) Set(ctx context.Context, id string, available bool) (map[string]bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, common.ErrInvalidRequest.Wrap(fmt.Errorf("pantry item id is required"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sel, err := s.Selection(ctx)
	if err != nil {
		return nil, err
	}
	sel[id] = available
	if err := s.save(ctx, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// Replace 以新的選擇整個覆寫
func (s *Service) Replace(ctx context.Context, sel map[string]bool) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clean := make(map[string]bool, len(sel))
	for id, ok := range sel {
		if id = strings.TrimSpace(id); id != "" {
			clean[id] = ok
		}
	}
	if err := s.save(ctx, clean); err != nil {
		return nil, err
	}
	return clean, nil
}

// Import 解碼分享連結或 token 並覆寫目前選擇；無法解碼時不做任何變更
func (s *Service) Import(ctx context.Context, input string) (*ImportResult, error) {
	scheme, sel := share.Decode(input)
	if scheme == share.SchemeNone {
		common.LogWarn("無法解析分享內容，略過匯入", zap.Int("input_length", len(input)))
		return &ImportResult{Scheme: scheme, Selection: sel}, nil
	}

	saved, err := s.Replace(ctx, sel)
	if err != nil {
		return nil, err
	}
	common.LogInfo("已匯入分享的食材櫃",
		zap.String("scheme", string(scheme)),
		zap.Int("items", len(saved)),
	)
	return &ImportResult{Scheme: scheme, Selection: saved, Imported: true}, nil
}

// ShareLinks 產生目前選擇的分享連結
func (s *Service) ShareLinks(ctx context.Context, origin string) (*Links, error) {
	sel, err := s.Selection(ctx)
	if err != nil {
		return nil, err
	}
	selected := share.SelectedIDs(sel)

	tokenURL, err := s.codec.TokenURL(selected, origin)
	if err != nil {
		return nil, fmt.Errorf("failed to build token link: %w", err)
	}
	mapURL, err := s.codec.MapURL(sel, origin)
	if err != nil {
		return nil, fmt.Errorf("failed to build map link: %w", err)
	}
	return &Links{TokenURL: tokenURL, MapURL: mapURL, Selected: selected}, nil
}

// Close 關閉底層儲存
func (s *Service) Close() error {
	return s.store.Close()
}

func (s *Service) save(ctx context.Context, sel map[string]bool) error {
	data, err := common.ToJSON(sel)
	if err != nil {
		return fmt.Errorf("failed to marshal pantry: %w", err)
	}
	return s.store.Save(ctx, []byte(data))
}

// decodeSelection 接受布林對照表，也接受舊版的 id 陣列
func decodeSelection(data []byte) map[string]bool {
	sel := map[string]bool{}
	if len(data) == 0 {
		return sel
	}

	parsed := gjson.ParseBytes(data)
	switch {
	case !gjson.ValidBytes(data):
		common.LogWarn("食材櫃資料格式錯誤，視為空選擇", zap.Int("length", len(data)))
	case parsed.IsObject():
		parsed.ForEach(func(key, value gjson.Result) bool {
			if value.IsBool() {
				sel[key.String()] = value.Bool()
			}
			return true
		})
	case parsed.IsArray():
		for _, v := range parsed.Array() {
			if v.Type == gjson.String {
				sel[v.Str] = true
			}
		}
	default:
		common.LogWarn("食材櫃資料不是物件或陣列，視為空選擇", zap.String("type", parsed.Type.String()))
	}
	return sel
}
