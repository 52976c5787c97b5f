package recipe

import (
	"fmt"
	"sync"

	"pantry-chef/internal/pkg/common"
)

// Ticket 單次生成請求的識別
type Ticket struct {
	Seq uint64 `json:"seq"`
	ID  string `json:"id"`
}

// String 以 "序號-uuid" 表示，用於回應標頭
func (t Ticket) String() string {
	return fmt.Sprintf("%d-%s", t.Seq, t.ID)
}

// Tracker 只保留最新一次請求的結果，較舊請求晚到的結果直接丟棄
type Tracker struct {
	mu        sync.Mutex
	seq       uint64
	latest    *Recipe
	committed Ticket
}

// NewTracker 創建請求追蹤器
func NewTracker() *Tracker {
	return &Tracker{}
}

// Begin 發出新的請求序號，先前發出的序號隨即失效
func (t *Tracker) Begin() Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	return Ticket{Seq: t.seq, ID: common.GenerateUUID()}
}

// IsCurrent 序號是否仍是最新發出的
func (t *Tracker) IsCurrent(ticket Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ticket.Seq == t.seq
}

// Commit 只有最新的請求能寫入結果；回傳是否寫入
func (t *Tracker) Commit(ticket Ticket, r *Recipe) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r == nil || ticket.Seq != t.seq {
		return false
	}
	t.latest = r
	t.committed = ticket
	return true
}

// Latest 最近一次寫入的結果
func (t *Tracker) Latest() (*Recipe, Ticket, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.latest == nil {
		return nil, Ticket{}, false
	}
	return t.latest, t.committed, true
}
