// internal/bank/bank.go

// Package bank 定義核心商業邏輯：開戶、驗證、存款、提款、轉帳、銷戶與持久化提交。
// 採用單一互斥鎖 (sync.Mutex) 包住「讀取 → 驗證 → 修改 → 提交」整段流程，
// 提交失敗時回復記憶體中的修改，確保記憶體與持久化媒介一致。
package bank

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"bankhub/internal/storage"
)

// Observer 接收每次操作與提交的結果，例如 metrics collector。
type Observer interface {
	Operation(op string, err error)
	Committed(d time.Duration, accounts int)
}

// Bank 為聚合根 (Aggregate Root)，同時扮演帳戶儲存 (Account Store)：
// - mu：序列化所有讀寫，轉帳的雙方帳戶在同一臨界區內完成。
// - accts：帳戶索引表（ID → *Account），內部指標只在臨界區內修改。
// - store：持久化媒介，每次變更後整份重寫。
type Bank struct {
	mu      sync.Mutex
	accts   map[string]*Account
	store   storage.Store
	draw    func(lo, hi int) int
	lenient bool
	logger  *slog.Logger
	obs     Observer
}

// Option 調整 Bank 的建構參數。
type Option func(*Bank)

// WithLogger 指定日誌輸出。
func WithLogger(l *slog.Logger) Option {
	return func(b *Bank) { b.logger = l }
}

// WithObserver 註冊操作觀察者。
func WithObserver(o Observer) Option {
	return func(b *Bank) { b.obs = o }
}

// WithDraw 替換亂數抽號函式，draw 須回傳 [lo, hi] 之間的整數。
func WithDraw(draw func(lo, hi int) int) Option {
	return func(b *Bank) { b.draw = draw }
}

// WithLenientLoad 讓載入時略過種類無法辨識的紀錄（並記錄警告），而非整體失敗。
func WithLenientLoad() Option {
	return func(b *Bank) { b.lenient = true }
}

// Open 由 store 載入所有帳戶並建立 Bank。
// 預設採嚴格模式：任何違反不變量的紀錄都會讓 Open 失敗。
func Open(store storage.Store, opts ...Option) (*Bank, error) {
	b := &Bank{
		accts:  make(map[string]*Account),
		store:  store,
		draw:   randomDraw,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	records, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: load: %w", ErrPersistence, err)
	}
	if err := b.restore(records); err != nil {
		return nil, fmt.Errorf("%w: load: %w", ErrPersistence, err)
	}
	return b, nil
}

// restore 由持久化紀錄重建帳戶表。
func (b *Bank) restore(records []storage.Record) error {
	for _, r := range records {
		c, err := ParseCategory(r.Category)
		if err != nil {
			if b.lenient {
				b.logger.Warn("skipping record with unknown category",
					slog.String("id", r.ID), slog.String("category", r.Category))
				continue
			}
			return fmt.Errorf("%w: account %s: %w", ErrCorruptRecord, r.ID, err)
		}
		if r.Balance.IsNegative() {
			return fmt.Errorf("%w: account %s has negative balance %s", ErrCorruptRecord, r.ID, r.Balance)
		}
		if _, dup := b.accts[r.ID]; dup {
			return fmt.Errorf("%w: duplicate account %s", ErrCorruptRecord, r.ID)
		}
		b.accts[r.ID] = &Account{ID: r.ID, Secret: r.Secret, Category: c, Balance: r.Balance}
	}
	return nil
}

// records 匯出目前狀態（依 ID 排序），呼叫端須持有 mu。
func (b *Bank) records() []storage.Record {
	out := make([]storage.Record, 0, len(b.accts))
	for _, a := range b.accts {
		out = append(out, storage.Record{ID: a.ID, Secret: a.Secret, Category: a.Category.String(), Balance: a.Balance})
	}
	slices.SortFunc(out, func(x, y storage.Record) int { return cmp.Compare(x.ID, y.ID) })
	return out
}

// commit 將完整狀態寫入 store；失敗時執行 undo 回復記憶體狀態。呼叫端須持有 mu。
func (b *Bank) commit(undo func()) error {
	start := time.Now()
	if err := b.store.Save(b.records()); err != nil {
		undo()
		b.logger.Error("commit failed", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	d := time.Since(start)
	b.logger.Debug("committed", slog.Int("accounts", len(b.accts)), slog.Duration("took", d))
	if b.obs != nil {
		b.obs.Committed(d, len(b.accts))
	}
	return nil
}

func (b *Bank) observe(op string, err error) {
	if b.obs != nil {
		b.obs.Operation(op, err)
	}
}

// Register 開立新帳戶：隨機抽取 6 位數帳號與 4 位數密碼，帳號重複時重抽。
// 回傳的拷貝含明文密碼，這是唯一一次對外提供密碼。
func (b *Bank) Register(c Category) (acct *Account, err error) {
	defer func() { b.observe("register", err) }()
	if c != Personal && c != Business {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCategory, int(c))
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	id, err := b.newID()
	if err != nil {
		return nil, err
	}
	a := &Account{ID: id, Secret: fmt.Sprint(b.draw(1000, 9999)), Category: c, Balance: decimal.Zero}
	b.accts[id] = a
	if err := b.commit(func() { delete(b.accts, id) }); err != nil {
		return nil, err
	}
	cp := *a
	return &cp, nil
}

// maxDraws 為單次開戶最多抽號次數。
const maxDraws = 1000

// newID 抽取未使用的帳號，呼叫端須持有 mu。
func (b *Bank) newID() (string, error) {
	for i := 0; i < maxDraws; i++ {
		id := fmt.Sprint(b.draw(100000, 999999))
		if _, taken := b.accts[id]; !taken {
			return id, nil
		}
	}
	return "", ErrIDSpaceExhausted
}

// Verify 僅在帳號存在且密碼相符時回傳帳戶拷貝，否則回傳 ErrAuthentication。
func (b *Bank) Verify(id, secret string) (acct *Account, err error) {
	defer func() { b.observe("verify", err) }()
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.accts[id]
	if !ok || a.Secret != secret {
		return nil, ErrAuthentication
	}
	cp := *a
	return &cp, nil
}

// Get 依 ID 取得帳戶拷貝；不存在回傳 ErrAccountNotFound。
func (b *Bank) Get(id string) (*Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.accts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	cp := *a
	return &cp, nil
}

// List 回傳所有帳戶拷貝，依 ID 排序。
func (b *Bank) List() []*Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Account, 0, len(b.accts))
	for _, a := range b.accts {
		cp := *a
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(x, y *Account) int { return cmp.Compare(x.ID, y.ID) })
	return out
}

// Len 回傳帳戶數。
func (b *Bank) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.accts)
}

// Deposit 存款並提交；提交失敗時餘額回復。
func (b *Bank) Deposit(id string, amt decimal.Decimal) (bal decimal.Decimal, err error) {
	defer func() { b.observe("deposit", err) }()
	return b.mutate(id, amt, Deposit)
}

// Withdraw 提款並提交；餘額不足或提交失敗時餘額不變。
func (b *Bank) Withdraw(id string, amt decimal.Decimal) (bal decimal.Decimal, err error) {
	defer func() { b.observe("withdraw", err) }()
	return b.mutate(id, amt, Withdraw)
}

func (b *Bank) mutate(id string, amt decimal.Decimal, op func(*Account, decimal.Decimal) (decimal.Decimal, error)) (decimal.Decimal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.accts[id]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	prev := a.Balance
	bal, err := op(a, amt)
	if err != nil {
		return bal, err
	}
	if err := b.commit(func() { a.Balance = prev }); err != nil {
		return prev, err
	}
	return bal, nil
}

// Transfer 在單一臨界區內完成轉帳：
// 1) 檢核金額與帳戶 → 2) 檢查餘額（修改前）→ 3) 扣款與入帳 → 4) 一次提交。
// 任一步驟失敗（含提交失敗）皆不會留下任何帳戶的變更。
func (b *Bank) Transfer(fromID, toID string, amt decimal.Decimal) (err error) {
	defer func() { b.observe("transfer", err) }()
	if err := checkAmount(amt); err != nil {
		return err
	}
	if fromID == toID {
		return ErrSameAccount
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	to, ok := b.accts[toID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, toID)
	}
	from, ok := b.accts[fromID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, fromID)
	}
	if from.Balance.LessThan(amt) {
		return fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientFunds, from.Balance, amt)
	}

	fromPrev, toPrev := from.Balance, to.Balance
	if _, err := Withdraw(from, amt); err != nil {
		return err
	}
	if _, err := Deposit(to, amt); err != nil {
		from.Balance = fromPrev
		return err
	}
	return b.commit(func() {
		from.Balance = fromPrev
		to.Balance = toPrev
	})
}

// Close 驗證密碼後刪除帳戶並提交；提交失敗時帳戶復原。
func (b *Bank) Close(id, secret string) (err error) {
	defer func() { b.observe("close", err) }()
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.accts[id]
	if !ok || a.Secret != secret {
		return ErrAuthentication
	}
	delete(b.accts, id)
	return b.commit(func() { b.accts[id] = a })
}
