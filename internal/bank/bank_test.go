// internal/bank/bank_test.go
//
// 本檔為 Bank 模組的單元與整合測試。
// 涵蓋：開戶、驗證、存提款、轉帳原子性、銷戶、持久化提交與提交失敗時的回復、載入時的資料檢核。
// 以記憶體版 store 取代檔案，必要時可模擬寫入失敗。

package bank

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"bankhub/internal/storage"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

// memStore 為測試用的 storage.Store；fail 為 true 時 Save 回傳錯誤。
type memStore struct {
	records []storage.Record
	saves   int
	fail    bool
}

var errDiskFull = errors.New("disk full")

func (m *memStore) Load() ([]storage.Record, error) {
	return append([]storage.Record(nil), m.records...), nil
}

func (m *memStore) Save(records []storage.Record) error {
	if m.fail {
		return errDiskFull
	}
	m.saves++
	m.records = append([]storage.Record(nil), records...)
	return nil
}

// seq 回傳依序輸出固定數字的抽號函式，用於重現特定帳號與密碼。
func seq(nums ...int) func(lo, hi int) int {
	i := 0
	return func(lo, hi int) int {
		n := nums[i%len(nums)]
		i++
		return n
	}
}

func open(t *testing.T, s storage.Store, opts ...Option) *Bank {
	t.Helper()
	b, err := Open(s, opts...)
	if err != nil {
		t.Fatalf("Open err=%v", err)
	}
	return b
}

// get 為小工具：安全取出帳戶狀態。
func get(t *testing.T, b *Bank, id string) *Account {
	t.Helper()
	a, err := b.Get(id)
	if err != nil {
		t.Fatalf("Get(%s) err=%v", id, err)
	}
	return a
}

func balance(t *testing.T, b *Bank, id, want string) {
	t.Helper()
	if got := get(t, b, id).Balance; !got.Equal(d(want)) {
		t.Fatalf("balance(%s)=%s want=%s", id, got, want)
	}
}

// TestScenario 依序執行：開兩個個人戶、存款、轉帳、超額提款失敗、銷戶後無法登入。
func TestScenario(t *testing.T) {
	s := &memStore{}
	b := open(t, s, WithDraw(seq(100001, 1234, 100002, 5678)))

	a, err := b.Register(Personal)
	if err != nil {
		t.Fatal(err)
	}
	bb, err := b.Register(Personal)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != "100001" || a.Secret != "1234" || bb.ID != "100002" || bb.Secret != "5678" {
		t.Fatalf("unexpected credentials: %+v %+v", a, bb)
	}
	balance(t, b, a.ID, "0")

	if bal, err := b.Deposit(a.ID, d("100")); err != nil || !bal.Equal(d("100")) {
		t.Fatalf("Deposit bal=%s err=%v", bal, err)
	}
	if err := b.Transfer(a.ID, bb.ID, d("40")); err != nil {
		t.Fatal(err)
	}
	balance(t, b, a.ID, "60")
	balance(t, b, bb.ID, "40")

	if _, err := b.Withdraw(bb.ID, d("1000")); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
	balance(t, b, bb.ID, "40")

	if err := b.Close(a.ID, "1234"); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Get(a.ID); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("closed account still present: %v", err)
	}
	if _, err := b.Verify("100001", "1234"); !errors.Is(err, ErrAuthentication) {
		t.Fatalf("want ErrAuthentication, got %v", err)
	}

	// 每次變更皆提交：開戶×2 + 存款 + 轉帳 + 銷戶
	if s.saves != 5 {
		t.Fatalf("saves=%d want=5", s.saves)
	}
	want := []storage.Record{{ID: "100002", Secret: "5678", Category: "Personal", Balance: d("40")}}
	if diff := cmp.Diff(want, s.records, decimalEqual); diff != "" {
		t.Fatalf("persisted state mismatch (-want +got):\n%s", diff)
	}
}

// TestRegisterRedrawsOnCollision 抽到已存在帳號時需重抽。
func TestRegisterRedrawsOnCollision(t *testing.T) {
	b := open(t, &memStore{}, WithDraw(seq(100001, 1111, 100001, 100001, 100002, 2222)))
	a1, err := b.Register(Business)
	if err != nil {
		t.Fatal(err)
	}
	a2, err := b.Register(Business)
	if err != nil {
		t.Fatal(err)
	}
	if a1.ID != "100001" || a2.ID != "100002" || a2.Secret != "2222" {
		t.Fatalf("got %+v and %+v", a1, a2)
	}
}

// TestRegisterUnique 以真實亂數連續開戶，帳號皆不重複且在範圍內。
func TestRegisterUnique(t *testing.T) {
	b := open(t, &memStore{})
	seen := make(map[string]bool)
	for i := 0; i < 300; i++ {
		a, err := b.Register(Personal)
		if err != nil {
			t.Fatal(err)
		}
		if seen[a.ID] {
			t.Fatalf("duplicate id %s", a.ID)
		}
		seen[a.ID] = true
		if len(a.ID) != 6 || len(a.Secret) != 4 {
			t.Fatalf("bad credentials %q/%q", a.ID, a.Secret)
		}
	}
	if b.Len() != 300 {
		t.Fatalf("Len=%d want=300", b.Len())
	}
}

func TestRegisterIDSpaceExhausted(t *testing.T) {
	b := open(t, &memStore{}, WithDraw(seq(100001)))
	if _, err := b.Register(Personal); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Register(Personal); !errors.Is(err, ErrIDSpaceExhausted) {
		t.Fatalf("want ErrIDSpaceExhausted, got %v", err)
	}
}

// TestVerify 驗證帳號密碼組合。
func TestVerify(t *testing.T) {
	b := open(t, &memStore{}, WithDraw(seq(100001, 1234)))
	a, _ := b.Register(Personal)
	got, err := b.Verify(a.ID, "1234")
	if err != nil || got.ID != a.ID {
		t.Fatalf("Verify=%+v err=%v", got, err)
	}
	for _, tc := range [][2]string{{a.ID, "0000"}, {"999999", "1234"}} {
		if _, err := b.Verify(tc[0], tc[1]); !errors.Is(err, ErrAuthentication) {
			t.Fatalf("Verify(%s,%s) want ErrAuthentication, got %v", tc[0], tc[1], err)
		}
	}
}

// TestTransfer 驗證轉帳的各種失敗情境皆不改變任一方餘額。
func TestTransfer(t *testing.T) {
	b := open(t, &memStore{records: []storage.Record{
		{ID: "100001", Secret: "1234", Category: "Personal", Balance: d("100")},
		{ID: "100002", Secret: "5678", Category: "Business", Balance: d("50")},
	}})

	for name, tc := range map[string]struct {
		from, to string
		amt      string
		want     error
	}{
		"insufficient":     {"100001", "100002", "100.01", ErrInsufficientFunds},
		"missing receiver": {"100001", "999999", "1", ErrAccountNotFound},
		"missing sender":   {"999999", "100002", "1", ErrAccountNotFound},
		"negative":         {"100001", "100002", "-5", ErrInvalidAmount},
		"same account":     {"100001", "100001", "5", ErrSameAccount},
	} {
		if err := b.Transfer(tc.from, tc.to, d(tc.amt)); !errors.Is(err, tc.want) {
			t.Fatalf("%s: want %v, got %v", name, tc.want, err)
		}
		balance(t, b, "100001", "100")
		balance(t, b, "100002", "50")
	}

	// 全額轉出
	if err := b.Transfer("100001", "100002", d("100")); err != nil {
		t.Fatal(err)
	}
	balance(t, b, "100001", "0")
	balance(t, b, "100002", "150")
}

// TestCommitFailureRollsBack 持久化失敗時記憶體狀態必須回到操作前。
func TestCommitFailureRollsBack(t *testing.T) {
	s := &memStore{records: []storage.Record{
		{ID: "100001", Secret: "1234", Category: "Personal", Balance: d("100")},
		{ID: "100002", Secret: "5678", Category: "Business", Balance: d("50")},
	}}
	b := open(t, s, WithDraw(seq(100003, 4321)))
	s.fail = true

	if _, err := b.Deposit("100001", d("10")); !errors.Is(err, ErrPersistence) || !errors.Is(err, errDiskFull) {
		t.Fatalf("Deposit want ErrPersistence wrapping cause, got %v", err)
	}
	if _, err := b.Withdraw("100001", d("10")); !errors.Is(err, ErrPersistence) {
		t.Fatalf("Withdraw want ErrPersistence, got %v", err)
	}
	if err := b.Transfer("100001", "100002", d("30")); !errors.Is(err, ErrPersistence) {
		t.Fatalf("Transfer want ErrPersistence, got %v", err)
	}
	if _, err := b.Register(Personal); !errors.Is(err, ErrPersistence) {
		t.Fatalf("Register want ErrPersistence, got %v", err)
	}
	if err := b.Close("100002", "5678"); !errors.Is(err, ErrPersistence) {
		t.Fatalf("Close want ErrPersistence, got %v", err)
	}

	balance(t, b, "100001", "100")
	balance(t, b, "100002", "50")
	if b.Len() != 2 {
		t.Fatalf("Len=%d want=2", b.Len())
	}
	if _, err := b.Get("100003"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("failed register left account behind: %v", err)
	}
}

// TestReopen 重新由 store 載入後，帳戶與餘額完全一致。
func TestReopen(t *testing.T) {
	s := &memStore{}
	b := open(t, s, WithDraw(seq(100001, 1234, 100002, 5678)))
	a1, _ := b.Register(Personal)
	a2, _ := b.Register(Business)
	_, _ = b.Deposit(a1.ID, d("200.5"))
	_ = b.Transfer(a1.ID, a2.ID, d("0.5"))

	b2 := open(t, s)
	if diff := cmp.Diff(b.List(), b2.List(), decimalEqual); diff != "" {
		t.Fatalf("reopened state mismatch (-want +got):\n%s", diff)
	}
	if _, err := b2.Verify(a2.ID, "5678"); err != nil {
		t.Fatalf("secret lost on reload: %v", err)
	}
}

// TestOpenStrict 預設嚴格載入：未知種類、負餘額、重複帳號都會讓 Open 失敗。
func TestOpenStrict(t *testing.T) {
	for name, recs := range map[string][]storage.Record{
		"unknown category": {{ID: "100001", Secret: "1", Category: "Savings", Balance: d("1")}},
		"negative balance": {{ID: "100001", Secret: "1", Category: "Personal", Balance: d("-1")}},
		"duplicate id": {
			{ID: "100001", Secret: "1", Category: "Personal", Balance: d("1")},
			{ID: "100001", Secret: "2", Category: "Business", Balance: d("1")},
		},
	} {
		_, err := Open(&memStore{records: recs})
		if !errors.Is(err, ErrCorruptRecord) || !errors.Is(err, ErrPersistence) {
			t.Fatalf("%s: want ErrCorruptRecord, got %v", name, err)
		}
	}
}

// TestOpenLenient 寬鬆模式略過未知種類，其餘紀錄照常載入。
func TestOpenLenient(t *testing.T) {
	b := open(t, &memStore{records: []storage.Record{
		{ID: "100001", Secret: "1234", Category: "Savings", Balance: d("1")},
		{ID: "100002", Secret: "5678", Category: "Business", Balance: d("2")},
	}}, WithLenientLoad())
	if b.Len() != 1 {
		t.Fatalf("Len=%d want=1", b.Len())
	}
	balance(t, b, "100002", "2")
}

// recorder 記錄 Observer 收到的事件。
type recorder struct {
	ops     []string
	commits int
}

func (r *recorder) Operation(op string, err error)   { r.ops = append(r.ops, op+":"+Kind(err)) }
func (r *recorder) Committed(_ time.Duration, _ int) { r.commits++ }

func TestObserver(t *testing.T) {
	rec := &recorder{}
	b := open(t, &memStore{}, WithObserver(rec), WithDraw(seq(100001, 1234)))
	a, _ := b.Register(Personal)
	_, _ = b.Withdraw(a.ID, d("1"))
	_, _ = b.Verify(a.ID, "0000")

	want := []string{"register:ok", "withdraw:insufficient_funds", "verify:authentication"}
	if diff := cmp.Diff(want, rec.ops); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}
	if rec.commits != 1 {
		t.Fatalf("commits=%d want=1", rec.commits)
	}
}

// TestConcurrentTransfersAtomicity 驗證多個 goroutine 互相轉帳後總額不變且皆非負。
func TestConcurrentTransfersAtomicity(t *testing.T) {
	b := open(t, &memStore{records: []storage.Record{
		{ID: "100001", Secret: "1", Category: "Personal", Balance: d("1000")},
		{ID: "100002", Secret: "2", Category: "Personal", Balance: d("1000")},
	}})

	const n = 200
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if err := b.Transfer("100001", "100002", d("1")); err != nil {
				t.Errorf("A->B: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if err := b.Transfer("100002", "100001", d("1")); err != nil {
				t.Errorf("B->A: %v", err)
			}
		}()
	}
	wg.Wait()

	a1, a2 := get(t, b, "100001"), get(t, b, "100002")
	if a1.Balance.IsNegative() || a2.Balance.IsNegative() {
		t.Fatalf("negative balance: a1=%s a2=%s", a1.Balance, a2.Balance)
	}
	if total := a1.Balance.Add(a2.Balance); !total.Equal(d("2000")) {
		t.Fatalf("total=%s want 2000", total)
	}
}
