// internal/bank/errors.go
//
// 本檔集中定義「領域錯誤（domain errors）」。
// 呼叫端一律以 errors.Is 判斷；上層（CLI、HTTP）各自轉換為訊息或狀態碼。
// 所有錯誤皆可在呼叫端恢復，不會使程式結束。

package bank

import "errors"

var (
	// ErrAuthentication 代表帳號不存在或密碼不符。
	ErrAuthentication = errors.New("invalid credentials")

	// ErrInsufficientFunds 代表提款或轉帳金額超過餘額。
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound 代表目標帳戶不存在。
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidAmount 代表金額為負數或無法解析。
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrPersistence 代表持久化媒介無法讀取或寫入。
	ErrPersistence = errors.New("persistence failure")

	// ErrSameAccount 代表轉帳來源與目標帳戶相同。
	ErrSameAccount = errors.New("from and to are same")

	// ErrInvalidCategory 代表帳戶種類無法辨識。
	ErrInvalidCategory = errors.New("invalid account category")

	// ErrCorruptRecord 代表持久化資料違反不變量（未知種類、負餘額、重複帳號）。
	ErrCorruptRecord = errors.New("corrupt account record")

	// ErrIDSpaceExhausted 代表多次抽號仍無法取得未使用的帳號。
	ErrIDSpaceExhausted = errors.New("account id space exhausted")
)

// Kind 將錯誤對應為穩定的短標籤，供 metrics label 與日誌使用。
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAuthentication):
		return "authentication"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrSameAccount):
		return "same_account"
	case errors.Is(err, ErrInvalidCategory):
		return "invalid_category"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	}
	return "internal"
}
