// internal/bank/ledger.go
//
// 無狀態的帳務操作：只驗證並修改單一帳戶的餘額，不負責持久化。
// 持久化由 Bank 的同名方法在修改後統一提交。

package bank

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount 解析使用者輸入的金額；非數字、NaN/Inf 或負數皆回傳 ErrInvalidAmount。
func ParseAmount(s string) (decimal.Decimal, error) {
	amt, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if err := checkAmount(amt); err != nil {
		return decimal.Zero, err
	}
	return amt, nil
}

func checkAmount(amt decimal.Decimal) error {
	if amt.IsNegative() {
		return fmt.Errorf("%w: %s is negative", ErrInvalidAmount, amt)
	}
	return nil
}

// Deposit 將 amt 加入餘額並回傳新餘額；金額合法時必定成功。
func Deposit(a *Account, amt decimal.Decimal) (decimal.Decimal, error) {
	if err := checkAmount(amt); err != nil {
		return a.Balance, err
	}
	a.Balance = a.Balance.Add(amt)
	return a.Balance, nil
}

// Withdraw 自餘額扣除 amt；超過餘額時回傳 ErrInsufficientFunds 且餘額不變。
func Withdraw(a *Account, amt decimal.Decimal) (decimal.Decimal, error) {
	if err := checkAmount(amt); err != nil {
		return a.Balance, err
	}
	if amt.GreaterThan(a.Balance) {
		return a.Balance, fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientFunds, a.Balance, amt)
	}
	a.Balance = a.Balance.Sub(amt)
	return a.Balance, nil
}
