// Package bank 定義核心領域模型與業務規則。
// 本檔定義 Account 與 Category，不含任何 HTTP 或儲存細節。
package bank

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Account represents a bank account.
// Secret 只在建立帳戶時回傳一次；JSON 編碼時永不輸出。
type Account struct {
	ID       string          `json:"id"`
	Secret   string          `json:"-"`
	Category Category        `json:"category"`
	Balance  decimal.Decimal `json:"balance"`
}

// Category classifies an account. 目前僅作標示，不影響任何行為。
type Category int

const (
	Personal Category = iota + 1
	Business
)

func (c Category) String() string {
	switch c {
	case Personal:
		return "Personal"
	case Business:
		return "Business"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// MarshalText 讓 Category 以 Personal/Business 字串序列化。
func (c Category) MarshalText() ([]byte, error) {
	if c != Personal && c != Business {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCategory, int(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	v, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseCategory 解析儲存格式（Personal / Business，大小寫須完全相符）。
func ParseCategory(s string) (Category, error) {
	switch s {
	case "Personal":
		return Personal, nil
	case "Business":
		return Business, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// ParseKind 解析使用者輸入的帳戶種類（individual / business，不分大小寫）。
func ParseKind(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "individual":
		return Personal, nil
	case "business":
		return Business, nil
	}
	return 0, fmt.Errorf("%w: %q (want individual or business)", ErrInvalidCategory, s)
}
