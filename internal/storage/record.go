// internal/storage/record.go
//
// 定義「資料持久化層 (storage layer)」的紀錄格式。
// 每個帳戶對應一行文字：id,secret,category,balance，以換行結尾，無表頭、無版本。
// 此層只負責編碼與解碼，不判斷 category 是否合法（交由 bank 層決定）。
package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Delimiter 為欄位分隔字元；id 與 secret 限定英數字，保證不會出現在欄位內。
const Delimiter = ","

// fieldCount 為每行固定欄位數。
const fieldCount = 4

// ErrMalformedRecord 代表某一行無法解碼為合法紀錄。
var ErrMalformedRecord = errors.New("malformed record")

// Record 為帳戶在儲存層的序列化格式。
type Record struct {
	ID       string
	Secret   string
	Category string
	Balance  decimal.Decimal
}

// Validate 檢查紀錄能否被無歧義地寫出。
func (r Record) Validate() error {
	if !alnum(r.ID) {
		return fmt.Errorf("%w: id %q is not alphanumeric", ErrMalformedRecord, r.ID)
	}
	if !alnum(r.Secret) {
		return fmt.Errorf("%w: secret of %s is not alphanumeric", ErrMalformedRecord, r.ID)
	}
	if r.Category == "" || strings.ContainsAny(r.Category, Delimiter+"\r\n") {
		return fmt.Errorf("%w: category %q of %s", ErrMalformedRecord, r.Category, r.ID)
	}
	return nil
}

// Encode 將紀錄編碼為單行文字（不含換行）。
func (r Record) Encode() string {
	return strings.Join([]string{r.ID, r.Secret, r.Category, r.Balance.String()}, Delimiter)
}

// DecodeRecord 解析單行文字；欄位數必須恰好為 4，balance 必須為十進位數字。
func DecodeRecord(line string) (Record, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), Delimiter)
	if len(fields) != fieldCount {
		return Record{}, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedRecord, fieldCount, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	bal, err := decimal.NewFromString(fields[3])
	if err != nil {
		return Record{}, fmt.Errorf("%w: balance %q: %v", ErrMalformedRecord, fields[3], err)
	}
	r := Record{ID: fields[0], Secret: fields[1], Category: fields[2], Balance: bal}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

func alnum(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		default:
			return false
		}
	}
	return true
}
