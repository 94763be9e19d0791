// internal/storage/store.go
//
// 提供平面檔 (flat file) 的持久化實作。
// 每次 Save 皆重寫整份檔案；透過 natefinch/atomic 先寫暫存檔再 rename，
// 寫入中斷時原檔仍保持完整。
package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/natefinch/atomic"
	"go.uber.org/multierr"
)

// Store 為帳戶紀錄的持久化介面；Save 一律覆寫全部狀態，不做增量寫入。
type Store interface {
	Load() ([]Record, error)
	Save(records []Record) error
}

// FileStore 以單一文字檔保存所有紀錄。
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore 建立指向 path 的檔案儲存；檔案可以尚未存在。
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path 回傳檔案路徑。
func (s *FileStore) Path() string {
	return s.path
}

// Load 讀取檔案中的所有紀錄；檔案不存在時回傳空集合。
// 空白行會被略過，其餘任一行格式錯誤即整體失敗並標示行號。
func (s *FileStore) Load() (records []Record, err error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		r, err := DecodeRecord(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", s.path, n, err)
		}
		records = append(records, r)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Save 以原子方式覆寫檔案：先驗證所有紀錄，任一不合法則不動原檔。
func (s *FileStore) Save(records []Record) error {
	var buf bytes.Buffer
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
		buf.WriteString(r.Encode())
		buf.WriteByte('\n')
	}
	return atomic.WriteFile(s.path, &buf)
}
