// internal/server/response.go
//
// 本檔負責統一 HTTP 回應格式與領域錯誤到狀態碼的對應。
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"bankhub/internal/bank"
)

var errMethod = errors.New("method not allowed")

// writeJSON 統一輸出成功回應。
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr 統一輸出錯誤回應：{"error": "..."}。
func writeErr(w http.ResponseWriter, err error, code int) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// statusOf 將領域錯誤對應為 HTTP 狀態碼。
func statusOf(err error) int {
	switch {
	case errors.Is(err, bank.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, bank.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, bank.ErrInsufficientFunds):
		return http.StatusConflict
	case errors.Is(err, bank.ErrInvalidAmount),
		errors.Is(err, bank.ErrInvalidCategory),
		errors.Is(err, bank.ErrSameAccount):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// fail 輸出領域錯誤；5xx 另記錄錯誤日誌，內部細節不回傳給客戶端。
func (s *Server) fail(w http.ResponseWriter, err error) {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("error", err.Error()))
		writeErr(w, errors.New(http.StatusText(code)), code)
		return
	}
	writeErr(w, err, code)
}
