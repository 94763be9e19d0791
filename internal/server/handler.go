// internal/server/handler.go
//
// Package server
// ─────────────────────────────────────────────
// 提供 HTTP/JSON 介面，作為 bank 模組的傳輸層。
// 每個 handler 僅負責：
//  1. 接收與驗證 HTTP 請求（含 X-Account-Secret 身分驗證）
//  2. 呼叫 bank 層執行商業邏輯（bank 自行提交持久化）
//  3. 回傳標準化 JSON 回應
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"bankhub/internal/bank"
)

// SecretHeader 攜帶帳戶密碼。
const SecretHeader = "X-Account-Secret"

// Server 為 HTTP 層核心結構：
// - Bank：注入商業邏輯層。
// - metrics：可為 nil；提供時掛載 /metrics。
type Server struct {
	Bank    *bank.Bank
	logger  *slog.Logger
	metrics http.Handler
}

// NewServer 建立新的 HTTP 伺服器；metrics 可為 nil。
func NewServer(b *bank.Bank, logger *slog.Logger, metrics http.Handler) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{Bank: b, logger: logger, metrics: metrics}
}

// accountView 為對外輸出的帳戶格式；開戶回應才帶 secret。
type accountView struct {
	ID       string          `json:"id"`
	Secret   string          `json:"secret,omitempty"`
	Category bank.Category   `json:"category"`
	Balance  decimal.Decimal `json:"balance"`
}

func view(a *bank.Account) accountView {
	return accountView{ID: a.ID, Category: a.Category, Balance: a.Balance}
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// accounts 處理：POST /accounts → 開戶，回傳帳號與密碼（僅此一次）。
func (s *Server) accounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, errMethod, http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	c, err := bank.ParseKind(req.Type)
	if err != nil {
		s.fail(w, err)
		return
	}
	a, err := s.Bank.Register(c)
	if err != nil {
		s.fail(w, err)
		return
	}
	v := view(a)
	v.Secret = a.Secret
	writeJSON(w, http.StatusCreated, v)
}

// accountSubroutes 處理子路徑：
//
//	GET    /accounts/{id}           → 查詢餘額
//	DELETE /accounts/{id}           → 銷戶
//	POST   /accounts/{id}/deposit   → 存款
//	POST   /accounts/{id}/withdraw  → 提款
//
// 皆需 X-Account-Secret。
func (s *Server) accountSubroutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/accounts/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" || len(parts) > 2 {
		http.NotFound(w, r)
		return
	}
	id := parts[0]
	secret := r.Header.Get(SecretHeader)

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			a, err := s.Bank.Verify(id, secret)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeJSON(w, http.StatusOK, view(a))
		case http.MethodDelete:
			if err := s.Bank.Close(id, secret); err != nil {
				s.fail(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			writeErr(w, errMethod, http.StatusMethodNotAllowed)
		}
		return
	}

	var op func(string, decimal.Decimal) (decimal.Decimal, error)
	switch parts[1] {
	case "deposit":
		op = s.Bank.Deposit
	case "withdraw":
		op = s.Bank.Withdraw
	default:
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		writeErr(w, errMethod, http.StatusMethodNotAllowed)
		return
	}
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	if _, err := s.Bank.Verify(id, secret); err != nil {
		s.fail(w, err)
		return
	}
	if _, err := op(id, req.Amount); err != nil {
		s.fail(w, err)
		return
	}
	a, err := s.Bank.Get(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view(a))
}

// transfer 處理轉帳：
//
//	POST /transfer  → JSON {from, to, amount}，X-Account-Secret 為轉出方密碼
//
// 成功後回傳轉出方最新狀態；轉入方餘額不對轉出方公開。
func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, errMethod, http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		From   string          `json:"from"`
		To     string          `json:"to"`
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	if _, err := s.Bank.Verify(req.From, r.Header.Get(SecretHeader)); err != nil {
		s.fail(w, err)
		return
	}
	if err := s.Bank.Transfer(req.From, req.To, req.Amount); err != nil {
		s.fail(w, err)
		return
	}
	from, err := s.Bank.Get(req.From)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "transfer success",
		"from":    view(from),
	})
}

// health 提供健康檢查端點：GET /health。
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
