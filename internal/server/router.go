// internal/server/router.go
//
// 本檔負責 HTTP 路由註冊與中介層組裝。
//   - handler.go 定義「如何處理請求」
//   - router.go 定義「請求如何被導向」
package server

import "net/http"

// Router 建立並回傳整個 HTTP 處理鏈。
func (s *Server) Router() http.Handler {
	v1 := http.NewServeMux()

	// 健康檢查
	v1.HandleFunc("/health", s.health)

	// 帳戶操作：
	//   - POST   /accounts
	//   - GET    /accounts/{id}
	//   - DELETE /accounts/{id}
	//   - POST   /accounts/{id}/deposit
	//   - POST   /accounts/{id}/withdraw
	v1.HandleFunc("/accounts", s.accounts)
	v1.HandleFunc("/accounts/", s.accountSubroutes)

	// 轉帳操作：POST /transfer
	v1.HandleFunc("/transfer", s.transfer)

	root := http.NewServeMux()
	root.Handle("/api/v1/", http.StripPrefix("/api/v1", v1))
	if s.metrics != nil {
		root.Handle("/metrics", s.metrics)
	}
	root.Handle("/", v1)

	return s.requestID(s.logRequests(root))
}
