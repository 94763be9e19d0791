// cmd/bankhub/main.go

// bankhub 命令列工具：開戶、查詢、存提款、轉帳、銷戶、互動式選單與 HTTP 服務。
package main

import "bankhub/internal/cli"

func main() {
	cli.Execute()
}
