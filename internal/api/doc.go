// Package api 處理 HTTP 請求路由。
//
// NewRouter 組合中間件（recovery、請求日誌、Prometheus、CORS、驗證）與
// handlers 子套件中的處理器，將 HTTP 請求轉為服務層呼叫。
package api
