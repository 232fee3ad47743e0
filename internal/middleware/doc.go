// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 目前包含以 Bearer token 驗證用戶的 AuthMiddleware，
// 驗證成功後可用 CurrentUser 取得呼叫者。
package middleware
