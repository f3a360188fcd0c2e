package middleware

import (
	"net/http"
	"slices"
)

// NewCORSMiddleware は許可オリジンの一覧に対するCORSミドルウェアを返す。
//   - "*" を含む場合は全オリジンを許可し、credentialsは許可しない。
//   - 許可オリジンが1件の場合は常にそのオリジンを返す。
//   - 複数件の場合はリクエストのOriginが一覧に含まれるときだけ、そのOriginを返す。
//
// OPTIONSプリフライトリクエストには204で応答する。
func NewCORSMiddleware(allowedOrigins []string) func(next http.Handler) http.Handler {
	wildcard := slices.Contains(allowedOrigins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := resolveAllowedOrigin(allowedOrigins, wildcard, r.Header.Get("Origin"))

			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.Header().Set("Access-Control-Max-Age", "86400")
				if !wildcard {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}
			if !wildcard && len(allowedOrigins) > 1 {
				w.Header().Add("Vary", "Origin")
			}

			// OPTIONSプリフライトリクエストには204で応答
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// resolveAllowedOrigin はレスポンスに設定するAccess-Control-Allow-Originの値を返す。
// 許可しない場合は空文字列を返す。
func resolveAllowedOrigin(allowed []string, wildcard bool, requestOrigin string) string {
	switch {
	case wildcard:
		return "*"
	case len(allowed) == 1:
		return allowed[0]
	case requestOrigin != "" && slices.Contains(allowed, requestOrigin):
		return requestOrigin
	default:
		return ""
	}
}
