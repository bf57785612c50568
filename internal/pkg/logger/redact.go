package logger

import "strings"

// secretKeys are field-name fragments whose values must never reach logs.
// Panel API calls carry bearer tokens and the login body carries a
// password, so any field that looks like a credential is masked.
var secretKeys = []string{
	"password",
	"token",
	"secret",
	"authorization",
	"api_key",
	"apikey",
}

func redactSecretValue(key, val string) string {
	k := strings.ToLower(key)
	for _, s := range secretKeys {
		if strings.Contains(k, s) {
			return RedactSecret(val)
		}
	}
	return val
}

// RedactSecret masks a credential for safe logging, keeping only a short
// prefix so distinct values remain distinguishable.
// "eyJhbGciOi..." → "eyJh***"
func RedactSecret(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 4 {
		return "***"
	}
	return v[:4] + "***"
}
