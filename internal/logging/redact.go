package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// SensitiveFields are redacted wherever they appear as attribute keys, map keys
// or struct field names
var SensitiveFields = []string{
	"storePassword",
	"StorePassword",
	"keyPassword",
	"KeyPassword",
	"password",
	"secret",
	"token",
}

// passwordInlinePattern matches "storePassword=..." style fragments that leak
// into error strings from Gradle or HCL diagnostics.
var passwordInlinePattern = regexp.MustCompile(`(?i)(store|key)?password\s*[:=]\s*\S+`)

// newRedactAttr returns a masq-powered ReplaceAttr function for use in
// slog.HandlerOptions. Signing config secrets tagged masq:"secret" are
// redacted inside structs too.
func newRedactAttr() func([]string, slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, len(SensitiveFields)+3)
	for _, name := range SensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	opts = append(opts,
		masq.WithTag("secret"),
		masq.WithFieldPrefix("secret_"),
		masq.WithRegex(passwordInlinePattern),
	)

	return masq.New(opts...)
}
