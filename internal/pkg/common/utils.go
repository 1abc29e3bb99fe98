package common

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// CapitalizeFirst 首字母大寫
func CapitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// CollapseSpaces 合併連續空白並去除前後空白
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
