// Package naming derives deterministic Azure resource names for the
// resources a workspace depends on, and validates user-supplied names.
package naming

import (
	"crypto/sha1"
	"fmt"
	"strings"
)

// hashLength is the hex length of name suffixes (bits ~ length * 4).
const hashLength = 8

// Azure name length limits.
const (
	maxStorageAccountName = 24
	maxKeyVaultName       = 24
)

// ShortHash returns the hex SHA1 prefix of s of length n (clamped to digest size).
func ShortHash(s string, n int) string {
	sum := sha1.Sum([]byte(s))
	h := fmt.Sprintf("%x", sum)
	if n > len(h) {
		n = len(h)
	}
	return h[:n]
}

// WorkspaceHash scopes a workspace within a subscription and resource group.
// Storage account and key vault names are globally unique, so the hash keeps
// the same workspace name in different resource groups from colliding.
func WorkspaceHash(subscriptionID, resourceGroup, workspace string) string {
	key := strings.ToLower(fmt.Sprintf("%s:%s:%s", subscriptionID, resourceGroup, workspace))
	return ShortHash(key, hashLength)
}

// StorageAccountName returns "st<workspace alnum><hash>", lowercase, at most 24 chars.
func StorageAccountName(subscriptionID, resourceGroup, workspace string) string {
	h := WorkspaceHash(subscriptionID, resourceGroup, workspace)
	mid := keep(strings.ToLower(workspace), func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
	})
	return "st" + truncate(mid, maxStorageAccountName-2-len(h)) + h
}

// KeyVaultName returns "kv-<workspace>-<hash>", at most 24 chars, with
// characters outside [A-Za-z0-9-] dropped and no consecutive hyphens.
func KeyVaultName(subscriptionID, resourceGroup, workspace string) string {
	h := WorkspaceHash(subscriptionID, resourceGroup, workspace)
	mid := keep(strings.ToLower(workspace), func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
	})
	for strings.Contains(mid, "--") {
		mid = strings.ReplaceAll(mid, "--", "-")
	}
	mid = strings.Trim(truncate(strings.Trim(mid, "-"), maxKeyVaultName-4-len(h)), "-")
	if mid == "" {
		return "kv-" + h
	}
	return "kv-" + mid + "-" + h
}

func keep(s string, ok func(rune) bool) string {
	var b strings.Builder
	for _, r := range s {
		if ok(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}
