package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Key layout: robot:{agentID}:{type}[:{hash}]. The agent id segment is
// the namespace boundary for invalidation; the type segment drives
// per-type stats.
const (
	keyRoot    = "robot"
	typeState  = "state"
	typeResult = "result"
)

// Root returns the prefix shared by every key this module writes.
func Root() string {
	return keyRoot + ":"
}

// AgentPrefix returns the namespace prefix for all of an agent's keys.
func AgentPrefix(agentID string) string {
	return keyRoot + ":" + agentID + ":"
}

// StateKey returns the key holding an agent's state snapshot.
func StateKey(agentID string) string {
	return AgentPrefix(agentID) + typeState
}

// ResultKey returns the key for a cached command result. The hash covers
// the normalized command text and the agent's state signature, so
// identical (command, state) pairs always map to the same key and any
// state change produces a different one.
func ResultKey(agentID, commandText, signature string) string {
	h := sha256.New()
	h.Write([]byte(normalizeCommand(commandText)))
	h.Write([]byte("|"))
	h.Write([]byte(signature))
	return AgentPrefix(agentID) + typeResult + ":" + hex.EncodeToString(h.Sum(nil))
}

// KeyType extracts the type segment from a key, or "" for foreign keys.
func KeyType(key string) string {
	parts := strings.SplitN(key, ":", 4)
	if len(parts) < 3 || parts[0] != keyRoot {
		return ""
	}
	return parts[2]
}

// normalizeCommand collapses whitespace and case so that textual
// variants of the same command share a cache entry.
func normalizeCommand(text string) string {
	return strings.ToUpper(strings.Join(strings.Fields(text), " "))
}
