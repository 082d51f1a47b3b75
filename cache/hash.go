package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Key names an artifact by its kind and the inputs that determine it, e.g.
// Key("pdf", font, latex, size, mode). Each input is JSON-encoded on its own
// line, so ("ab", "c") and ("a", "bc") never collide.
func Key(kind string, inputs ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, in := range inputs {
		_ = enc.Encode(in)
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash is the hex SHA-256 of data. FileCache shards entries on its first two characters.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
