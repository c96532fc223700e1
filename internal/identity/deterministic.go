package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a stable UUID from key with go-hashid. Keys must be prefixed
// by kind so different entity kinds never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// RoleUUID is the identifier of the role named name.
func RoleUUID(name string) uuid.UUID {
	return UUID("go-translated:role:" + strings.ToLower(strings.TrimSpace(name)))
}

// EntityUUID is the identifier of an entity imported under a stable key,
// such as a markdown file path.
func EntityUUID(class, key string) uuid.UUID {
	return UUID("go-translated:entity:" + strings.TrimSpace(class) + ":" + strings.TrimSpace(key))
}
