package database

import (
	"time"

	"github.com/kotoba-study/kotoba-api/internal/store"
)

// Field accessors tolerant of the numeric types different store drivers hand
// back (Firestore decodes integers as int64, the memory driver returns what
// was stored).

func docString(doc store.Document, field string) string {
	if v, ok := doc[field].(string); ok {
		return v
	}
	return ""
}

func docBool(doc store.Document, field string) bool {
	if v, ok := doc[field].(bool); ok {
		return v
	}
	return false
}

func docInt(doc store.Document, field string) int {
	switch v := doc[field].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func docTime(doc store.Document, field string) time.Time {
	if v, ok := doc[field].(time.Time); ok {
		return v
	}
	return time.Time{}
}

func docSub(doc store.Document, field string) (store.Document, bool) {
	switch v := doc[field].(type) {
	case store.Document:
		return v, true
	case map[string]any:
		return store.Document(v), true
	default:
		return nil, false
	}
}
