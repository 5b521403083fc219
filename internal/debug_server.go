package internal

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

//go:embed inspect.html
var templatesFS embed.FS

// InspectRow is one rendered key/value pair from the store.
type InspectRow struct {
	Key       string
	Kind      string
	Timestamp string
	Entity    string
	Detail    string
}

type RowMapper func(key string, val []byte) InspectRow
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// StartDebugServer exposes a read-only HTML view over the raw store, for
// poking at keys during development. Never mount this in production.
func StartDebugServer(db *badger.DB, port int, mapper RowMapper, statsProvider StatsProvider) {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	if mapper == nil {
		mapper = DefaultMapper
	}

	mux.HandleFunc("/inspect", func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "msg:"
		}

		data := PageData{
			Prefix: prefix,
			Stats:  make(map[string]any),
		}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		_ = db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapper(string(item.Key()), val))
					return nil
				})
			}
			return nil
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	go func() {
		_ = http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", port), mux)
	}()
}

// DefaultMapper understands the store's key shapes:
//
//	msg_id:{uuid}                          message row
//	msg:{group}:{ts}:{uuid}                time index
//	unread:{user}:{group}:{ts}:{marker}    pending delivery
//	group:{id} / member:{user}:{group}     groups
//	user:{id} / user_name:{name}           users
//	change:{group}:{ts}:{id}               audit trail
func DefaultMapper(key string, val []byte) InspectRow {
	parts := strings.Split(key, ":")
	row := InspectRow{
		Key:       key,
		Kind:      parts[0],
		Timestamp: "--:--:--",
		Entity:    "-",
		Detail:    "size: " + strconv.Itoa(len(val)) + " bytes",
	}

	if len(parts) > 1 {
		row.Entity = shorten(parts[len(parts)-1])
	}
	// Padded-nanosecond segments appear second-to-last in timed keys
	if len(parts) >= 3 {
		if tsNano, err := strconv.ParseInt(parts[len(parts)-2], 10, 64); err == nil && tsNano > 0 {
			row.Timestamp = time.Unix(0, tsNano).UTC().Format("15:04:05")
		}
	}
	if detail := compactJSON(val); detail != "" {
		row.Detail = detail
	}
	return row
}

func shorten(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func compactJSON(val []byte) string {
	var decoded map[string]any
	if json.Unmarshal(val, &decoded) != nil {
		return ""
	}
	out, err := json.Marshal(decoded)
	if err != nil {
		return ""
	}
	if len(out) > 120 {
		return string(out[:120]) + "…"
	}
	return string(out)
}
