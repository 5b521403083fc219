package moderation

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

// Measures the cold-start cost of loading a large blacklist from Badger and
// building the automaton, which happens once at server boot.
func Test_Moderation_Startup_Benchmark(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer func() { _ = db.Close() }()

	wordCount := 100_000

	// Phase 1: seeding
	startSeed := time.Now()
	wb := db.NewWriteBatch()
	for i := 0; i < wordCount; i++ {
		key := []byte(fmt.Sprintf("blacklist:word_%d", i))
		_ = wb.Set(key, nil)
	}
	req.NoError(wb.Flush())
	fmt.Printf("Seeding %d words: %v\n", wordCount, time.Since(startSeed))

	// Phase 2: loading. Words live in the keys, values stay untouched.
	startLoad := time.Now()
	var words []string
	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte("blacklist:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			words = append(words, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	req.NoError(err)
	fmt.Printf("Loading from Badger: %v\n", time.Since(startLoad))

	// Phase 3: building the automaton
	startBuild := time.Now()
	_, err = NewModerator(words, '*', logs.GetLoggerFromLevel(slog.LevelError))
	req.NoError(err)
	fmt.Printf("Building the automaton: %v\n", time.Since(startBuild))
}
