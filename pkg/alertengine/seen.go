package alertengine

import (
	"github.com/dgraph-io/badger/v4"
)

// SeenStore remembers which alert IDs have already been published, backed by
// badger so a restart does not re-flag every active alert as new.
type SeenStore struct {
	db *badger.DB
}

func OpenSeenStore(path string) (*SeenStore, error) {
	opts := badger.DefaultOptions(path)
	// Decrease logging verbosity
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &SeenStore{db: db}, nil
}

func (s *SeenStore) Close() error {
	return s.db.Close()
}

// MarkNew records ids and reports which of them had never been seen before.
func (s *SeenStore) MarkNew(ids []string) (map[string]bool, error) {
	fresh := make(map[string]bool)
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, id := range ids {
			_, err := txn.Get([]byte(id))
			if err == badger.ErrKeyNotFound {
				fresh[id] = true
				if err := txn.Set([]byte(id), []byte{1}); err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fresh, nil
}
