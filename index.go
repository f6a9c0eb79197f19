package bench

import (
	"encoding/binary"
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/memdb"
)

// Order selects the direction of the modification time key within a title.
type Order int

const (
	OrderNewest Order = iota // most recently modified first
	OrderOldest              // least recently modified first
)

func (o Order) String() string {
	switch o {
	case OrderNewest:
		return "newest"
	case OrderOldest:
		return "oldest"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// ParseOrder parses "newest" or "oldest".
func ParseOrder(s string) (Order, error) {
	switch s {
	case "newest", "":
		return OrderNewest, nil
	case "oldest":
		return OrderOldest, nil
	}
	return 0, errors.Errorf("invalid order %q", s)
}

// titleIndex keeps result files sorted by title, then modification time,
// then name. Keys are laid out as
//
//	title 0x00 mtime(8 bytes, big endian) name
//
// and iterated from the last key backwards, so titles come out descending.
type titleIndex struct {
	db    *memdb.DB
	order Order
	files []ResultFile
}

func newTitleIndex(order Order) *titleIndex {
	return &titleIndex{db: memdb.New(comparer.DefaultComparer, 0), order: order}
}

func (ix *titleIndex) add(f ResultFile) error {
	var pos [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(pos[:], uint64(len(ix.files)))
	ix.files = append(ix.files, f)
	return ix.db.Put(ix.key(f), pos[:n])
}

func (ix *titleIndex) key(f ResultFile) []byte {
	// Flipping the sign bit makes the unsigned encoding sort like the signed time.
	t := uint64(f.ModTime.UnixNano()) ^ (1 << 63)
	if ix.order == OrderOldest {
		t = ^t
	}
	base := filepath.Base(f.Path)
	key := make([]byte, 0, len(f.Name.Title)+9+len(base))
	key = append(key, f.Name.Title...)
	key = append(key, 0)
	key = binary.BigEndian.AppendUint64(key, t)
	return append(key, base...)
}

func (ix *titleIndex) len() int {
	return len(ix.files)
}

// sorted returns all files in index order.
func (ix *titleIndex) sorted() ([]ResultFile, error) {
	it := ix.db.NewIterator(nil)
	defer it.Release()

	out := make([]ResultFile, 0, len(ix.files))
	for ok := it.Last(); ok; ok = it.Prev() {
		i, n := binary.Uvarint(it.Value())
		if n <= 0 || i >= uint64(len(ix.files)) {
			return nil, errors.Errorf("corrupt index entry for key %q", it.Key())
		}
		out = append(out, ix.files[i])
	}
	return out, it.Error()
}
