// Package workspace persists editor session state between runs: per-file UI
// state (expanded rows, scroll position) and content-addressed backups of
// files being edited. State records are msgpack-encoded values in a Bolt
// database; backup blobs are keyed by the 64-bit xxhash of their content, so
// saving identical bytes twice stores one blob.
package workspace

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
)

var (
	filesBucket      = []byte("files")
	backupsBucket    = []byte("backups")
	backupMetaBucket = []byte("backupmeta")
)

// Store is an open workspace database. A Store is safe for concurrent use;
// Bolt serializes writers internally.
type Store struct {
	bdb *bbolt.DB
}

// Open opens or creates the workspace database at path.
func Open(path string) (*Store, error) {
	bdb, err := bbolt.Open(path, 0o644, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("workspace: %w", err)
	}
	err = bdb.Update(func(btx *bbolt.Tx) error {
		for _, name := range [][]byte{filesBucket, backupsBucket, backupMetaBucket} {
			if _, err := btx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		bdb.Close()
		return nil, fmt.Errorf("workspace: %w", err)
	}
	return &Store{bdb: bdb}, nil
}

func (s *Store) Close() error {
	return s.bdb.Close()
}

// FileState is the remembered UI state of one edited file.
type FileState struct {
	Path       string    `msgpack:"p"`
	ScrollRow  int       `msgpack:"s"`
	Expanded   []string  `msgpack:"x"` // slash-joined index paths of open nodes
	LastOpened time.Time `msgpack:"t"`
}

// SaveFileState upserts the state record keyed by its path.
func (s *Store) SaveFileState(st *FileState) error {
	data, err := msgpack.Marshal(st)
	if err != nil {
		return err
	}
	return s.bdb.Update(func(btx *bbolt.Tx) error {
		return btx.Bucket(filesBucket).Put([]byte(st.Path), data)
	})
}

// FileState returns the remembered state for path, or nil when none exists.
func (s *Store) FileState(path string) (*FileState, error) {
	var st *FileState
	err := s.bdb.View(func(btx *bbolt.Tx) error {
		data := btx.Bucket(filesBucket).Get([]byte(path))
		if data == nil {
			return nil
		}
		st = new(FileState)
		return msgpack.Unmarshal(data, st)
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// ForgetFileState removes the state record for path, if any.
func (s *Store) ForgetFileState(path string) error {
	return s.bdb.Update(func(btx *bbolt.Tx) error {
		return btx.Bucket(filesBucket).Delete([]byte(path))
	})
}

// BackupInfo describes one stored backup blob.
type BackupInfo struct {
	Path    string    `msgpack:"p"`
	Size    int       `msgpack:"n"`
	SavedAt time.Time `msgpack:"t"`
	Sum     uint64    `msgpack:"-"`
}

// SaveBackup stores a backup of data for path and returns its content sum.
// Identical content is stored once; only the metadata is refreshed.
func (s *Store) SaveBackup(path string, data []byte) (uint64, error) {
	sum := xxhash.Sum64(data)
	key := backupKey(sum)
	meta, err := msgpack.Marshal(&BackupInfo{Path: path, Size: len(data), SavedAt: time.Now()})
	if err != nil {
		return 0, err
	}
	err = s.bdb.Update(func(btx *bbolt.Tx) error {
		blobs := btx.Bucket(backupsBucket)
		if blobs.Get(key[:]) == nil {
			if err := blobs.Put(key[:], data); err != nil {
				return err
			}
		}
		return btx.Bucket(backupMetaBucket).Put(key[:], meta)
	})
	if err != nil {
		return 0, err
	}
	slog.Debug("workspace: backup saved", "path", path, "size", len(data), "sum", fmt.Sprintf("%016x", sum))
	return sum, nil
}

// Backup returns the blob and metadata stored under sum, or nils when absent.
func (s *Store) Backup(sum uint64) ([]byte, *BackupInfo, error) {
	key := backupKey(sum)
	var blob []byte
	var info *BackupInfo
	err := s.bdb.View(func(btx *bbolt.Tx) error {
		data := btx.Bucket(backupsBucket).Get(key[:])
		if data == nil {
			return nil
		}
		blob = append([]byte(nil), data...)
		info = &BackupInfo{Sum: sum}
		if meta := btx.Bucket(backupMetaBucket).Get(key[:]); meta != nil {
			return msgpack.Unmarshal(meta, info)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return blob, info, nil
}

// Backups lists the backups recorded for path, in key order.
func (s *Store) Backups(path string) ([]*BackupInfo, error) {
	var result []*BackupInfo
	err := s.bdb.View(func(btx *bbolt.Tx) error {
		return btx.Bucket(backupMetaBucket).ForEach(func(k, v []byte) error {
			info := new(BackupInfo)
			if err := msgpack.Unmarshal(v, info); err != nil {
				return err
			}
			if info.Path != path {
				return nil
			}
			info.Sum = binary.BigEndian.Uint64(k)
			result = append(result, info)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func backupKey(sum uint64) [8]byte {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], sum)
	return key
}
