package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketGraphs = []byte("graphs")

// BoltArchive keeps every persisted graph snapshot in a BoltDB file, keyed
// by slug and capture time, so downstream tooling can diff runs without
// scanning the JSON history directory.
type BoltArchive struct {
	db   *bolt.DB
	path string
}

// OpenBoltArchive opens (or creates) an archive database.
func OpenBoltArchive(path string) (*BoltArchive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketGraphs)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &BoltArchive{db: db, path: path}, nil
}

func archiveKey(slug string, at time.Time) []byte {
	return []byte(slug + "/" + strconv.FormatInt(at.Unix(), 10))
}

// Put stores a snapshot of the graph.
func (a *BoltArchive) Put(g *Graph) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal graph: %w", err)
	}

	return a.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketGraphs)
		if b == nil {
			return fmt.Errorf("bucket not found")
		}
		return b.Put(archiveKey(Slugify(g.AppName), time.Now()), data)
	})
}

// Latest returns the most recent snapshot for an app name, or nil when the
// archive holds none.
func (a *BoltArchive) Latest(appName string) (*Graph, error) {
	prefix := []byte(Slugify(appName) + "/")

	var data []byte
	err := a.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketGraphs).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			data = append(data[:0], v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &g, nil
}

// Close closes the archive database.
func (a *BoltArchive) Close() error {
	return a.db.Close()
}
