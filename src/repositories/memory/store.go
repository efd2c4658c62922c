// Package memory implements the repository interfaces on process memory. It
// backs the "memory" SQL driver setting for local runs and is the store
// double for service and handler tests.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Jshatto/asset-tracker/src/models"
	"github.com/Jshatto/asset-tracker/src/repositories"

	"github.com/google/uuid"
)

type assetRecord struct {
	asset models.Asset
	seq   int64
}

type Store struct {
	mu      sync.RWMutex
	seq     int64
	assets  map[uuid.UUID]*assetRecord
	clients map[uuid.UUID]models.Client
	users   map[uuid.UUID]models.User
}

func NewStore() *Store {
	return &Store{
		assets:  map[uuid.UUID]*assetRecord{},
		clients: map[uuid.UUID]models.Client{},
		users:   map[uuid.UUID]models.User{},
	}
}

func (s *Store) Assets() repositories.AssetRepository {
	return &assetRepo{store: s}
}

func (s *Store) Clients() repositories.ClientRepository {
	return &clientRepo{store: s}
}

func (s *Store) Users() repositories.UserRepository {
	return &userRepo{store: s}
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

func now() time.Time {
	return time.Now().UTC()
}

// sortedAssets returns copies ordered newest first, insertion order breaking
// ties, matching ORDER BY created_at DESC.
func (s *Store) sortedAssets(keep func(*models.Asset) bool) []models.Asset {
	records := make([]*assetRecord, 0, len(s.assets))
	for _, record := range s.assets {
		if keep(&record.asset) {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].seq > records[j].seq
	})
	assets := make([]models.Asset, 0, len(records))
	for _, record := range records {
		assets = append(assets, record.asset)
	}
	return assets
}

func (s *Store) clientNameTaken(name string, except uuid.UUID) bool {
	for id, c := range s.clients {
		if id != except && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}
