// Package save persists player progress per profile through gdata.
package save

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/milk9111/actorkit/actor"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

var (
	ErrProfileNotFound = errors.New("save: profile not found")
	ErrInvalidProfile  = errors.New("save: invalid profile id")
)

const (
	indexObject   = "profiles"
	indexProperty = "index"
	saveProperty  = "save"
	profilePrefix = "profile_"
)

// Storage is the slice of gdata the store needs.
type Storage interface {
	ObjectPropExists(objectKey, propKey string) bool
	LoadObjectProp(objectKey, propKey string) ([]byte, error)
	SaveObjectProp(objectKey, propKey string, data []byte) error
}

var _ Storage = (*gdata.Manager)(nil)

// SaveData is everything written for one profile.
type SaveData struct {
	Scene            string            `yaml:"scene"`
	Language         string            `yaml:"language"`
	BindingOverrides map[string]string `yaml:"binding_overrides,omitempty"`
	Player           actor.Snapshot    `yaml:"player"`
	SavedAt          time.Time         `yaml:"saved_at"`
}

func DefaultSaveData() SaveData {
	return SaveData{Scene: "level1", Language: "en"}
}

type Profile struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Store reads and writes profiles. With no backing storage it keeps
// everything in memory, so a missing data directory never stops play.
type Store struct {
	mu      sync.Mutex
	storage Storage
	now     func() time.Time
}

// Open opens gdata storage for appName.
func Open(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("save: open %s: %w", appName, err)
	}
	return NewStore(m), nil
}

func NewStore(storage Storage) *Store {
	if storage == nil {
		log.Printf("[save] no storage, saves are kept in memory")
		storage = newMemStorage()
	}
	return &Store{storage: storage, now: time.Now}
}

// NewProfile registers a fresh profile and writes default data for it.
func (s *Store) NewProfile(name string) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.loadIndex()
	if err != nil {
		return Profile{}, err
	}
	p := Profile{ID: uuid.NewString(), Name: name, CreatedAt: s.now().UTC()}
	if p.Name == "" {
		p.Name = "Profile " + p.ID[:8]
	}
	data := DefaultSaveData()
	data.SavedAt = p.CreatedAt
	if err := s.write(p.ID, data); err != nil {
		return Profile{}, err
	}
	index = append(index, p)
	if err := s.saveIndex(index); err != nil {
		return Profile{}, err
	}
	log.Printf("[save] created profile %s (%s)", p.ID, p.Name)
	return p, nil
}

// Profiles lists known profiles, oldest first.
func (s *Store) Profiles() ([]Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadIndex()
}

func (s *Store) Exists(id string) bool {
	if validID(id) != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.read(id)
	return err == nil
}

// Load returns the saved data of profile id.
func (s *Store) Load(id string) (SaveData, error) {
	if err := validID(id); err != nil {
		return SaveData{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(id)
}

// Save writes data for profile id, stamping SavedAt. Saving to an id the
// index does not know adds it.
func (s *Store) Save(id string, data SaveData) error {
	if err := validID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data.SavedAt = s.now().UTC()
	if err := s.write(id, data); err != nil {
		return err
	}
	index, err := s.loadIndex()
	if err != nil {
		return err
	}
	for _, p := range index {
		if p.ID == id {
			return nil
		}
	}
	return s.saveIndex(append(index, Profile{ID: id, Name: id, CreatedAt: data.SavedAt}))
}

// Delete drops profile id from the index and blanks its data.
func (s *Store) Delete(id string) error {
	if err := validID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.loadIndex()
	if err != nil {
		return err
	}
	kept := index[:0]
	found := false
	for _, p := range index {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return ErrProfileNotFound
	}
	if err := s.storage.SaveObjectProp(profileObject(id), saveProperty, nil); err != nil {
		return fmt.Errorf("save: delete %s: %w", id, err)
	}
	return s.saveIndex(kept)
}

func (s *Store) read(id string) (SaveData, error) {
	obj := profileObject(id)
	if !s.storage.ObjectPropExists(obj, saveProperty) {
		return SaveData{}, ErrProfileNotFound
	}
	raw, err := s.storage.LoadObjectProp(obj, saveProperty)
	if err != nil {
		return SaveData{}, fmt.Errorf("save: load %s: %w", id, err)
	}
	if len(raw) == 0 {
		return SaveData{}, ErrProfileNotFound
	}
	data := DefaultSaveData()
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return SaveData{}, fmt.Errorf("save: unmarshal %s: %w", id, err)
	}
	return data, nil
}

func (s *Store) write(id string, data SaveData) error {
	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("save: marshal %s: %w", id, err)
	}
	if err := s.storage.SaveObjectProp(profileObject(id), saveProperty, raw); err != nil {
		return fmt.Errorf("save: write %s: %w", id, err)
	}
	return nil
}

func (s *Store) loadIndex() ([]Profile, error) {
	if !s.storage.ObjectPropExists(indexObject, indexProperty) {
		return nil, nil
	}
	raw, err := s.storage.LoadObjectProp(indexObject, indexProperty)
	if err != nil {
		return nil, fmt.Errorf("save: load index: %w", err)
	}
	var index []Profile
	if err := yaml.Unmarshal(raw, &index); err != nil {
		return nil, fmt.Errorf("save: unmarshal index: %w", err)
	}
	sort.SliceStable(index, func(i, j int) bool { return index[i].CreatedAt.Before(index[j].CreatedAt) })
	return index, nil
}

func (s *Store) saveIndex(index []Profile) error {
	raw, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("save: marshal index: %w", err)
	}
	if err := s.storage.SaveObjectProp(indexObject, indexProperty, raw); err != nil {
		return fmt.Errorf("save: write index: %w", err)
	}
	return nil
}

func profileObject(id string) string {
	return profilePrefix + id
}

// Profile ids end up in file names.
func validID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\.:`) {
		return fmt.Errorf("%w: %q", ErrInvalidProfile, id)
	}
	return nil
}

type memStorage struct {
	props map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{props: map[string][]byte{}}
}

func (m *memStorage) key(objectKey, propKey string) string {
	return objectKey + "/" + propKey
}

func (m *memStorage) ObjectPropExists(objectKey, propKey string) bool {
	_, ok := m.props[m.key(objectKey, propKey)]
	return ok
}

func (m *memStorage) LoadObjectProp(objectKey, propKey string) ([]byte, error) {
	data, ok := m.props[m.key(objectKey, propKey)]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *memStorage) SaveObjectProp(objectKey, propKey string, data []byte) error {
	m.props[m.key(objectKey, propKey)] = append([]byte(nil), data...)
	return nil
}
