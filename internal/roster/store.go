package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Store persists the creator roster, submitted briefs and feedback as JSON
// files. It implements the thin persistence boundary the matching engine
// consumes: FindAll to load the pool and Save to write back a refreshed
// embedding. Database-backed storage is intentionally out of scope.
type Store struct {
	creatorsPath string
	briefsPath   string
	feedbackPath string

	mu sync.Mutex
}

// Open creates a store over the given file paths. Briefs and feedback paths
// may be empty when those surfaces are unused.
func Open(creatorsPath, briefsPath, feedbackPath string) *Store {
	return &Store{
		creatorsPath: creatorsPath,
		briefsPath:   briefsPath,
		feedbackPath: feedbackPath,
	}
}

// FindAll loads the full roster. A missing file yields an empty roster rather
// than an error so a fresh install can be seeded.
func (s *Store) FindAll() (*Creators, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readCreators()
}

// Save persists the embedding cache fields of the given creator. Business
// fields of the stored record are left untouched.
func (s *Store) Save(creator *Creator) error {
	if creator == nil {
		return fmt.Errorf("creator is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	creators, err := s.readCreators()
	if err != nil {
		return err
	}

	stored := creators.FindByID(creator.ID)
	if stored == nil {
		return fmt.Errorf("creator %s not found in store", creator.ID)
	}

	stored.Embedding = creator.Embedding
	stored.LastEmbeddingUpdate = creator.LastEmbeddingUpdate

	return writeJSON(s.creatorsPath, creators)
}

// Replace overwrites the whole roster. Used by seeding only.
func (s *Store) Replace(creators *Creators) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return writeJSON(s.creatorsPath, creators)
}

// SaveBrief appends the brief, with its computed matches, to the briefs file.
func (s *Store) SaveBrief(brief *Brief) error {
	if s.briefsPath == "" {
		return fmt.Errorf("briefs file is not configured")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var briefs []*Brief
	if err := readJSON(s.briefsPath, &briefs); err != nil {
		return err
	}
	briefs = append(briefs, brief)

	return writeJSON(s.briefsPath, briefs)
}

// SaveFeedback appends a feedback record. Feedback never feeds back into the
// engine; it is kept for downstream analysis only.
func (s *Store) SaveFeedback(f *Feedback) error {
	if s.feedbackPath == "" {
		return fmt.Errorf("feedback file is not configured")
	}
	if err := f.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var records []*Feedback
	if err := readJSON(s.feedbackPath, &records); err != nil {
		return err
	}
	records = append(records, f)

	return writeJSON(s.feedbackPath, records)
}

func (s *Store) readCreators() (*Creators, error) {
	creators := &Creators{}
	if err := readJSON(s.creatorsPath, creators); err != nil {
		return nil, err
	}
	return creators, nil
}

func readJSON(path string, target any) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return err
	}

	if stat.Size() == 0 {
		return nil
	}

	return json.NewDecoder(file).Decode(target)
}

func writeJSON(path string, data any) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
