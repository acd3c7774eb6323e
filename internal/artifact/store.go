package artifact

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"docuchat/internal/model"
)

var (
	// ErrNotFound is returned when no artifact exists under the given name.
	ErrNotFound = errors.New("artifact not found")

	// ErrInvalidName is returned before any filesystem access when a
	// requested name could escape the storage root.
	ErrInvalidName = errors.New("invalid artifact name")
)

// Names are always server-generated: a UUID plus a known extension. Anything
// else is rejected on retrieval, which also rules out path traversal.
var namePattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.(xlsx|pdf|docx|txt)$`)

var contentTypes = map[string]string{
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain; charset=utf-8",
}

// Store keeps generated artifacts on the filesystem under a single root,
// keyed by server-generated names. Saves from concurrent requests need no
// coordination because every artifact gets a unique name.
type Store struct {
	root string
}

func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact root failed: %w", err)
	}
	return &Store{root: root}, nil
}

// Save writes the rendered bytes under a fresh UUID name and returns the
// artifact handle, including a blake2b content digest.
func (s *Store) Save(format model.ArtifactFormat, ext string, data []byte) (model.GeneratedArtifact, error) {
	name := uuid.NewString() + ext
	if _, ok := contentTypes[ext]; !ok {
		return model.GeneratedArtifact{}, fmt.Errorf("unknown artifact extension %q", ext)
	}

	path := filepath.Join(s.root, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return model.GeneratedArtifact{}, fmt.Errorf("write artifact failed: %w", err)
	}

	digest := blake2b.Sum256(data)
	return model.GeneratedArtifact{
		Name:        name,
		Format:      format,
		ContentType: contentTypes[ext],
		SizeBytes:   int64(len(data)),
		Digest:      hex.EncodeToString(digest[:]),
	}, nil
}

// Open returns the artifact bytes and content type for a name. Retrieval is
// stateless: any request holding a valid name can fetch the bytes.
func (s *Store) Open(name string) ([]byte, string, error) {
	if err := validateName(name); err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(filepath.Join(s.root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("read artifact failed: %w", err)
	}
	return data, contentTypes[filepath.Ext(name)], nil
}

// Remove deletes one artifact; removing an absent name is not an error.
func (s *Store) Remove(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.root, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove artifact failed: %w", err)
	}
	return nil
}

func validateName(name string) error {
	if !namePattern.MatchString(name) {
		return ErrInvalidName
	}
	return nil
}
