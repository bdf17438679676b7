package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	metadataFileName   = "metadata.json"
	defaultContentType = "txt"
	initialDescription = "Initial version"
)

var (
	errMissingRoot = errors.New("storage root is required")
	noOpLogger     = zap.NewNop()
)

const (
	opCreate     = "store.create"
	opAppend     = "store.append_version"
	opDelete     = "store.delete"
	opSetActive  = "store.set_active_version"
	opSetLineage = "store.set_lineage"
)

// StoreConfig carries the dependencies for a Store. Root is the only
// mandatory field.
type StoreConfig struct {
	Root       string
	Clock      func() time.Time
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Store persists documents under one directory per document identifier. Each
// directory holds write-once version payloads named v<N>.<content_type> and a
// metadata.json record that is always replaced atomically, so readers never
// observe a half-written record.
type Store struct {
	root   string
	clock  func() time.Time
	ids    IDProvider
	logger *zap.Logger
}

// NewStore validates the configuration, creates the storage root if missing,
// and returns a ready Store.
func NewStore(cfg StoreConfig) (*Store, error) {
	if strings.TrimSpace(cfg.Root) == "" {
		return nil, errMissingRoot
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	ids := cfg.IDProvider
	if ids == nil {
		ids = NewUUIDProvider()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create root %s: %v", ErrStorage, cfg.Root, err)
	}

	logger.Info("document store initialized", zap.String("root", cfg.Root))

	return &Store{
		root:   cfg.Root,
		clock:  clock,
		ids:    ids,
		logger: logger,
	}, nil
}

// Create allocates a new document with the given initial content and returns
// its identifier. Version 1 and the metadata record are written together; on
// any failure the partially created directory is removed.
func (s *Store) Create(content, name, contentType string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidName)
	}
	contentType = normalizeContentType(contentType)

	id, err := s.ids.NewID()
	if err != nil {
		s.logError(opCreate, "id_generation_failed", err)
		return "", fmt.Errorf("%w: generate id: %v", ErrStorage, err)
	}

	docDir := s.documentDir(id)
	if _, err := os.Stat(docDir); err == nil {
		s.logError(opCreate, "id_collision", nil, zap.String("document_id", id))
		return "", fmt.Errorf("%w: id collision for %s", ErrStorage, id)
	}
	if err := os.MkdirAll(docDir, 0o755); err != nil {
		s.logError(opCreate, "mkdir_failed", err, zap.String("document_id", id))
		return "", fmt.Errorf("%w: create document dir: %v", ErrStorage, err)
	}

	now := s.clock().UTC()
	meta := Metadata{
		ID:             id,
		Name:           name,
		ContentType:    contentType,
		CreatedAt:      now,
		UpdatedAt:      now,
		VersionCount:   1,
		CurrentVersion: 1,
		Versions: []VersionRecord{
			{Version: 1, Timestamp: now, ChangeDescription: initialDescription},
		},
	}

	if err := os.WriteFile(s.payloadPath(id, 1, contentType), []byte(content), 0o644); err != nil {
		os.RemoveAll(docDir)
		s.logError(opCreate, "payload_write_failed", err, zap.String("document_id", id))
		return "", fmt.Errorf("%w: write payload: %v", ErrStorage, err)
	}
	if err := s.replaceMetadata(id, meta); err != nil {
		os.RemoveAll(docDir)
		s.logError(opCreate, "metadata_write_failed", err, zap.String("document_id", id))
		return "", err
	}

	return id, nil
}

// AppendVersion writes a new version of an existing document and makes it the
// current one. The payload is written before the metadata record is replaced;
// if the metadata replacement fails the payload is removed, so committed
// state is never left referencing a missing version.
func (s *Store) AppendVersion(id, content, changeDescription string) (int, error) {
	meta, err := s.readMetadata(id)
	if err != nil {
		return 0, err
	}

	next := meta.VersionCount + 1
	payload := s.payloadPath(id, next, meta.ContentType)
	if err := os.WriteFile(payload, []byte(content), 0o644); err != nil {
		s.logError(opAppend, "payload_write_failed", err, zap.String("document_id", id), zap.Int("version", next))
		return 0, fmt.Errorf("%w: write payload v%d: %v", ErrStorage, next, err)
	}

	now := s.clock().UTC()
	meta.VersionCount = next
	meta.CurrentVersion = next
	meta.UpdatedAt = now
	meta.Versions = append(meta.Versions, VersionRecord{
		Version:           next,
		Timestamp:         now,
		ChangeDescription: changeDescription,
	})

	if err := s.replaceMetadata(id, meta); err != nil {
		os.Remove(payload)
		s.logError(opAppend, "metadata_write_failed", err, zap.String("document_id", id), zap.Int("version", next))
		return 0, err
	}

	return next, nil
}

// Read returns the content of the requested version together with the
// document metadata. Version 0 selects the current version.
func (s *Store) Read(id string, version int) (string, Metadata, error) {
	meta, err := s.readMetadata(id)
	if err != nil {
		return "", Metadata{}, err
	}

	if version == 0 {
		version = meta.CurrentVersion
	}
	if version < 1 || version > meta.VersionCount {
		return "", Metadata{}, fmt.Errorf("%w: version %d of document %s (have 1..%d)",
			ErrVersionRange, version, id, meta.VersionCount)
	}

	data, err := os.ReadFile(s.payloadPath(id, version, meta.ContentType))
	if err != nil {
		// Metadata names a version whose payload cannot be read: that is
		// corruption, not absence.
		return "", Metadata{}, fmt.Errorf("%w: read payload v%d of %s: %v", ErrStorage, version, id, err)
	}

	return string(data), meta, nil
}

// History returns the ordered version records of a document.
func (s *Store) History(id string) ([]VersionRecord, error) {
	meta, err := s.readMetadata(id)
	if err != nil {
		return nil, err
	}
	records := make([]VersionRecord, len(meta.Versions))
	copy(records, meta.Versions)
	return records, nil
}

// List enumerates all documents with lightweight metadata. Enumeration order
// is the directory order of the storage root; callers sort as needed.
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("%w: read root: %v", ErrStorage, err)
	}

	summaries := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		metaPath := filepath.Join(s.root, entry.Name(), metadataFileName)
		data, err := os.ReadFile(metaPath)
		if os.IsNotExist(err) {
			// Not a document directory.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read metadata for %s: %v", ErrStorage, entry.Name(), err)
		}
		var meta Metadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("%w: parse metadata for %s: %v", ErrStorage, entry.Name(), err)
		}
		summaries = append(summaries, Summary{
			ID:             entry.Name(),
			Name:           meta.Name,
			ContentType:    meta.ContentType,
			UpdatedAt:      meta.UpdatedAt,
			VersionCount:   meta.VersionCount,
			CurrentVersion: meta.CurrentVersion,
		})
	}

	return summaries, nil
}

// Delete irreversibly removes a document and all of its versions.
func (s *Store) Delete(id string) error {
	docDir := s.documentDir(id)
	if _, err := os.Stat(docDir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		s.logError(opDelete, "stat_failed", err, zap.String("document_id", id))
		return fmt.Errorf("%w: stat %s: %v", ErrStorage, id, err)
	}
	if err := os.RemoveAll(docDir); err != nil {
		s.logError(opDelete, "remove_failed", err, zap.String("document_id", id))
		return fmt.Errorf("%w: remove %s: %v", ErrStorage, id, err)
	}
	return nil
}

// SetActiveVersion changes which version default reads return. It neither
// creates nor destroys version records.
func (s *Store) SetActiveVersion(id string, version int) error {
	meta, err := s.readMetadata(id)
	if err != nil {
		return err
	}
	if version < 1 || version > meta.VersionCount {
		return fmt.Errorf("%w: version %d of document %s (have 1..%d)",
			ErrVersionRange, version, id, meta.VersionCount)
	}

	meta.CurrentVersion = version
	meta.UpdatedAt = s.clock().UTC()

	if err := s.replaceMetadata(id, meta); err != nil {
		s.logError(opSetActive, "metadata_write_failed", err, zap.String("document_id", id), zap.Int("version", version))
		return err
	}
	return nil
}

// SetLineage records the branch origin of a document. It is called once,
// right after a branch document is created.
func (s *Store) SetLineage(id string, lineage Lineage) error {
	meta, err := s.readMetadata(id)
	if err != nil {
		return err
	}

	meta.Lineage = &lineage

	if err := s.replaceMetadata(id, meta); err != nil {
		s.logError(opSetLineage, "metadata_write_failed", err, zap.String("document_id", id))
		return err
	}
	return nil
}

func (s *Store) documentDir(id string) string {
	return filepath.Join(s.root, id)
}

func (s *Store) payloadPath(id string, version int, contentType string) string {
	return filepath.Join(s.documentDir(id), fmt.Sprintf("v%d.%s", version, contentType))
}

func (s *Store) readMetadata(id string) (Metadata, error) {
	docDir := s.documentDir(id)
	if _, err := os.Stat(docDir); err != nil {
		if os.IsNotExist(err) {
			return Metadata{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Metadata{}, fmt.Errorf("%w: stat %s: %v", ErrStorage, id, err)
	}

	data, err := os.ReadFile(filepath.Join(docDir, metadataFileName))
	if err != nil {
		// The directory exists without a readable record: corrupt state, not
		// an unknown document.
		return Metadata{}, fmt.Errorf("%w: read metadata for %s: %v", ErrStorage, id, err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, fmt.Errorf("%w: parse metadata for %s: %v", ErrStorage, id, err)
	}
	return meta, nil
}

// replaceMetadata writes the record to a temporary file and renames it over
// metadata.json, so a crash mid-write leaves the previous record intact.
func (s *Store) replaceMetadata(id string, meta Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal metadata for %s: %v", ErrStorage, id, err)
	}

	target := filepath.Join(s.documentDir(id), metadataFileName)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: write metadata for %s: %v", ErrStorage, id, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: replace metadata for %s: %v", ErrStorage, id, err)
	}
	return nil
}

func normalizeContentType(contentType string) string {
	contentType = strings.TrimPrefix(strings.TrimSpace(contentType), ".")
	if contentType == "" {
		return defaultContentType
	}
	return contentType
}

func (s *Store) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Error("document store error", attrs...)
}
