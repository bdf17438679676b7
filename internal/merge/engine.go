package merge

import (
	"errors"
	"fmt"

	"github.com/manuscriptlabs/manuscript/internal/store"
	"go.uber.org/zap"
)

var (
	errMissingStore = errors.New("merge: version store is required")
	noOpLogger      = zap.NewNop()
)

const (
	opCreateBranch = "merge.create_branch"
	opMerge        = "merge.merge"
)

// EngineConfig carries the dependencies for an Engine.
type EngineConfig struct {
	Store  *store.Store
	Logger *zap.Logger
}

// Engine implements branching and merging on top of the version store. All
// content reads and writes go through the store; the engine itself holds no
// document state.
type Engine struct {
	store  *store.Store
	logger *zap.Logger
}

// NewEngine validates the configuration and returns a ready Engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Store == nil {
		return nil, errMissingStore
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Engine{store: cfg.Store, logger: logger}, nil
}

// CreateBranch creates a new document whose version 1 is a copy of the source
// document at fromVersion (0 means current) and records the branch lineage.
// The branch evolves independently afterwards.
func (e *Engine) CreateBranch(id, branchName string, fromVersion int) (string, error) {
	content, meta, err := e.store.Read(id, fromVersion)
	if err != nil {
		return "", err
	}
	if fromVersion == 0 {
		fromVersion = meta.CurrentVersion
	}

	branchID, err := e.store.Create(content, fmt.Sprintf("%s - %s", meta.Name, branchName), meta.ContentType)
	if err != nil {
		e.logError(opCreateBranch, "create_failed", err, zap.String("source_id", id))
		return "", err
	}

	lineage := store.Lineage{
		SourceID:      id,
		SourceVersion: fromVersion,
		SourceName:    meta.Name,
	}
	if err := e.store.SetLineage(branchID, lineage); err != nil {
		e.logError(opCreateBranch, "lineage_write_failed", err,
			zap.String("source_id", id), zap.String("branch_id", branchID))
		return "", err
	}

	e.logger.Info("branch created",
		zap.String("source_id", id),
		zap.Int("source_version", fromVersion),
		zap.String("branch_id", branchID))

	return branchID, nil
}

func (e *Engine) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	e.logger.Error("merge engine error", attrs...)
}
