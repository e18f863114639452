// Package store persists per-profile layouts on top of a pluggable
// key-value backend.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bryantinsley/dashtailor/dashboard/pkg/config"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/layout"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/logging"
	"go.uber.org/zap"
)

// Key returns the storage key for a profile's layout.
func Key(p layout.Profile) string {
	return string(p) + "_layout"
}

// LayoutStore reads and writes layouts. Writes are last-write-wins.
type LayoutStore struct {
	kv  KV
	log *zap.Logger
}

// NewLayoutStore wraps a KV backend.
func NewLayoutStore(kv KV, log *zap.Logger) *LayoutStore {
	return &LayoutStore{kv: kv, log: logging.OrNop(log).Named("store")}
}

// KV exposes the backend, e.g. for a notifier sharing the same namespace.
func (s *LayoutStore) KV() KV {
	return s.kv
}

// Get returns the stored layout, or the profile defaults when nothing is
// stored, the record is corrupt, or the backend fails. Failures are logged
// and never surfaced.
func (s *LayoutStore) Get(ctx context.Context, p layout.Profile) layout.Layout {
	raw, ok, err := s.kv.Get(ctx, Key(p))
	if err != nil {
		s.log.Warn("read layout failed, using defaults", zap.String("profile", string(p)), zap.Error(err))
		return layout.DefaultLayout(p)
	}
	if !ok {
		return layout.DefaultLayout(p)
	}

	var l layout.Layout
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		s.log.Error("stored layout is corrupt, using defaults", zap.String("profile", string(p)), zap.Error(err))
		return layout.DefaultLayout(p)
	}
	l.Normalize()
	return l
}

// Set persists a layout for a profile, overwriting whatever was there.
func (s *LayoutStore) Set(ctx context.Context, p layout.Profile, l layout.Layout) error {
	l.Normalize()
	raw, err := marshalIndented(l)
	if err != nil {
		return fmt.Errorf("marshal %s layout: %w", p, err)
	}
	if err := s.kv.Set(ctx, Key(p), raw); err != nil {
		return fmt.Errorf("save %s layout: %w", p, err)
	}
	s.log.Debug("layout saved", zap.String("profile", string(p)), zap.Int("cards", len(l.Cards)))
	return nil
}

// InitializeDefaults writes the default layout for every profile that has
// nothing stored yet.
func (s *LayoutStore) InitializeDefaults(ctx context.Context) error {
	for _, p := range layout.Profiles() {
		_, ok, err := s.kv.Get(ctx, Key(p))
		if err != nil {
			return fmt.Errorf("check %s layout: %w", p, err)
		}
		if ok {
			continue
		}
		if err := s.Set(ctx, p, layout.DefaultLayout(p)); err != nil {
			return err
		}
		s.log.Info("initialized default layout", zap.String("profile", string(p)))
	}
	return nil
}

// Open builds the backend selected in the configuration. The closer releases
// backend resources and is never nil.
func Open(cfg *config.Config) (KV, io.Closer, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return NewMemoryKV(), nopCloser{}, nil
	case config.BackendFile, "":
		kv, err := NewFileKV(cfg.StoragePath())
		if err != nil {
			return nil, nil, err
		}
		return kv, nopCloser{}, nil
	case config.BackendSQLite:
		kv, err := OpenSQLite(cfg.StoragePath())
		if err != nil {
			return nil, nil, err
		}
		return kv, kv, nil
	case config.BackendS3:
		s3cfg := cfg.Storage.S3
		kv, err := OpenS3(s3cfg.Bucket, s3cfg.Prefix, s3cfg.Region)
		if err != nil {
			return nil, nil, err
		}
		return kv, nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
