package persist

import (
	"context"
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const snapshotObject = "snapshots"

// LocalStore keeps one YAML-encoded snapshot per scene in the platform's
// per-user application data directory.
type LocalStore struct {
	m *gdata.Manager
}

func OpenLocalStore(appName string) (*LocalStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open local store %s: %w", appName, err)
	}
	return &LocalStore{m: m}, nil
}

func (s *LocalStore) Save(_ context.Context, snap *Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.m.SaveObjectProp(snapshotObject, snap.Scene, data); err != nil {
		return fmt.Errorf("save snapshot %s: %w", snap.Scene, err)
	}
	return nil
}

func (s *LocalStore) Load(_ context.Context, scene string) (*Snapshot, error) {
	if !s.m.ObjectPropExists(snapshotObject, scene) {
		return nil, nil
	}
	data, err := s.m.LoadObjectProp(snapshotObject, scene)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", scene, err)
	}
	snap := &Snapshot{}
	if err := yaml.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", scene, err)
	}
	return snap, nil
}

func (s *LocalStore) Close() {}
