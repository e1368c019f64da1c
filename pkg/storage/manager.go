package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shashiranjanraj/catalogapi/config"
)

// Config selects and configures the disks a Manager boots.
type Config struct {
	Default string

	LocalRoot string
	LocalURL  string

	S3Bucket   string
	S3Region   string
	S3Key      string
	S3Secret   string
	S3Endpoint string
	S3URL      string
}

// FromEnv reads the STORAGE_* and S3_* settings.
func FromEnv() Config {
	return Config{
		Default:    config.StorageDefault(),
		LocalRoot:  config.StorageLocalRoot(),
		LocalURL:   config.StorageURL(),
		S3Bucket:   config.StorageS3Bucket(),
		S3Region:   config.StorageS3Region(),
		S3Key:      config.StorageS3Key(),
		S3Secret:   config.StorageS3Secret(),
		S3Endpoint: config.StorageS3Endpoint(),
		S3URL:      config.StorageS3URL(),
	}
}

// Manager holds the configured disks by name.
type Manager struct {
	mu          sync.RWMutex
	disks       map[string]Disk
	defaultDisk string
}

// New always boots the local disk. The s3 disk is booted only when a bucket
// is configured.
func New(ctx context.Context, cfg Config) (*Manager, error) {
	local, err := NewLocal(cfg.LocalRoot, cfg.LocalURL)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		disks:       map[string]Disk{"local": local},
		defaultDisk: cfg.Default,
	}
	if m.defaultDisk == "" {
		m.defaultDisk = "local"
	}

	if cfg.S3Bucket != "" {
		d, err := NewS3(ctx, cfg)
		if err != nil {
			return nil, err
		}
		m.disks["s3"] = d
	}

	if _, ok := m.disks[m.defaultDisk]; !ok {
		return nil, fmt.Errorf("storage: default disk %q is not configured", m.defaultDisk)
	}
	return m, nil
}

// Disk returns the named disk, or the default disk when name is empty.
func (m *Manager) Disk(name string) (Disk, error) {
	if name == "" {
		name = m.defaultDisk
	}

	m.mu.RLock()
	d, ok := m.disks[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Register adds or replaces a disk.
func (m *Manager) Register(name string, d Disk) {
	m.mu.Lock()
	m.disks[name] = d
	m.mu.Unlock()
}

// Names lists the configured disks.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.disks))
	for name := range m.disks {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
