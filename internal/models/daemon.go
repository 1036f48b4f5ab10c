package models

import "time"

// DaemonInfo describes a running toodod process.
// This corresponds to ~/.config/toodo/daemon.yaml.
type DaemonInfo struct {
	Version    int       `yaml:"version"`
	InstanceID string    `yaml:"instance_id"`
	PID        int       `yaml:"pid"`
	TrayOwner  bool      `yaml:"tray_owner"`
	TodosDir   string    `yaml:"todos_dir"`
	StartedAt  time.Time `yaml:"started_at"`
}

// NewDaemonInfo creates a new daemon info with current values.
func NewDaemonInfo(instanceID string, pid int, trayOwner bool, todosDir string) *DaemonInfo {
	return &DaemonInfo{
		Version:    1,
		InstanceID: instanceID,
		PID:        pid,
		TrayOwner:  trayOwner,
		TodosDir:   todosDir,
		StartedAt:  time.Now().UTC(),
	}
}
