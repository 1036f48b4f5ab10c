package config

import (
	"errors"
	"io/fs"
	"os"
	"syscall"

	"github.com/toodo-app/toodo/internal/models"
)

// daemon.yaml records the one toodod process that owns the tray. Other
// daemons serve MCP without registering, and an owner only ever removes its
// own record.

func readDaemonInfo() (string, *models.DaemonInfo, error) {
	path, err := GlobalDaemonFile()
	if err != nil {
		return "", nil, err
	}
	if !FileExists(path) {
		return path, nil, nil
	}
	var info models.DaemonInfo
	if err := LoadYAML(path, &info); err != nil {
		return path, nil, err
	}
	return path, &info, nil
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}

// LiveDaemon returns the registered daemon if its process is still alive.
// A record left behind by a dead process is removed and nil is returned.
func LiveDaemon() (*models.DaemonInfo, error) {
	path, info, err := readDaemonInfo()
	if err != nil || info == nil {
		return nil, err
	}
	if !processAlive(info.PID) {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, nil
	}
	return info, nil
}

// ClaimDaemon registers info as the owning daemon unless a live daemon is
// already registered. It returns the live owner when the claim fails.
func ClaimDaemon(info *models.DaemonInfo) (owner *models.DaemonInfo, claimed bool, err error) {
	owner, err = LiveDaemon()
	if err != nil {
		return nil, false, err
	}
	if owner != nil && owner.InstanceID != info.InstanceID {
		return owner, false, nil
	}

	if err := EnsureGlobalDir(); err != nil {
		return nil, false, err
	}
	path, err := GlobalDaemonFile()
	if err != nil {
		return nil, false, err
	}
	if err := SaveYAML(path, info); err != nil {
		return nil, false, err
	}
	return info, true, nil
}

// ReleaseDaemon removes daemon.yaml if it still belongs to instanceID, so a
// daemon exiting late cannot erase a newer owner's record.
func ReleaseDaemon(instanceID string) error {
	path, info, err := readDaemonInfo()
	if err != nil || info == nil || info.InstanceID != instanceID {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
