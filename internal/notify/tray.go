package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/minaretapp/minaret/internal/constants"
	"github.com/minaretapp/minaret/internal/models"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// TrayDelivery delivers reminders through the local tray companion app, which
// owns the OS-level notification timers. Discovery goes through the tray's
// lockfile (port|pid|secret), validated against the running process.
type TrayDelivery struct{}

type trayPayload struct {
	Action      string   `json:"action"` // "schedule" or "cancel"
	Identifier  string   `json:"identifier,omitempty"`
	Identifiers []string `json:"identifiers,omitempty"`
	FireAt      string   `json:"fire_at,omitempty"` // RFC3339
	Text        string   `json:"text,omitempty"`
	DurationMs  uint32   `json:"duration_ms,omitempty"`
}

// NewTrayDelivery returns a delivery backed by the tray companion.
func NewTrayDelivery() *TrayDelivery {
	return &TrayDelivery{}
}

// Available reports whether the tray companion is running and reachable.
// This is the local analogue of a notification permission query.
func (d *TrayDelivery) Available() bool {
	configDir, err := trayConfigDir()
	if err != nil {
		return false
	}
	_, _, err = findAndValidateTrayProcess(filepath.Join(configDir, constants.NotifierLockfileName))
	return err == nil
}

// Schedule registers one calendar-triggered reminder with the tray.
func (d *TrayDelivery) Schedule(req models.NotificationRequest) error {
	return d.post(trayPayload{
		Action:     "schedule",
		Identifier: req.Identifier,
		FireAt:     req.FireAt.Format(time.RFC3339),
		Text:       req.Body,
		DurationMs: constants.NotificationDurationMs,
	})
}

// Cancel removes the given reminder identifiers from the tray.
func (d *TrayDelivery) Cancel(identifiers []string) error {
	if len(identifiers) == 0 {
		return nil
	}
	return d.post(trayPayload{
		Action:      "cancel",
		Identifiers: identifiers,
	})
}

func (d *TrayDelivery) post(payload trayPayload) error {
	configDir, err := trayConfigDir()
	if err != nil {
		return err
	}

	port, secret, err := findAndValidateTrayProcess(filepath.Join(configDir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", fmt.Sprintf("http://127.0.0.1:%s", port), bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Minaret-Secret", secret)

	client := &http.Client{Timeout: 5 * time.Second}
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("tray request failed with status %d: %s", res.StatusCode, string(body))
}

// trayConfigDir returns the configuration directory used by the tray app,
// honoring a custom lockfile dir from its settings.json when present.
func trayConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	settingsPath := filepath.Join(trayDir, "settings.json")
	if _, err := os.Stat(settingsPath); err == nil {
		data, err := os.ReadFile(settingsPath)
		if err == nil {
			var store struct {
				Settings struct {
					LockfileDir *string `json:"lockfile_dir"`
				} `json:"settings"`
			}
			if err := json.Unmarshal(data, &store); err == nil {
				if store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
					return *store.Settings.LockfileDir, nil
				}
			}
		}
	}

	return trayDir, nil
}

func findAndValidateTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", errors.New("minaret tray is not running")
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := parts[0]
	if strings.TrimSpace(port) == "" {
		return "", "", errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", errors.New("minaret tray process not running")
	}

	if !strings.HasPrefix(process.Executable(), "minaret-tray") {
		return "", "", fmt.Errorf("process with PID %d is not minaret-tray (is %s)", pid, process.Executable())
	}

	return port, secret, nil
}
