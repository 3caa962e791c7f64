package commands

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/gerunddev/notionmd/internal/styles"
)

const (
	launchdLabel = "com.gerunddev.notionmd"
	systemdUnit  = "notionmd.service"
)

// servicePath returns where the service file lives on goos
func servicePath(goos, home string) (string, error) {
	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "LaunchAgents", launchdLabel+".plist"), nil
	case "linux":
		return filepath.Join(home, ".config", "systemd", "user", systemdUnit), nil
	default:
		return "", fmt.Errorf("unsupported operating system: %s (supported: darwin, linux)", goos)
	}
}

// serviceFile renders a service definition that runs a headless watcher
func serviceFile(goos, execPath string) string {
	if goos == "darwin" {
		return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
		<string>watch</string>
		<string>--headless</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<true/>
	<key>StandardOutPath</key>
	<string>/tmp/notionmd.out.log</string>
	<key>StandardErrorPath</key>
	<string>/tmp/notionmd.err.log</string>
</dict>
</plist>
`, launchdLabel, execPath)
	}

	return fmt.Sprintf(`[Unit]
Description=notionmd - export Notion pages to Markdown
After=network-online.target

[Service]
Type=simple
ExecStart=%s watch --headless
Restart=always
RestartSec=10

[Install]
WantedBy=default.target
`, execPath)
}

// Install generates a user service file that keeps a watcher running
func Install() {
	fmt.Println(styles.TitleStyle.Render("notionmd Install"))
	fmt.Println()

	home, err := os.UserHomeDir()
	if err != nil {
		fail("Failed to get home directory", err)
	}
	execPath, err := os.Executable()
	if err != nil {
		fail("Failed to get executable path", err)
	}

	path, err := servicePath(runtime.GOOS, home)
	if err != nil {
		fail("Cannot install service", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		fail("Failed to create service directory", err)
	}
	if err := os.WriteFile(path, []byte(serviceFile(runtime.GOOS, execPath)), 0644); err != nil {
		fail("Failed to write service file", err)
	}

	fmt.Println(styles.SuccessStyle.Render("✓ Service file created: " + path))
	fmt.Println()
	fmt.Println("To enable the service:")
	if runtime.GOOS == "darwin" {
		fmt.Println(styles.DimStyle.Render("  launchctl load " + path))
	} else {
		fmt.Println(styles.DimStyle.Render("  systemctl --user daemon-reload"))
		fmt.Println(styles.DimStyle.Render("  systemctl --user enable --now " + systemdUnit))
	}
}

// Uninstall stops the service and removes its file
func Uninstall() {
	fmt.Println(styles.TitleStyle.Render("notionmd Uninstall"))
	fmt.Println()

	home, err := os.UserHomeDir()
	if err != nil {
		fail("Failed to get home directory", err)
	}
	path, err := servicePath(runtime.GOOS, home)
	if err != nil {
		fail("Cannot uninstall service", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println(styles.WarningStyle.Render("⚠ Service file not found: " + path))
		fmt.Println("Nothing to uninstall.")
		return
	}

	var stop [][]string
	if runtime.GOOS == "darwin" {
		stop = [][]string{{"launchctl", "unload", path}}
	} else {
		stop = [][]string{
			{"systemctl", "--user", "stop", systemdUnit},
			{"systemctl", "--user", "disable", systemdUnit},
		}
	}
	for _, c := range stop {
		if err := exec.Command(c[0], c[1:]...).Run(); err != nil {
			fmt.Println(styles.WarningStyle.Render(fmt.Sprintf("⚠ %s %s failed (service may not be running): %v", c[0], c[len(c)-2], err)))
		}
	}

	if err := os.Remove(path); err != nil {
		fail("Failed to remove service file", err)
	}
	if runtime.GOOS == "linux" {
		if err := exec.Command("systemctl", "--user", "daemon-reload").Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to reload systemd: %v\n", err)
		}
	}

	fmt.Println(styles.SuccessStyle.Render("✓ Service file removed: " + path))
}
