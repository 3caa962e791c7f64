package commands

import (
	"fmt"
	"os"

	"github.com/gerunddev/notionmd/internal/config"
	"github.com/gerunddev/notionmd/internal/styles"
)

// Init writes a default configuration file
func Init(args []string) {
	a, err := parseArgs(args, "--token", "--output", "--format")
	if err != nil {
		fail("Invalid arguments", err)
	}

	path := config.ConfigPath()
	if _, err := os.Stat(path); err == nil && !a.has("--force") {
		fail("Config already exists at "+path, fmt.Errorf("use --force to overwrite"))
	}

	cfg := config.DefaultConfig()
	cfg.Token = a.value("--token")
	cfg.Pages = append(cfg.Pages, a.positional...)
	if v := a.value("--output"); v != "" {
		cfg.OutputDir = v
	}
	if v := a.value("--format"); v != "" {
		cfg.Format = normalizeFormat(v)
	}
	if err := cfg.Validate(); err != nil {
		fail("Invalid configuration", err)
	}
	if err := cfg.ExpandPaths(); err != nil {
		fail("Invalid configuration", err)
	}

	if err := cfg.Save(); err != nil {
		fail("Error writing config", err)
	}

	fmt.Println(styles.SuccessStyle.Render("✓ Wrote " + path))
	if cfg.Token == "" {
		fmt.Println(styles.DimStyle.Render(fmt.Sprintf("  Set %s or add \"token\" to the file before exporting", config.TokenEnv)))
	}
}
