package main

import (
	"fmt"
	"os"

	"github.com/gerunddev/notionmd/internal/commands"
	"github.com/gerunddev/notionmd/internal/config"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "export":
		commands.Export(os.Args[2:])
	case "preview":
		commands.Preview(os.Args[2:])
	case "watch":
		commands.Watch(os.Args[2:])
	case "stop":
		commands.Stop()
	case "browse", "pages":
		commands.Browse()
	case "status":
		commands.Status()
	case "init":
		commands.Init(os.Args[2:])
	case "install":
		commands.Install()
	case "uninstall":
		commands.Uninstall()
	case "version", "-v", "--version":
		fmt.Printf("notionmd v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	usage := fmt.Sprintf(`notionmd - Export Notion pages to Markdown

Usage:
  notionmd <command> [options]

Commands:
  export      Export pages (use --dry-run to preview changes)
  preview     Render a page in the terminal without writing it
  watch       Re-export the watched pages on an interval
  stop        Stop a background watcher
  browse      Browse exported pages
  status      Display export state
  init        Write a default config file
  install     Generate a user service running a headless watcher
  uninstall   Remove the user service
  version     Show version information
  help        Show this help message

Options:
  export <page-id>... [--dry-run] [--force] [--format md|html]
  preview <page-id> [--raw] [--width N]
  watch [page-id...] [--interval 5m] [--headless | --detach]
  init [page-id...] [--token T] [--output DIR] [--format md|html] [--force]

Examples:
  notionmd init --output ~/notes/notion 8c2f1e0a3d4b4e5f9a6b7c8d9e0f1a2b
  notionmd export
  notionmd export https://www.notion.so/My-page-8c2f1e0a3d4b4e5f9a6b7c8d9e0f1a2b
  notionmd export --dry-run
  notionmd preview 8c2f1e0a3d4b4e5f9a6b7c8d9e0f1a2b
  notionmd watch --interval 10m
  notionmd watch --detach
  notionmd stop
  notionmd browse

Configuration:
  Config file: %s
  State file:  %s
  Token:       $%s overrides the config file

For more information, visit: https://github.com/gerunddev/notionmd
`, config.ConfigPath(), config.StateFilePath(), config.TokenEnv)
	fmt.Print(usage)
}
