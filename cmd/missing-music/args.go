package main

import (
	"fmt"
	"os"
	"strconv"

	"missingmusic/internal/config"
)

// parseArgs parses command-line arguments and loads configuration.
// Priority: CLI flags > environment > config file > defaults
func parseArgs(args []string) (config.Config, string, error) {
	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			printUsage()
			os.Exit(0)
		}
		if arg == "--init-config" {
			return config.Config{}, "", initConfigFile()
		}
	}

	var configPath string
	for i := 0; i < len(args); i++ {
		if args[i] == "--config" || args[i] == "-c" {
			if i+1 >= len(args) {
				return config.Config{}, "", fmt.Errorf("--config requires a path argument")
			}
			configPath = args[i+1]
			break
		}
	}

	cfg, err := config.LoadConfigFile(configPath)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("failed to load config: %w", err)
	}
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	value := func(i int, flag, what string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s requires %s", flag, what)
		}
		return args[i+1], nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--verbose", "-v":
			cfg.Verbose = true

		case "--literal-query":
			cfg.LiteralQuery = true

		case "--artist", "-a":
			v, err := value(i, arg, "an artist name")
			if err != nil {
				return config.Config{}, "", err
			}
			cfg.Artist = v
			i++

		case "--album", "-A":
			v, err := value(i, arg, "an album title")
			if err != nil {
				return config.Config{}, "", err
			}
			cfg.Album = v
			i++

		case "--parallel", "-p":
			v, err := value(i, arg, "a number argument")
			if err != nil {
				return config.Config{}, "", err
			}
			jobs, err := strconv.Atoi(v)
			if err != nil {
				return config.Config{}, "", fmt.Errorf("invalid parallel jobs value: %s", v)
			}
			cfg.ParallelJobs = jobs
			i++

		case "--missing-file", "-o":
			v, err := value(i, arg, "a path argument")
			if err != nil {
				return config.Config{}, "", err
			}
			cfg.MissingFile = config.ExpandHome(v)
			i++

		case "--config", "-c":
			i++

		default:
			if len(arg) > 0 && arg[0] == '-' {
				return config.Config{}, "", fmt.Errorf("unknown flag: %s", arg)
			}
			cfg.MusicDir = config.ExpandHome(arg)
		}
	}

	return cfg, configPath, nil
}

// initConfigFile creates a new config file with default values
func initConfigFile() error {
	path := config.GetDefaultConfigPath()

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config file already exists at: %s\n", path)
		fmt.Println("Delete it first if you want to recreate it.")
		os.Exit(0)
	}

	if err := config.SaveConfigFile(config.DefaultConfig(), path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Printf("Created default config file at: %s\n", path)
	fmt.Println("\nSet contact_email before use: MusicBrainz asks every client to identify itself.")
	fmt.Println("Available options:")
	fmt.Println("  music_dir: folder with one subfolder per album")
	fmt.Println("  parallel_jobs: 1-10 (concurrent album lookups)")
	fmt.Println("  match_threshold: 0.0-1.0 (how closely a local title must match)")
	fmt.Println("  missing_file: append missing tracks to this file")
	fmt.Println("  request_timeout: e.g. 10s")

	os.Exit(0)
	return nil
}

func printUsage() {
	fmt.Println("missing-music - Find tracks missing from your local albums using MusicBrainz")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  missing-music [options] [music_dir]")
	fmt.Println("  missing-music --artist <name> --album <title>")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -a, --artist <name>         Artist for a single lookup")
	fmt.Println("  -A, --album <title>         Album for a single lookup")
	fmt.Println("  -p, --parallel <n>          Concurrent album lookups (1-10, default: 2)")
	fmt.Println("  -o, --missing-file <path>   Append \"Artist - Track\" lines for missing tracks")
	fmt.Println("      --literal-query         Do not escape quotes in artist/album")
	fmt.Println("  -c, --config <path>         Path to config file")
	fmt.Println("  -v, --verbose               Show detailed output")
	fmt.Println("  -h, --help                  Show this help message")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("  --init-config               Create a default config file")
	fmt.Println()
	fmt.Println("Config file locations (checked in order):")
	fmt.Println("  ./missing-music.yaml")
	fmt.Println("  ~/.config/missing-music/config.yaml")
	fmt.Println("  ~/.missing-music.yaml")
	fmt.Println("Environment (also read from ./.env): MISSING_MUSIC_MUSIC_DIR, MISSING_MUSIC_CONTACT_EMAIL, ...")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  missing-music --artist Radiohead --album \"OK Computer\"")
	fmt.Println("  missing-music -p 4 -o ~/Music/missing_songs.txt ~/Music")
}
