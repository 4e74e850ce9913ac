package conf

import (
	"flag"
	"fmt"
	"os"

	"github.com/MG-RAST/golib/goconfig/config"
)

// Setup conf variables
var (
	// Config File
	CONFIG_FILE = ""

	// Input streams (comma separated, first one is the primary stream)
	INPUT = ""

	// Directories
	OUTPUT_PATH = "."
	LOGS_PATH   = ""

	// Registry dump
	REGISTRY_PATH = ""

	// Corpus
	SKIP_SEQUENCE_IDS    = false
	NUMERIC_SEQUENCE_IDS = false
	STREAM_PREFIX        = "|"

	// Indexer
	CHUNK_SIZE  = int64(33554432)
	BUFFER_SIZE = 2097152

	// Logs
	LOG_ROTATE = true
)

func Initialize() {
	flag.StringVar(&CONFIG_FILE, "conf", "", "path to config file")
	flag.StringVar(&INPUT, "input", "", "comma separated input files, first one is the primary stream")
	flag.StringVar(&OUTPUT_PATH, "output-dir", ".", "directory for index output")
	flag.StringVar(&LOGS_PATH, "logs", "", "directory for log files, console logging when unset")
	flag.StringVar(&REGISTRY_PATH, "registry", "", "path to save the shared key registry")
	flag.BoolVar(&SKIP_SEQUENCE_IDS, "skip-ids", false, "treat every line as its own sequence")
	flag.BoolVar(&NUMERIC_SEQUENCE_IDS, "numeric-ids", false, "sequence ids are decimal numbers")
	flag.StringVar(&STREAM_PREFIX, "prefix", "|", "reserved no-sequence-id prefix byte")
	flag.Int64Var(&CHUNK_SIZE, "chunk-size", CHUNK_SIZE, "index chunk byte budget")
	flag.IntVar(&BUFFER_SIZE, "buffer-size", BUFFER_SIZE, "scan buffer capacity in bytes")
	flag.BoolVar(&LOG_ROTATE, "log-rotate", true, "rotate logs daily")
	flag.Parse()

	if CONFIG_FILE != "" {
		c, err := config.ReadDefault(CONFIG_FILE)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: error reading conf file: %v\n", err)
			os.Exit(1)
		}

		// Corpus
		if v, err := c.Bool("Corpus", "skip-ids"); err == nil {
			SKIP_SEQUENCE_IDS = v
		}
		if v, err := c.Bool("Corpus", "numeric-ids"); err == nil {
			NUMERIC_SEQUENCE_IDS = v
		}
		if v, err := c.String("Corpus", "prefix"); err == nil {
			STREAM_PREFIX = v
		}

		// Indexer
		if v, err := c.Int("Indexer", "chunk-size"); err == nil {
			CHUNK_SIZE = int64(v)
		}
		if v, err := c.Int("Indexer", "buffer-size"); err == nil {
			BUFFER_SIZE = v
		}

		// Directories
		if v, err := c.String("Directories", "output"); err == nil {
			OUTPUT_PATH = v
		}
		if v, err := c.String("Directories", "logs"); err == nil {
			LOGS_PATH = v
		}
		if v, err := c.String("Directories", "registry"); err == nil {
			REGISTRY_PATH = v
		}
	}

	if len(STREAM_PREFIX) != 1 {
		fmt.Fprintln(os.Stderr, "ERROR: prefix must be a single byte")
		os.Exit(1)
	}
	if CHUNK_SIZE <= 0 || BUFFER_SIZE <= 0 {
		fmt.Fprintln(os.Stderr, "ERROR: chunk-size and buffer-size must be positive")
		os.Exit(1)
	}
}
