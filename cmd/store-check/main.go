package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	sharedconfig "github.com/tlou-esports/te-suggestions/src/config"
	"github.com/tlou-esports/te-suggestions/src/data"
	"github.com/tlou-esports/te-suggestions/src/suggestions"
)

var (
	fileFlag    = flag.String("file", "", "Suggestions JSON file (default: configured suggestions_file)")
	redisFlag   = flag.String("redis", "", "Read the document from this Redis URL instead of a file")
	keyFlag     = flag.String("key", suggestions.DefaultRedisKey, "Redis key holding the document")
	jsonFlag    = flag.Bool("json", false, "Print violations as JSON")
	timeoutFlag = flag.Duration("timeout", 10*time.Second, "Timeout for loading the document")
)

func main() {
	log.SetFlags(0)
	flag.Parse()
	sharedconfig.LoadEnv()

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	store, source, err := openStore(ctx)
	if err != nil {
		log.Fatalf("store-check: %v", err)
	}
	doc, err := store.Load(ctx)
	if err != nil {
		log.Fatalf("store-check: load %s: %v", source, err)
	}

	violations := suggestions.Check(doc)
	if err := report(os.Stdout, source, doc, violations, *jsonFlag); err != nil {
		log.Fatalf("store-check: %v", err)
	}
	if len(violations) > 0 {
		os.Exit(1)
	}
}

func openStore(ctx context.Context) (suggestions.Store, string, error) {
	if *redisFlag != "" {
		rdb, err := data.ConnectRedis(ctx, *redisFlag)
		if err != nil {
			return nil, "", err
		}
		return suggestions.NewRedisStore(rdb, *keyFlag), "redis key " + *keyFlag, nil
	}
	path := *fileFlag
	if path == "" {
		path = sharedconfig.LoadStoreConfig().File
	}
	if _, err := os.Stat(path); err != nil {
		// Loading a missing file would create it.
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return suggestions.NewFileStore(path), path, nil
}

func report(w io.Writer, source string, doc *suggestions.Document, violations []suggestions.Violation, asJSON bool) error {
	if asJSON {
		if violations == nil {
			violations = []suggestions.Violation{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"source":      source,
			"suggestions": len(doc.Suggestions),
			"last_id":     doc.LastID,
			"violations":  violations,
		})
	}
	fmt.Fprintf(w, "%s: %d suggestion(s), last_id %d\n", source, len(doc.Suggestions), doc.LastID)
	for _, v := range violations {
		fmt.Fprintf(w, "  %s\n", v)
	}
	if len(violations) == 0 {
		fmt.Fprintln(w, "OK")
	} else {
		fmt.Fprintf(w, "%d violation(s)\n", len(violations))
	}
	return nil
}
