// Package main provides the search command: it builds the search indexes from
// a catalog or a folder scan and runs queries against them.
//
// Usage:
//
//	search [config flags] <command> [command flags]
//
// Commands:
//
//	index  -catalog FILE [-rebuild]      index a YAML catalog
//	scan   [-out FILE] [-index]          scan the configured music folders
//	query  -type TYPE [-phrase] TEXT     free-text search
//	upnp   CRITERIA                      UPnP search criteria
//	random [-genre G] [-from Y] [-to Y]  random songs
//	watch  [-quiet D]                    rescan and reindex when folders change
//	stats                                document counts per index
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	"github.com/listenupapp/listenup-search/internal/catalog"
	"github.com/listenupapp/listenup-search/internal/config"
	"github.com/listenupapp/listenup-search/internal/di"
	"github.com/listenupapp/listenup-search/internal/domain"
	"github.com/listenupapp/listenup-search/internal/logger"
	"github.com/listenupapp/listenup-search/internal/scanner"
	"github.com/listenupapp/listenup-search/internal/search"
	"github.com/listenupapp/listenup-search/internal/service"
	"github.com/listenupapp/listenup-search/internal/watcher"
)

type app struct {
	cfg     *config.Config
	log     *logger.Logger
	search  *service.SearchService
	scanner *scanner.Scanner
}

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"index":  runIndex,
	"scan":   runScan,
	"query":  runQuery,
	"upnp":   runUPnP,
	"random": runRandom,
	"watch":  runWatch,
	"stats":  runStats,
}

func main() {
	injector := di.NewContainer(os.Args[1:])

	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}

	a := &app{
		cfg:     do.MustInvoke[*config.Config](injector),
		log:     do.MustInvoke[*logger.Logger](injector),
		search:  do.MustInvoke[*service.SearchService](injector),
		scanner: do.MustInvoke[*scanner.Scanner](injector),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := dispatch(ctx, a)
	stop()

	// Closes the search indexes.
	if shutdownErr := injector.Shutdown(); shutdownErr != nil {
		a.log.Error("Shutdown error", "error", shutdownErr)
	}

	if err != nil {
		a.log.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func dispatch(ctx context.Context, a *app) error {
	if len(a.cfg.Args) == 0 {
		return fmt.Errorf("no command given (index, scan, query, upnp, random, watch, stats)")
	}
	name, args := a.cfg.Args[0], a.cfg.Args[1:]
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	return cmd(ctx, a, args)
}

func runIndex(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("index", flag.ContinueOnError)
	catalogPath := fs.String("catalog", "", "YAML catalog to index")
	rebuild := fs.Bool("rebuild", false, "Drop the indexes before indexing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *catalogPath == "" {
		return fmt.Errorf("index: -catalog is required")
	}

	c, err := catalog.Load(*catalogPath)
	if err != nil {
		return err
	}
	return a.indexCatalog(ctx, c, *rebuild)
}

func (a *app) indexCatalog(ctx context.Context, c *catalog.Catalog, rebuild bool) error {
	if rebuild {
		return a.search.ReindexAll(ctx, c)
	}
	_, err := a.search.IndexCatalog(ctx, c)
	return err
}

func runScan(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	out := fs.String("out", "", "Write the scanned catalog to this YAML file")
	index := fs.Bool("index", false, "Rebuild the indexes from the scan")
	workers := fs.Int("workers", 0, "Tag reading workers (default: number of CPUs)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(a.cfg.Folders) == 0 {
		return fmt.Errorf("scan: no music folders configured (set FOLDERS_FILE)")
	}

	c, err := a.scan(ctx, *workers)
	if err != nil {
		return err
	}

	if *out != "" {
		if err := c.Save(*out); err != nil {
			return err
		}
	}
	if *index {
		return a.indexCatalog(ctx, c, true)
	}
	return nil
}

func (a *app) scan(ctx context.Context, workers int) (*catalog.Catalog, error) {
	c, err := a.scanner.Scan(ctx, a.cfg.Folders, scanner.ScanOptions{Workers: workers})
	if err != nil {
		return nil, err
	}
	a.log.Info("scan complete", "songs", len(c.Songs), "albums", len(c.AlbumDirs), "artists", len(c.ArtistDirs))
	return c, nil
}

func runWatch(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	quiet := fs.Duration("quiet", 2*time.Second, "Wait this long after the last change before reindexing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	folders := a.cfg.EnabledFolders()
	if len(folders) == 0 {
		return fmt.Errorf("watch: no music folders configured (set FOLDERS_FILE)")
	}

	w, err := watcher.New(a.log.Component("watcher"), watcher.Options{Quiet: *quiet, Match: scanner.IsMediaFile})
	if err != nil {
		return err
	}
	for _, f := range folders {
		if err := w.Watch(f.Path); err != nil {
			return fmt.Errorf("watch %s: %w", f.Path, err)
		}
	}

	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	a.log.Info("watching music folders", "folders", len(folders))
	for batch := range w.Batches() {
		a.log.Info("music folders changed, reindexing", "paths", len(batch.Paths))
		c, err := a.scan(ctx, 0)
		if err != nil {
			a.log.Error("rescan failed", "error", err)
			continue
		}
		if err := a.search.ReindexAll(ctx, c); err != nil {
			a.log.Error("reindex failed", "error", err)
		}
	}
	return <-errc
}

// pageFlags registers the paging flags shared by the query commands.
func pageFlags(fs *flag.FlagSet) (offset, count *int) {
	offset = fs.Int("offset", 0, "Index of the first hit")
	count = fs.Int("count", 20, "Hits per page")
	return offset, count
}

func runQuery(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	typeName := fs.String("type", "SONG", "Index type (ARTIST, ARTIST_ID3, ALBUM, ALBUM_ID3, SONG, GENRE)")
	phrase := fs.Bool("phrase", false, "Match the text as one phrase")
	composer := fs.Bool("composer", false, "Also search composer fields")
	offset, count := pageFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	t, ok := search.ParseIndexType(*typeName)
	if !ok {
		return fmt.Errorf("query: unknown index type %q", *typeName)
	}
	criteria := domain.SearchCriteria{
		Query:           strings.Join(fs.Args(), " "),
		Offset:          *offset,
		Count:           *count,
		IncludeComposer: *composer,
		Folders:         a.cfg.EnabledFolders(),
	}

	var result *domain.SearchResult
	var err error
	if *phrase {
		result, err = a.search.SearchByPhrase(ctx, criteria, t)
	} else {
		result, err = a.search.Search(ctx, criteria, t)
	}
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runUPnP(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("upnp", flag.ContinueOnError)
	offset, count := pageFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	criteria, result, err := a.search.UPnPSearch(ctx, strings.Join(fs.Args(), " "), *offset, *count, a.cfg.EnabledFolders())
	if err != nil {
		return err
	}
	a.log.Debug("upnp criteria resolved", "type", criteria.Type.String(), "query", criteria.Query.String())
	return printJSON(result)
}

func runRandom(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("random", flag.ContinueOnError)
	genre := fs.String("genre", "", "Semicolon separated genres")
	from := fs.Int("from", 0, "First year (0: open)")
	to := fs.Int("to", 0, "Last year (0: open)")
	count := fs.Int("count", 10, "Number of songs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	criteria := domain.RandomSearchCriteria{
		Count:   *count,
		Folders: a.cfg.EnabledFolders(),
	}
	if *genre != "" {
		criteria.Genres = []string{*genre}
	}
	if *from != 0 {
		criteria.FromYear = from
	}
	if *to != 0 {
		criteria.ToYear = to
	}

	hits, err := a.search.RandomSongs(ctx, criteria)
	if err != nil {
		return err
	}
	return printJSON(hits)
}

func runStats(_ context.Context, a *app, _ []string) error {
	counts, err := a.search.DocumentCounts()
	if err != nil {
		return err
	}
	byName := make(map[string]uint64, len(counts))
	for t, n := range counts {
		byName[t.String()] = n
	}
	return printJSON(byName)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
