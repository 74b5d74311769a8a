// Command export writes the bookings spreadsheet to disk. With -url it
// downloads the export from a running service using the admin password;
// without it, it reads the stores directly the way the service does.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"agendamento/internal/admin/review"
	"agendamento/internal/export"
	"agendamento/internal/store"
	"agendamento/pkg/client"
	"agendamento/pkg/config"
	"agendamento/pkg/logger"
)

const JobName = "export"

type options struct {
	serviceURL string
	password   string
	outDir     string
	query      url.Values
}

func main() {
	opts := parseFlags()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var (
		content  []byte
		filename string
		err      error
	)
	if opts.serviceURL != "" {
		log := logger.New(logger.Config{Level: logger.INFO, Format: logger.TEXT, Service: JobName})
		content, filename, err = fromService(ctx, opts)
		if err != nil {
			log.Fatal("Export failed", "error", err)
		}
		writeFile(log, opts.outDir, filename, content)
		return
	}

	cfg := config.Load(JobName)
	defer cfg.GracefulShutdown()
	content, filename, err = fromStores(ctx, cfg, opts.query)
	if err != nil {
		cfg.Log.Fatal("Export failed", "error", err)
	}
	writeFile(cfg.Log, opts.outDir, filename, content)
}

func parseFlags() options {
	var opts options
	var program, name, cpf, phone, date, slot, sortKey, order string

	flag.StringVar(&opts.serviceURL, "url", "", "base URL of a running bookings service; empty reads the stores directly")
	flag.StringVar(&opts.password, "password", os.Getenv(config.EnvAdminPassword), "admin password (defaults to $ADMIN_PASSWORD)")
	flag.StringVar(&opts.outDir, "out", ".", "directory the spreadsheet is written to")
	flag.StringVar(&program, "program", "", "filter: program substring")
	flag.StringVar(&name, "name", "", "filter: name substring")
	flag.StringVar(&cpf, "cpf", "", "filter: cpf digits")
	flag.StringVar(&phone, "phone", "", "filter: phone digits")
	flag.StringVar(&date, "date", "", "filter: exact date YYYY-MM-DD")
	flag.StringVar(&slot, "time", "", "filter: exact time HH:MM")
	flag.StringVar(&sortKey, "sort", "", "sort key: program|name|cpf|phone|date|time|createdAt")
	flag.StringVar(&order, "order", "", "sort order: asc|desc")
	flag.Parse()

	opts.query = url.Values{}
	for key, value := range map[string]string{
		"program": program, "name": name, "cpf": cpf, "phone": phone,
		"date": date, "time": slot, "sort": sortKey, "order": order,
	} {
		if value != "" {
			opts.query.Set(key, value)
		}
	}
	return opts
}

func fromService(ctx context.Context, opts options) ([]byte, string, error) {
	admin := client.NewAdminClient(opts.serviceURL)
	if err := admin.WaitForHealthy(ctx, 10*time.Second); err != nil {
		return nil, "", err
	}
	if err := admin.Login(ctx, opts.password); err != nil {
		return nil, "", err
	}
	content, filename, err := admin.Export(ctx, opts.query)
	if err != nil {
		return nil, "", err
	}
	if filename == "" {
		filename = export.Filename(time.Now().UTC())
	}
	return content, filename, nil
}

// fromStores lists through the same fallback facade as the service, so an
// unreachable remote exports the local cache instead.
func fromStores(ctx context.Context, cfg *config.Config, query url.Values) ([]byte, string, error) {
	filters, sort, err := review.FromQuery(query)
	if err != nil {
		return nil, "", err
	}

	cfg.SetMongo()
	cfg.SetLocalCache()
	cache, err := store.NewLocalCacheStore(cfg.Client.SQLite)
	if err != nil {
		return nil, "", err
	}

	result := store.NewFallbackStore(store.NewRemoteStore(cfg), cache, cfg.Log).List(ctx)
	if !result.OK() {
		return nil, "", result.Err
	}
	if result.Degraded() {
		cfg.Log.Warn("Remote store unavailable, exporting the local cache")
	}

	content, err := export.Workbook(review.Apply(result.Bookings, filters, sort))
	if err != nil {
		return nil, "", err
	}
	return content, export.Filename(time.Now().UTC()), nil
}

func writeFile(log *logger.Logger, dir, filename string, content []byte) {
	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		log.Fatal("Failed to write spreadsheet", "path", path, "error", err)
	}
	log.Info("Spreadsheet written", "path", path, "bytes", len(content))
	fmt.Println(path)
}
