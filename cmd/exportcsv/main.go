package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nordic-dashboard/internal/config"
	"nordic-dashboard/internal/dataset"
	"nordic-dashboard/internal/export"
	"nordic-dashboard/internal/sftpclient"
	"nordic-dashboard/internal/worldbank"
)

// exportcsv runs the same fetch/build pipeline as the dashboard command but
// dumps the year-by-country table as CSV instead of rendering charts. Handy
// for eyeballing the data or pulling it into a spreadsheet.
func main() {
	var (
		outPath    = flag.String("out", "", "output csv path (defaults to the png path with a .csv extension)")
		uploadSFTP = flag.Bool("sftp", false, "upload the generated CSV via SFTP")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	path := *outPath
	if path == "" {
		path = csvPath(cfg.OutPath)
	}

	wb := worldbank.New(cfg.WorldBankBaseURL)

	codes, err := wb.ResolveCountryCodes(ctx, cfg.Countries)
	if err != nil {
		log.Fatalf("resolving country codes: %v", err)
	}

	obs, err := wb.FetchIndicator(ctx, cfg.Indicator, codes, cfg.StartYear, cfg.EndYear)
	if err != nil {
		log.Fatal(err)
	}

	// An all-missing table is still a valid, correctly-shaped CSV.
	table := dataset.Build(obs, toCountryCodes(codes), cfg.StartYear, cfg.EndYear)

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal(err)
		}
	}

	if err := export.WriteTableCSVFile(path, table); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d years x %d countries to %s", len(table.Years()), len(table.Countries()), path)

	if *uploadSFTP {
		upCfg := sftpclient.Config{
			Host:                  cfg.SFTPHost,
			Port:                  cfg.SFTPPort,
			User:                  cfg.SFTPUser,
			Pass:                  cfg.SFTPPass,
			RemoteDir:             cfg.SFTPDir,
			InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
		}

		upCtx, upCancel := context.WithTimeout(ctx, 2*time.Minute)
		defer upCancel()

		remoteName := filepath.Base(path)
		if err := sftpclient.UploadFile(upCtx, upCfg, path, remoteName); err != nil {
			log.Fatal(err)
		}
		log.Printf("uploaded to sftp://%s:%d%s/%s", upCfg.Host, upCfg.Port, upCfg.RemoteDir, remoteName)
	}
}

// csvPath swaps the configured artifact extension for .csv.
func csvPath(pngPath string) string {
	ext := filepath.Ext(pngPath)
	if ext == "" {
		return pngPath + ".csv"
	}
	return strings.TrimSuffix(pngPath, ext) + ".csv"
}

func toCountryCodes(codes []string) []dataset.CountryCode {
	out := make([]dataset.CountryCode, 0, len(codes))
	for _, c := range codes {
		out = append(out, dataset.CountryCode(c))
	}
	return out
}
