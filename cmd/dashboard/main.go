package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"nordic-dashboard/internal/config"
	"nordic-dashboard/internal/dataset"
	"nordic-dashboard/internal/render"
	"nordic-dashboard/internal/sftpclient"
	"nordic-dashboard/internal/worldbank"
)

func main() {
	var (
		outPath    = flag.String("out", "", "output png path (overrides DASHBOARD_OUT)")
		startYear  = flag.Int("start", 0, "first year to fetch (overrides DASHBOARD_START_YEAR)")
		endYear    = flag.Int("end", 0, "last year to fetch (overrides DASHBOARD_END_YEAR)")
		uploadSFTP = flag.Bool("sftp", false, "upload the rendered dashboard via SFTP")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if *outPath != "" {
		cfg.OutPath = *outPath
	}
	if *startYear != 0 {
		cfg.StartYear = *startYear
	}
	if *endYear != 0 {
		cfg.EndYear = *endYear
	}
	if cfg.StartYear > cfg.EndYear {
		log.Fatalf("start year %d is after end year %d", cfg.StartYear, cfg.EndYear)
	}

	wb := worldbank.New(cfg.WorldBankBaseURL)

	log.Printf("resolving country codes for %v", cfg.Countries)
	codes, err := wb.ResolveCountryCodes(ctx, cfg.Countries)
	if err != nil {
		log.Fatalf("resolving country codes: %v", err)
	}

	log.Printf("fetching %s for %v (%d-%d)", cfg.Indicator, codes, cfg.StartYear, cfg.EndYear)
	obs, err := wb.FetchIndicator(ctx, cfg.Indicator, codes, cfg.StartYear, cfg.EndYear)
	if err != nil {
		// Terminal: a half-fetched dataset would render a misleading chart.
		log.Fatal(err)
	}

	table := dataset.Build(obs, toCountryCodes(codes), cfg.StartYear, cfg.EndYear)
	if table.IsEmpty() {
		log.Printf("WARN: no observations in range; nothing to render")
		return
	}

	if err := ensureDir(cfg.OutPath); err != nil {
		log.Fatal(err)
	}

	f, err := os.Create(cfg.OutPath)
	if err != nil {
		log.Fatal(err)
	}

	err = render.Dashboard(f, table, render.Options{
		Title:      fmt.Sprintf("Fertility Rate Trends (%d-%d)", cfg.StartYear, cfg.EndYear),
		ValueLabel: "Fertility Rate (births per woman)",
		Footnote:   "Data source: World Bank",
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("wrote dashboard to %s (%d observations, %d countries with data)",
		cfg.OutPath, len(obs), len(table.Latest()))

	if *uploadSFTP {
		if err := upload(ctx, cfg, cfg.OutPath); err != nil {
			log.Fatal(err)
		}
	}
}

func upload(ctx context.Context, cfg config.Config, localPath string) error {
	upCfg := sftpclient.Config{
		Host:                  cfg.SFTPHost,
		Port:                  cfg.SFTPPort,
		User:                  cfg.SFTPUser,
		Pass:                  cfg.SFTPPass,
		RemoteDir:             cfg.SFTPDir,
		InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
	}

	upCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	remoteName := filepath.Base(localPath)
	if err := sftpclient.UploadFile(upCtx, upCfg, localPath, remoteName); err != nil {
		return err
	}
	log.Printf("uploaded to sftp://%s:%d%s/%s", upCfg.Host, upCfg.Port, upCfg.RemoteDir, remoteName)
	return nil
}

func ensureDir(outPath string) error {
	if dir := filepath.Dir(outPath); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}

func toCountryCodes(codes []string) []dataset.CountryCode {
	out := make([]dataset.CountryCode, 0, len(codes))
	for _, c := range codes {
		out = append(out, dataset.CountryCode(c))
	}
	return out
}
