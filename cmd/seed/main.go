package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ikkim/variant-editor/config"
	"github.com/ikkim/variant-editor/internal/app/service"
	"github.com/ikkim/variant-editor/internal/app/variant"
	"github.com/ikkim/variant-editor/internal/storage"
)

// Reads an option sheet, generates the variant table and writes it as XLSX.
// With AWS_S3_BUCKET set, -upload also stores the result in S3.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <options.xlsx> [output.xlsx] [-upload]")
	}

	inputPath := os.Args[1]
	outputPath := "variants.xlsx"
	upload := false
	for _, arg := range os.Args[2:] {
		if arg == "-upload" {
			upload = true
			continue
		}
		outputPath = arg
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	fmt.Printf("Reading option sheet: %s\n", inputPath)
	in, err := os.Open(inputPath)
	if err != nil {
		log.Fatal("Failed to open option sheet:", err)
	}
	drafts, err := service.ReadOptionSheet(in)
	in.Close()
	if err != nil {
		log.Fatal("Failed to read option sheet:", err)
	}

	editor := variant.NewEditor(variant.Config{
		MaxVariants:   cfg.Variant.MaxCombinations,
		PreserveEdits: cfg.Variant.PreserveEdits,
	})
	if !editor.ReplaceOptions(drafts) {
		log.Fatalf("Option sheet produces more than %d variants", cfg.Variant.MaxCombinations)
	}
	snap := editor.Snapshot()

	fmt.Printf("\nSummary:\n")
	for _, option := range snap.Options {
		fmt.Printf("  %s: %d values\n", option.Name, len(option.Values))
	}
	fmt.Printf("  Variants: %d\n", len(snap.Variants))
	if snap.IncompleteOptions {
		fmt.Println("  Some options are incomplete; no variants were generated.")
	}
	for _, group := range snap.Groups {
		fmt.Printf("  %s = %s (%s)\n", snap.GroupBy, group.Key, group.CountLabel)
	}

	var exportService service.ExportService
	if cfg.S3.Enabled() {
		exportService = service.NewExportService(cfg.S3.URLExpiry,
			storage.NewS3Storage(cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey))
	} else {
		exportService = service.NewExportService(cfg.S3.URLExpiry)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		log.Fatal("Failed to create output file:", err)
	}
	if err := exportService.WriteXLSX(snap, out); err != nil {
		out.Close()
		log.Fatal("Failed to write export:", err)
	}
	if err := out.Close(); err != nil {
		log.Fatal("Failed to close output file:", err)
	}
	fmt.Printf("\nWrote %s\n", outputPath)

	if !upload {
		return
	}
	result, err := exportService.UploadXLSX(context.Background(), "seed", snap)
	if err != nil {
		log.Fatal("Failed to upload export:", err)
	}
	fmt.Printf("Uploaded to s3://%s/%s\n", cfg.S3.Bucket, result.Key)
	fmt.Printf("Download URL (valid until %s):\n%s\n", result.ExpiresAt.Format("2006-01-02 15:04"), result.DownloadURL)
}
