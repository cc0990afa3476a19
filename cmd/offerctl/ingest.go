package main

import (
	"fmt"

	"bank-offers/internal/offer"
	"bank-offers/internal/repository"
	"bank-offers/internal/service"

	"github.com/spf13/cobra"
)

var (
	ingestKeepGoing bool
)

func ingestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [document...]",
		Short: "Ingest upstream offer documents into the store",
		Long: `Load one or more upstream offer documents and upsert their offers.

Documents may be plain JSON or gzipped (.gz). When S3_ENABLED is set each
path is first looked up in S3_BUCKET under S3_PREFIX, falling back to the
local file system.

Examples:
  offerctl ingest testdata/offers.json
  S3_ENABLED=true S3_BUCKET=feeds offerctl ingest 2024-06-01.json.gz`,
		Args: cobra.MinimumNArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().BoolVarP(&ingestKeepGoing, "keep-going", "k", false, "continue with the next document after a failure")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	fileLoader := offer.NewFileLoader(e.logger)
	var s3Loader offer.Loader
	if e.cfg.S3.Enabled {
		s3Loader, err = offer.NewS3Loader(ctx, e.cfg.S3.Bucket, e.cfg.S3.Region, e.logger)
		if err != nil {
			e.logger.Warn().Err(err).Msg("failed to initialise S3 loader, using local file system only")
			s3Loader = nil
		}
	}
	loader := offer.NewFallbackLoader(s3Loader, fileLoader, e.cfg.S3.Prefix, e.cfg.S3.Enabled, e.logger)

	offerService := service.NewOfferService(
		repository.NewOfferRepository(e.pool, e.logger),
		offer.NewNormalizer(e.logger),
		e.logger,
	)

	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		err := ingestDocument(cmd, loader, offerService, path)
		if err == nil {
			continue
		}

		failed++
		fmt.Fprintf(out, "%s: %v\n", path, err)
		if !ingestKeepGoing {
			return fmt.Errorf("ingest %s: %w", path, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(args))
	}
	return nil
}

func ingestDocument(cmd *cobra.Command, loader offer.Loader, offerService service.OfferService, path string) error {
	raw, err := loader.Load(cmd.Context(), path)
	if err != nil {
		return err
	}

	result, err := offerService.Ingest(cmd.Context(), raw)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: saved=%d updated=%d processed=%d\n",
		path, result.SavedCount, result.UpdatedCount, result.TotalProcessed)
	return nil
}
