package workers

import (
	"context"

	"github.com/rs/zerolog/log"
	"shortlink/internal/engine/links"
)

// SweepExpiredLinks deletes links whose advisory expiry has passed. The
// serving read path never checks expiry; this sweep is the only enforcement
// and runs out of band.
func SweepExpiredLinks(ctx context.Context, service *links.Service) error {
	count, err := service.PurgeExpired(ctx)
	if err != nil {
		return err
	}

	if count > 0 {
		log.Info().Int64("purged", count).Msg("expired links removed")
	}
	return nil
}
