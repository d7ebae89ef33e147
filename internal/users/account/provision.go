// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
)

// Seed makes sure every username exists in the registry. Blank entries are
// skipped. It is run once at startup, before the server accepts traffic.
func Seed(ctx context.Context, provisioner Provisioner, usernames []string, logger *slog.Logger) error {
	for _, raw := range usernames {
		username := NormalizeUsername(raw)
		if username == "" {
			continue
		}

		user, err := provisioner.EnsureUser(ctx, username)
		if err != nil {
			return fmt.Errorf("account_seed_failed: %s: %w", username, err)
		}

		logger.Info("account_seeded",
			slog.Int64("user_id", user.ID),
			slog.String("username", user.Username),
		)
	}

	return nil
}
