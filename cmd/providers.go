/*
Copyright © 2020 A. Jensen <jensen.aaro@gmail.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package cmd

import (
	"context"
	"fmt"
	"github.com/ajjensen13/config"
	"github.com/ajjensen13/gke"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"net/url"
	"time"

	"github.com/ajjensen13/candler/internal/util"
)

func provideTimezone(appConfig *appConfig) (*time.Location, error) {
	if appConfig.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(appConfig.Timezone)
}

func provideAppConfig() (*appConfig, error) {
	var result appConfig
	err := config.InterfaceJson(appConfigName, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func provideDbSecrets() (*url.Userinfo, error) {
	ui, err := config.Userinfo(dbSecretName)
	if err != nil {
		return nil, err
	}
	return ui, nil
}

type schemaName string

func provideSchema(cfg *appConfig) schemaName {
	if cfg.Schema == "" {
		return "public"
	}
	return schemaName(cfg.Schema)
}

func provideBackoff() backoff.BackOff {
	result := backoff.NewExponentialBackOff()
	result.InitialInterval = time.Second
	result.MaxElapsedTime = time.Minute
	return result
}

func provideBackoffNotifier(lg gke.Logger) backoff.Notify {
	return func(err error, duration time.Duration) {
		lg.Warning(gke.NewFmtMsgData("database connection failed, waiting %v before retrying: %v", duration, err))
	}
}

func provideDataSourceName(user *url.Userinfo, cfg *appConfig) (dsn *url.URL, err error) {
	dsn, err = url.Parse(cfg.DataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse data source name: %w", err)
	}
	dsn.User = user

	return dsn, nil
}

func provideDbConnPool(ctx context.Context, dsn *url.URL, bo backoff.BackOff, bon backoff.Notify) (ret *pgxpool.Pool, cleanup func(), err error) {
	err = backoff.RetryNotify(func() error {
		pool, err := pgxpool.Connect(ctx, dsn.String())
		if err != nil {
			return fmt.Errorf("failed to open database connection pool: %w", err)
		}

		conn, err := pool.Acquire(ctx)
		if err != nil {
			pool.Close()
			return fmt.Errorf("failed to aquire database connection: %w", err)
		}

		err = conn.Conn().Ping(ctx)
		conn.Release()
		if err != nil {
			pool.Close()
			return fmt.Errorf("failed to ping database: %w", err)
		}

		ret = pool
		return nil
	}, bo, bon)
	if err != nil {
		return nil, func() {}, err
	}

	return ret, ret.Close, nil
}

func provideLogger() (lg gke.Logger, cleanup func()) {
	lg, cleanup, err := gke.NewLogger(context.Background())
	if err != nil {
		panic(err)
	}

	gke.LogEnv(lg)
	gke.LogMetadata(lg)

	return lg, cleanup
}

// runContext tags a fresh context with lg and a unique run id so every log
// entry from one invocation can be correlated.
func runContext(lg gke.Logger) context.Context {
	return util.WithRunID(context.Background(), lg, uuid.New().String())
}
