// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/pkg/errutil"
)

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), "not a url")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "DB_CONFIG_INVALID")
}

func TestConnect_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := Connect(ctx, "postgres://localhost:1/gatehouse")
	require.Error(t, err, "ping against a dead port must fail")
	require.Less(t, time.Since(start), 5*time.Second,
		"cancelled context must short-circuit the retry loop")
}
