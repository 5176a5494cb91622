package database

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func describeAll(c *PoolStatsCollector) []string {
	ch := make(chan *prometheus.Desc, 20)
	c.Describe(ch)
	close(ch)

	names := make([]string, 0, 12)
	for d := range ch {
		names = append(names, d.String())
	}
	return names
}

func TestNewPoolStatsCollector_CarriesServiceLabel(t *testing.T) {
	c := NewPoolStatsCollector(nil, "storefront")
	require.NotNil(t, c)
	assert.Equal(t, "storefront", c.service)

	var _ prometheus.Collector = c
}

func TestPoolStatsCollector_DescribesEveryPoolStat(t *testing.T) {
	c := NewPoolStatsCollector(nil, "storefront")
	descs := describeAll(c)
	require.Len(t, descs, 12)

	wanted := []string{
		"db_pool_acquired_connections",
		"db_pool_idle_connections",
		"db_pool_total_connections",
		"db_pool_max_connections",
		"db_pool_constructing_connections",
		"db_pool_acquire_count_total",
		"db_pool_acquire_duration_seconds_total",
		"db_pool_canceled_acquire_count_total",
		"db_pool_empty_acquire_count_total",
		"db_pool_new_connections_total",
		"db_pool_max_lifetime_destroy_total",
		"db_pool_max_idle_destroy_total",
	}

	joined := strings.Join(descs, "\n")
	for _, name := range wanted {
		assert.Contains(t, joined, name)
	}
}
