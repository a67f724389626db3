package metrics

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	c.Observe("get", nil)
	c.Observe("get", nil)
	c.Observe("get", errors.New("boom"))
	c.SetOpenConnections(3)
	c.AddTransferred(DirectionExport, "json", 10)
	c.AddTransferred(DirectionImport, "csv", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.operations.WithLabelValues("get", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("get", ResultError)))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.openConnections))
	assert.Equal(t, 10.0, testutil.ToFloat64(c.transferEntries.WithLabelValues(DirectionExport, "json")))

	expected := `
# HELP kvscope_open_connections Connections currently registered.
# TYPE kvscope_open_connections gauge
kvscope_open_connections 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "kvscope_open_connections"))
	assert.Equal(t, 1, testutil.CollectAndCount(c.transferEntries))
}

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}

func TestNew_Unregistered(t *testing.T) {
	c, err := New(nil)
	require.NoError(t, err)
	c.Observe("list", nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("list", ResultOK)))
}
