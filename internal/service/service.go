// Package service is the operation surface of kvscope. Every method resolves
// a connection, and a tree where one is involved, runs the operation, then
// logs and records the outcome. A transport layer calls into a Service.
package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/eigerco/kvscope/internal/connection"
	"github.com/eigerco/kvscope/internal/metrics"
	"github.com/eigerco/kvscope/internal/query"
	"github.com/eigerco/kvscope/internal/store"
	"github.com/eigerco/kvscope/internal/transfer"
	"github.com/eigerco/kvscope/pkg/log"
)

// Options configures a Service.
type Options struct {
	// Opener opens stores. Nil opens pebble stores with default options.
	Opener connection.Opener
	// Registerer receives the service metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer
}

type Service struct {
	registry *connection.Registry
	accessor *store.Accessor
	metrics  *metrics.Collector
}

func New(opts Options) (*Service, error) {
	collector, err := metrics.New(opts.Registerer)
	if err != nil {
		return nil, err
	}
	registry := connection.NewRegistry(opts.Opener)
	return &Service{
		registry: registry,
		accessor: store.NewAccessor(registry),
		metrics:  collector,
	}, nil
}

// AddConnection opens the store at path and returns the new connection id.
func (s *Service) AddConnection(name, path string) (string, error) {
	id, err := s.registry.Add(name, path)
	s.observe("add_connection", err, func(e *zerolog.Event) *zerolog.Event {
		return e.Str("id", id).Str("name", name).Str("path", path)
	})
	s.metrics.SetOpenConnections(s.registry.Len())
	return id, err
}

// RemoveConnection closes connection id. Unknown ids are ignored; the only
// failure is the store failing to close.
func (s *Service) RemoveConnection(id string) error {
	err := s.registry.Remove(id)
	s.observe("remove_connection", err, idFields(id))
	s.metrics.SetOpenConnections(s.registry.Len())
	return err
}

func (s *Service) ListConnections() []connection.Info {
	infos := s.registry.List()
	s.observe("list_connections", nil, func(e *zerolog.Event) *zerolog.Event {
		return e.Int("connections", len(infos))
	})
	return infos
}

func (s *Service) GetConnection(id string) (connection.Info, bool) {
	info, ok := s.registry.Get(id)
	s.observe("get_connection", nil, func(e *zerolog.Event) *zerolog.Event {
		return e.Str("id", id).Bool("found", ok)
	})
	return info, ok
}

func (s *Service) ListTrees(id string) ([]string, error) {
	names, err := s.accessor.ListTrees(id)
	s.observe("list_trees", err, idFields(id))
	return names, err
}

func (s *Service) GetStats(id string) (store.Stats, error) {
	stats, err := s.accessor.Stats(id)
	s.observe("get_stats", err, idFields(id))
	return stats, err
}

func (s *Service) CreateTree(id, name string) error {
	err := s.accessor.CreateTree(id, name)
	s.observe("create_tree", err, treeFields(id, name))
	return err
}

func (s *Service) RemoveTree(id, name string) error {
	err := s.accessor.RemoveTree(id, name)
	s.observe("remove_tree", err, treeFields(id, name))
	return err
}

// Get returns the entry under key, or nil when it is absent.
func (s *Service) Get(id, tree string, key []byte) (kv *query.KeyValue, err error) {
	err = s.withTree(id, tree, func(t *store.Tree) error {
		kv, err = query.Get(t, key)
		return err
	})
	s.observe("get", err, treeFields(id, tree))
	return kv, err
}

// Set stores value under key and returns the value it replaced, or nil.
func (s *Service) Set(id, tree string, key, value []byte) (previous []byte, err error) {
	err = s.withTree(id, tree, func(t *store.Tree) error {
		previous, err = query.Set(t, key, value)
		return err
	})
	s.observe("set", err, treeFields(id, tree))
	return previous, err
}

// Remove deletes key and returns the value it held, or nil.
func (s *Service) Remove(id, tree string, key []byte) (removed []byte, err error) {
	err = s.withTree(id, tree, func(t *store.Tree) error {
		removed, err = query.Remove(t, key)
		return err
	})
	s.observe("remove", err, treeFields(id, tree))
	return removed, err
}

func (s *Service) RangeQuery(id, tree string, q query.RangeQuery) (result query.Result, err error) {
	err = s.withTree(id, tree, func(t *store.Tree) error {
		result, err = query.Range(t, q)
		return err
	})
	s.observe("range_query", err, func(e *zerolog.Event) *zerolog.Event {
		return treeFields(id, tree)(e).Int("entries", len(result.Entries)).Bool("has_more", result.HasMore)
	})
	return result, err
}

func (s *Service) PrefixQuery(id, tree string, q query.PrefixQuery) (result query.Result, err error) {
	err = s.withTree(id, tree, func(t *store.Tree) error {
		result, err = query.Prefix(t, q)
		return err
	})
	s.observe("prefix_query", err, func(e *zerolog.Event) *zerolog.Event {
		return treeFields(id, tree)(e).Int("entries", len(result.Entries)).Bool("has_more", result.HasMore)
	})
	return result, err
}

// ExportData writes the tree to path in the named format and returns a
// summary of what was written.
func (s *Service) ExportData(id, tree, format, path string) (string, error) {
	var n int
	f, err := transfer.ParseFormat(format)
	if err == nil {
		err = s.withTree(id, tree, func(t *store.Tree) error {
			n, err = transfer.ExportFile(t, f, path)
			return err
		})
	}
	s.observe("export", err, func(e *zerolog.Event) *zerolog.Event {
		return treeFields(id, tree)(e).Str("format", format).Str("file", path).Int("entries", n)
	})
	if err != nil {
		return "", err
	}
	s.metrics.AddTransferred(metrics.DirectionExport, string(f), n)
	return transfer.Summary(n, path), nil
}

// ImportData writes entries into the tree and returns how many were written.
func (s *Service) ImportData(id, tree string, entries []query.KeyValue) (n int, err error) {
	err = s.withTree(id, tree, func(t *store.Tree) error {
		n, err = transfer.BulkImport(t, entries)
		return err
	})
	s.observe("import", err, func(e *zerolog.Event) *zerolog.Event {
		return treeFields(id, tree)(e).Int("entries", n)
	})
	s.metrics.AddTransferred(metrics.DirectionImport, "records", n)
	return n, err
}

// ImportFromPath reads the file at path in the named format into the tree.
// Entries committed before a failure stay written and are counted in n.
func (s *Service) ImportFromPath(id, tree, format, path string) (n int, err error) {
	f, err := transfer.ParseFormat(format)
	if err == nil {
		err = s.withTree(id, tree, func(t *store.Tree) error {
			n, err = transfer.ImportFile(t, f, path)
			return err
		})
	}
	s.observe("import_file", err, func(e *zerolog.Event) *zerolog.Event {
		return treeFields(id, tree)(e).Str("format", format).Str("file", path).Int("entries", n)
	})
	s.metrics.AddTransferred(metrics.DirectionImport, string(f), n)
	return n, err
}

// Close removes every connection.
func (s *Service) Close() error {
	err := s.registry.Close()
	s.observe("close", err, func(e *zerolog.Event) *zerolog.Event { return e })
	s.metrics.SetOpenConnections(s.registry.Len())
	return err
}

func (s *Service) withTree(id, name string, fn func(t *store.Tree) error) error {
	t, err := s.accessor.Resolve(id, name)
	if err != nil {
		return err
	}
	defer t.Close() //nolint:errcheck // releasing a handle only fails when its store does

	return fn(t)
}

func (s *Service) observe(op string, err error, fields func(e *zerolog.Event) *zerolog.Event) {
	s.metrics.Observe(op, err)
	if err != nil {
		fields(log.Service.Error().Err(err)).Str("op", op).Msg("operation failed")
		return
	}
	fields(log.Service.Debug()).Str("op", op).Msg("operation done")
}

func idFields(id string) func(e *zerolog.Event) *zerolog.Event {
	return func(e *zerolog.Event) *zerolog.Event {
		return e.Str("id", id)
	}
}

func treeFields(id, tree string) func(e *zerolog.Event) *zerolog.Event {
	return func(e *zerolog.Event) *zerolog.Event {
		return e.Str("id", id).Str("tree", tree)
	}
}
