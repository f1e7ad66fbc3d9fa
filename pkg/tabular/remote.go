package tabular

import (
	"context"
	"encoding/csv"
	"strings"

	"github.com/lmeier/layermix/pkg/cache"
	"github.com/lmeier/layermix/pkg/errors"
	"github.com/lmeier/layermix/pkg/httputil"
)

// tablePlaceholder in a remote URL template is replaced by the table
// name, e.g. https://example.com/export/{table}.csv.
const tablePlaceholder = "{table}"

// RemoteSource fetches CSV exports over HTTP, for example the
// published-to-web export of a hosted spreadsheet. Responses are
// cached so repeated runs do not hammer the export endpoint.
type RemoteSource struct {
	template string
	client   *httputil.Client
	cache    cache.Cache
}

// NewRemoteSource validates the URL template. The cache may be a
// NullCache when fresh data is required on every run.
func NewRemoteSource(template string, c cache.Cache) (*RemoteSource, error) {
	if !strings.Contains(template, tablePlaceholder) {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"remote source URL %q is missing the %s placeholder", template, tablePlaceholder)
	}
	return &RemoteSource{
		template: template,
		client:   httputil.NewClient(),
		cache:    c,
	}, nil
}

func (s *RemoteSource) Table(ctx context.Context, name string) ([][]string, error) {
	url := strings.ReplaceAll(s.template, tablePlaceholder, name)

	body, hit, err := s.cache.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if !hit {
		body, err = s.client.Fetch(ctx, url)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeSource, err, "table %q cannot be fetched", name)
		}
		if err := s.cache.Set(ctx, url, body, cache.TableTTL); err != nil {
			return nil, err
		}
	}

	r := csv.NewReader(strings.NewReader(string(body)))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "table %q is not valid CSV", name)
	}
	return rows, nil
}

func (s *RemoteSource) Close() error { return nil }
