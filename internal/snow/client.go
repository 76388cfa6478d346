// Package snow provides a minimal ServiceNow Table API client covering what
// the sync needs: paged reads of CI records by query, and field-level PATCH
// updates of single records.
package snow

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/CC-Digital-Innovation/warranty-sync/internal/transport"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/constants"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/errors"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/logging"
)

const system = "servicenow"

// Client talks to one ServiceNow instance's Table API with basic auth.
type Client struct {
	transport *transport.Client
	baseURL   string
	tablePath string
	pageSize  int
}

type options struct {
	httpClient *http.Client
	pageSize   int
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(o *options) {
		o.httpClient = h
	}
}

// WithPageSize overrides the read page size.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// New creates a Table API client for the given instance. The instance may be
// a bare instance name ("dev12345") or a full base URL for instances behind
// custom domains. tablePath is the table resource path, e.g.
// "/table/cmdb_ci_netgear".
func New(instance, username, password, tablePath string, opts ...Option) *Client {
	o := options{pageSize: constants.SnowPageSize}
	for _, opt := range opts {
		opt(&o)
	}

	auth := &transport.BasicAuth{Username: username, Password: password}
	return &Client{
		transport: transport.New(system, auth, transport.WithHTTPClient(o.httpClient)),
		baseURL:   instanceBaseURL(instance),
		tablePath: normalizeTablePath(tablePath),
		pageSize:  o.pageSize,
	}
}

// instanceBaseURL composes the Table API base URL from an instance name or
// passes a full URL through.
func instanceBaseURL(instance string) string {
	if strings.Contains(instance, "://") {
		return strings.TrimRight(instance, "/") + "/api/now"
	}
	return "https://" + instance + ".service-now.com/api/now"
}

func normalizeTablePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return p
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimRight(p, "/")
}

// listResponse is the Table API envelope for reads.
type listResponse struct {
	Result []Asset `json:"result"`
}

// Verify confirms the credentials and table path with a single-record read.
func (c *Client) Verify(ctx context.Context) error {
	v := url.Values{}
	v.Set("sysparm_fields", FieldSysID)
	v.Set("sysparm_limit", "1")

	var page listResponse
	if err := c.transport.GetJSON(ctx, c.baseURL+c.tablePath+"?"+v.Encode(), &page); err != nil {
		if errors.IsCredentialsError(err) {
			return &errors.AuthenticationError{
				System:  system,
				Method:  "basic",
				Message: "login rejected",
				Err:     err,
			}
		}
		return err
	}
	return nil
}

// Assets returns every record matching the query, reading page by page until
// a short page signals the end.
func (c *Client) Assets(ctx context.Context, q *Query) ([]Asset, error) {
	var assets []Asset
	offset := 0

	for {
		var page listResponse
		if err := c.transport.GetJSON(ctx, c.listURL(q, offset), &page); err != nil {
			return nil, err
		}
		assets = append(assets, page.Result...)

		logging.Ctx(ctx).Debug().
			Int("page_records", len(page.Result)).
			Int("total_records", len(assets)).
			Int("offset", offset).
			Msg("Fetched CMDB page")

		if len(page.Result) < c.pageSize {
			return assets, nil
		}
		offset += c.pageSize
	}
}

func (c *Client) listURL(q *Query, offset int) string {
	v := url.Values{}
	if !q.IsEmpty() {
		v.Set("sysparm_query", q.String())
	}
	v.Set("sysparm_fields", strings.Join(requiredFields, ","))
	v.Set("sysparm_limit", strconv.Itoa(c.pageSize))
	v.Set("sysparm_offset", strconv.Itoa(offset))
	v.Set("sysparm_exclude_reference_link", "true")
	return c.baseURL + c.tablePath + "?" + v.Encode()
}

// Update patches the given fields on one record. Callers pass only the
// fields that changed; an empty map is a no-op.
func (c *Client) Update(ctx context.Context, sysID string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	if sysID == "" {
		return errors.NewValidationError(FieldSysID, sysID, "cannot be empty")
	}

	body, err := json.Marshal(fields)
	if err != nil {
		return errors.WrapParse("json", "", err)
	}

	u := c.baseURL + c.tablePath + "/" + url.PathEscape(sysID) + "?sysparm_fields=" + FieldSysID
	if err := c.transport.Patch(ctx, u, bytes.NewReader(body), nil); err != nil {
		return errors.WrapResource("update", "asset", sysID, err)
	}
	return nil
}
