package odoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/kolo/xmlrpc"
	"github.com/rs/zerolog"
)

// MinServerSeries is the oldest Odoo release series the stock queries are
// known to work against: do_unreserve on pickings and the modern quant
// reserved_quantity semantics are stable from 13.0 on.
const MinServerSeries = "13.0"

// Sentinel errors callers branch on.
var (
	ErrAuthFailed        = errors.New("odoo: authentication failed")
	ErrNotLoggedIn       = errors.New("odoo: not logged in")
	ErrUnsupportedServer = errors.New("odoo: unsupported server series")
)

// ClientConfig carries everything needed to reach one Odoo instance.
type ClientConfig struct {
	URL      string
	Database string
	Username string
	Password string
	// Timeout bounds each XML-RPC round trip. Zero means no bound.
	Timeout time.Duration
}

// ServerInfo is the subset of common.version the client consumes.
type ServerInfo struct {
	ServerVersion string `xmlrpc:"server_version"`
	ServerSerie   string `xmlrpc:"server_serie"`
}

// Client is a thin session over Odoo's external XML-RPC API: the common
// endpoint for authentication and version negotiation, the object endpoint
// for execute_kw. Safe for concurrent readers once authenticated.
type Client struct {
	common *xmlrpc.Client
	object *xmlrpc.Client
	cfg    ClientConfig
	uid    int64
}

// Dial connects the two XML-RPC endpoints. No request is issued until
// Authenticate or Version is called.
func Dial(cfg ClientConfig) (*Client, error) {
	base := strings.TrimRight(cfg.URL, "/")

	common, err := xmlrpc.NewClient(base+"/xmlrpc/2/common", http.DefaultTransport)
	if err != nil {
		return nil, fmt.Errorf("dialing %s common endpoint: %w", base, err)
	}
	object, err := xmlrpc.NewClient(base+"/xmlrpc/2/object", http.DefaultTransport)
	if err != nil {
		_ = common.Close()
		return nil, fmt.Errorf("dialing %s object endpoint: %w", base, err)
	}

	return &Client{common: common, object: object, cfg: cfg}, nil
}

// Close releases both endpoint connections.
func (c *Client) Close() error {
	errCommon := c.common.Close()
	errObject := c.object.Close()
	if errCommon != nil {
		return errCommon
	}
	return errObject
}

// call runs one XML-RPC call under the context and the configured timeout.
// The underlying library is not context-aware, so a timed-out call is
// abandoned rather than interrupted.
func (c *Client) call(ctx context.Context, endpoint *xmlrpc.Client, method string, args []any, reply any) error {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- endpoint.Call(method, args, reply)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("odoo %s: %w", method, ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("odoo %s: %w", method, err)
		}
		return nil
	}
}

// Version fetches the server's version descriptor from the common endpoint.
// It needs no authentication.
func (c *Client) Version(ctx context.Context) (ServerInfo, error) {
	var info ServerInfo
	if err := c.call(ctx, c.common, "version", nil, &info); err != nil {
		return ServerInfo{}, err
	}
	return info, nil
}

// CheckServerSeries verifies the reported release series against
// MinServerSeries.
func CheckServerSeries(serie string) error {
	v, err := semver.NewVersion(serie)
	if err != nil {
		return fmt.Errorf("%w: cannot parse server series %q: %v", ErrUnsupportedServer, serie, err)
	}
	minimum := semver.MustParse(MinServerSeries)
	if v.LessThan(minimum) {
		return fmt.Errorf("%w: server reports %s, need >= %s", ErrUnsupportedServer, serie, MinServerSeries)
	}
	return nil
}

// Authenticate logs in against the configured database and stores the
// session uid for subsequent execute_kw calls.
func (c *Client) Authenticate(ctx context.Context) error {
	var reply any
	args := []any{c.cfg.Database, c.cfg.Username, c.cfg.Password, map[string]any{}}
	if err := c.call(ctx, c.common, "authenticate", args, &reply); err != nil {
		return err
	}

	// Odoo answers false instead of a uid when the credentials are wrong.
	uid, ok := reply.(int64)
	if !ok || uid <= 0 {
		return fmt.Errorf("%w: database %s, user %s", ErrAuthFailed, c.cfg.Database, c.cfg.Username)
	}
	c.uid = uid

	zerolog.Ctx(ctx).Debug().
		Str("component", "odoo").
		Str("database", c.cfg.Database).
		Int64("uid", uid).
		Msg("authenticated")
	return nil
}

// ExecuteKw invokes model.method(args, kwargs) through the object endpoint
// and decodes the result into reply.
func (c *Client) ExecuteKw(ctx context.Context, model, method string, args []any, kwargs map[string]any, reply any) error {
	if c.uid == 0 {
		return ErrNotLoggedIn
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	call := []any{c.cfg.Database, c.uid, c.cfg.Password, model, method, args, kwargs}
	if err := c.call(ctx, c.object, "execute_kw", call, reply); err != nil {
		return fmt.Errorf("%s.%s: %w", model, method, err)
	}
	return nil
}
