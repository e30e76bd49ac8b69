package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"

	"github.com/atharvakonge/portfolio-admin/internal/auth"
	"github.com/atharvakonge/portfolio-admin/internal/models"
)

const (
	mimeJSON = "application/json"
	mimeForm = "application/x-www-form-urlencoded"
)

// DefaultLimit is the page size used when a Page leaves Limit unset
const DefaultLimit = 50

// Page selects a slice of a listing endpoint
type Page struct {
	Skip   int    `url:"skip"`
	Limit  int    `url:"limit"`
	Search string `url:"search,omitempty"`
}

func (p Page) withDefaults() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	return p
}

// Client talks to the admin API. Every call is a single attempt: no retries,
// no caching. The bearer token, when present, comes from the call's context.
type Client struct {
	baseURL string
	client  *fasthttp.Client
}

// New returns a client for the API rooted at baseURL
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &fasthttp.Client{Name: "portfolio-admin"},
	}
}

type request struct {
	method  string
	path    string
	failure string // user-facing message on any failure
	query   interface{}
	body    interface{}
	form    bool // encode body as a form instead of JSON
}

func (c *Client) call(ctx context.Context, r request, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return newError(r.failure, 0, err)
	}

	uri := c.baseURL + r.path
	if r.query != nil {
		values, err := query.Values(r.query)
		if err != nil {
			return newError(r.failure, 0, errors.Wrap(err, "encode query"))
		}
		uri += "?" + values.Encode()
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(r.method)
	req.Header.Set("Accept", mimeJSON)
	if token, ok := auth.TokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if r.body != nil {
		payload, contentType, err := encodeBody(r.body, r.form)
		if err != nil {
			return newError(r.failure, 0, err)
		}
		req.Header.SetContentType(contentType)
		req.SetBody(payload)
	}

	start := time.Now()
	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.Do(req, resp)
	}

	fields := logrus.Fields{
		"method":  r.method,
		"path":    r.path,
		"elapsed": time.Since(start).String(),
	}
	if err != nil {
		logrus.WithFields(fields).WithError(err).Warn("admin api request failed")
		return newError(r.failure, 0, errors.Wrapf(err, "%s %s", r.method, r.path))
	}

	status := resp.StatusCode()
	fields["status"] = status
	logrus.WithFields(fields).Debug("admin api request")

	body, err := responseBody(resp)
	if err != nil {
		return newError(r.failure, status, err)
	}

	if status < 200 || status >= 300 {
		return newError(r.failure, status, errors.Errorf("%s %s returned %d: %s", r.method, r.path, status, truncate(body, 256)))
	}

	if out == nil {
		return nil
	}

	// an empty body leaves out at its zero value, which must still validate
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return newError(r.failure, status, errors.Wrap(err, "decode response"))
		}
	}
	if err := models.Validate(out); err != nil {
		return newError(r.failure, status, errors.Wrap(err, "invalid response"))
	}
	return nil
}

func encodeBody(body interface{}, form bool) ([]byte, string, error) {
	if form {
		values, err := query.Values(body)
		if err != nil {
			return nil, "", errors.Wrap(err, "encode form")
		}
		return []byte(values.Encode()), mimeForm, nil
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, "", errors.Wrap(err, "encode json")
	}
	return payload, mimeJSON, nil
}

func responseBody(resp *fasthttp.Response) ([]byte, error) {
	switch strings.ToLower(string(resp.Header.Peek("Content-Encoding"))) {
	case "gzip":
		body, err := resp.BodyGunzip()
		return body, errors.Wrap(err, "gunzip response")
	case "deflate":
		body, err := resp.BodyInflate()
		return body, errors.Wrap(err, "inflate response")
	default:
		return resp.Body(), nil
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

func escape(segment string) string {
	return url.PathEscape(segment)
}
